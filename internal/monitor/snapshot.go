package monitor

import (
	"sort"
	"time"

	"github.com/twbecker/xmon/internal/xapi"
)

// maxTableRows bounds the recent-posts table.
const maxTableRows = 10

// Snapshot is an immutable, self-contained view of the monitor state.
// One is built per render pass and never mutated afterwards, so the
// renderer works without touching the monitor's lock.
type Snapshot struct {
	Mode xapi.Mode

	// Account identity and counters.
	Username    string
	DisplayName string
	TotalPosts  int
	Followers   int
	Following   int

	// Derived counters.
	TodayCount  int
	PeriodCount int

	// Most recent posts by timestamp, newest first, at most 10.
	RecentPosts []xapi.Post

	// Visible activity-log window plus enough position data for
	// scroll hints.
	LogLines []Entry
	LogLen   int
	LogStart int
	Cursor   int

	// Session timing.
	Started    time.Time
	LastUpdate time.Time
	Interval   time.Duration

	// Optional range window. RangeCount stays nil until the first
	// count completes.
	RangeStart time.Time
	RangeEnd   time.Time
	RangeCount *int

	// True while a source call is in flight.
	Fetching bool

	// Timestamp of snapshot creation.
	BuiltAt time.Time
}

// RangeConfigured reports whether both range bounds are set.
func (s *Snapshot) RangeConfigured() bool {
	return !s.RangeStart.IsZero() && !s.RangeEnd.IsZero()
}

// Snapshot builds a complete render view of the current state.
func (m *Monitor) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Table rows: sort a copy by creation time, newest first.
	posts := m.recent.Snapshot()
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if len(posts) > maxTableRows {
		posts = posts[:maxTableRows]
	}

	entries := m.activity.Snapshot()
	start, end := window(len(entries), m.cursor)
	// Report the effective cursor, not the raw one, so sentinel jumps
	// read back as the clamped offset.
	cursor := len(entries) - end

	snap := &Snapshot{
		Mode:        m.src.Mode(),
		Username:    m.account.Username,
		DisplayName: m.account.DisplayName,
		TotalPosts:  m.account.TotalPosts,
		Followers:   m.account.Followers,
		Following:   m.account.Following,
		TodayCount:  m.today,
		PeriodCount: m.period,
		RecentPosts: posts,
		LogLines:    entries[start:end],
		LogLen:      len(entries),
		LogStart:    start,
		Cursor:      cursor,
		Started:     m.started,
		LastUpdate:  m.lastUpdate,
		Interval:    m.interval,
		RangeStart:  m.rangeStart,
		RangeEnd:    m.rangeEnd,
		Fetching:    m.fetching,
		BuiltAt:     time.Now(),
	}
	if m.rangeCount != nil {
		v := *m.rangeCount
		snap.RangeCount = &v
	}
	return snap
}
