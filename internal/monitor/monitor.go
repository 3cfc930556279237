// Package monitor implements the polling engine behind the dashboard:
// it folds fetched posts into a deduplicated rolling window, maintains
// derived counters and a bounded activity log, and exposes immutable
// snapshots for rendering.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/twbecker/xmon/internal/ring"
	"github.com/twbecker/xmon/internal/xapi"
)

const (
	recentCap  = 50
	logCap     = 200
	fetchBatch = 10

	defaultInterval = 60 * time.Second

	// Slow-cadence refresh periods. Account metrics are authoritative
	// but expensive to poll, so they refresh on a multiple of the
	// fetch interval rather than every cycle.
	accountRefreshPeriod = 300 * time.Second
	rangeRefreshPeriod   = 600 * time.Second
)

// Config carries the engine's startup parameters. A range is active
// only when both bounds are set.
type Config struct {
	Username   string
	Interval   time.Duration
	RangeStart time.Time
	RangeEnd   time.Time
}

// Monitor owns the mutable aggregate for one monitored account. All
// fields behind mu are written by the scheduling loop, except cursor,
// which belongs to the input side; a single mutex covers both so reads
// always see a consistent whole.
type Monitor struct {
	src xapi.Source
	log zerolog.Logger

	username string
	interval time.Duration

	mu         sync.RWMutex
	account    xapi.AccountSnapshot
	recent     *ring.Ring[xapi.Post]
	seen       map[string]struct{}
	activity   *ring.Ring[Entry]
	today      int
	period     int
	lastUpdate time.Time
	rangeCount *int
	cursor     int
	cycle      int
	fetching   bool

	// Immutable after New.
	started    time.Time
	rangeStart time.Time
	rangeEnd   time.Time
}

// New creates the monitor and performs the startup fetches: the initial
// account snapshot and, when a range is configured, the initial range
// count. Blocks until both complete; failures degrade inside the
// source, so New itself cannot fail.
func New(ctx context.Context, cfg Config, src xapi.Source, log zerolog.Logger) *Monitor {
	if cfg.Interval <= 0 {
		log.Warn().Dur("interval", cfg.Interval).Msg("non-positive interval, using default")
		cfg.Interval = defaultInterval
	}

	m := &Monitor{
		src:        src,
		log:        log,
		username:   cfg.Username,
		interval:   cfg.Interval,
		recent:     ring.New[xapi.Post](recentCap),
		seen:       make(map[string]struct{}, recentCap),
		activity:   ring.New[Entry](logCap),
		started:    time.Now(),
		rangeStart: cfg.RangeStart,
		rangeEnd:   cfg.RangeEnd,
	}

	m.mu.Lock()
	m.addEntry(LevelInfo, "Initializing monitor for @"+cfg.Username)
	m.mu.Unlock()

	acc := src.Account(ctx, cfg.Username)
	m.mu.Lock()
	m.account = acc
	m.addEntry(LevelGood, "Connected to @"+cfg.Username)
	if src.Mode() == xapi.ModeDemo {
		m.addEntry(LevelWarn, "Running in DEMO mode (no API key)")
	}
	m.mu.Unlock()

	if m.rangeConfigured() {
		m.refreshRange(ctx)
	}

	log.Info().
		Str("username", cfg.Username).
		Stringer("mode", src.Mode()).
		Dur("interval", cfg.Interval).
		Msg("monitor initialized")
	return m
}

// Run drives fetch-and-aggregate cycles until ctx is cancelled. The
// first cycle runs immediately; later cycles follow the interval. A
// failed cycle is logged and does not stop the loop.
func (m *Monitor) Run(ctx context.Context) {
	m.mu.Lock()
	m.addEntry(LevelGood, "Monitor started. Press Ctrl+C to exit.")
	m.mu.Unlock()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		m.runCycle(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Interval reports the configured fetch interval.
func (m *Monitor) Interval() time.Duration { return m.interval }

// runCycle executes one fetch-and-aggregate pass. A panic anywhere in
// the pass is contained here so one bad cycle cannot take the loop
// down with it.
func (m *Monitor) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Interface("panic", r).Msg("cycle failed")
			m.mu.Lock()
			m.addEntry(LevelBad, fmt.Sprintf("Error: %v", r))
			m.mu.Unlock()
		}
	}()

	m.setFetching(true)
	defer m.setFetching(false)

	posts := m.src.RecentPosts(ctx, m.accountID(), fetchBatch)
	refreshAccount, refreshRange := m.merge(posts, time.Now())

	if refreshAccount {
		m.refreshAccount(ctx)
	}
	if refreshRange {
		m.refreshRange(ctx)
	}
}

// merge folds a fetched batch into the aggregate: unseen posts enter
// the window as newest, counters are fully recomputed, and the cycle
// counter decides which slow-cadence refreshes are due.
func (m *Monitor) merge(posts []xapi.Post, now time.Time) (refreshAccount, refreshRange bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	newCount := 0
	for _, p := range posts {
		if _, dup := m.seen[p.ID]; dup {
			continue
		}
		if evicted, ok := m.recent.Push(p); ok {
			delete(m.seen, evicted.ID)
		}
		m.seen[p.ID] = struct{}{}
		newCount++
		m.addEntry(LevelGood, fmt.Sprintf("New %s detected - %s...", p.Kind.Label(), preview(p.Text, 60)))
	}

	m.today, m.period = recount(m.recent.Snapshot(), now, m.started)
	m.lastUpdate = now

	if newCount > 0 {
		// Optimistic local bump so the headline counter jumps as soon
		// as activity lands; the next account refresh overwrites it.
		m.account.TotalPosts += newCount
		m.addEntry(LevelInfo, fmt.Sprintf("Found %d new tweet(s)", newCount))
	}

	m.cycle++
	refreshAccount = m.src.Mode() == xapi.ModeLive &&
		m.cycle%cyclesFor(accountRefreshPeriod, m.interval) == 0
	refreshRange = m.rangeConfigured() &&
		m.cycle%cyclesFor(rangeRefreshPeriod, m.interval) == 0
	return refreshAccount, refreshRange
}

// refreshAccount re-reads the authoritative account counters. Identity
// fields stay as fetched at startup.
func (m *Monitor) refreshAccount(ctx context.Context) {
	acc := m.src.Account(ctx, m.username)
	m.mu.Lock()
	m.account.TotalPosts = acc.TotalPosts
	m.account.Followers = acc.Followers
	m.account.Following = acc.Following
	m.mu.Unlock()
	m.log.Debug().Int("total_posts", acc.TotalPosts).Msg("account metrics refreshed")
}

func (m *Monitor) refreshRange(ctx context.Context) {
	n := m.src.CountRange(ctx, m.accountID(), m.rangeStart, m.rangeEnd)
	m.mu.Lock()
	m.rangeCount = &n
	m.mu.Unlock()
	m.log.Debug().Int("count", n).Msg("range count refreshed")
}

func (m *Monitor) rangeConfigured() bool {
	return !m.rangeStart.IsZero() && !m.rangeEnd.IsZero()
}

func (m *Monitor) accountID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account.ID
}

func (m *Monitor) setFetching(v bool) {
	m.mu.Lock()
	m.fetching = v
	m.mu.Unlock()
}

// recount derives both counters from the full post set. The full
// recompute self-corrects when the calendar day rolls over under a
// running session.
func recount(posts []xapi.Post, now, since time.Time) (today, period int) {
	y, mo, d := now.Date()
	for _, p := range posts {
		py, pm, pd := p.CreatedAt.In(now.Location()).Date()
		if py == y && pm == mo && pd == d {
			today++
		}
		if !p.CreatedAt.Before(since) {
			period++
		}
	}
	return today, period
}

// cyclesFor converts a refresh period into a cycle count, rounding up
// so long intervals still refresh at least once per period.
func cyclesFor(period, interval time.Duration) int {
	if interval <= 0 {
		return 1
	}
	n := int((period + interval - 1) / interval)
	if n < 1 {
		return 1
	}
	return n
}
