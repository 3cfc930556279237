package monitor

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/twbecker/xmon/internal/xapi"
)

func TestSnapshotAccountFields(t *testing.T) {
	src := newFakeSource(xapi.ModeLive)
	m := newTestMonitor(t, src)

	snap := m.Snapshot()
	require.Equal(t, xapi.ModeLive, snap.Mode)
	require.Equal(t, "gopher", snap.Username)
	require.Equal(t, "Gopher", snap.DisplayName)
	require.Equal(t, 1000, snap.TotalPosts)
	require.Equal(t, 5000, snap.Followers)
	require.Equal(t, 100, snap.Following)
	require.Equal(t, time.Minute, snap.Interval)
	require.False(t, snap.Started.IsZero())
	require.False(t, snap.BuiltAt.IsZero())
}

func TestSnapshotTopTenByTimestamp(t *testing.T) {
	base := time.Now().Add(-24 * time.Hour)
	src := newFakeSource(xapi.ModeDemo)

	// 15 posts in shuffled creation order within one batch.
	var batch []xapi.Post
	for _, off := range []int{7, 2, 11, 0, 14, 5, 9, 1, 13, 3, 10, 6, 12, 4, 8} {
		batch = append(batch, fakePost(strconv.Itoa(off), base.Add(time.Duration(off)*time.Minute)))
	}
	src.batches = [][]xapi.Post{batch}
	m := newTestMonitor(t, src)
	m.runCycle(context.Background())

	snap := m.Snapshot()
	require.Len(t, snap.RecentPosts, 10)

	// Newest first: offsets 14 down to 5.
	for i, p := range snap.RecentPosts {
		require.Equal(t, strconv.Itoa(14-i), p.ID)
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	now := time.Now()
	src := newFakeSource(xapi.ModeDemo)
	src.batches = [][]xapi.Post{{fakePost("1", now)}, {fakePost("2", now)}}
	m := newTestMonitor(t, src)

	m.runCycle(context.Background())
	snap1 := m.Snapshot()
	require.Len(t, snap1.RecentPosts, 1)

	m.runCycle(context.Background())
	snap2 := m.Snapshot()

	// snap1 still reflects the first cycle.
	require.Len(t, snap1.RecentPosts, 1)
	require.Len(t, snap2.RecentPosts, 2)
	require.Greater(t, snap2.LogLen, snap1.LogLen)
}

func TestSnapshotRangeCountIsACopy(t *testing.T) {
	src := newFakeSource(xapi.ModeDemo)
	src.rangeTotal = 4
	start := time.Date(2026, 1, 26, 9, 0, 0, 0, time.UTC)
	m := newTestMonitor(t, src, func(c *Config) {
		c.RangeStart = start
		c.RangeEnd = start.Add(8 * time.Hour)
	})

	snap := m.Snapshot()
	require.NotNil(t, snap.RangeCount)
	*snap.RangeCount = 99

	require.Equal(t, 4, *m.Snapshot().RangeCount, "mutating a snapshot must not leak back")
}
