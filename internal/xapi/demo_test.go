package xapi

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsModeByCredential(t *testing.T) {
	tests := []struct {
		name   string
		bearer string
		want   Mode
	}{
		{name: "no token", bearer: "", want: ModeDemo},
		{name: "placeholder token", bearer: "your_bearer_token_here", want: ModeDemo},
		{name: "real token", bearer: "AAAA-real-token", want: ModeLive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(tt.bearer, zerolog.Nop())
			require.Equal(t, tt.want, src.Mode())
		})
	}
}

func TestDemoAccountShape(t *testing.T) {
	acc := demoAccount("gopher")

	require.Equal(t, "123456789", acc.ID)
	require.Equal(t, "gopher", acc.Username)
	require.Equal(t, "Gopher", acc.DisplayName)
	require.GreaterOrEqual(t, acc.TotalPosts, 5000)
	require.LessOrEqual(t, acc.TotalPosts, 50000)
	require.GreaterOrEqual(t, acc.Followers, 10000)
	require.LessOrEqual(t, acc.Followers, 1000000)
	require.GreaterOrEqual(t, acc.Following, 100)
	require.LessOrEqual(t, acc.Following, 5000)
}

func TestDemoPostsCatalog(t *testing.T) {
	before := time.Now()
	posts := demoPosts()

	require.Len(t, posts, 5)
	for i, p := range posts {
		require.Equal(t, demoCatalog[i], p.Text)
		require.Equal(t, KindOriginal, p.Kind)

		// Ids look like real numeric post ids.
		id, err := strconv.Atoi(p.ID)
		require.NoError(t, err)
		require.GreaterOrEqual(t, id, 1000000)
		require.LessOrEqual(t, id, 9999999)

		// Created 1-48 hours in the past.
		require.True(t, p.CreatedAt.Before(before))
		require.True(t, p.CreatedAt.After(before.Add(-49*time.Hour)))

		require.GreaterOrEqual(t, p.Reposts, 100)
		require.LessOrEqual(t, p.Reposts, 10000)
		require.GreaterOrEqual(t, p.Likes, 500)
		require.LessOrEqual(t, p.Likes, 50000)
		require.GreaterOrEqual(t, p.Replies, 50)
		require.LessOrEqual(t, p.Replies, 5000)
	}
}

func TestDemoRangeCount(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		hours int
		want  int
	}{
		{name: "ten hours", hours: 10, want: 5},
		{name: "three hours rounds down", hours: 3, want: 1},
		{name: "one hour", hours: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := demoRangeCount(base, base.Add(time.Duration(tt.hours)*time.Hour))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDemoCountRangeGuard(t *testing.T) {
	src := newDemoSource()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.Zero(t, src.CountRange(context.Background(), "123456789", base, base))
	require.Zero(t, src.CountRange(context.Background(), "123456789", base.Add(time.Hour), base))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "elonmusk", want: "Elonmusk"},
		{in: "jack", want: "Jack"},
		{in: "NASA", want: "Nasa"},
		{in: "two words", want: "Two Words"},
		{in: "x_ai", want: "X_Ai"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, titleCase(tt.in))
		})
	}
}

func TestTruncateText(t *testing.T) {
	require.Equal(t, "short", truncateText("short", 100))

	exact := make([]rune, 100)
	for i := range exact {
		exact[i] = 'a'
	}
	require.Equal(t, string(exact), truncateText(string(exact), 100))

	long := string(exact) + "overflow"
	require.Equal(t, string(exact)+"...", truncateText(long, 100))

	// Rune-aware: multibyte characters are never split.
	require.Equal(t, "héllo...", truncateText("héllo wörld", 5))
}
