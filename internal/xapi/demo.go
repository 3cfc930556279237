package xapi

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// demoCatalog is the fixed pool of synthetic post texts. Each fetch
// serves the first five with fresh ids, timestamps, and counts.
var demoCatalog = []string{
	"Just shipped a new feature! The team worked incredibly hard on this.",
	"Thinking about the future of technology and where we're headed...",
	"Great meeting with the team today. Exciting things coming soon!",
	"Working late tonight. Building something special.",
	"The response to our latest update has been amazing. Thank you all!",
	"New announcement coming tomorrow. Stay tuned!",
	"Reading some interesting papers on AI today.",
	"Coffee and code - the perfect combination.",
	"Replying to some questions from the community.",
	"Just hit a major milestone. More details soon!",
}

// demoSource fabricates plausible account activity so the dashboard
// works without credentials. Values are randomized within fixed ranges
// and are not stable across calls.
type demoSource struct{}

func newDemoSource() *demoSource { return &demoSource{} }

func (s *demoSource) Mode() Mode { return ModeDemo }

func (s *demoSource) Account(_ context.Context, username string) AccountSnapshot {
	return demoAccount(username)
}

func (s *demoSource) RecentPosts(_ context.Context, _ string, _ int) []Post {
	return demoPosts()
}

func (s *demoSource) CountRange(_ context.Context, _ string, start, end time.Time) int {
	if !start.Before(end) {
		return 0
	}
	return demoRangeCount(start, end)
}

// demoAccount is also the fallback shape the live source degrades to
// when the backend is unreachable.
func demoAccount(username string) AccountSnapshot {
	return AccountSnapshot{
		ID:          "123456789",
		Username:    username,
		DisplayName: titleCase(username),
		TotalPosts:  randRange(5000, 50000),
		Followers:   randRange(10000, 1000000),
		Following:   randRange(100, 5000),
	}
}

func demoPosts() []Post {
	now := time.Now()
	posts := make([]Post, 0, 5)
	for _, text := range demoCatalog[:5] {
		posts = append(posts, Post{
			ID:        strconv.Itoa(randRange(1000000, 9999999)),
			Text:      truncateText(text, maxPostRunes),
			CreatedAt: now.Add(-time.Duration(randRange(1, 48)) * time.Hour),
			Kind:      KindOriginal,
			Reposts:   randRange(100, 10000),
			Likes:     randRange(500, 50000),
			Replies:   randRange(50, 5000),
		})
	}
	return posts
}

// demoRangeCount approximates account activity at one post per two
// hours of window.
func demoRangeCount(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours = 0
	}
	return int(hours / 2)
}

// randRange returns a uniform random int in [lo, hi].
func randRange(lo, hi int) int {
	return lo + rand.Intn(hi-lo+1)
}

// titleCase uppercases the first letter of each word and lowercases the
// rest, turning a handle like "elonmusk" into a display name.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
