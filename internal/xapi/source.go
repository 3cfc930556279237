package xapi

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// placeholderToken is the sample value shipped in .env templates; it is
// treated the same as no token at all.
const placeholderToken = "your_bearer_token_here"

// Source fetches data for one monitored account. Implementations never
// fail observably: on error they return demo-shaped fallback data (or
// zero for range counts) and log the cause, so a flaky backend degrades
// the data instead of the dashboard.
type Source interface {
	// Mode reports whether this source serves demo or live data.
	Mode() Mode

	// Account looks up account metadata and counters by username.
	Account(ctx context.Context, username string) AccountSnapshot

	// RecentPosts returns up to max posts in the source's default
	// order. Callers must not assume most-recent-first.
	RecentPosts(ctx context.Context, accountID string, max int) []Post

	// CountRange counts posts created in [start, end). A start at or
	// after end returns 0 without touching the backend.
	CountRange(ctx context.Context, accountID string, start, end time.Time) int
}

// New selects the backing implementation once, by credential presence:
// a bearer token that is set and not the sample placeholder selects the
// live API, anything else the demo generator. The choice never changes
// for the lifetime of the Source.
func New(bearerToken string, log zerolog.Logger) Source {
	if bearerToken != "" && bearerToken != placeholderToken {
		return newLiveSource(bearerToken, log)
	}
	return newDemoSource()
}
