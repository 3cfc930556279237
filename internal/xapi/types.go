// Package xapi fetches account metadata, recent posts, and range counts
// for a single X/Twitter account.
//
// The package exposes one Source interface with two implementations
// selected once at construction: a live client speaking the v2 REST API
// when a bearer token is configured, and a demo generator otherwise.
// Source operations never return errors; failures degrade to
// demo-shaped or empty results so the dashboard keeps rendering.
package xapi

import (
	"strings"
	"time"
)

// Mode reports which backing implementation a Source uses.
type Mode int

const (
	ModeDemo Mode = iota
	ModeLive
)

func (m Mode) String() string {
	if m == ModeLive {
		return "LIVE"
	}
	return "DEMO"
}

// PostKind classifies a post by how it references other posts.
type PostKind string

const (
	KindOriginal PostKind = "tweet"
	KindReply    PostKind = "reply"
	KindRepost   PostKind = "repost"
	KindQuote    PostKind = "quote"
)

// Label returns the uppercase form shown in tables and log lines.
func (k PostKind) Label() string {
	return strings.ToUpper(string(k))
}

// Post is a single fetched post. Immutable once created.
type Post struct {
	ID        string
	Text      string
	CreatedAt time.Time
	Kind      PostKind
	Reposts   int
	Likes     int
	Replies   int
}

// AccountSnapshot holds account-level counters as of one fetch. The
// counters come from an external source and may jump arbitrarily
// between refreshes.
type AccountSnapshot struct {
	ID          string
	Username    string
	DisplayName string
	TotalPosts  int
	Followers   int
	Following   int
}

// maxPostRunes caps post text length at the source.
const maxPostRunes = 100

// truncateText caps s at max runes, appending "..." when cut.
func truncateText(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
