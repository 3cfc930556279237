// Package config resolves the monitor's startup settings from CLI
// flags, environment variables, and an optional .env file.
//
// Precedence, highest first: flags > environment > .env > defaults.
// The .env file feeds the environment without overriding variables
// that are already set, which is what gives it its slot.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Defaults for the two settings every run needs.
const (
	DefaultUsername = "elonmusk"
	DefaultInterval = 60 // seconds
)

// envBindings maps viper keys to the environment variables the tool
// has always honored.
var envBindings = map[string]string{
	"username":     "MONITOR_USERNAME",
	"interval":     "UPDATE_INTERVAL",
	"range-start":  "RANGE_START",
	"range-end":    "RANGE_END",
	"bearer-token": "TWITTER_BEARER_TOKEN",
	"log-file":     "MONITOR_LOG_FILE",
	"log-level":    "MONITOR_LOG_LEVEL",
}

// Settings carries everything main needs to assemble the monitor.
type Settings struct {
	Username    string
	Interval    time.Duration
	RangeStart  time.Time // zero when absent or unparsable
	RangeEnd    time.Time
	BearerToken string
	LogFile     string
	LogLevel    string
}

// Load resolves settings from the given viper instance, which arrives
// with CLI flags already bound. Malformed range timestamps degrade to
// "no range"; a bad username or interval is the one fatal path.
func Load(v *viper.Viper) (*Settings, error) {
	// Best effort: a missing .env is the normal case.
	_ = gotenv.Load()

	v.SetDefault("username", DefaultUsername)
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("log-level", "info")
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	s := &Settings{
		Username:    v.GetString("username"),
		Interval:    time.Duration(v.GetInt("interval")) * time.Second,
		RangeStart:  ParseTimestamp(v.GetString("range-start")),
		RangeEnd:    ParseTimestamp(v.GetString("range-end")),
		BearerToken: v.GetString("bearer-token"),
		LogFile:     v.GetString("log-file"),
		LogLevel:    v.GetString("log-level"),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings that cannot produce a working monitor.
func (s *Settings) Validate() error {
	if s.Username == "" {
		return errors.New("username must not be empty")
	}
	if s.Interval <= 0 {
		return errors.New("update interval must be a positive number of seconds")
	}
	return nil
}

// RangeConfigured reports whether both range bounds parsed.
func (s *Settings) RangeConfigured() bool {
	return !s.RangeStart.IsZero() && !s.RangeEnd.IsZero()
}

// timestampFormats are tried in order: date-time with optional
// seconds, the same with a "T" separator, then full RFC 3339.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseTimestamp parses a range bound in the local timezone unless the
// value carries its own offset. Empty or unparsable values yield the
// zero time: a bad bound means "no custom range", never an error.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
