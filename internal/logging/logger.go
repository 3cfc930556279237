// Package logging provides structured logging for xmon using zerolog.
//
// The dashboard owns the terminal, so the operational log never writes
// to stdout or stderr: it goes to a file when one is configured and is
// discarded otherwise.
package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string

	// File receives the JSON log stream; empty disables logging.
	File string
}

// New builds the root logger and returns a close function for the
// underlying file. Without a file it returns a no-op logger.
func New(cfg Config) (zerolog.Logger, func(), error) {
	if cfg.File == "" {
		return zerolog.Nop(), func() {}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("open log file: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(f).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}

// parseLevel converts a string level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component creates a child logger with a component field.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
