// Package logger builds the zerolog logger shared by every component.
package logger

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a logger writing to w. Format "console" (or "pretty") is
// human-readable; anything else is JSON.
func New(level, format string, w io.Writer) zerolog.Logger {
	output := w
	switch strings.ToLower(format) {
	case "console", "pretty":
		output = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(output).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("app", "swing-screener").
		Logger()
}

// parseLevel converts a level name to zerolog.Level, defaulting to info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
