// Package logging builds the zerolog logger shared by the CLI commands.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps the terminal quiet during a conversation.
const DefaultLevel = "warn"

// ParseLevel maps a level name to a zerolog level. Unknown names fall back
// to DefaultLevel.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		lvl, _ = zerolog.ParseLevel(DefaultLevel)
	}
	return lvl
}

// New returns a human-readable logger writing to w.
func New(w io.Writer, level string) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(cw).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("app", "eliza").
		Logger()
}
