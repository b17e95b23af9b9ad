// Package logging wires the repeatable `-d` debug flag (spec.md §6) to a
// leveled logger. It follows the shape of MacroPower-x/log's Config/Handler
// split — a small Config holding the resolved level, a constructor that
// turns it into a ready-to-use handler — but targets log/slog directly.
//
// MacroPower-x's go.mod lists charm.land/log/v2, but no file in that
// module actually imports it; its own log package hand-wraps log/slog
// instead. We ground this package on the code that is actually
// demonstrated (log/slog usage) rather than import an unexercised
// module — see DESIGN.md.
package logging

import (
	"io"
	"log/slog"
)

// Config mirrors MacroPower-x/log.Config: a small value type resolved from
// CLI input before a handler is built.
type Config struct {
	// Count is the number of times -d appeared on the command line.
	// 0 = warn, 1 = info, 2 = debug, >=3 = debug with source locations.
	Count int
}

// Level resolves Count to an slog.Level, clamping at the extremes instead
// of erroring — unlike MacroPower-x's GetLevel (which parses a string and
// can fail), a repeat count can't be malformed.
func (c Config) Level() slog.Level {
	switch {
	case c.Count <= 0:
		return slog.LevelWarn
	case c.Count == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// NewHandler builds an slog.Handler writing logfmt-style text to w, adding
// source locations once verbosity reaches "debug and beyond" (Count>=3),
// matching MacroPower-x/log.CreateHandler's AddSource wiring.
func (c Config) NewHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: c.Count >= 3,
		Level:     c.Level(),
	})
}

// New builds a ready-to-use *slog.Logger for the given verbosity count.
func New(w io.Writer, debugCount int) *slog.Logger {
	cfg := Config{Count: debugCount}
	return slog.New(cfg.NewHandler(w))
}
