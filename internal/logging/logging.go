// Package logging builds the structured logger shared by the CLI.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w.
// Only warnings and errors are emitted unless debug is set.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
