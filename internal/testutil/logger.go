// Package testutil holds small helpers shared across test suites.
package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything. Tests pass it
// wherever a component wants a *slog.Logger.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
