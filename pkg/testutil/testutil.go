// Package testutil holds small helpers shared across test packages.
package testutil

import (
	"io"
	"log/slog"
)

// Logger returns a logger that discards everything; tests assert on behavior,
// not log output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
