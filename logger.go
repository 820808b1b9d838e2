package ggsvg

import (
	"log/slog"

	"github.com/gogpu/ggsvg/internal/logging"
)

// SetLogger configures the logger for ggsvg and all its sub-packages.
// By default, ggsvg produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by ggsvg:
//   - [slog.LevelDebug]: conversion details (cached defs, removed groups)
//   - [slog.LevelWarn]: skipped elements, broken links, invalid filter regions
//
// Example:
//
//	// Print warnings to stderr:
//	ggsvg.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	ggsvg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger used by ggsvg.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
