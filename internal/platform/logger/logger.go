package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a structured JSON logger using slog. Verbose raises the level to debug
// so per-request API logging becomes visible.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a JSON logger writing to w at the given level.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Discard returns a logger that drops everything; used by tests and nil-safe defaults.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
