// Package logger constructs the application logger. The logger is built once
// at startup and passed down explicitly; nothing in this repo logs through a
// package-level singleton.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// New builds an slog.Logger writing to w with the given level.
// useJSON switches between JSON (production) and text (development) output.
func New(w io.Writer, level string, useJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
