// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
// Unknown values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefaultStructuredLogger installs a JSON logger on stderr tagged with the
// service name and version. The level is read from LOG_LEVEL.
func SetDefaultStructuredLogger(name, version string) {
	SetDefaultStructuredLoggerWithLevel(name, version, os.Getenv("LOG_LEVEL"))
}

// SetDefaultStructuredLoggerWithLevel is SetDefaultStructuredLogger with an explicit level.
func SetDefaultStructuredLoggerWithLevel(name, version, level string) {
	slog.SetDefault(newStructuredLogger(os.Stderr, name, version, ParseLevel(level)))
}

// SetDefaultCLILogger installs a human readable text logger on stderr.
func SetDefaultCLILogger(level slog.Level) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

func newStructuredLogger(w io.Writer, name, version string, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	return slog.New(h).With("module", name, "version", version)
}
