package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "surf-forecast"

// New constructs a JSON slog logger writing to stdout.
func New() *slog.Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter constructs the service logger on an arbitrary sink. The CLI
// uses it to keep stdout free for JSON output.
func NewWithWriter(w io.Writer) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
