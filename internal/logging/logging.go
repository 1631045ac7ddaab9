package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/storybook/internal/model"
)

// Init installs the default slog logger from the log config.
// Logs go to stderr so that stdout stays clean for JSON and Markdown output.
func Init(cfg model.LogConfig) {
	InitWriter(cfg, os.Stderr)
}

// InitWriter is Init with an explicit output
func InitWriter(cfg model.LogConfig, w io.Writer) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func ForComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
