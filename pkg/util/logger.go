package util

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a text logger at debug level in development and a JSON
// logger at info level everywhere else. A non-empty level such as "warn"
// overrides the default. Every record carries the process name.
func NewLogger(env, level, service string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if env == "development" {
		opts.Level = slog.LevelDebug
	}
	if level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err == nil {
			opts.Level = l
		}
	}

	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("service", service)
}
