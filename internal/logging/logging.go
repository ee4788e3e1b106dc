// Package logging builds the application's slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel accepts debug, info, warn (or warning) and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	name := strings.TrimSpace(s)
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// New returns a tint logger with kitchen timestamps when pretty is set,
// and a JSON logger otherwise.
func New(w io.Writer, logLevel string, pretty bool, extraHandlers ...func(slog.Handler) slog.Handler) (*slog.Logger, error) {
	level, err := ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var handler slog.Handler
	if pretty {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	for _, eh := range extraHandlers {
		handler = eh(handler)
	}
	return slog.New(handler), nil
}

// InitGlobal builds a logger with New and installs it as slog's default.
func InitGlobal(w io.Writer, logLevel string, pretty bool, extraHandlers ...func(slog.Handler) slog.Handler) (*slog.Logger, error) {
	logger, err := New(w, logLevel, pretty, extraHandlers...)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// WithAttrs decorates every record with attrs.
func WithAttrs(attrs ...slog.Attr) func(slog.Handler) slog.Handler {
	return func(h slog.Handler) slog.Handler {
		return h.WithAttrs(attrs)
	}
}

// Discard returns a logger that drops everything. Components fall back to it
// when no logger is injected.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
