package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds logger configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Sentry SentryConfig
}

// New creates a logger writing to stdout, with optional context extractors.
// When cfg.Sentry.DSN is set, records are also sent to Sentry.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	base := newHandler(w, cfg)

	if sentryHandler := newSentryHandler(cfg.Sentry, base); sentryHandler != nil {
		// Context extractors apply to both destinations.
		return slog.New(NewLogHandlerDecorator(newMultiHandler(base, sentryHandler), extractors...))
	}

	return slog.New(NewLogHandlerDecorator(base, extractors...))
}

// newHandler builds the stdout handler for the configured format and level.
func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, FormatText) {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// ParseLevel converts a level name (debug, info, warn, error) to slog.Level.
// Unknown names fall back to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
