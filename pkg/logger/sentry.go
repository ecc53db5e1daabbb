package logger

import (
	"context"
	"log/slog"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel is "warn" to send warnings and errors to Sentry, or "error" for errors only.
	MinLevel string `env:"SENTRY_MIN_LEVEL" envDefault:"warn"`
}

// newSentryHandler initializes the Sentry SDK and returns a handler for it.
// Returns nil when DSN is empty or initialization fails, so callers
// gracefully fall back to stdout only.
func newSentryHandler(cfg SentryConfig, fallback slog.Handler) slog.Handler {
	if cfg.DSN == "" {
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(fallback).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return nil
	}

	// Errors create Issues in Sentry; warnings are stored as logs for context.
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if strings.EqualFold(cfg.MinLevel, "error") {
		logLevel = []slog.Level{slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())
}
