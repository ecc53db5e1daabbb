// Package logger builds structured slog loggers with context extraction and
// optional Sentry reporting.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: "info", Format: "json"}, logger.ContextAttrs)
//
//	ctx = logger.WithAttrs(ctx, slog.String("command", "upload"))
//	log.InfoContext(ctx, "file uploaded", slog.String("key", key))
//	// {"level":"INFO","msg":"file uploaded","key":"photo-1718000000000.png","command":"upload"}
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute out of the context on every log call:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// [ContextAttrs] is the built-in extractor for attributes attached with
// [WithAttrs]. Any slog.Handler can be wrapped the same way:
//
//	h := slog.NewTextHandler(os.Stderr, nil)
//	log := slog.New(logger.NewLogHandlerDecorator(h, logger.ContextAttrs))
//
// # Sentry
//
// Set Config.Sentry.DSN to fan records out to Sentry as well as stdout.
// Errors create Issues; warnings are kept as logs unless MinLevel is "error".
// An empty or invalid DSN falls back to stdout only, so the same code path
// works in development and production.
//
// # Configuration
//
//	type Config struct {
//		Level  string // LOG_LEVEL (default: info)
//		Format string // LOG_FORMAT: json or text (default: json)
//		Sentry SentryConfig
//	}
//
//	type SentryConfig struct {
//		DSN         string // SENTRY_DSN
//		Environment string // SENTRY_ENVIRONMENT (default: production)
//		MinLevel    string // SENTRY_MIN_LEVEL: warn or error (default: warn)
//	}
package logger
