package logger

import (
	"context"
	"log/slog"
)

type ctxAttrsKey struct{}

// WithAttrs returns a context carrying attributes for every log call made
// with it. Attributes accumulate across nested calls.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, ctxAttrsKey{}, merged)
}

// ContextAttrs extracts attributes stored with WithAttrs.
// They are added inline, without a group prefix.
func ContextAttrs(ctx context.Context) (slog.Attr, bool) {
	attrs, ok := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	if !ok || len(attrs) == 0 {
		return slog.Attr{}, false
	}
	return slog.Attr{Key: "", Value: slog.GroupValue(attrs...)}, true
}
