package logger

import (
	"io"
	"log/slog"
)

// NewNope creates a logger that discards all output.
// Libraries use it as the default when the caller supplies no logger.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
