package storage

import (
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrymomot/r2storage/pkg/logger"
)

// Option configures an R2Storage.
type Option func(*options)

// options holds R2Storage dependencies.
type options struct {
	logger    *slog.Logger
	now       func() time.Time
	s3Options []func(*s3.Options)
}

func newOptions(opts ...Option) *options {
	o := &options{
		logger: logger.NewNope(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to report backend failures.
// Default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the clock used for key timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithS3Options appends raw SDK client options, applied after the defaults.
// Use it for SDK-level tuning such as retry attempts or a custom HTTP client.
func WithS3Options(fns ...func(*s3.Options)) Option {
	return func(o *options) {
		o.s3Options = append(o.s3Options, fns...)
	}
}

// StreamOption configures GetUploadStreamDescriptor.
type StreamOption func(*streamOptions)

// streamOptions holds configuration for streaming uploads.
type streamOptions struct {
	contentType string // Default application/octet-stream
	acl         ACL    // Default private
}

// WithContentType sets the content type of a streamed upload.
func WithContentType(ct string) StreamOption {
	return func(o *streamOptions) {
		if ct != "" {
			o.contentType = ct
		}
	}
}

// WithACL overrides the private default of a streamed upload.
func WithACL(acl ACL) StreamOption {
	return func(o *streamOptions) {
		o.acl = acl
	}
}
