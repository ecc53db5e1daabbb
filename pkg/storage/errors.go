package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Sentinel errors for storage operations.
//
// The operation errors carry fixed, user-facing messages. They are returned
// as-is from the immediate failure path; the backend cause is only logged.
var (
	// Configuration errors.
	ErrInvalidConfig = errors.New("storage: invalid configuration")

	// Operation errors, shown to end users verbatim.
	ErrUpload   = errors.New("An error occurred while uploading the file.")               //nolint:staticcheck
	ErrDelete   = errors.New("An error occurred while deleting the file.")                //nolint:staticcheck
	ErrDownload = errors.New("An error occurred while downloading the file.")             //nolint:staticcheck
	ErrURL      = errors.New("An error occurred while generating the file download URL.") //nolint:staticcheck

	// File errors.
	ErrEmptyFile = errors.New("storage: file is empty")

	// Backend errors, joined into stream and completion errors.
	ErrNotFound     = errors.New("storage: file not found")
	ErrAccessDenied = errors.New("storage: access denied")

	ErrHealthcheckFailed = errors.New("storage: healthcheck failed")
)

// ConfigurationError reports a missing or invalid required setting.
type ConfigurationError struct {
	Field string // Configuration key, e.g. "bucket" or "access_key"
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("storage: %s is required and must be a non-empty string", e.Field)
}

// Is reports ErrInvalidConfig as a match so callers can use errors.Is.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// classifyS3Error maps S3 errors onto sentinel errors.
// It checks both API error codes and typed errors.
// Unknown errors are returned unchanged.
func classifyS3Error(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return err
}

// s3ErrorAttrs extracts the identifying fields of a backend error for logging.
func s3ErrorAttrs(err error) []any {
	attrs := []any{slog.String("error", err.Error())}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, slog.String("error_code", apiErr.ErrorCode()))
	}

	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) {
		attrs = append(attrs, slog.Int("status", respErr.HTTPStatusCode()))
	}

	var reqIDErr interface{ ServiceRequestID() string }
	if errors.As(err, &reqIDErr) && reqIDErr.ServiceRequestID() != "" {
		attrs = append(attrs, slog.String("request_id", reqIDErr.ServiceRequestID()))
	}

	return attrs
}
