package storage

import (
	"context"
	"io"
)

// FileService is the file storage contract a host application depends on.
// Implementations must be safe for concurrent use.
type FileService interface {
	// Upload stores the file with public-read access and returns its public URL.
	Upload(ctx context.Context, f File) (*UploadResult, error)

	// UploadProtected stores the file with private access.
	// The returned URL is only reachable with a presigned URL.
	UploadProtected(ctx context.Context, f File) (*UploadResult, error)

	// Delete removes a file from storage.
	Delete(ctx context.Context, fileKey string) error

	// GetDownloadStream returns a stream of the file contents.
	// The caller is responsible for closing the returned reader.
	// Errors that occur after the stream is returned surface from Read.
	GetDownloadStream(ctx context.Context, fileKey string) (io.ReadCloser, error)

	// GetPresignedDownloadURL returns a time-limited signed URL for the file.
	GetPresignedDownloadURL(ctx context.Context, fileKey string) (string, error)

	// GetUploadStreamDescriptor opens a streaming upload for {name}.{ext}.
	// The caller writes the content to the descriptor's Writer and closes it,
	// then waits on the descriptor's Completion.
	GetUploadStreamDescriptor(ctx context.Context, name, ext string, opts ...StreamOption) (*UploadStreamDescriptor, error)
}

// File describes the content handed over for an upload.
// It is used to build a single request and is not retained.
type File struct {
	// Path is a local file path. The file is opened and closed by the storage.
	Path string

	// Reader is used when Path is empty. The caller owns its lifecycle.
	Reader io.Reader

	// OriginalName is the client-side file name, used to derive the storage key.
	OriginalName string

	// ContentType is the MIME type. Resolved from the name or content when empty.
	ContentType string
}

// UploadResult describes a stored object.
type UploadResult struct {
	// URL is the public URL of the object: {public_url}/{key}.
	URL string `json:"url"`

	// Key is the object key within the bucket.
	Key string `json:"key"`
}

// UploadStreamDescriptor is returned by GetUploadStreamDescriptor.
type UploadStreamDescriptor struct {
	// Writer is the sink feeding the upload request body.
	// Close it to finish the upload, or CloseWithError to abort it.
	Writer *io.PipeWriter

	// Completion resolves once the backend acknowledged (or rejected) the upload.
	Completion *Completion

	// Key is the object key: {name}.{ext}.
	Key string

	// URL is the protocol-native object URL: {endpoint}/{bucket}/{key}.
	URL string
}

// ACL represents access control levels for stored files.
type ACL string

const (
	// ACLPrivate makes the file accessible only via presigned URLs.
	ACLPrivate ACL = "private"

	// ACLPublicRead makes the file publicly readable.
	ACLPublicRead ACL = "public-read"
)

// Completion tracks a background upload started by GetUploadStreamDescriptor.
type Completion struct {
	done chan struct{}
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// resolve records the outcome. Must be called exactly once.
func (c *Completion) resolve(err error) {
	c.err = err
	close(c.done)
}

// Done returns a channel that is closed when the upload finishes.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Err returns the upload error once Done is closed, nil before that.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the upload finishes or ctx is done.
// Returning on ctx does not abort the upload; close the Writer with an error for that.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
