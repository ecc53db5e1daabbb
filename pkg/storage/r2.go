package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// R2Storage implements FileService on top of Cloudflare R2
// or any other S3-compatible object storage.
type R2Storage struct {
	client    *s3.Client
	uploader  *manager.Uploader
	presigner *s3.PresignClient
	logger    *slog.Logger
	now       func() time.Time
	cfg       Config
}

// New creates a new R2Storage with the given configuration.
// It returns a *ConfigurationError naming the first missing required field.
func New(cfg Config, opts ...Option) (*R2Storage, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := newOptions(opts...)

	s3opts := append([]func(*s3.Options){
		func(so *s3.Options) {
			so.Region = DefaultRegion
			so.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
			so.BaseEndpoint = aws.String(cfg.Endpoint)
			so.UsePathStyle = true
			// R2 and most S3-compatible stores reject the SDK's default
			// CRC trailers on streaming bodies.
			so.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			so.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		},
	}, o.s3Options...)

	client := s3.New(s3.Options{}, s3opts...)

	return &R2Storage{
		client:    client,
		uploader:  manager.NewUploader(client),
		presigner: s3.NewPresignClient(client),
		logger:    o.logger,
		now:       o.now,
		cfg:       cfg,
	}, nil
}

// NewFromMap creates a new R2Storage from a loosely typed options mapping.
// See ConfigFromMap for the accepted keys.
func NewFromMap(m map[string]any, opts ...Option) (*R2Storage, error) {
	cfg, err := ConfigFromMap(m)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Upload stores the file with public-read access.
func (s *R2Storage) Upload(ctx context.Context, f File) (*UploadResult, error) {
	return s.uploadFile(ctx, f, ACLPublicRead)
}

// UploadProtected stores the file with private access.
func (s *R2Storage) UploadProtected(ctx context.Context, f File) (*UploadResult, error) {
	return s.uploadFile(ctx, f, ACLPrivate)
}

func (s *R2Storage) uploadFile(ctx context.Context, f File, acl ACL) (*UploadResult, error) {
	if f.OriginalName == "" && f.Path != "" {
		f.OriginalName = filepath.Base(f.Path)
	}

	key := uploadKey(f.OriginalName, s.now())
	log := s.logger.With(
		slog.String("bucket", s.cfg.Bucket),
		slog.String("key", key),
		slog.String("acl", string(acl)),
	)

	body := f.Reader
	if f.Path != "" {
		file, err := os.Open(f.Path)
		if err != nil {
			log.ErrorContext(ctx, "storage: failed to open upload source", slog.String("error", err.Error()))
			return nil, ErrUpload
		}
		defer file.Close()
		body = file
	}
	if body == nil {
		log.ErrorContext(ctx, "storage: upload has no content", slog.String("error", ErrEmptyFile.Error()))
		return nil, ErrUpload
	}

	contentType, body := resolveContentType(f.ContentType, f.OriginalName, body)

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(s.cfg.CacheControl),
		ACL:          cannedACL(acl),
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		log.ErrorContext(ctx, "storage: upload failed", s3ErrorAttrs(err)...)
		return nil, ErrUpload
	}

	return &UploadResult{
		URL: publicObjectURL(s.cfg.PublicURL, key),
		Key: key,
	}, nil
}

// Delete removes a file from storage. No existence check is made; whatever
// the backend reports for a missing key is surfaced.
func (s *R2Storage) Delete(ctx context.Context, fileKey string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(fileKey),
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		s.logFailure(ctx, "storage: delete failed", fileKey, err)
		return ErrDelete
	}

	return nil
}

// GetDownloadStream returns a stream of the object contents without waiting
// for the backend. The GetObject request runs behind the returned reader;
// backend and transport errors surface from Read as ErrDownload joined with
// the cause. Closing the reader early cancels the transfer.
func (s *R2Storage) GetDownloadStream(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	if fileKey == "" {
		s.logger.ErrorContext(ctx, "storage: download requested without key", slog.String("bucket", s.cfg.Bucket))
		return nil, ErrDownload
	}
	if err := ctx.Err(); err != nil {
		s.logger.ErrorContext(ctx, "storage: download aborted",
			slog.String("bucket", s.cfg.Bucket),
			slog.String("key", fileKey),
			slog.String("error", err.Error()),
		)
		return nil, ErrDownload
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(fileKey),
	}

	pr, pw := io.Pipe()
	go func() {
		output, err := s.client.GetObject(ctx, input)
		if err != nil {
			s.logFailure(ctx, "storage: download failed", fileKey, err)
			pw.CloseWithError(errors.Join(ErrDownload, classifyS3Error(err)))
			return
		}
		defer output.Body.Close()

		if _, err := io.Copy(pw, output.Body); err != nil {
			if errors.Is(err, io.ErrClosedPipe) {
				// Reader closed by the caller.
				return
			}
			pw.CloseWithError(errors.Join(ErrDownload, err))
			return
		}
		pw.Close()
	}()

	return pr, nil
}

// GetPresignedDownloadURL returns a presigned GET URL valid for the
// configured PresignedURLExpires seconds.
func (s *R2Storage) GetPresignedDownloadURL(ctx context.Context, fileKey string) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(fileKey),
	}

	result, err := s.presigner.PresignGetObject(ctx, input, s3.WithPresignExpires(s.presignExpiry()))
	if err != nil {
		s.logFailure(ctx, "storage: presign failed", fileKey, err)
		return "", ErrURL
	}

	return result.URL, nil
}

// GetUploadStreamDescriptor starts an upload of {name}.{ext} fed by the
// returned Writer. Uploads are private and typed application/octet-stream
// unless overridden with StreamOptions.
func (s *R2Storage) GetUploadStreamDescriptor(ctx context.Context, name, ext string, opts ...StreamOption) (*UploadStreamDescriptor, error) {
	o := &streamOptions{
		contentType: MIMEOctetStream,
		acl:         ACLPrivate,
	}
	for _, opt := range opts {
		opt(o)
	}

	key := streamKey(name, ext)
	pr, pw := io.Pipe()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        pr,
		ContentType: aws.String(o.contentType),
		ACL:         cannedACL(o.acl),
	}

	completion := newCompletion()
	go func() {
		_, err := s.uploader.Upload(ctx, input)
		if err != nil {
			s.logFailure(ctx, "storage: stream upload failed", key, err)
			err = errors.Join(ErrUpload, classifyS3Error(err))
			// Unblock a writer still feeding the pipe.
			pr.CloseWithError(err)
			completion.resolve(err)
			return
		}
		pr.Close()
		completion.resolve(nil)
	}()

	return &UploadStreamDescriptor{
		Writer:     pw,
		Completion: completion,
		Key:        key,
		URL:        endpointObjectURL(s.cfg.Endpoint, s.cfg.Bucket, key),
	}, nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (s *R2Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.cfg.Bucket),
	})
	if err != nil {
		return fmt.Errorf("storage: head bucket %q: %w", s.cfg.Bucket, classifyS3Error(err))
	}
	return nil
}

// logFailure logs a backend error with its identifying fields.
// The error itself never reaches the caller of the immediate failure path.
func (s *R2Storage) logFailure(ctx context.Context, msg, key string, err error) {
	attrs := append([]any{
		slog.String("bucket", s.cfg.Bucket),
		slog.String("key", key),
	}, s3ErrorAttrs(err)...)
	s.logger.ErrorContext(ctx, msg, attrs...)
}

func (s *R2Storage) presignExpiry() time.Duration {
	return time.Duration(s.cfg.PresignedURLExpires) * time.Second
}

func cannedACL(acl ACL) types.ObjectCannedACL {
	if acl == ACLPublicRead {
		return types.ObjectCannedACLPublicRead
	}
	return types.ObjectCannedACLPrivate
}

// Ensure R2Storage implements FileService.
var _ FileService = (*R2Storage)(nil)
