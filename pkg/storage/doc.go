// Package storage provides a file storage adapter for Cloudflare R2 and other
// S3-compatible object stores.
//
// It implements the [FileService] contract expected by host applications:
// public and private uploads, deletion, download streams, presigned URLs and
// streaming upload descriptors. Signing, multipart chunking and retries are
// left to the AWS SDK for Go v2.
//
// # Basic Usage
//
//	cfg := storage.Config{
//		Bucket:    "media",
//		Endpoint:  "https://<account>.r2.cloudflarestorage.com",
//		AccessKey: os.Getenv("R2_ACCESS_KEY"),
//		SecretKey: os.Getenv("R2_SECRET_KEY"),
//		PublicURL: "https://media.example.com",
//	}
//
//	store, err := storage.New(cfg, storage.WithLogger(slog.Default()))
//	if err != nil {
//		log.Fatal(err) // *storage.ConfigurationError
//	}
//
//	res, err := store.Upload(ctx, storage.File{
//		Path:         "/tmp/upload-123",
//		OriginalName: "photo.png",
//		ContentType:  "image/png",
//	})
//	// res.Key: photo-1718000000000.png
//	// res.URL: https://media.example.com/photo-1718000000000.png
//
// Hosts that receive options as a loosely typed mapping use [NewFromMap]:
//
//	store, err := storage.NewFromMap(map[string]any{
//		"bucket":     "media",
//		"endpoint":   "https://<account>.r2.cloudflarestorage.com",
//		"access_key": "...",
//		"secret_key": "...",
//		"public_url": "https://media.example.com",
//	})
//
// # Errors
//
// Operation failures are logged with the backend error code and request ID,
// then reported with fixed messages: [ErrUpload], [ErrDelete], [ErrDownload]
// and [ErrURL]. The backend cause is not part of the returned error.
//
// Download streams and upload descriptors return before the backend answers.
// Their failures arrive later, through Read on the stream or through the
// descriptor's [Completion], joined with [ErrNotFound] or [ErrAccessDenied]
// when the backend reported one of those.
//
// # Streaming Uploads
//
//	desc, err := store.GetUploadStreamDescriptor(ctx, "report", "pdf",
//		storage.WithContentType("application/pdf"),
//	)
//	if err != nil {
//		return err
//	}
//	if _, err := io.Copy(desc.Writer, src); err != nil {
//		desc.Writer.CloseWithError(err)
//		return err
//	}
//	desc.Writer.Close()
//	if err := desc.Completion.Wait(ctx); err != nil {
//		return err
//	}
//
// # Configuration
//
// The Config struct supports environment variables:
//
//	type Config struct {
//		Bucket              string // R2_BUCKET
//		Endpoint            string // R2_ENDPOINT
//		AccessKey           string // R2_ACCESS_KEY
//		SecretKey           string // R2_SECRET_KEY
//		PublicURL           string // R2_PUBLIC_URL
//		CacheControl        string // R2_CACHE_CONTROL (default: max-age=31536000)
//		PresignedURLExpires int    // R2_PRESIGNED_URL_EXPIRES (default: 3600)
//	}
package storage
