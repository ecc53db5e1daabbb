package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockFileService is a test implementation of the FileService interface.
type mockFileService struct {
	uploadFunc func(ctx context.Context, f File, private bool) (*UploadResult, error)
}

func (m *mockFileService) Upload(ctx context.Context, f File) (*UploadResult, error) {
	return m.uploadFunc(ctx, f, false)
}

func (m *mockFileService) UploadProtected(ctx context.Context, f File) (*UploadResult, error) {
	return m.uploadFunc(ctx, f, true)
}

func (m *mockFileService) Delete(context.Context, string) error { return nil }

func (m *mockFileService) GetDownloadStream(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (m *mockFileService) GetPresignedDownloadURL(_ context.Context, key string) (string, error) {
	return "https://example.com/" + key, nil
}

func (m *mockFileService) GetUploadStreamDescriptor(context.Context, string, string, ...StreamOption) (*UploadStreamDescriptor, error) {
	return nil, errors.New("not implemented")
}

// mockMultipartFile creates a multipart.FileHeader backed by actual data.
func mockMultipartFile(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(data)) + 1024)
	require.NoError(t, err)

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestUploadFormFile(t *testing.T) {
	t.Parallel()

	t.Run("public", func(t *testing.T) {
		t.Parallel()
		var got File
		var gotPrivate bool
		svc := &mockFileService{uploadFunc: func(_ context.Context, f File, private bool) (*UploadResult, error) {
			data, err := io.ReadAll(f.Reader)
			require.NoError(t, err)
			require.Equal(t, "avatar bytes", string(data))
			got, gotPrivate = f, private
			return &UploadResult{Key: "avatar-1.png", URL: "https://cdn.example.com/avatar-1.png"}, nil
		}}

		fh := mockMultipartFile(t, "avatar.png", "image/png", []byte("avatar bytes"))
		res, err := UploadFormFile(context.Background(), svc, fh, false)
		require.NoError(t, err)
		require.Equal(t, "avatar-1.png", res.Key)
		require.Equal(t, "avatar.png", got.OriginalName)
		require.Equal(t, "image/png", got.ContentType)
		require.False(t, gotPrivate)
	})

	t.Run("private", func(t *testing.T) {
		t.Parallel()
		var gotPrivate bool
		svc := &mockFileService{uploadFunc: func(_ context.Context, _ File, private bool) (*UploadResult, error) {
			gotPrivate = private
			return &UploadResult{Key: "k"}, nil
		}}

		fh := mockMultipartFile(t, "contract.pdf", "", []byte("%PDF-1.4"))
		_, err := UploadFormFile(context.Background(), svc, fh, true)
		require.NoError(t, err)
		require.True(t, gotPrivate)
	})

	t.Run("upload error passes through", func(t *testing.T) {
		t.Parallel()
		svc := &mockFileService{uploadFunc: func(context.Context, File, bool) (*UploadResult, error) {
			return nil, ErrUpload
		}}

		fh := mockMultipartFile(t, "avatar.png", "image/png", []byte("x"))
		_, err := UploadFormFile(context.Background(), svc, fh, false)
		require.ErrorIs(t, err, ErrUpload)
	})

	t.Run("nil header", func(t *testing.T) {
		t.Parallel()
		_, err := UploadFormFile(context.Background(), &mockFileService{}, nil, false)
		require.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		fh := mockMultipartFile(t, "empty.txt", "text/plain", nil)
		_, err := UploadFormFile(context.Background(), &mockFileService{}, fh, false)
		require.ErrorIs(t, err, ErrEmptyFile)
	})
}
