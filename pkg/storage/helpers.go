package storage

import (
	"context"
	"fmt"
	"mime/multipart"
)

// UploadFormFile uploads a multipart file header through any FileService.
// The key is derived from the client file name; the content type comes from
// the part header, falling back to detection when absent.
// Returns ErrEmptyFile if the file is nil or has zero size.
func UploadFormFile(ctx context.Context, s FileService, fh *multipart.FileHeader, private bool) (*UploadResult, error) {
	if fh == nil || fh.Size == 0 {
		return nil, ErrEmptyFile
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open file: %w", err)
	}
	defer f.Close()

	file := File{
		Reader:       f,
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
	}

	if private {
		return s.UploadProtected(ctx, file)
	}
	return s.Upload(ctx, file)
}
