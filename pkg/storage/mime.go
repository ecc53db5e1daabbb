package storage

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strings"
)

// MIME type constants.
const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512 // http.DetectContentType requires up to 512 bytes
)

// resolveContentType returns the content type for an upload and a reader
// positioned at the start of the content.
// An explicit type wins; otherwise the extension is looked up, and as a last
// resort the magic bytes are sniffed.
func resolveContentType(explicit, filename string, r io.Reader) (string, io.Reader) {
	if explicit != "" {
		return explicit, r
	}

	if _, ext := splitName(filename); ext != "" {
		if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
			return ct, r
		}
	}

	return detectMIMEWithReader(r)
}

// detectMIMEWithReader detects MIME type from a reader without consuming it.
// Seekable readers are rewound after detection; other readers are replayed
// through a MultiReader so the upload still streams.
func detectMIMEWithReader(r io.Reader) (string, io.Reader) {
	buf := make([]byte, mimeDetectionBytes)
	n, err := io.ReadFull(r, buf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return MIMEOctetStream, r
		}
		return MIMEOctetStream, bytes.NewReader(nil)
	}
	buf = buf[:n]
	ct := http.DetectContentType(buf)

	if rs, ok := r.(io.Seeker); ok {
		if _, err := rs.Seek(0, io.SeekStart); err == nil {
			return ct, r
		}
	}

	return ct, io.MultiReader(bytes.NewReader(buf), r)
}
