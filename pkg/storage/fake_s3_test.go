package storage

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

const (
	testBucket    = "media"
	testPublicURL = "https://cdn.example.com"
)

// recordedRequest is a request received by fakeS3.
type recordedRequest struct {
	Header http.Header
	Method string
	Key    string
	Body   []byte
}

// fakeS3 is a minimal path-style S3 endpoint backed by a map.
type fakeS3 struct {
	srv      *httptest.Server
	objects  map[string][]byte
	failures map[string]int // method -> forced status code
	requests []recordedRequest
	mu       sync.Mutex
}

func newFakeS3(t *testing.T) *fakeS3 {
	t.Helper()

	f := &fakeS3{
		objects:  make(map[string][]byte),
		failures: make(map[string]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeS3) URL() string { return f.srv.URL }

// fail makes every request with the given method answer with status.
func (f *fakeS3) fail(method string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = status
}

func (f *fakeS3) put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
}

func (f *fakeS3) object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

// lastRequest returns the last recorded request with the given method.
func (f *fakeS3) lastRequest(t *testing.T, method string) recordedRequest {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Method == method {
			return f.requests[i]
		}
	}
	require.FailNow(t, "no request recorded", "method %s", method)
	return recordedRequest{}
}

func (f *fakeS3) handle(w http.ResponseWriter, r *http.Request) {
	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Key:    key,
		Header: r.Header.Clone(),
		Body:   body,
	})
	status, forced := f.failures[r.Method]
	f.mu.Unlock()

	w.Header().Set("x-amz-request-id", "req-"+r.Method)

	if bucket != testBucket {
		writeS3Error(w, r, http.StatusNotFound, "NoSuchBucket")
		return
	}
	if forced {
		code := "InternalError"
		switch status {
		case http.StatusForbidden:
			code = "AccessDenied"
		case http.StatusNotFound:
			code = "NoSuchKey"
		}
		writeS3Error(w, r, status, code)
		return
	}

	switch {
	case r.Method == http.MethodHead && key == "":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		f.put(key, body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		data, ok := f.object(key)
		if !ok {
			writeS3Error(w, r, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case r.Method == http.MethodDelete:
		f.mu.Lock()
		delete(f.objects, key)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		writeS3Error(w, r, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

func writeS3Error(w http.ResponseWriter, r *http.Request, status int, code string) {
	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w,
		`<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message><RequestId>req-%s</RequestId></Error>`,
		code, code, r.Method,
	)
}

// newTestStorage creates an R2Storage pointed at endpoint with SDK retries disabled.
func newTestStorage(t *testing.T, endpoint string, opts ...Option) *R2Storage {
	t.Helper()

	opts = append([]Option{
		WithS3Options(func(o *s3.Options) {
			o.RetryMaxAttempts = 1
		}),
	}, opts...)

	s, err := New(Config{
		Bucket:    testBucket,
		Endpoint:  endpoint,
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
		PublicURL: testPublicURL,
	}, opts...)
	require.NoError(t, err)
	return s
}

// fixedClock returns a clock that advances one millisecond per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Millisecond)
		return now
	}
}

// bufferLogger returns a text logger writing into a goroutine-safe buffer.
func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
