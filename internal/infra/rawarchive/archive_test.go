package rawarchive

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint("https://acct.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "minio:9000", sanitizeEndpoint("minio:9000"))
}

func TestMemoryArchiveOverwrites(t *testing.T) {
	archive := NewMemoryArchive()
	ctx := context.Background()

	_, found, err := archive.Get(ctx, "raw/東京都/current.json")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, archive.Put(ctx, "raw/東京都/current.json", []byte(`{"v":1}`)))
	require.NoError(t, archive.Put(ctx, "raw/東京都/current.json", []byte(`{"v":2}`)))
	got, found, err := archive.Get(ctx, "raw/東京都/current.json")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `{"v":2}`, string(got))
}

func TestS3ArchiveAgainstFakeServer(t *testing.T) {
	fake := newFakeS3()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	archive, err := NewS3Archive(Config{
		Endpoint:  srv.URL,
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "briefing-raw",
		Region:    "us-east-1",
		Prefix:    "dev",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	ctx := context.Background()

	_, found, err := archive.Get(ctx, "raw/x/forecast.json")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, archive.Put(ctx, "raw/x/forecast.json", []byte(`{"list":[]}`)))
	require.True(t, fake.has("/briefing-raw/dev/raw/x/forecast.json"))
}

// fakeS3 answers the handful of path-style S3 calls the archive makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]bool{}}
}

func (f *fakeS3) has(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[path]
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	isBucket := strings.Count(strings.Trim(r.URL.Path, "/"), "/") == 0
	switch {
	case isBucket:
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		_, _ = io.Copy(io.Discard, r.Body)
		f.objects[r.URL.Path] = true
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case f.objects[r.URL.Path]:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	default:
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		if r.Method != http.MethodHead {
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
		}
	}
}
