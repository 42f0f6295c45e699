package upstream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

func TestGetJSONAddsKeyAndReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.URL.Query().Get("appid"))
		require.Equal(t, "Tokyo,JP", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient(Config{Provider: "openweather", APIKey: "secret", KeyParam: "appid"}, srv.Client(), newTestLogger())
	body, err := client.GetJSON(context.Background(), srv.URL, url.Values{"q": {"Tokyo,JP"}})
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(body))
}

func TestGetJSONMissingCredential(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	client := NewClient(Config{Provider: "newsapi", KeyParam: "apiKey"}, srv.Client(), newTestLogger())
	_, err := client.GetJSON(context.Background(), srv.URL, nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeMissingCredential))
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestGetJSONUpstreamErrorTruncatesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(strings.Repeat("x", 10<<10)))
	}))
	defer srv.Close()

	client := NewClient(Config{Provider: "jugemkey"}, srv.Client(), newTestLogger())
	_, err := client.GetJSON(context.Background(), srv.URL, nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
	upstream, ok := apperrors.AsUpstream(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, upstream.Status)
	require.Equal(t, "jugemkey", upstream.Provider)
	require.Len(t, upstream.Body, maxErrorBody)
}

func TestGetJSONTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(Config{Provider: "jugemkey", Timeout: 50 * time.Millisecond}, srv.Client(), newTestLogger())
	_, err := client.GetJSON(context.Background(), srv.URL, nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNetwork))
}

func TestGetJSONDoesNotRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(Config{Provider: "newsapi"}, srv.Client(), newTestLogger())
	_, err := client.GetJSON(context.Background(), srv.URL, nil)
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetJSONRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(Config{
		Provider: "newsapi",
		Retry:    RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond},
	}, srv.Client(), newTestLogger())
	body, err := client.GetJSON(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	require.Equal(t, "[]", string(body))
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Config{
		Provider: "openweather",
		Retry:    RetryConfig{Enabled: true, MaxAttempts: 5, BaseBackoff: time.Millisecond},
	}, srv.Client(), newTestLogger())
	_, err := client.GetJSON(context.Background(), srv.URL, nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
