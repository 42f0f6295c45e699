package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/daily-briefing/internal/infra/upstream"
	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

const forecastFixture = `{
  "cod": "200",
  "list": [
    {"dt": 1735743600, "main": {"temp": 5.2}, "pop": 0.1, "wind": {"speed": 2.0},
     "weather": [{"main": "Clear", "description": "晴天", "icon": "01n"}]},
    {"dt": 1735754400, "main": {"temp": 3.9}, "pop": 0.4, "wind": {"speed": 4.0},
     "weather": [{"main": "Rain", "description": "小雨", "icon": "10n"}], "rain": {"3h": 1.25}},
    {"dt": 1735765200, "main": {"temp": 1.0}, "wind": {"speed": 1.0},
     "weather": [], "snow": {"3h": 0.5}}
  ]
}`

func TestClientEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/direct", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Osaka,JP", r.URL.Query().Get("q"))
		require.Equal(t, "1", r.URL.Query().Get("limit"))
		require.Equal(t, "key", r.URL.Query().Get("appid"))
		_, _ = w.Write([]byte(`[{"name":"Osaka","lat":34.69,"lon":135.5,"country":"JP"}]`))
	})
	mux.HandleFunc("/data/weather", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "34.69", r.URL.Query().Get("lat"))
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		require.Equal(t, "ja", r.URL.Query().Get("lang"))
		_, _ = w.Write([]byte(`{"dt":1735743600,"main":{"temp":6.5,"feels_like":4.1,"humidity":55},"wind":{"speed":3.3},"weather":[{"description":"曇りがち"}]}`))
	})
	mux.HandleFunc("/data/forecast", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "135.5", r.URL.Query().Get("lon"))
		_, _ = w.Write([]byte(forecastFixture))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newClientUnderTest(srv, "key")
	ctx := context.Background()

	places, err := client.Geocode(ctx, "Osaka", "JP")
	require.NoError(t, err)
	require.Len(t, places, 1)
	require.Equal(t, "Osaka", places[0].Name)

	current, err := client.Current(ctx, 34.69, 135.5)
	require.NoError(t, err)
	require.Equal(t, "曇りがち", current.Description)
	require.Equal(t, "☁️", current.Icon)
	require.Equal(t, 55, current.Humidity)
	require.Equal(t, time.Unix(1735743600, 0).UTC(), current.ObservedAt)
	require.NotEmpty(t, current.Raw)

	forecast, err := client.Forecast(ctx, 34.69, 135.5)
	require.NoError(t, err)
	require.Len(t, forecast.Intervals, 3)
	require.Equal(t, "晴天", forecast.Intervals[0].Conditions[0].Description)
	require.Equal(t, 1.25, forecast.Intervals[1].Rain)
	require.Zero(t, forecast.Intervals[0].Rain)
	require.Empty(t, forecast.Intervals[2].Conditions)
	require.Equal(t, 0.5, forecast.Intervals[2].Snow)
	require.JSONEq(t, forecastFixture, string(forecast.Raw))
}

func TestClientPropagatesUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := newClientUnderTest(srv, "bad").Forecast(context.Background(), 1, 2)
	upstreamErr, ok := apperrors.AsUpstream(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, upstreamErr.Status)
	require.Contains(t, upstreamErr.Body, "Invalid API key")
}

func TestClientRequiresKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newClientUnderTest(srv, "").Geocode(context.Background(), "Tokyo", "JP")
	require.True(t, apperrors.IsCode(err, apperrors.CodeMissingCredential))
}

func newClientUnderTest(srv *httptest.Server, key string) *Client {
	fetcher := upstream.NewClient(upstream.Config{
		Provider: "openweather",
		APIKey:   key,
		KeyParam: "appid",
	}, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewClient(Config{BaseURL: srv.URL + "/data", GeoBaseURL: srv.URL + "/geo"}, fetcher)
}
