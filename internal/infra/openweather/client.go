package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/daily-briefing/internal/domain/weather"
)

const (
	defaultBaseURL    = "https://api.openweathermap.org/data/2.5"
	defaultGeoBaseURL = "https://api.openweathermap.org/geo/1.0"
)

// Fetcher performs keyed GET requests against the provider.
type Fetcher interface {
	GetJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// Config selects endpoints and display options.
type Config struct {
	BaseURL    string
	GeoBaseURL string
	Units      string
	Lang       string
}

// Client talks to the OpenWeatherMap geocoding, current and forecast APIs.
type Client struct {
	fetcher    Fetcher
	baseURL    string
	geoBaseURL string
	units      string
	lang       string
}

// NewClient builds an API client.
func NewClient(cfg Config, fetcher Fetcher) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	geoBaseURL := strings.TrimSpace(cfg.GeoBaseURL)
	if geoBaseURL == "" {
		geoBaseURL = defaultGeoBaseURL
	}
	units := cfg.Units
	if units == "" {
		units = "metric"
	}
	lang := cfg.Lang
	if lang == "" {
		lang = "ja"
	}
	return &Client{
		fetcher:    fetcher,
		baseURL:    strings.TrimRight(baseURL, "/"),
		geoBaseURL: strings.TrimRight(geoBaseURL, "/"),
		units:      units,
		lang:       lang,
	}
}

// Geocode resolves "city,country" to at most one place.
func (c *Client) Geocode(ctx context.Context, city, country string) ([]weather.Place, error) {
	params := url.Values{}
	params.Set("q", city+","+country)
	params.Set("limit", "1")
	body, err := c.fetcher.GetJSON(ctx, c.geoBaseURL+"/direct", params)
	if err != nil {
		return nil, err
	}
	var raw []geoResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	places := make([]weather.Place, 0, len(raw))
	for _, r := range raw {
		places = append(places, weather.Place{Name: r.Name, Lat: r.Lat, Lon: r.Lon, Country: r.Country})
	}
	return places, nil
}

// Current fetches the instantaneous conditions at a coordinate.
func (c *Client) Current(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error) {
	body, err := c.fetcher.GetJSON(ctx, c.baseURL+"/weather", c.coordinateParams(lat, lon))
	if err != nil {
		return weather.CurrentConditions{}, err
	}
	var raw currentResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("decode current weather response: %w", err)
	}
	current := weather.CurrentConditions{
		Temp:      raw.Main.Temp,
		FeelsLike: raw.Main.FeelsLike,
		Humidity:  raw.Main.Humidity,
		WindSpeed: raw.Wind.Speed,
		Raw:       json.RawMessage(body),
	}
	if raw.Dt > 0 {
		current.ObservedAt = time.Unix(raw.Dt, 0).UTC()
	}
	if len(raw.Weather) > 0 {
		current.Description = raw.Weather[0].Description
		current.Icon = weather.ClassifyIcon(weather.NormalizeDescription(raw.Weather[0].Description))
	} else {
		current.Icon = weather.DefaultIcon
	}
	return current, nil
}

// Forecast fetches the 5 day / 3 hour forecast at a coordinate.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (weather.Forecast, error) {
	body, err := c.fetcher.GetJSON(ctx, c.baseURL+"/forecast", c.coordinateParams(lat, lon))
	if err != nil {
		return weather.Forecast{}, err
	}
	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return weather.Forecast{}, fmt.Errorf("decode forecast response: %w", err)
	}
	return weather.Forecast{
		Intervals: normalizeIntervals(raw.List),
		Raw:       json.RawMessage(body),
	}, nil
}

func (c *Client) coordinateParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", c.units)
	params.Set("lang", c.lang)
	return params
}

type geoResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type windBlock struct {
	Speed float64 `json:"speed"`
}

type weatherEntry struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type precipitation struct {
	ThreeHours float64 `json:"3h"`
}

type currentResponse struct {
	Dt      int64          `json:"dt"`
	Main    mainBlock      `json:"main"`
	Wind    windBlock      `json:"wind"`
	Weather []weatherEntry `json:"weather"`
}

type forecastItem struct {
	Dt      int64          `json:"dt"`
	Main    mainBlock      `json:"main"`
	Pop     float64        `json:"pop"`
	Wind    windBlock      `json:"wind"`
	Weather []weatherEntry `json:"weather"`
	Rain    *precipitation `json:"rain"`
	Snow    *precipitation `json:"snow"`
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

func normalizeIntervals(items []forecastItem) []weather.IntervalRecord {
	out := make([]weather.IntervalRecord, 0, len(items))
	for _, item := range items {
		record := weather.IntervalRecord{
			Timestamp: item.Dt,
			Temp:      item.Main.Temp,
			Pop:       item.Pop,
			WindSpeed: item.Wind.Speed,
		}
		// only the first description entry of an interval is representative
		if len(item.Weather) > 0 {
			w := item.Weather[0]
			record.Conditions = []weather.Condition{{Main: w.Main, Description: w.Description, Icon: w.Icon}}
		}
		if item.Rain != nil {
			record.Rain = item.Rain.ThreeHours
		}
		if item.Snow != nil {
			record.Snow = item.Snow.ThreeHours
		}
		out = append(out, record)
	}
	return out
}
