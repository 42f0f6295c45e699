package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Weather    WeatherConfig    `yaml:"weather"`
	News       NewsConfig       `yaml:"news"`
	Horoscope  HoroscopeConfig  `yaml:"horoscope"`
	Briefing   BriefingConfig   `yaml:"briefing"`
	Onboarding OnboardingConfig `yaml:"onboarding"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Valkey     ValkeyConfig     `yaml:"valkey"`
	Archive    ArchiveConfig    `yaml:"archive"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	CORS            CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the per-client request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// AuthConfig controls token issuance.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
}

// UpstreamConfig applies to every third-party provider call.
type UpstreamConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
	Retry             RetryConfig   `yaml:"retry"`
}

// RetryConfig configures optional retries of transient provider failures.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
}

// WeatherConfig configures the OpenWeatherMap integration and aggregation.
type WeatherConfig struct {
	APIKey              string        `yaml:"apiKey"`
	BaseURL             string        `yaml:"baseUrl"`
	GeoBaseURL          string        `yaml:"geoBaseUrl"`
	Country             string        `yaml:"country"`
	Units               string        `yaml:"units"`
	Lang                string        `yaml:"lang"`
	UTCOffset           time.Duration `yaml:"utcOffset"`
	GeocodeCacheTTL     time.Duration `yaml:"geocodeCacheTtl"`
	ForecastCacheTTL    time.Duration `yaml:"forecastCacheTtl"`
	MajorityDescription bool          `yaml:"majorityDescription"`
}

// NewsConfig configures the NewsAPI integration.
type NewsConfig struct {
	APIKey   string        `yaml:"apiKey"`
	BaseURL  string        `yaml:"baseUrl"`
	Language string        `yaml:"language"`
	PageSize int           `yaml:"pageSize"`
	Window   time.Duration `yaml:"window"`
	SortBy   string        `yaml:"sortBy"`
}

// HoroscopeConfig configures the daily horoscope feed.
type HoroscopeConfig struct {
	BaseURL  string        `yaml:"baseUrl"`
	CacheTTL time.Duration `yaml:"cacheTtl"`
}

// BriefingConfig controls briefing assembly.
type BriefingConfig struct {
	DefaultRegion string `yaml:"defaultRegion"`
}

// OnboardingConfig controls onboarding sessions.
type OnboardingConfig struct {
	SessionTTL time.Duration `yaml:"sessionTtl"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for cache and session storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// ArchiveConfig points the raw payload archive at S3-compatible storage.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	setDuration("HTTP_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout)
	setBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	setInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	setInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)
	if v := os.Getenv("HTTP_CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}

	setString("AUTH_SECRET", &cfg.Auth.Secret)
	setDuration("AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL)
	setDuration("AUTH_REFRESH_TOKEN_TTL", &cfg.Auth.RefreshTokenTTL)

	setDuration("UPSTREAM_TIMEOUT", &cfg.Upstream.Timeout)
	if v := os.Getenv("UPSTREAM_REQUESTS_PER_SECOND"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Upstream.RequestsPerSecond = parsed
		}
	}
	setInt("UPSTREAM_BURST", &cfg.Upstream.Burst)
	setBool("UPSTREAM_RETRY_ENABLED", &cfg.Upstream.Retry.Enabled)
	setInt("UPSTREAM_RETRY_MAX_ATTEMPTS", &cfg.Upstream.Retry.MaxAttempts)
	setDuration("UPSTREAM_RETRY_BASE_BACKOFF", &cfg.Upstream.Retry.BaseBackoff)

	setString("OPENWEATHER_API_KEY", &cfg.Weather.APIKey)
	setString("WEATHER_BASE_URL", &cfg.Weather.BaseURL)
	setString("WEATHER_GEO_BASE_URL", &cfg.Weather.GeoBaseURL)
	setString("WEATHER_COUNTRY", &cfg.Weather.Country)
	setDuration("WEATHER_UTC_OFFSET", &cfg.Weather.UTCOffset)
	setDuration("WEATHER_GEOCODE_CACHE_TTL", &cfg.Weather.GeocodeCacheTTL)
	setDuration("WEATHER_FORECAST_CACHE_TTL", &cfg.Weather.ForecastCacheTTL)
	setBool("WEATHER_MAJORITY_DESCRIPTION", &cfg.Weather.MajorityDescription)

	setString("NEWS_API_KEY", &cfg.News.APIKey)
	setString("NEWS_BASE_URL", &cfg.News.BaseURL)
	setString("NEWS_LANGUAGE", &cfg.News.Language)
	setInt("NEWS_PAGE_SIZE", &cfg.News.PageSize)
	setDuration("NEWS_WINDOW", &cfg.News.Window)

	setString("HOROSCOPE_BASE_URL", &cfg.Horoscope.BaseURL)
	setDuration("HOROSCOPE_CACHE_TTL", &cfg.Horoscope.CacheTTL)

	setString("BRIEFING_DEFAULT_REGION", &cfg.Briefing.DefaultRegion)
	setDuration("ONBOARDING_SESSION_TTL", &cfg.Onboarding.SessionTTL)

	setString("POSTGRES_DSN", &cfg.Postgres.DSN)
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}

	setBool("VALKEY_ENABLED", &cfg.Valkey.Enabled)
	setString("VALKEY_ADDR", &cfg.Valkey.Addr)

	setBool("ARCHIVE_ENABLED", &cfg.Archive.Enabled)
	setString("ARCHIVE_ENDPOINT", &cfg.Archive.Endpoint)
	setString("ARCHIVE_ACCESS_KEY", &cfg.Archive.AccessKey)
	setString("ARCHIVE_SECRET_KEY", &cfg.Archive.SecretKey)
	setString("ARCHIVE_BUCKET", &cfg.Archive.Bucket)
	setString("ARCHIVE_REGION", &cfg.Archive.Region)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
			},
		},
		Auth: AuthConfig{
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Upstream: UpstreamConfig{
			Timeout:           8 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			Retry: RetryConfig{
				Enabled:     false,
				MaxAttempts: 3,
				BaseBackoff: 200 * time.Millisecond,
			},
		},
		Weather: WeatherConfig{
			BaseURL:          "https://api.openweathermap.org/data/2.5",
			GeoBaseURL:       "https://api.openweathermap.org/geo/1.0",
			Country:          "JP",
			Units:            "metric",
			Lang:             "ja",
			UTCOffset:        9 * time.Hour,
			GeocodeCacheTTL:  10 * time.Minute,
			ForecastCacheTTL: 5 * time.Minute,
		},
		News: NewsConfig{
			BaseURL:  "https://newsapi.org/v2",
			Language: "jp",
			PageSize: 5,
			Window:   48 * time.Hour,
			SortBy:   "popularity",
		},
		Horoscope: HoroscopeConfig{
			BaseURL:  "http://api.jugemkey.jp/api/horoscope/free",
			CacheTTL: time.Hour,
		},
		Briefing: BriefingConfig{
			DefaultRegion: "東京都",
		},
		Onboarding: OnboardingConfig{
			SessionTTL: 24 * time.Hour,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Valkey: ValkeyConfig{
			Prefix: "briefing",
		},
		Archive: ArchiveConfig{
			Bucket: "briefing-raw",
			Region: "auto",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Upstream.RequestsPerSecond < 0 {
		return errors.New("upstream.requestsPerSecond cannot be negative")
	}
	if c.Upstream.Retry.Enabled {
		if c.Upstream.Retry.MaxAttempts <= 0 {
			return errors.New("upstream.retry.maxAttempts must be positive")
		}
		if c.Upstream.Retry.BaseBackoff <= 0 {
			return errors.New("upstream.retry.baseBackoff must be positive")
		}
	}
	if c.Weather.UTCOffset <= -24*time.Hour || c.Weather.UTCOffset >= 24*time.Hour {
		return errors.New("weather.utcOffset must be within ±24h")
	}
	if c.Weather.GeocodeCacheTTL < 0 || c.Weather.ForecastCacheTTL < 0 || c.Horoscope.CacheTTL < 0 {
		return errors.New("cache ttls cannot be negative")
	}
	if strings.TrimSpace(c.Weather.Country) == "" {
		return errors.New("weather.country cannot be empty")
	}
	if c.News.PageSize <= 0 {
		return errors.New("news.pageSize must be positive")
	}
	if c.News.Window <= 0 {
		return errors.New("news.window must be positive")
	}
	if strings.TrimSpace(c.Briefing.DefaultRegion) == "" {
		return errors.New("briefing.defaultRegion cannot be empty")
	}
	if c.Onboarding.SessionTTL <= 0 {
		return errors.New("onboarding.sessionTtl must be positive")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Archive.Enabled && (strings.TrimSpace(c.Archive.Endpoint) == "" || strings.TrimSpace(c.Archive.Bucket) == "") {
		return errors.New("archive.endpoint and archive.bucket are required when the archive is enabled")
	}
	return nil
}

// Zone returns the fixed zone forecasts and dates are displayed in.
func (c *Config) Zone() *time.Location {
	offset := int(c.Weather.UTCOffset / time.Second)
	hours := offset / 3600
	name := "UTC"
	if offset != 0 {
		name = fmt.Sprintf("UTC%+d", hours)
		if rem := (offset % 3600) / 60; rem != 0 {
			name = fmt.Sprintf("UTC%+d:%02d", hours, abs(rem))
		}
	}
	return time.FixedZone(name, offset)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
