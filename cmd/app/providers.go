package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/daily-briefing/internal/domain/auth"
	"github.com/yanqian/daily-briefing/internal/domain/briefing"
	"github.com/yanqian/daily-briefing/internal/domain/horoscope"
	"github.com/yanqian/daily-briefing/internal/domain/news"
	"github.com/yanqian/daily-briefing/internal/domain/onboarding"
	"github.com/yanqian/daily-briefing/internal/domain/profile"
	"github.com/yanqian/daily-briefing/internal/domain/weather"
	"github.com/yanqian/daily-briefing/internal/infra/config"
	"github.com/yanqian/daily-briefing/internal/infra/jugemkey"
	"github.com/yanqian/daily-briefing/internal/infra/newsapi"
	"github.com/yanqian/daily-briefing/internal/infra/openweather"
	"github.com/yanqian/daily-briefing/internal/infra/pgdb"
	"github.com/yanqian/daily-briefing/internal/infra/profilerepo"
	"github.com/yanqian/daily-briefing/internal/infra/rawarchive"
	"github.com/yanqian/daily-briefing/internal/infra/respcache"
	"github.com/yanqian/daily-briefing/internal/infra/sessionstore"
	"github.com/yanqian/daily-briefing/internal/infra/upstream"
	"github.com/yanqian/daily-briefing/internal/infra/userrepo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{
		Location:            cfg.Zone(),
		MajorityDescription: cfg.Weather.MajorityDescription,
		Country:             cfg.Weather.Country,
		GeocodeTTL:          cfg.Weather.GeocodeCacheTTL,
		ForecastTTL:         cfg.Weather.ForecastCacheTTL,
	}
}

func provideHoroscopeConfig(cfg *config.Config) horoscope.Config {
	return horoscope.Config{
		Location: cfg.Zone(),
		CacheTTL: cfg.Horoscope.CacheTTL,
	}
}

func provideNewsConfig(cfg *config.Config) news.Config {
	return news.Config{
		Window:   cfg.News.Window,
		PageSize: cfg.News.PageSize,
		SortBy:   cfg.News.SortBy,
		Language: cfg.News.Language,
	}
}

func provideBriefingConfig(cfg *config.Config) briefing.Config {
	return briefing.Config{
		DefaultRegion: cfg.Briefing.DefaultRegion,
		Location:      cfg.Zone(),
	}
}

func provideOnboardingConfig(cfg *config.Config) onboarding.Config {
	return onboarding.Config{SessionTTL: cfg.Onboarding.SessionTTL}
}

// providePostgresPool returns nil when postgres is not configured or unreachable.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	if err := pgdb.EnsureSchema(ctx, pool); err != nil {
		logger.Error("postgres schema setup failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideAuthRepository(pool *pgxpool.Pool, logger *slog.Logger) auth.Repository {
	if pool == nil {
		logger.Warn("accounts are kept in memory and lost on restart")
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideProfileRepository(pool *pgxpool.Pool, logger *slog.Logger) profile.Repository {
	if pool == nil {
		logger.Warn("profiles are kept in memory and lost on restart")
		return profilerepo.NewMemoryRepository()
	}
	return profilerepo.NewPostgresRepository(pool)
}

// provideValkeyClient returns nil when valkey is disabled or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) valkey.Client {
	if !cfg.Valkey.Enabled {
		return nil
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return nil
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideResponseCache(cfg *config.Config, client valkey.Client, logger *slog.Logger) weather.Cache {
	if client == nil {
		return respcache.NewMemoryStore()
	}
	logger.Info("response cache backed by valkey")
	return respcache.NewValkeyStore(client, cfg.Valkey.Prefix)
}

func provideHoroscopeCache(cache weather.Cache) horoscope.Cache {
	return cache
}

func provideSessionStore(cfg *config.Config, client valkey.Client, logger *slog.Logger) onboarding.SessionStore {
	if client == nil {
		return sessionstore.NewMemoryStore()
	}
	logger.Info("onboarding sessions backed by valkey")
	return sessionstore.NewValkeyStore(client, cfg.Valkey.Prefix)
}

func provideArchive(cfg *config.Config, logger *slog.Logger) weather.Archive {
	if !cfg.Archive.Enabled {
		return rawarchive.NewMemoryArchive()
	}
	archive, err := rawarchive.NewS3Archive(rawarchive.Config{
		Endpoint:  cfg.Archive.Endpoint,
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
		Bucket:    cfg.Archive.Bucket,
		Region:    cfg.Archive.Region,
		Prefix:    cfg.Archive.Prefix,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize raw archive, using memory archive", "error", err)
		return rawarchive.NewMemoryArchive()
	}
	logger.Info("raw archive enabled", "bucket", cfg.Archive.Bucket)
	return archive
}

func upstreamConfig(cfg *config.Config, provider, apiKey, keyParam string) upstream.Config {
	return upstream.Config{
		Provider:          provider,
		APIKey:            apiKey,
		KeyParam:          keyParam,
		Timeout:           cfg.Upstream.Timeout,
		RequestsPerSecond: cfg.Upstream.RequestsPerSecond,
		Burst:             cfg.Upstream.Burst,
		Retry: upstream.RetryConfig{
			Enabled:     cfg.Upstream.Retry.Enabled,
			MaxAttempts: cfg.Upstream.Retry.MaxAttempts,
			BaseBackoff: cfg.Upstream.Retry.BaseBackoff,
		},
	}
}

func provideWeatherClient(cfg *config.Config, logger *slog.Logger) *openweather.Client {
	if strings.TrimSpace(cfg.Weather.APIKey) == "" {
		logger.Warn("OPENWEATHER_API_KEY not set, weather will report missing_credential")
	}
	fetcher := upstream.NewClient(upstreamConfig(cfg, "openweather", cfg.Weather.APIKey, "appid"), &http.Client{}, logger)
	return openweather.NewClient(openweather.Config{
		BaseURL:    cfg.Weather.BaseURL,
		GeoBaseURL: cfg.Weather.GeoBaseURL,
		Units:      cfg.Weather.Units,
		Lang:       cfg.Weather.Lang,
	}, fetcher)
}

func provideNewsClient(cfg *config.Config, logger *slog.Logger) *newsapi.Client {
	if strings.TrimSpace(cfg.News.APIKey) == "" {
		logger.Warn("NEWS_API_KEY not set, news will report missing_credential")
	}
	fetcher := upstream.NewClient(upstreamConfig(cfg, "newsapi", cfg.News.APIKey, "apiKey"), &http.Client{}, logger)
	return newsapi.NewClient(cfg.News.BaseURL, cfg.Zone(), fetcher)
}

func provideHoroscopeClient(cfg *config.Config, logger *slog.Logger) *jugemkey.Client {
	fetcher := upstream.NewClient(upstreamConfig(cfg, "jugemkey", "", ""), &http.Client{}, logger)
	return jugemkey.NewClient(cfg.Horoscope.BaseURL, fetcher)
}
