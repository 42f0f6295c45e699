package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
	"github.com/yanqian/daily-briefing/pkg/metrics"
)

// Service exposes regional weather outlooks.
type Service interface {
	Outlook(ctx context.Context, region string) (Outlook, error)
	Raw(ctx context.Context, region string) (RawSnapshot, error)
}

// Provider fetches observations and forecasts for a coordinate.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (CurrentConditions, error)
	Forecast(ctx context.Context, lat, lon float64) (Forecast, error)
}

// Archive keeps the last raw payloads fetched per region.
type Archive interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

type service struct {
	cfg        Config
	resolver   Resolver
	provider   Provider
	cache      Cache
	archive    Archive
	aggregator *Aggregator
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires up the weather domain.
func NewService(cfg Config, resolver Resolver, provider Provider, cache Cache, archive Archive, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		resolver:   resolver,
		provider:   provider,
		cache:      cache,
		archive:    archive,
		aggregator: NewAggregator(cfg.Location, cfg.MajorityDescription),
		logger:     logger.With("component", "weather.service"),
		now:        time.Now,
	}
}

func (s *service) Outlook(ctx context.Context, region string) (Outlook, error) {
	loc, err := s.resolver.Resolve(ctx, region)
	if err != nil {
		return Outlook{}, err
	}

	var (
		current       CurrentConditions
		forecast      Forecast
		freshCurrent  bool
		freshForecast bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var fetchErr error
		current, freshCurrent, fetchErr = s.current(gctx, loc)
		return fetchErr
	})
	g.Go(func() error {
		var fetchErr error
		forecast, freshForecast, fetchErr = s.forecast(gctx, loc)
		return fetchErr
	})
	if err := g.Wait(); err != nil {
		return Outlook{}, err
	}

	if freshCurrent {
		s.archiveRaw(ctx, rawKey(loc.Region, "current"), current.Raw)
	}
	if freshForecast {
		s.archiveRaw(ctx, rawKey(loc.Region, "forecast"), forecast.Raw)
	}

	daily := s.aggregator.Aggregate(forecast.Intervals)
	s.logger.Info("weather outlook assembled", "region", loc.Region, "intervals", len(forecast.Intervals), "days", len(daily))
	return Outlook{
		Location:  loc,
		Current:   current,
		Daily:     daily,
		FetchedAt: s.now(),
	}, nil
}

func (s *service) Raw(ctx context.Context, region string) (RawSnapshot, error) {
	if s.archive == nil {
		return RawSnapshot{}, apperrors.Wrap(apperrors.CodeNotFound, "raw archive disabled", nil)
	}
	snapshot := RawSnapshot{Region: region}
	for kind, dst := range map[string]*json.RawMessage{"current": &snapshot.Current, "forecast": &snapshot.Forecast} {
		data, found, err := s.archive.Get(ctx, rawKey(region, kind))
		if err != nil {
			return RawSnapshot{}, fmt.Errorf("read raw %s payload: %w", kind, err)
		}
		if found {
			*dst = json.RawMessage(data)
		}
	}
	if snapshot.Current == nil && snapshot.Forecast == nil {
		return RawSnapshot{}, apperrors.Wrap(apperrors.CodeNotFound, "no raw payload archived for "+region, nil)
	}
	return snapshot, nil
}

func (s *service) current(ctx context.Context, loc Location) (CurrentConditions, bool, error) {
	key := coordinateKey("current", loc)
	var cached cachedCurrent
	if s.readCache(ctx, "current", key, &cached) {
		current := cached.Conditions
		current.Raw = cached.Raw
		return current, false, nil
	}
	current, err := s.provider.Current(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return CurrentConditions{}, false, err
	}
	s.writeCache(ctx, key, cachedCurrent{Conditions: current, Raw: current.Raw})
	return current, true, nil
}

func (s *service) forecast(ctx context.Context, loc Location) (Forecast, bool, error) {
	key := coordinateKey("forecast", loc)
	var cached Forecast
	if s.readCache(ctx, "forecast", key, &cached) {
		return cached, false, nil
	}
	forecast, err := s.provider.Forecast(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return Forecast{}, false, err
	}
	s.writeCache(ctx, key, forecast)
	return forecast, true, nil
}

// cachedCurrent keeps the raw payload that CurrentConditions hides from JSON.
type cachedCurrent struct {
	Conditions CurrentConditions `json:"conditions"`
	Raw        json.RawMessage   `json:"raw,omitempty"`
}

func (s *service) readCache(ctx context.Context, name, key string, dst any) bool {
	if s.cache == nil || s.cfg.ForecastTTL <= 0 {
		return false
	}
	payload, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("weather cache read failed", "key", key, "error", err)
		return false
	}
	metrics.RecordCacheLookup(name, found)
	if !found {
		return false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		s.logger.Warn("weather cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil || s.cfg.ForecastTTL <= 0 {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cfg.ForecastTTL); err != nil {
		s.logger.Warn("weather cache write failed", "key", key, "error", err)
	}
}

func (s *service) archiveRaw(ctx context.Context, key string, raw json.RawMessage) {
	if s.archive == nil || len(raw) == 0 {
		return
	}
	if err := s.archive.Put(ctx, key, raw); err != nil {
		s.logger.Warn("raw payload archive failed", "key", key, "error", err)
	}
}

func coordinateKey(kind string, loc Location) string {
	return fmt.Sprintf("wx:%s:%.4f,%.4f", kind, loc.Lat, loc.Lon)
}

func rawKey(region, kind string) string {
	return fmt.Sprintf("raw/%s/%s.json", region, kind)
}
