package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
	"github.com/yanqian/daily-briefing/pkg/metrics"
)

// Cache stores serialized responses for a bounded duration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Geocoder looks up coordinates for a city constrained to a country.
type Geocoder interface {
	Geocode(ctx context.Context, city, country string) ([]Place, error)
}

// Resolver maps a region name to a coordinate.
type Resolver interface {
	Resolve(ctx context.Context, region string) (Location, error)
}

type resolver struct {
	geocoder Geocoder
	cache    Cache
	country  string
	ttl      time.Duration
	logger   *slog.Logger
}

// NewResolver builds a caching Resolver.
func NewResolver(cfg Config, geocoder Geocoder, cache Cache, logger *slog.Logger) Resolver {
	country := strings.TrimSpace(cfg.Country)
	if country == "" {
		country = "JP"
	}
	return &resolver{
		geocoder: geocoder,
		cache:    cache,
		country:  country,
		ttl:      cfg.GeocodeTTL,
		logger:   logger.With("component", "weather.resolver"),
	}
}

func (r *resolver) Resolve(ctx context.Context, region string) (Location, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, "region cannot be empty", nil)
	}
	key := "geo:" + r.country + ":" + region
	if loc, ok := r.cached(ctx, key); ok {
		return loc, nil
	}

	city := LookupTerm(region)
	places, err := r.geocoder.Geocode(ctx, city, r.country)
	if err != nil {
		return Location{}, err
	}
	if len(places) == 0 {
		return Location{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("no geocoding result for %s (%s)", region, city), nil)
	}
	place := places[0]
	name := place.Name
	if name == "" {
		name = city
	}
	loc := Location{
		Region: region,
		Query:  city + "," + r.country,
		Name:   name,
		Lat:    place.Lat,
		Lon:    place.Lon,
	}
	r.store(ctx, key, loc)
	return loc, nil
}

func (r *resolver) cached(ctx context.Context, key string) (Location, bool) {
	if r.cache == nil || r.ttl <= 0 {
		return Location{}, false
	}
	payload, found, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("geocode cache read failed", "key", key, "error", err)
		return Location{}, false
	}
	metrics.RecordCacheLookup("geocode", found)
	if !found {
		return Location{}, false
	}
	var loc Location
	if err := json.Unmarshal(payload, &loc); err != nil {
		r.logger.Warn("geocode cache entry corrupt", "key", key, "error", err)
		return Location{}, false
	}
	return loc, true
}

func (r *resolver) store(ctx context.Context, key string, loc Location) {
	if r.cache == nil || r.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, payload, r.ttl); err != nil {
		r.logger.Warn("geocode cache write failed", "key", key, "error", err)
	}
}
