package horoscope

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
	"github.com/yanqian/daily-briefing/pkg/metrics"
)

// Entry is one sign's reading for a day.
type Entry struct {
	Sign    string `json:"sign"`
	Rank    int    `json:"rank"`
	Content string `json:"content"`
	Color   string `json:"color"`
	Item    string `json:"item"`
	Money   string `json:"money"`
	Job     string `json:"job"`
	Love    string `json:"love"`
	Total   string `json:"total"`
}

// Config wires runtime settings for the horoscope domain.
type Config struct {
	Location *time.Location
	CacheTTL time.Duration
}

// Client returns every sign's entry for a calendar date.
type Client interface {
	Daily(ctx context.Context, date time.Time) ([]Entry, error)
}

// Cache stores serialized responses for a bounded duration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Service exposes today's reading for a birth date.
type Service interface {
	Today(ctx context.Context, birthMonth, birthDay int) (Entry, error)
}

type service struct {
	cfg    Config
	client Client
	cache  Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the horoscope domain.
func NewService(cfg Config, client Client, cache Cache, logger *slog.Logger) Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &service{
		cfg:    cfg,
		client: client,
		cache:  cache,
		logger: logger.With("component", "horoscope.service"),
		now:    time.Now,
	}
}

func (s *service) Today(ctx context.Context, birthMonth, birthDay int) (Entry, error) {
	sign, ok := Sign(birthMonth, birthDay)
	if !ok {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("invalid birth date %d/%d", birthMonth, birthDay), nil)
	}
	today := s.now().In(s.cfg.Location)
	entries, err := s.daily(ctx, today)
	if err != nil {
		return Entry{}, err
	}
	for _, entry := range entries {
		if entry.Sign == sign {
			return entry, nil
		}
	}
	return Entry{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("no horoscope for %s on %s", sign, today.Format("2006/01/02")), nil)
}

func (s *service) daily(ctx context.Context, date time.Time) ([]Entry, error) {
	key := "horoscope:" + date.Format("2006-01-02")
	if s.cache != nil && s.cfg.CacheTTL > 0 {
		payload, found, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("horoscope cache read failed", "key", key, "error", err)
		case found:
			var entries []Entry
			if err := json.Unmarshal(payload, &entries); err == nil {
				metrics.RecordCacheLookup("horoscope", true)
				return entries, nil
			}
		}
		metrics.RecordCacheLookup("horoscope", false)
	}

	entries, err := s.client.Daily(ctx, date)
	if err != nil {
		return nil, err
	}
	s.logger.Info("horoscope fetched", "date", date.Format("2006-01-02"), "entries", len(entries))
	if s.cache != nil && s.cfg.CacheTTL > 0 && len(entries) > 0 {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cfg.CacheTTL); err != nil {
				s.logger.Warn("horoscope cache write failed", "key", key, "error", err)
			}
		}
	}
	return entries, nil
}
