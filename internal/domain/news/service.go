package news

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"
)

// Article is a search hit returned by the news provider.
type Article struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	Source      string
	PublishedAt time.Time
}

// Item is an article prepared for display.
type Item struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
	// HoursAgo is nil when the publish time is unknown.
	HoursAgo *int `json:"hoursAgo,omitempty"`
}

// Query is a keyword search over a time window.
type Query struct {
	Keywords string
	From     time.Time
	To       time.Time
	SortBy   string
	PageSize int
	Language string
}

// Config wires runtime settings for the news domain.
type Config struct {
	Window   time.Duration
	PageSize int
	SortBy   string
	Language string
}

// Client searches the news provider.
type Client interface {
	Search(ctx context.Context, q Query) ([]Article, error)
}

// Service exposes interest-based news lookups.
type Service interface {
	Recommend(ctx context.Context, categories []string) ([]Item, error)
}

type service struct {
	cfg    Config
	client Client
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the news domain.
func NewService(cfg Config, client Client, logger *slog.Logger) Service {
	if cfg.Window <= 0 {
		cfg.Window = 48 * time.Hour
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.SortBy == "" {
		cfg.SortBy = "popularity"
	}
	return &service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "news.service"),
		now:    time.Now,
	}
}

func (s *service) Recommend(ctx context.Context, categories []string) ([]Item, error) {
	keywords := BuildQuery(categories)
	if keywords == "" {
		return []Item{}, nil
	}
	now := s.now()
	articles, err := s.client.Search(ctx, Query{
		Keywords: keywords,
		From:     now.Add(-s.cfg.Window),
		To:       now,
		SortBy:   s.cfg.SortBy,
		PageSize: s.cfg.PageSize,
		Language: s.cfg.Language,
	})
	if err != nil {
		return nil, err
	}
	if len(articles) > s.cfg.PageSize {
		articles = articles[:s.cfg.PageSize]
	}
	items := make([]Item, 0, len(articles))
	for _, a := range articles {
		var hoursAgo *int
		if !a.PublishedAt.IsZero() {
			h := HoursSince(now, a.PublishedAt)
			hoursAgo = &h
		}
		items = append(items, Item{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.ImageURL,
			Source:      a.Source,
			PublishedAt: a.PublishedAt,
			HoursAgo:    hoursAgo,
		})
	}
	s.logger.Info("news fetched", "query", keywords, "articles", len(items))
	return items, nil
}

// BuildQuery joins interest categories into an OR query, skipping blanks.
func BuildQuery(categories []string) string {
	terms := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			terms = append(terms, c)
		}
	}
	return strings.Join(terms, " OR ")
}

// HoursSince returns whole hours elapsed from published to now, floored.
func HoursSince(now, published time.Time) int {
	return int(math.Floor(now.Sub(published).Hours()))
}
