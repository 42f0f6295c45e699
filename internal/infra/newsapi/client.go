package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/daily-briefing/internal/domain/news"
	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

const (
	defaultBaseURL = "https://newsapi.org/v2"
	timeLayout     = "2006-01-02T15:04:05"
)

// Fetcher performs keyed GET requests against the provider.
type Fetcher interface {
	GetJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// Client searches NewsAPI's everything endpoint.
type Client struct {
	fetcher Fetcher
	baseURL string
	zone    *time.Location
}

// NewClient builds an API client. Window bounds are sent in zone.
func NewClient(baseURL string, zone *time.Location, fetcher Fetcher) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if zone == nil {
		zone = time.UTC
	}
	return &Client{fetcher: fetcher, baseURL: strings.TrimRight(base, "/"), zone: zone}
}

// Search implements news.Client.
func (c *Client) Search(ctx context.Context, q news.Query) ([]news.Article, error) {
	params := url.Values{}
	params.Set("q", q.Keywords)
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if !q.From.IsZero() {
		params.Set("from", q.From.In(c.zone).Format(timeLayout))
	}
	if !q.To.IsZero() {
		params.Set("to", q.To.In(c.zone).Format(timeLayout))
	}
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	body, err := c.fetcher.GetJSON(ctx, c.baseURL+"/everything", params)
	if err != nil {
		return nil, err
	}
	var raw searchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	if raw.Status == "error" {
		return nil, apperrors.Upstream("newsapi", http.StatusOK, raw.Code+": "+raw.Message)
	}

	articles := make([]news.Article, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		// an unparseable publish time stays zero and is shown without an age
		var published time.Time
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			published = t
		}
		articles = append(articles, news.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Source:      a.Source.Name,
			PublishedAt: published,
		})
	}
	return articles, nil
}

type searchResponse struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}
