package jugemkey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/daily-briefing/internal/domain/horoscope"
)

const (
	defaultBaseURL = "http://api.jugemkey.jp/api/horoscope/free"
	maxStars       = 5
)

// Fetcher performs GET requests against the provider.
type Fetcher interface {
	GetJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// Client reads the free daily horoscope feed.
type Client struct {
	fetcher Fetcher
	baseURL string
}

// NewClient builds an API client.
func NewClient(baseURL string, fetcher Fetcher) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{fetcher: fetcher, baseURL: strings.TrimRight(base, "/")}
}

// Daily implements horoscope.Client.
func (c *Client) Daily(ctx context.Context, date time.Time) ([]horoscope.Entry, error) {
	key := date.Format("2006/01/02")
	body, err := c.fetcher.GetJSON(ctx, c.baseURL+"/"+key, nil)
	if err != nil {
		return nil, err
	}
	var raw feed
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode horoscope response: %w", err)
	}
	items, ok := raw.Horoscope[key]
	if !ok {
		return nil, fmt.Errorf("horoscope response has no entries for %s", key)
	}
	entries := make([]horoscope.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, horoscope.Entry{
			Sign:    item.Sign,
			Rank:    item.Rank,
			Content: item.Content,
			Color:   item.Color,
			Item:    item.Item,
			Money:   item.Money.String(),
			Job:     item.Job.String(),
			Love:    item.Love.String(),
			Total:   item.Total.String(),
		})
	}
	return entries, nil
}

type feed struct {
	Horoscope map[string][]feedEntry `json:"horoscope"`
}

type feedEntry struct {
	Sign    string `json:"sign"`
	Rank    int    `json:"rank"`
	Content string `json:"content"`
	Color   string `json:"color"`
	Item    string `json:"item"`
	Money   rating `json:"money"`
	Job     rating `json:"job"`
	Love    rating `json:"love"`
	Total   rating `json:"total"`
}

// rating accepts a number or a string; numbers render as stars.
type rating string

func (r *rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = rating(s)
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse rating %s: %w", data, err)
	}
	*r = rating(Stars(int(n)))
	return nil
}

func (r rating) String() string {
	return string(r)
}

// Stars renders a 0-5 score as filled and empty stars.
func Stars(score int) string {
	if score < 0 {
		score = 0
	}
	if score > maxStars {
		score = maxStars
	}
	return strings.Repeat("★", score) + strings.Repeat("☆", maxStars-score)
}
