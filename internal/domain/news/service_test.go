package news

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	require.Equal(t, "テクノロジー OR 経済 OR テクノロジー", BuildQuery([]string{"テクノロジー", " 経済 ", "", "テクノロジー"}))
	require.Equal(t, "科学", BuildQuery([]string{"科学"}))
	require.Empty(t, BuildQuery(nil))
}

func TestHoursSince(t *testing.T) {
	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 2, HoursSince(now, now.Add(-2*time.Hour-59*time.Minute)))
	require.Equal(t, 0, HoursSince(now, now.Add(-59*time.Minute)))
	require.Equal(t, -1, HoursSince(now, now.Add(30*time.Minute)))
}

func TestRecommendBuildsWindowedQuery(t *testing.T) {
	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	client := &stubClient{articles: []Article{
		{Title: "A", URL: "https://example.com/a", PublishedAt: now.Add(-5 * time.Hour)},
		{Title: "B", URL: "https://example.com/b", PublishedAt: now.Add(-90 * time.Minute)},
		{Title: "C", URL: "https://example.com/c"},
	}}
	svc := &service{
		cfg:    Config{Window: 48 * time.Hour, PageSize: 5, SortBy: "popularity", Language: "jp"},
		client: client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return now },
	}

	items, err := svc.Recommend(context.Background(), []string{"スポーツ", "政治"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, 5, *items[0].HoursAgo)
	require.Equal(t, 1, *items[1].HoursAgo)
	require.Nil(t, items[2].HoursAgo)

	require.Equal(t, "スポーツ OR 政治", client.last.Keywords)
	require.Equal(t, now.Add(-48*time.Hour), client.last.From)
	require.Equal(t, now, client.last.To)
	require.Equal(t, "popularity", client.last.SortBy)
	require.Equal(t, 5, client.last.PageSize)
	require.Equal(t, "jp", client.last.Language)
}

func TestRecommendWithoutCategoriesSkipsProvider(t *testing.T) {
	client := &stubClient{}
	svc := NewService(Config{}, client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	items, err := svc.Recommend(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, items)
	require.Zero(t, client.calls)
}

type stubClient struct {
	articles []Article
	last     Query
	calls    int
}

func (s *stubClient) Search(_ context.Context, q Query) ([]Article, error) {
	s.calls++
	s.last = q
	return s.articles, nil
}
