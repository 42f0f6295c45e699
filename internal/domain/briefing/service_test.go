package briefing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/daily-briefing/internal/domain/horoscope"
	"github.com/yanqian/daily-briefing/internal/domain/news"
	"github.com/yanqian/daily-briefing/internal/domain/profile"
	"github.com/yanqian/daily-briefing/internal/domain/weather"
	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

func TestAssembleRendersAllSections(t *testing.T) {
	month, day := 3, 25
	home := "大阪府"
	deps := newDeps(profile.Profile{UserID: 1, BirthMonth: &month, BirthDay: &day, HomeRegion: &home, Categories: []string{"経済"}})
	svc := deps.service()

	out, err := svc.Assemble(context.Background(), 1, 1, "")
	require.NoError(t, err)

	require.Equal(t, "明日", out.Label)
	require.Equal(t, "2025-01-03 (Fri)", out.DateLabel)
	require.Equal(t, "大阪府", out.Region)
	require.Equal(t, "home", out.RegionKind)
	require.False(t, out.RegionDefaulted)

	require.Equal(t, StatusOK, out.Weather.Status)
	require.Equal(t, "大阪府", deps.weather.region)
	require.Equal(t, "雨", out.Weather.Day.Description)
	require.Equal(t, "🌧️", out.Weather.Day.Icon)
	require.Equal(t, "60%", out.Weather.Day.PrecipitationPercent)

	require.Equal(t, StatusOK, out.Horoscope.Status)
	require.Equal(t, [2]int{3, 25}, deps.horoscope.asked)

	require.Equal(t, StatusOK, out.News.Status)
	require.Len(t, out.News.Items, 1)
	require.Equal(t, []string{"経済"}, deps.news.categories)
}

func TestAssembleIsolatesSectionFailures(t *testing.T) {
	work := "福岡県"
	deps := newDeps(profile.Profile{UserID: 1, WorkRegion: &work, Categories: []string{"科学"}})
	deps.news.err = apperrors.Upstream("newsapi", 500, "boom")
	svc := deps.service()

	out, err := svc.Assemble(context.Background(), 1, 0, "work")
	require.NoError(t, err)

	require.Equal(t, StatusOK, out.Weather.Status)
	require.Equal(t, "福岡県", deps.weather.region)

	require.Equal(t, StatusUnavailable, out.Horoscope.Status)
	require.Equal(t, CodeProfileIncomplete, out.Horoscope.Error.Code)
	require.False(t, deps.horoscope.called)

	require.Equal(t, StatusUnavailable, out.News.Status)
	require.Equal(t, apperrors.CodeUpstream, out.News.Error.Code)
	require.Contains(t, out.News.Error.Message, "news unavailable")
	require.Contains(t, out.News.Error.Message, "status 500")
	require.NotNil(t, out.News.Items)
}

func TestAssembleFallsBackToDefaultRegion(t *testing.T) {
	deps := newDeps(profile.Profile{UserID: 1})
	svc := deps.service()

	out, err := svc.Assemble(context.Background(), 1, 0, "work")
	require.NoError(t, err)
	require.True(t, out.RegionDefaulted)
	require.Equal(t, "東京都", out.Region)
	require.Equal(t, "東京都", deps.weather.region)
	require.Empty(t, out.Categories)
}

func TestAssembleReportsInsufficientForecast(t *testing.T) {
	deps := newDeps(profile.Profile{UserID: 1})
	deps.weather.outlook.Daily = deps.weather.outlook.Daily[:2]
	svc := deps.service()

	for _, day := range []int{0, 1, 2} {
		out, err := svc.Assemble(context.Background(), 1, day, "home")
		require.NoError(t, err)
		require.Equal(t, StatusUnavailable, out.Weather.Status)
		require.Equal(t, apperrors.CodeInsufficientForecastData, out.Weather.Error.Code)
		require.Nil(t, out.Weather.Day)
		require.NotNil(t, out.Weather.Location)
	}
}

func TestAssembleDateLabelFollowsForecast(t *testing.T) {
	deps := newDeps(profile.Profile{UserID: 1})
	zone := time.FixedZone("UTC+9", 9*3600)
	start := time.Date(2025, 1, 3, 0, 0, 0, 0, zone)
	for i := range deps.weather.outlook.Daily {
		deps.weather.outlook.Daily[i].Date = start.AddDate(0, 0, i)
	}
	svc := deps.service()
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 1, 0, 0, 0, zone) }

	out, err := svc.Assemble(context.Background(), 1, 0, "home")
	require.NoError(t, err)
	require.Equal(t, "2025-01-03 (Fri)", out.Weather.Day.DateLabel)
	require.Equal(t, out.Weather.Day.DateLabel, out.DateLabel)

	deps.weather.err = errors.New("dial tcp: refused")
	out, err = svc.Assemble(context.Background(), 1, 0, "home")
	require.NoError(t, err)
	require.Equal(t, "2025-01-02 (Thu)", out.DateLabel)
}

func TestAssembleRejectsBadRequests(t *testing.T) {
	deps := newDeps(profile.Profile{UserID: 1})
	svc := deps.service()

	_, err := svc.Assemble(context.Background(), 1, 3, "home")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Assemble(context.Background(), 1, 0, "office")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	deps.profiles.missing = true
	_, err = svc.Assemble(context.Background(), 1, 0, "home")
	require.True(t, apperrors.IsCode(err, "profile_not_found"))
}

func TestSectionErrorWithoutCode(t *testing.T) {
	deps := newDeps(profile.Profile{UserID: 1})
	deps.weather.err = errors.New("dial tcp: refused")
	svc := deps.service()

	out, err := svc.Assemble(context.Background(), 1, 0, "home")
	require.NoError(t, err)
	require.Equal(t, "internal_error", out.Weather.Error.Code)
	require.Equal(t, "weather unavailable: dial tcp: refused", out.Weather.Error.Message)
}

type deps struct {
	profiles  *stubProfiles
	weather   *stubWeather
	horoscope *stubHoroscope
	news      *stubNews
}

func newDeps(p profile.Profile) *deps {
	zone := time.FixedZone("UTC+9", 9*3600)
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, zone)
	return &deps{
		profiles: &stubProfiles{profile: p},
		weather: &stubWeather{outlook: weather.Outlook{
			Location: weather.Location{Region: "x", Name: "Osaka"},
			Daily: []weather.DailySummary{
				{Date: base, TempMax: 10, TempMin: 2, Pop: 0.1, Condition: weather.Condition{Description: "晴天"}},
				{Date: base.AddDate(0, 0, 1), TempMax: 8, TempMin: 4, Pop: 0.6, Condition: weather.Condition{Description: "雨"}},
				{Date: base.AddDate(0, 0, 2), TempMax: 9, TempMin: 3, Pop: 0.2, Condition: weather.Condition{Description: "曇り"}},
			},
		}},
		horoscope: &stubHoroscope{},
		news:      &stubNews{items: []news.Item{{Title: "headline"}}},
	}
}

func (d *deps) service() *service {
	return &service{
		cfg:       Config{DefaultRegion: "東京都", Location: time.FixedZone("UTC+9", 9*3600)},
		profiles:  d.profiles,
		weather:   d.weather,
		horoscope: d.horoscope,
		news:      d.news,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       func() time.Time { return time.Date(2025, 1, 1, 16, 0, 0, 0, time.UTC) },
	}
}

type stubProfiles struct {
	profile profile.Profile
	missing bool
}

func (s *stubProfiles) Get(_ context.Context, _ int64) (profile.Profile, error) {
	if s.missing {
		return profile.Profile{}, apperrors.Wrap("profile_not_found", "profile not found", nil)
	}
	return s.profile, nil
}

func (s *stubProfiles) Save(_ context.Context, p profile.Profile) (profile.Profile, error) {
	return p, nil
}

type stubWeather struct {
	mu      sync.Mutex
	outlook weather.Outlook
	err     error
	region  string
}

func (s *stubWeather) Outlook(_ context.Context, region string) (weather.Outlook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = region
	return s.outlook, s.err
}

func (s *stubWeather) Raw(_ context.Context, region string) (weather.RawSnapshot, error) {
	return weather.RawSnapshot{Region: region}, nil
}

type stubHoroscope struct {
	called bool
	asked  [2]int
}

func (s *stubHoroscope) Today(_ context.Context, month, day int) (horoscope.Entry, error) {
	s.called = true
	s.asked = [2]int{month, day}
	return horoscope.Entry{Sign: "牡羊座", Rank: 1}, nil
}

type stubNews struct {
	items      []news.Item
	err        error
	categories []string
}

func (s *stubNews) Recommend(_ context.Context, categories []string) ([]news.Item, error) {
	s.categories = categories
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}
