package briefing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/daily-briefing/internal/domain/horoscope"
	"github.com/yanqian/daily-briefing/internal/domain/news"
	"github.com/yanqian/daily-briefing/internal/domain/profile"
	"github.com/yanqian/daily-briefing/internal/domain/weather"
	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
	"github.com/yanqian/daily-briefing/pkg/metrics"
	"github.com/yanqian/daily-briefing/pkg/util"
)

// Section statuses.
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// CodeProfileIncomplete marks a section the profile lacks input for.
const CodeProfileIncomplete = "profile_incomplete"

// Config wires runtime settings for briefing assembly.
type Config struct {
	DefaultRegion string
	Location      *time.Location
}

// SectionError explains why a section could not render.
type SectionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WeatherSection is the selected day's forecast plus current conditions.
type WeatherSection struct {
	Status   string                     `json:"status"`
	Error    *SectionError              `json:"error,omitempty"`
	Location *weather.Location          `json:"location,omitempty"`
	Current  *weather.CurrentConditions `json:"current,omitempty"`
	Day      *weather.DayView           `json:"day,omitempty"`
}

// HoroscopeSection is today's reading for the user's sign.
type HoroscopeSection struct {
	Status string           `json:"status"`
	Error  *SectionError    `json:"error,omitempty"`
	Entry  *horoscope.Entry `json:"entry,omitempty"`
}

// NewsSection lists articles matching the user's interests.
type NewsSection struct {
	Status string        `json:"status"`
	Error  *SectionError `json:"error,omitempty"`
	Items  []news.Item   `json:"items"`
}

// Briefing is the assembled daily payload.
type Briefing struct {
	Day             int              `json:"day"`
	Label           string           `json:"label"`
	DateLabel       string           `json:"dateLabel"`
	Region          string           `json:"region"`
	RegionKind      string           `json:"regionKind"`
	RegionDefaulted bool             `json:"regionDefaulted"`
	Categories      []string         `json:"categories"`
	Weather         WeatherSection   `json:"weather"`
	Horoscope       HoroscopeSection `json:"horoscope"`
	News            NewsSection      `json:"news"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

// Service assembles briefings for onboarded users.
type Service interface {
	Assemble(ctx context.Context, userID int64, day int, regionKind string) (Briefing, error)
}

type service struct {
	cfg       Config
	profiles  profile.Service
	weather   weather.Service
	horoscope horoscope.Service
	news      news.Service
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the briefing assembler to its section providers.
func NewService(cfg Config, profiles profile.Service, weatherSvc weather.Service, horoscopeSvc horoscope.Service, newsSvc news.Service, logger *slog.Logger) Service {
	if cfg.DefaultRegion == "" {
		cfg.DefaultRegion = "東京都"
	}
	if cfg.Location == nil {
		cfg.Location = weather.DefaultLocation
	}
	return &service{
		cfg:       cfg,
		profiles:  profiles,
		weather:   weatherSvc,
		horoscope: horoscopeSvc,
		news:      newsSvc,
		logger:    logger.With("component", "briefing.service"),
		now:       time.Now,
	}
}

var dayLabels = [weather.MaxDays]string{"今日", "明日", "明後日"}

func (s *service) Assemble(ctx context.Context, userID int64, day int, regionKind string) (Briefing, error) {
	if day < 0 || day >= weather.MaxDays {
		return Briefing{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("day must be between 0 and %d", weather.MaxDays-1), nil)
	}
	switch regionKind {
	case "":
		regionKind = "home"
	case "home", "work":
	default:
		return Briefing{}, apperrors.Wrap(apperrors.CodeInvalidInput, "region must be home or work", nil)
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return Briefing{}, err
	}

	now := s.now()
	region, ok := p.Region(regionKind)
	out := Briefing{
		Day:             day,
		Label:           dayLabels[day],
		DateLabel:       util.StartOfDay(now, s.cfg.Location).AddDate(0, 0, day).Format("2006-01-02 (Mon)"),
		Region:          region,
		RegionKind:      regionKind,
		RegionDefaulted: !ok,
		Categories:      p.Categories,
		GeneratedAt:     now.UTC(),
	}
	if !ok {
		out.Region = s.cfg.DefaultRegion
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}

	// section failures are recorded on the payload, never returned
	var g errgroup.Group
	g.Go(func() error {
		out.Weather = s.weatherSection(ctx, out.Region, day)
		return nil
	})
	g.Go(func() error {
		out.Horoscope = s.horoscopeSection(ctx, p)
		return nil
	})
	g.Go(func() error {
		out.News = s.newsSection(ctx, out.Categories)
		return nil
	})
	_ = g.Wait()
	if out.Weather.Day != nil {
		out.DateLabel = out.Weather.Day.DateLabel
	}

	metrics.RecordSection("weather", out.Weather.Status)
	metrics.RecordSection("horoscope", out.Horoscope.Status)
	metrics.RecordSection("news", out.News.Status)
	s.logger.Info("briefing assembled",
		"user_id", userID,
		"day", day,
		"region", out.Region,
		"weather", out.Weather.Status,
		"horoscope", out.Horoscope.Status,
		"news", out.News.Status,
	)
	return out, nil
}

func (s *service) weatherSection(ctx context.Context, region string, day int) WeatherSection {
	outlook, err := s.weather.Outlook(ctx, region)
	if err != nil {
		return WeatherSection{Status: StatusUnavailable, Error: s.sectionError("weather", err)}
	}
	view, err := weather.SelectDay(outlook.Daily, day)
	if err != nil {
		return WeatherSection{
			Status:   StatusUnavailable,
			Error:    s.sectionError("weather", err),
			Location: &outlook.Location,
			Current:  &outlook.Current,
		}
	}
	return WeatherSection{
		Status:   StatusOK,
		Location: &outlook.Location,
		Current:  &outlook.Current,
		Day:      &view,
	}
}

func (s *service) horoscopeSection(ctx context.Context, p profile.Profile) HoroscopeSection {
	month, day, ok := p.BirthMonthDay()
	if !ok {
		return HoroscopeSection{
			Status: StatusUnavailable,
			Error:  &SectionError{Code: CodeProfileIncomplete, Message: "horoscope unavailable: birth date not set"},
		}
	}
	entry, err := s.horoscope.Today(ctx, month, day)
	if err != nil {
		return HoroscopeSection{Status: StatusUnavailable, Error: s.sectionError("horoscope", err)}
	}
	return HoroscopeSection{Status: StatusOK, Entry: &entry}
}

func (s *service) newsSection(ctx context.Context, categories []string) NewsSection {
	items, err := s.news.Recommend(ctx, categories)
	if err != nil {
		return NewsSection{Status: StatusUnavailable, Error: s.sectionError("news", err), Items: []news.Item{}}
	}
	return NewsSection{Status: StatusOK, Items: items}
}

func (s *service) sectionError(section string, err error) *SectionError {
	code := apperrors.Code(err)
	if code == "" {
		code = "internal_error"
	}
	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if upstream, ok := apperrors.AsUpstream(err); ok {
		message = fmt.Sprintf("%s (status %d)", message, upstream.Status)
	}
	s.logger.Warn("briefing section unavailable", "section", section, "code", code, "error", err)
	return &SectionError{Code: code, Message: section + " unavailable: " + message}
}
