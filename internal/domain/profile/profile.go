package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

// Profile holds a user's onboarding answers. Absent answers are nil.
type Profile struct {
	UserID     int64     `json:"userId"`
	BirthYear  *int      `json:"birthYear"`
	BirthMonth *int      `json:"birthMonth"`
	BirthDay   *int      `json:"birthDay"`
	HomeRegion *string   `json:"homeRegion"`
	WorkRegion *string   `json:"workRegion"`
	Categories []string  `json:"categories"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BirthMonthDay reports the birth month and day when both are set.
func (p Profile) BirthMonthDay() (int, int, bool) {
	if p.BirthMonth == nil || p.BirthDay == nil {
		return 0, 0, false
	}
	return *p.BirthMonth, *p.BirthDay, true
}

// Region returns the home or work region when set.
func (p Profile) Region(kind string) (string, bool) {
	var value *string
	switch kind {
	case "work":
		value = p.WorkRegion
	default:
		value = p.HomeRegion
	}
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", false
	}
	return *value, true
}

// Repository persists one profile per user.
type Repository interface {
	Upsert(ctx context.Context, p Profile) (Profile, error)
	Get(ctx context.Context, userID int64) (Profile, bool, error)
}

// Service exposes profile reads and writes.
type Service interface {
	Get(ctx context.Context, userID int64) (Profile, error)
	Save(ctx context.Context, p Profile) (Profile, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a profile Service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger.With("component", "profile.service")}
}

func (s *service) Get(ctx context.Context, userID int64) (Profile, error) {
	p, found, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Profile{}, apperrors.Wrap("profile_error", "failed to load profile", err)
	}
	if !found {
		return Profile{}, apperrors.Wrap("profile_not_found", "profile not found", nil)
	}
	return p, nil
}

func (s *service) Save(ctx context.Context, p Profile) (Profile, error) {
	if p.UserID <= 0 {
		return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, "user id is required", nil)
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	saved, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return Profile{}, apperrors.Wrap("profile_error", "failed to save profile", err)
	}
	s.logger.Info("profile saved", "user_id", saved.UserID, "categories", len(saved.Categories))
	return saved, nil
}

// EncodeCategories serializes categories as a JSON array string.
func EncodeCategories(categories []string) (string, error) {
	if categories == nil {
		categories = []string{}
	}
	data, err := json.Marshal(categories)
	if err != nil {
		return "", fmt.Errorf("encode categories: %w", err)
	}
	return string(data), nil
}

// DecodeCategories parses a JSON array string; empty input yields no categories.
func DecodeCategories(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
