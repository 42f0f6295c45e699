package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/daily-briefing/internal/domain/profile"
	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

// Service drives the onboarding state machine.
type Service interface {
	Start(ctx context.Context, userID int64) (Session, error)
	Get(ctx context.Context, userID int64, sessionID string) (Session, error)
	Answer(ctx context.Context, userID int64, sessionID string, answer Answer) (Session, error)
	Back(ctx context.Context, userID int64, sessionID string) (Session, error)
	Next(ctx context.Context, userID int64, sessionID string, answer *Answer) (Session, error)
	Complete(ctx context.Context, userID int64, sessionID string, answer *Answer) (profile.Profile, error)
}

type service struct {
	cfg      Config
	store    SessionStore
	profiles profile.Service
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires up onboarding.
func NewService(cfg Config, store SessionStore, profiles profile.Service, logger *slog.Logger) Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &service{
		cfg:      cfg,
		store:    store,
		profiles: profiles,
		logger:   logger.With("component", "onboarding.service"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *service) Start(ctx context.Context, userID int64) (Session, error) {
	if userID <= 0 {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidInput, "user id is required", nil)
	}
	session := Session{
		ID:         s.newID(),
		UserID:     userID,
		Step:       StepBirthDate,
		TotalSteps: TotalSteps,
		Draft:      Draft{Categories: []string{}},
	}
	existing, err := s.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		session.Draft = draftFromProfile(existing)
	case !apperrors.IsCode(err, "profile_not_found"):
		return Session{}, err
	}
	if err := s.save(ctx, &session); err != nil {
		return Session{}, err
	}
	s.logger.Info("onboarding started", "user_id", userID, "session_id", session.ID)
	return session, nil
}

func (s *service) Get(ctx context.Context, userID int64, sessionID string) (Session, error) {
	return s.load(ctx, userID, sessionID)
}

func (s *service) Answer(ctx context.Context, userID int64, sessionID string, answer Answer) (Session, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if err := apply(&session, answer); err != nil {
		return Session{}, err
	}
	if err := s.save(ctx, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (s *service) Back(ctx context.Context, userID int64, sessionID string) (Session, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if session.Step <= StepBirthDate {
		return Session{}, invalidTransition("back", session.Step)
	}
	session.Step--
	if err := s.save(ctx, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (s *service) Next(ctx context.Context, userID int64, sessionID string, answer *Answer) (Session, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if session.Step >= StepCategories {
		return Session{}, invalidTransition("next", session.Step)
	}
	if answer != nil {
		if err := apply(&session, *answer); err != nil {
			return Session{}, err
		}
	}
	session.Step++
	if err := s.save(ctx, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (s *service) Complete(ctx context.Context, userID int64, sessionID string, answer *Answer) (profile.Profile, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return profile.Profile{}, err
	}
	if session.Step != StepCategories {
		return profile.Profile{}, invalidTransition("complete", session.Step)
	}
	if answer != nil {
		if err := apply(&session, *answer); err != nil {
			return profile.Profile{}, err
		}
	}
	saved, err := s.profiles.Save(ctx, profile.Profile{
		UserID:     userID,
		BirthYear:  session.Draft.BirthYear,
		BirthMonth: session.Draft.BirthMonth,
		BirthDay:   session.Draft.BirthDay,
		HomeRegion: session.Draft.HomeRegion,
		WorkRegion: session.Draft.WorkRegion,
		Categories: session.Draft.Categories,
		UpdatedAt:  s.now().UTC(),
	})
	if err != nil {
		return profile.Profile{}, err
	}
	if err := s.store.Delete(ctx, session.ID); err != nil {
		s.logger.Warn("failed to delete finished onboarding session", "session_id", session.ID, "error", err)
	}
	s.logger.Info("onboarding completed", "user_id", userID, "session_id", session.ID)
	return saved, nil
}

func (s *service) load(ctx context.Context, userID int64, sessionID string) (Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Session{}, apperrors.Wrap("session_not_found", "onboarding session not found", nil)
	}
	session, found, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, apperrors.Wrap("onboarding_error", "failed to load onboarding session", err)
	}
	// sessions of other users are reported as missing
	if !found || session.UserID != userID {
		return Session{}, apperrors.Wrap("session_not_found", "onboarding session not found", nil)
	}
	return session, nil
}

func (s *service) save(ctx context.Context, session *Session) error {
	session.UpdatedAt = s.now().UTC()
	session.TotalSteps = TotalSteps
	if err := s.store.Save(ctx, *session, s.cfg.SessionTTL); err != nil {
		return apperrors.Wrap("onboarding_error", "failed to save onboarding session", err)
	}
	return nil
}

func apply(session *Session, answer Answer) error {
	switch session.Step {
	case StepBirthDate:
		if err := validateBirthDate(answer); err != nil {
			return err
		}
		session.Draft.BirthYear = answer.BirthYear
		session.Draft.BirthMonth = answer.BirthMonth
		session.Draft.BirthDay = answer.BirthDay
	case StepHomeRegion:
		session.Draft.HomeRegion = normalizeRegion(answer.HomeRegion)
	case StepWorkRegion:
		session.Draft.WorkRegion = normalizeRegion(answer.WorkRegion)
	case StepCategories:
		session.Draft.Categories = normalizeCategories(answer.Categories)
	default:
		return apperrors.Wrap("onboarding_error", fmt.Sprintf("session in unknown step %d", session.Step), nil)
	}
	return nil
}

func validateBirthDate(answer Answer) error {
	if answer.BirthYear != nil && (*answer.BirthYear < 1 || *answer.BirthYear > 9999) {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "birth year is out of range", nil)
	}
	if answer.BirthMonth != nil && (*answer.BirthMonth < 1 || *answer.BirthMonth > 12) {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "birth month must be between 1 and 12", nil)
	}
	if answer.BirthDay != nil && (*answer.BirthDay < 1 || *answer.BirthDay > 31) {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "birth day must be between 1 and 31", nil)
	}
	return nil
}

func normalizeRegion(region *string) *string {
	if region == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*region)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func draftFromProfile(p profile.Profile) Draft {
	categories := make([]string, len(p.Categories))
	copy(categories, p.Categories)
	return Draft{
		BirthYear:  p.BirthYear,
		BirthMonth: p.BirthMonth,
		BirthDay:   p.BirthDay,
		HomeRegion: p.HomeRegion,
		WorkRegion: p.WorkRegion,
		Categories: categories,
	}
}

func invalidTransition(action string, step Step) error {
	return apperrors.Wrap("invalid_transition", fmt.Sprintf("cannot %s from step %d of %d", action, step, TotalSteps), nil)
}
