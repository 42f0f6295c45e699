package onboarding

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/daily-briefing/internal/domain/profile"
	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

func TestFullFlowPersistsProfile(t *testing.T) {
	svc, store, profiles := newServiceUnderTest()
	ctx := context.Background()

	session, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, StepBirthDate, session.Step)
	require.Equal(t, 4, session.TotalSteps)
	require.Equal(t, time.Hour, store.ttl)

	year, month, day := 1990, 4, 12
	session, err = svc.Next(ctx, 1, session.ID, &Answer{BirthYear: &year, BirthMonth: &month, BirthDay: &day})
	require.NoError(t, err)
	require.Equal(t, StepHomeRegion, session.Step)

	home := " 大阪府 "
	session, err = svc.Next(ctx, 1, session.ID, &Answer{HomeRegion: &home})
	require.NoError(t, err)
	require.Equal(t, "大阪府", *session.Draft.HomeRegion)

	session, err = svc.Next(ctx, 1, session.ID, nil)
	require.NoError(t, err)
	require.Equal(t, StepCategories, session.Step)
	require.Nil(t, session.Draft.WorkRegion)

	saved, err := svc.Complete(ctx, 1, session.ID, &Answer{Categories: []string{"経済", "", "スポーツ"}})
	require.NoError(t, err)
	require.Equal(t, []string{"経済", "スポーツ"}, saved.Categories)
	require.Equal(t, 4, *profiles.saved.BirthMonth)
	require.Equal(t, "大阪府", *profiles.saved.HomeRegion)

	_, err = svc.Get(ctx, 1, session.ID)
	require.True(t, apperrors.IsCode(err, "session_not_found"))
}

func TestTransitionsAtBoundaries(t *testing.T) {
	svc, _, _ := newServiceUnderTest()
	ctx := context.Background()

	session, err := svc.Start(ctx, 1)
	require.NoError(t, err)

	_, err = svc.Back(ctx, 1, session.ID)
	require.True(t, apperrors.IsCode(err, "invalid_transition"))

	_, err = svc.Complete(ctx, 1, session.ID, nil)
	require.True(t, apperrors.IsCode(err, "invalid_transition"))

	for i := 0; i < 3; i++ {
		session, err = svc.Next(ctx, 1, session.ID, nil)
		require.NoError(t, err)
	}
	_, err = svc.Next(ctx, 1, session.ID, nil)
	require.True(t, apperrors.IsCode(err, "invalid_transition"))

	session, err = svc.Back(ctx, 1, session.ID)
	require.NoError(t, err)
	require.Equal(t, StepWorkRegion, session.Step)
}

func TestAnswerAppliesOnlyCurrentStep(t *testing.T) {
	svc, _, _ := newServiceUnderTest()
	ctx := context.Background()

	session, err := svc.Start(ctx, 1)
	require.NoError(t, err)

	month := 13
	_, err = svc.Answer(ctx, 1, session.ID, Answer{BirthMonth: &month})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	month = 2
	home := "北海道"
	session, err = svc.Answer(ctx, 1, session.ID, Answer{BirthMonth: &month, HomeRegion: &home})
	require.NoError(t, err)
	require.Equal(t, 2, *session.Draft.BirthMonth)
	require.Nil(t, session.Draft.HomeRegion)

	// an unselected value clears the previous answer
	session, err = svc.Answer(ctx, 1, session.ID, Answer{})
	require.NoError(t, err)
	require.Nil(t, session.Draft.BirthMonth)
}

func TestStartPrefillsFromProfile(t *testing.T) {
	svc, _, profiles := newServiceUnderTest()
	work := "東京都"
	profiles.saved = profile.Profile{UserID: 1, WorkRegion: &work, Categories: []string{"科学"}}
	profiles.found = true

	session, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "東京都", *session.Draft.WorkRegion)
	require.Equal(t, []string{"科学"}, session.Draft.Categories)
}

func TestSessionsAreScopedToOwner(t *testing.T) {
	svc, _, _ := newServiceUnderTest()
	ctx := context.Background()

	session, err := svc.Start(ctx, 1)
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, session.ID)
	require.True(t, apperrors.IsCode(err, "session_not_found"))

	_, err = svc.Next(ctx, 1, "missing", nil)
	require.True(t, apperrors.IsCode(err, "session_not_found"))
}

func newServiceUnderTest() (*service, *memoryStore, *stubProfiles) {
	store := &memoryStore{sessions: map[string]Session{}}
	profiles := &stubProfiles{}
	seq := 0
	svc := &service{
		cfg:      Config{SessionTTL: time.Hour},
		store:    store,
		profiles: profiles,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
		newID: func() string {
			seq++
			return "session-" + string(rune('0'+seq))
		},
	}
	return svc, store, profiles
}

type memoryStore struct {
	sessions map[string]Session
	ttl      time.Duration
}

func (m *memoryStore) Save(_ context.Context, session Session, ttl time.Duration) error {
	m.sessions[session.ID] = session
	m.ttl = ttl
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Session, bool, error) {
	s, ok := m.sessions[id]
	return s, ok, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type stubProfiles struct {
	saved profile.Profile
	found bool
}

func (s *stubProfiles) Get(_ context.Context, _ int64) (profile.Profile, error) {
	if !s.found {
		return profile.Profile{}, apperrors.Wrap("profile_not_found", "profile not found", nil)
	}
	return s.saved, nil
}

func (s *stubProfiles) Save(_ context.Context, p profile.Profile) (profile.Profile, error) {
	s.saved = p
	s.found = true
	return p, nil
}
