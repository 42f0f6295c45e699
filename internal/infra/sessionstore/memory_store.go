package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/daily-briefing/internal/domain/onboarding"
)

type record struct {
	session   onboarding.Session
	expiresAt time.Time
}

// MemoryStore keeps onboarding sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]record
	now      func() time.Time
}

// NewMemoryStore constructs an empty session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]record), now: time.Now}
}

// Save stores the session until ttl elapses.
func (s *MemoryStore) Save(_ context.Context, session onboarding.Session, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	session.Draft.Categories = append([]string(nil), session.Draft.Categories...)
	s.mu.Lock()
	s.sessions[session.ID] = record{session: session, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

// Get returns the session unless it is unknown or expired.
func (s *MemoryStore) Get(_ context.Context, id string) (onboarding.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	if !ok {
		return onboarding.Session{}, false, nil
	}
	if !rec.expiresAt.IsZero() && !rec.expiresAt.After(s.now()) {
		delete(s.sessions, id)
		return onboarding.Session{}, false, nil
	}
	return rec.session, true, nil
}

// Delete forgets the session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

var _ onboarding.SessionStore = (*MemoryStore)(nil)
