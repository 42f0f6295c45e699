package respcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/daily-briefing/internal/domain/horoscope"
	"github.com/yanqian/daily-briefing/internal/domain/weather"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is an in-process response cache for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs a cache backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached payload when present and unexpired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	record, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(record.payload))
	copy(out, record.payload)
	return out, true, nil
}

// Set stores value; a non-positive ttl never expires.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	payload := make([]byte, len(value))
	copy(payload, value)
	s.mu.Lock()
	s.entries[key] = entry{payload: payload, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return !ts.After(s.now())
}

var (
	_ weather.Cache   = (*MemoryStore)(nil)
	_ horoscope.Cache = (*MemoryStore)(nil)
)
