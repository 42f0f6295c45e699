package profilerepo

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/daily-briefing/internal/domain/profile"
)

// MemoryRepository keeps profiles in process memory for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[int64]profile.Profile
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[int64]profile.Profile)}
}

func (r *MemoryRepository) Upsert(_ context.Context, p profile.Profile) (profile.Profile, error) {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	p.Categories = append([]string{}, p.Categories...)
	r.mu.Lock()
	r.profiles[p.UserID] = p
	r.mu.Unlock()
	return p, nil
}

func (r *MemoryRepository) Get(_ context.Context, userID int64) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	return p, ok, nil
}

var _ profile.Repository = (*MemoryRepository)(nil)
