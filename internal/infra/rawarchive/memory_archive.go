package rawarchive

import (
	"context"
	"sync"

	"github.com/yanqian/daily-briefing/internal/domain/weather"
)

// MemoryArchive keeps the last payload per key in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryArchive constructs an empty archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{blobs: make(map[string][]byte)}
}

// Put replaces the payload stored under key.
func (a *MemoryArchive) Put(_ context.Context, key string, data []byte) error {
	blob := make([]byte, len(data))
	copy(blob, data)
	a.mu.Lock()
	a.blobs[key] = blob
	a.mu.Unlock()
	return nil
}

// Get returns the payload stored under key.
func (a *MemoryArchive) Get(_ context.Context, key string) ([]byte, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	blob, ok := a.blobs[key]
	return blob, ok, nil
}

var _ weather.Archive = (*MemoryArchive)(nil)
