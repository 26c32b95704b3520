package cooldown

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps the cooldown record in process. It suits single-instance
// deployments and tests.
type MemoryStore struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{last: make(map[string]time.Time)}
}

func (m *MemoryStore) Acquire(ctx context.Context, category string, now time.Time, window time.Duration) (bool, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return false, time.Time{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, seen := m.last[category]
	if seen && now.Sub(prev) < window {
		return false, prev, nil
	}

	m.last[category] = now
	return true, now, nil
}

func (m *MemoryStore) Snapshot(ctx context.Context) (map[string]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.last), nil
}
