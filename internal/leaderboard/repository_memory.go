package leaderboard

import (
	"context"
	"sync"

	"pricecheck/internal/core"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[Period][]*Entry
	nextID  int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries: make(map[Period][]*Entry),
		nextID:  1,
	}
}

func (r *InMemoryRepository) ReplaceEntries(
	_ context.Context,
	period Period,
	entries []*Entry,
) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	replacement := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		e.ID = r.nextID
		r.nextID++
		copied := *e
		replacement = append(replacement, &copied)
	}

	r.entries[period] = replacement
	return nil
}

func (r *InMemoryRepository) ListByPeriod(
	_ context.Context,
	period Period,
	limit int,
) ([]*Entry, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[period]
	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}

	result := make([]*Entry, 0, len(stored))
	for _, e := range stored {
		copied := *e
		result = append(result, &copied)
	}
	return result, nil
}

func (r *InMemoryRepository) FindUserEntry(
	_ context.Context,
	period Period,
	userID string,
) (*Entry, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries[period] {
		if e.UserID == userID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}
