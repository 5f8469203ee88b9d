package badges

import (
	"context"
	"sync"
)

type InMemoryRepository struct {
	mu     sync.RWMutex
	badges []*Badge
	nextID int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(_ context.Context, badge *Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	badge.ID = r.nextID
	r.nextID++

	copied := *badge
	r.badges = append(r.badges, &copied)
	return nil
}

func (r *InMemoryRepository) ListActive(_ context.Context, userID string) ([]*Badge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Badge
	for _, b := range r.badges {
		if b.UserID == userID && b.IsActive {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *InMemoryRepository) CountActive(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, b := range r.badges {
		if b.UserID == userID && b.IsActive {
			count++
		}
	}
	return count, nil
}
