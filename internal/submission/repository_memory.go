package submission

import (
	"context"
	"sort"
	"sync"
	"time"

	"pricecheck/internal/core"
)

type InMemoryRepository struct {
	mu     sync.RWMutex
	subs   map[int64]*PriceSubmission
	nextID int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		subs:   make(map[int64]*PriceSubmission),
		nextID: 1,
	}
}

func (r *InMemoryRepository) Create(_ context.Context, sub *PriceSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub.ID = r.nextID
	r.nextID++
	sub.CreatedAt = sub.SubmittedAt
	sub.UpdatedAt = sub.SubmittedAt

	copied := *sub
	r.subs[sub.ID] = &copied
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*PriceSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func newestFirst(subs []*PriceSubmission) {
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].SubmittedAt.Equal(subs[j].SubmittedAt) {
			return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
		}
		return subs[i].ID > subs[j].ID
	})
}

func (r *InMemoryRepository) ListForItem(_ context.Context, menuItemID int64) ([]*PriceSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*PriceSubmission
	for _, sub := range r.subs {
		if sub.MenuItemID == menuItemID {
			copied := *sub
			result = append(result, &copied)
		}
	}
	newestFirst(result)
	return result, nil
}

func (r *InMemoryRepository) ListForItemProvider(
	_ context.Context,
	menuItemID, providerID int64,
) ([]*PriceSubmission, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*PriceSubmission
	for _, sub := range r.subs {
		if sub.MenuItemID == menuItemID && sub.ProviderID == providerID {
			copied := *sub
			result = append(result, &copied)
		}
	}
	newestFirst(result)
	return result, nil
}

func (r *InMemoryRepository) ListRecentByUser(
	_ context.Context,
	userID string,
	limit int,
) ([]*PriceSubmission, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*PriceSubmission
	for _, sub := range r.subs {
		if sub.SubmitterID == userID {
			copied := *sub
			result = append(result, &copied)
		}
	}
	newestFirst(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *InMemoryRepository) IncrementVerification(
	_ context.Context,
	id int64,
	threshold int,
) (*PriceSubmission, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, core.ErrNotFound
	}

	sub.VerificationCount++
	sub.IsVerified = sub.VerificationCount >= threshold
	sub.UpdatedAt = time.Now()

	copied := *sub
	return &copied, nil
}

func (r *InMemoryRepository) IncrementDispute(_ context.Context, id int64) (*PriceSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, core.ErrNotFound
	}

	sub.DisputeCount++
	sub.UpdatedAt = time.Now()

	copied := *sub
	return &copied, nil
}

func (r *InMemoryRepository) SetEvidenceURL(_ context.Context, id int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok {
		return core.ErrNotFound
	}
	sub.EvidenceURL = &url
	sub.UpdatedAt = time.Now()
	return nil
}
