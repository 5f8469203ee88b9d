package review

import (
	"context"
	"sync"

	"pricecheck/internal/core"
)

type InMemoryRepository struct {
	mu            sync.RWMutex
	verifications []*Verification
	disputes      map[int64]*Dispute
	nextID        int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		disputes: make(map[int64]*Dispute),
		nextID:   1,
	}
}

func (r *InMemoryRepository) CreateVerification(_ context.Context, v *Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v.ID = r.nextID
	r.nextID++

	copied := *v
	r.verifications = append(r.verifications, &copied)
	return nil
}

func (r *InMemoryRepository) ListVerifications(
	_ context.Context,
	submissionID int64,
) ([]*Verification, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Verification
	for _, v := range r.verifications {
		if v.SubmissionID == submissionID {
			copied := *v
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *InMemoryRepository) CreateDispute(_ context.Context, d *Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = r.nextID
	r.nextID++
	d.UpdatedAt = d.CreatedAt

	copied := *d
	r.disputes[d.ID] = &copied
	return nil
}

func (r *InMemoryRepository) GetDispute(_ context.Context, disputeID int64) (*Dispute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.disputes[disputeID]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *InMemoryRepository) UpdateDispute(_ context.Context, d *Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.disputes[d.ID]; !ok {
		return core.ErrNotFound
	}
	copied := *d
	r.disputes[d.ID] = &copied
	return nil
}

func (r *InMemoryRepository) ListDisputesByStatus(
	_ context.Context,
	status DisputeStatus,
) ([]*Dispute, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Dispute
	for _, d := range r.disputes {
		if d.Status == status {
			copied := *d
			result = append(result, &copied)
		}
	}
	return result, nil
}
