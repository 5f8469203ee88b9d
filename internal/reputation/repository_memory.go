package reputation

import (
	"context"
	"sort"
	"sync"
	"time"

	"pricecheck/internal/core"
)

type InMemoryRepository struct {
	mu        sync.RWMutex
	events    []*PointEvent
	snapshots map[string]*Snapshot
	nextID    int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		snapshots: make(map[string]*Snapshot),
		nextID:    1,
	}
}

func (r *InMemoryRepository) AppendEvent(_ context.Context, event *PointEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = r.nextID
	r.nextID++

	copied := *event
	r.events = append(r.events, &copied)
	return nil
}

func (r *InMemoryRepository) EventsByUser(_ context.Context, userID string) ([]*PointEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []*PointEvent
	for _, e := range r.events {
		if e.UserID == userID {
			copied := *e
			events = append(events, &copied)
		}
	}
	return events, nil
}

func (r *InMemoryRepository) TotalsBetween(
	_ context.Context,
	from, to time.Time,
) ([]UserTotals, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	byUser := make(map[string]*UserTotals)
	for _, e := range r.events {
		if e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		t, ok := byUser[e.UserID]
		if !ok {
			t = &UserTotals{UserID: e.UserID}
			byUser[e.UserID] = t
		}
		t.Points += e.Points
		switch e.ActionType {
		case ActionSubmission:
			t.SubmissionCount++
		case ActionVerification:
			t.VerificationCount++
		}
	}

	totals := make([]UserTotals, 0, len(byUser))
	for _, t := range byUser {
		if t.Points < 0 {
			t.Points = 0
		}
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].UserID < totals[j].UserID })
	return totals, nil
}

func (r *InMemoryRepository) SaveSnapshot(_ context.Context, snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *snapshot
	r.snapshots[snapshot.UserID] = &copied
	return nil
}

func (r *InMemoryRepository) GetSnapshot(_ context.Context, userID string) (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.snapshots[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *InMemoryRepository) ListSnapshots(_ context.Context) ([]*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := make([]*Snapshot, 0, len(r.snapshots))
	for _, s := range r.snapshots {
		copied := *s
		snapshots = append(snapshots, &copied)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].TotalPoints != snapshots[j].TotalPoints {
			return snapshots[i].TotalPoints > snapshots[j].TotalPoints
		}
		return snapshots[i].UserID < snapshots[j].UserID
	})
	return snapshots, nil
}
