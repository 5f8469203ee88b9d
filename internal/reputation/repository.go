package reputation

import (
	"context"
	"time"
)

// Repository defines all database operations for the point ledger and
// the derived snapshots.
type Repository interface {

	// Ledger (append-only)
	AppendEvent(ctx context.Context, event *PointEvent) error
	EventsByUser(ctx context.Context, userID string) ([]*PointEvent, error)

	// Per-user aggregates over a time window, for period leaderboards.
	TotalsBetween(ctx context.Context, from, to time.Time) ([]UserTotals, error)

	// Derived snapshots
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	GetSnapshot(ctx context.Context, userID string) (*Snapshot, error)
	ListSnapshots(ctx context.Context) ([]*Snapshot, error)
}
