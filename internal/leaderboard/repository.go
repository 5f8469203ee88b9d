package leaderboard

import "context"

// Repository persists leaderboard entries. ReplaceEntries must swap a
// period's entry set atomically so readers never see a half-written
// leaderboard.
type Repository interface {
	ReplaceEntries(ctx context.Context, period Period, entries []*Entry) error
	ListByPeriod(ctx context.Context, period Period, limit int) ([]*Entry, error)
	FindUserEntry(ctx context.Context, period Period, userID string) (*Entry, error)
}
