package badges

import "context"

// Repository defines all database operations for badges.
type Repository interface {
	Create(ctx context.Context, badge *Badge) error
	ListActive(ctx context.Context, userID string) ([]*Badge, error)
	CountActive(ctx context.Context, userID string) (int, error)
}
