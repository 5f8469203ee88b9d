package submission

import "context"

// Repository defines all database operations for price submissions.
// Counter updates must be atomic read-modify-writes so concurrent
// verifications never lose an increment.
type Repository interface {
	Create(ctx context.Context, sub *PriceSubmission) error
	GetByID(ctx context.Context, id int64) (*PriceSubmission, error)

	// Newest-first listings
	ListForItem(ctx context.Context, menuItemID int64) ([]*PriceSubmission, error)
	ListForItemProvider(ctx context.Context, menuItemID, providerID int64) ([]*PriceSubmission, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]*PriceSubmission, error)

	// Atomic counter mutations, owned by the verification/dispute tracker.
	IncrementVerification(ctx context.Context, id int64, threshold int) (*PriceSubmission, error)
	IncrementDispute(ctx context.Context, id int64) (*PriceSubmission, error)

	SetEvidenceURL(ctx context.Context, id int64, url string) error
}
