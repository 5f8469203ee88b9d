package review

import "context"

// Repository defines all database operations for verifications and
// disputes.
type Repository interface {
	CreateVerification(ctx context.Context, v *Verification) error
	ListVerifications(ctx context.Context, submissionID int64) ([]*Verification, error)

	CreateDispute(ctx context.Context, d *Dispute) error
	GetDispute(ctx context.Context, disputeID int64) (*Dispute, error)
	UpdateDispute(ctx context.Context, d *Dispute) error
	ListDisputesByStatus(ctx context.Context, status DisputeStatus) ([]*Dispute, error)
}
