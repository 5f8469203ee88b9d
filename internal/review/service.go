package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pricecheck/internal/badges"
	"pricecheck/internal/core"
	"pricecheck/internal/reputation"
	"pricecheck/internal/submission"
)

// ResolutionOutcome is the decision a moderator records on a dispute.
type ResolutionOutcome string

const (
	OutcomeAccepted  ResolutionOutcome = "accepted"
	OutcomeRejected  ResolutionOutcome = "rejected"
	OutcomeDismissed ResolutionOutcome = "dismissed"
)

type Service struct {
	repo        Repository
	submissions submission.Repository
	reputation  *reputation.Service
	badges      *badges.Service
	clock       core.Clock
	logger      *zap.Logger
}

func NewService(
	repo Repository,
	submissions submission.Repository,
	reps *reputation.Service,
	badgeService *badges.Service,
	clock core.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:        repo,
		submissions: submissions,
		reputation:  reps,
		badges:      badgeService,
		clock:       clock,
		logger:      logger,
	}
}

// Verify records one user's attestation about a submission. Accurate
// votes count toward the verification threshold; inaccurate votes are
// stored for audit but do not decrement anything. The verifier is paid
// either way.
func (s *Service) Verify(
	ctx context.Context,
	submissionID int64,
	verifierUserID string,
	isAccurate bool,
	notes *string,
) (*Verification, error) {

	if verifierUserID == "" {
		return nil, core.NewValidationError("verifierUserId", "must not be empty")
	}
	if notes != nil && len(*notes) > MaxVerificationNotesLength {
		return nil, core.NewValidationError(
			"notes",
			fmt.Sprintf("must be at most %d characters", MaxVerificationNotesLength),
		)
	}

	// Existence check up front so a bad id has no side effects.
	if _, err := s.submissions.GetByID(ctx, submissionID); err != nil {
		return nil, err
	}

	verification := &Verification{
		SubmissionID:   submissionID,
		VerifierUserID: verifierUserID,
		IsAccurate:     isAccurate,
		Notes:          notes,
		CreatedAt:      s.clock.Now(),
	}

	if err := s.repo.CreateVerification(ctx, verification); err != nil {
		return nil, err
	}

	if isAccurate {
		sub, err := s.submissions.IncrementVerification(
			ctx,
			submissionID,
			submission.VerificationThreshold,
		)
		if err != nil {
			return nil, err
		}

		if sub.IsVerified {
			s.logger.Info("submission verified",
				zap.Int64("submission_id", sub.ID),
				zap.Int("verification_count", sub.VerificationCount),
			)
		}
	}

	refID := submissionID
	err := s.reputation.AwardPoints(
		ctx,
		verifierUserID,
		reputation.PointsForVerification,
		reputation.ActionVerification,
		fmt.Sprintf("Verified price submission %d", submissionID),
		&refID,
	)
	if err != nil {
		return nil, err
	}

	if _, err := s.badges.Evaluate(ctx, verifierUserID); err != nil {
		return nil, err
	}

	return verification, nil
}

// Dispute files a challenge against a submission. The submission's
// dispute counter rises immediately on filing so its confidence drops
// before anyone rules on the challenge; resolution only settles points.
func (s *Service) Dispute(
	ctx context.Context,
	submissionID int64,
	disputerUserID string,
	reason string,
	suggestedPrice *float64,
	evidenceURL *string,
) (*Dispute, error) {

	if disputerUserID == "" {
		return nil, core.NewValidationError("disputerUserId", "must not be empty")
	}
	if reason == "" {
		return nil, core.NewValidationError("reason", "must not be empty")
	}
	if len(reason) > MaxDisputeReasonLength {
		return nil, core.NewValidationError(
			"reason",
			fmt.Sprintf("must be at most %d characters", MaxDisputeReasonLength),
		)
	}
	if suggestedPrice != nil &&
		(*suggestedPrice < submission.MinPriceValue || *suggestedPrice > submission.MaxPriceValue) {
		return nil, core.NewValidationError("suggestedPrice", "out of range")
	}

	if _, err := s.submissions.GetByID(ctx, submissionID); err != nil {
		return nil, err
	}

	dispute := &Dispute{
		SubmissionID:   submissionID,
		DisputerUserID: disputerUserID,
		Reason:         reason,
		SuggestedPrice: suggestedPrice,
		EvidenceURL:    evidenceURL,
		Status:         DisputePending,
		CreatedAt:      s.clock.Now(),
	}

	if err := s.repo.CreateDispute(ctx, dispute); err != nil {
		return nil, err
	}

	if _, err := s.submissions.IncrementDispute(ctx, submissionID); err != nil {
		return nil, err
	}

	s.logger.Info("dispute filed",
		zap.Int64("dispute_id", dispute.ID),
		zap.Int64("submission_id", submissionID),
	)

	return dispute, nil
}

// StartReview moves a pending dispute under review and records which
// moderator took the case.
func (s *Service) StartReview(ctx context.Context, disputeID int64, reviewerID string) (*Dispute, error) {
	if reviewerID == "" {
		return nil, core.NewValidationError("reviewerId", "must not be empty")
	}

	dispute, err := s.repo.GetDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	if dispute.Status != DisputePending {
		return nil, core.NewStateConflictError(
			"dispute %d is %s, expected %s", disputeID, dispute.Status, DisputePending,
		)
	}

	dispute.Status = DisputeUnderReview
	dispute.ReviewedBy = &reviewerID
	dispute.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateDispute(ctx, dispute); err != nil {
		return nil, err
	}

	return dispute, nil
}

// Resolve moves a dispute under review to a terminal state. Accepting a
// dispute rewards the resolver and penalizes the original submitter.
func (s *Service) Resolve(
	ctx context.Context,
	disputeID int64,
	resolverID string,
	outcome ResolutionOutcome,
) (*Dispute, error) {

	if resolverID == "" {
		return nil, core.NewValidationError("resolverId", "must not be empty")
	}

	var target DisputeStatus
	switch outcome {
	case OutcomeAccepted:
		target = DisputeResolvedAccepted
	case OutcomeRejected:
		target = DisputeResolvedRejected
	case OutcomeDismissed:
		target = DisputeDismissed
	default:
		return nil, core.NewValidationError("outcome", "unknown resolution outcome")
	}

	dispute, err := s.repo.GetDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	if dispute.Status.Terminal() {
		return nil, core.NewStateConflictError("dispute %d already resolved", disputeID)
	}
	if dispute.Status != DisputeUnderReview {
		return nil, core.NewStateConflictError(
			"dispute %d is %s, expected %s", disputeID, dispute.Status, DisputeUnderReview,
		)
	}

	now := s.clock.Now()
	dispute.Status = target
	dispute.ResolvedBy = &resolverID
	dispute.ResolvedAt = &now
	dispute.UpdatedAt = now

	if err := s.repo.UpdateDispute(ctx, dispute); err != nil {
		return nil, err
	}

	if target == DisputeResolvedAccepted {
		refID := dispute.ID

		err := s.reputation.AwardPoints(
			ctx,
			resolverID,
			reputation.PointsForDisputeResolution,
			reputation.ActionDisputeResolution,
			fmt.Sprintf("Resolved dispute %d", dispute.ID),
			&refID,
		)
		if err != nil {
			return nil, err
		}

		sub, err := s.submissions.GetByID(ctx, dispute.SubmissionID)
		if err != nil {
			return nil, err
		}

		err = s.reputation.AwardPoints(
			ctx,
			sub.SubmitterID,
			-reputation.DisputePenaltyPoints,
			reputation.ActionDisputePenalty,
			fmt.Sprintf("Dispute accepted against submission %d", sub.ID),
			&refID,
		)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("dispute resolved",
		zap.Int64("dispute_id", dispute.ID),
		zap.String("outcome", string(target)),
	)

	return dispute, nil
}

// Verifications lists the audit trail for a submission.
func (s *Service) Verifications(ctx context.Context, submissionID int64) ([]*Verification, error) {
	return s.repo.ListVerifications(ctx, submissionID)
}

// PendingDisputes lists disputes waiting for review.
func (s *Service) PendingDisputes(ctx context.Context) ([]*Dispute, error) {
	return s.repo.ListDisputesByStatus(ctx, DisputePending)
}
