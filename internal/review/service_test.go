package review

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"pricecheck/internal/badges"
	"pricecheck/internal/core"
	"pricecheck/internal/reputation"
	"pricecheck/internal/submission"
)

type fixture struct {
	service     *Service
	submissions *submission.InMemoryRepository
	reputation  *reputation.Service
	badges      *badges.Service
}

func newFixture() *fixture {
	clock := core.FixedClock{Time: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	logger := zap.NewNop()

	submissionRepo := submission.NewInMemoryRepository()
	reputationRepo := reputation.NewInMemoryRepository()
	badgeRepo := badges.NewInMemoryRepository()

	reputationService := reputation.NewService(reputationRepo, badgeRepo, clock, logger)
	badgeService := badges.NewService(badgeRepo, reputationService, clock, logger)

	service := NewService(
		NewInMemoryRepository(),
		submissionRepo,
		reputationService,
		badgeService,
		clock,
		logger,
	)

	return &fixture{
		service:     service,
		submissions: submissionRepo,
		reputation:  reputationService,
		badges:      badgeService,
	}
}

func (f *fixture) createSubmission(t *testing.T, submitterID string, price float64) *submission.PriceSubmission {
	t.Helper()

	sub := &submission.PriceSubmission{
		MenuItemID:  1,
		ProviderID:  2,
		SubmitterID: submitterID,
		PriceValue:  price,
		SubmittedAt: time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC),
	}
	if err := f.submissions.Create(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sub
}

func points(t *testing.T, service *reputation.Service, userID string) int {
	t.Helper()

	snapshot, err := service.Snapshot(context.Background(), userID)
	if err != nil {
		t.Fatalf("snapshot for %s: %v", userID, err)
	}
	return snapshot.TotalPoints
}

// --------------------------------------------------
// Verification
// --------------------------------------------------

func TestVerifyAccurateCountsTowardThreshold(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub := f.createSubmission(t, "submitter", 3.5)

	for _, verifier := range []string{"v1", "v2"} {
		if _, err := f.service.Verify(ctx, sub.ID, verifier, true, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	current, err := f.submissions.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.IsVerified {
		t.Fatalf("verified at count 2, threshold is %d", submission.VerificationThreshold)
	}

	if _, err := f.service.Verify(ctx, sub.ID, "v3", true, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current, err = f.submissions.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !current.IsVerified || current.VerificationCount != 3 {
		t.Fatalf("expected verified with count 3, got %+v", current)
	}
}

func TestVerifyCountsRepeatVerifierVotes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub := f.createSubmission(t, "submitter", 3.5)

	// The counter is a raw vote count: the same user verifying twice
	// contributes two toward the threshold.
	if _, err := f.service.Verify(ctx, sub.ID, "v1", true, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.Verify(ctx, sub.ID, "v1", true, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.Verify(ctx, sub.ID, "v2", true, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current, err := f.submissions.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.VerificationCount != 3 {
		t.Fatalf("expected count 3 from two verifiers, got %d", current.VerificationCount)
	}
	if !current.IsVerified {
		t.Fatalf("expected verified at threshold")
	}

	// The repeat verifier is paid for each vote.
	if got := points(t, f.reputation, "v1"); got != 2*reputation.PointsForVerification {
		t.Fatalf("expected v1 at %d points, got %d", 2*reputation.PointsForVerification, got)
	}
	if got := points(t, f.reputation, "v2"); got != reputation.PointsForVerification {
		t.Fatalf("expected v2 at %d points, got %d", reputation.PointsForVerification, got)
	}
}

func TestVerifyInaccurateDoesNotCount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub := f.createSubmission(t, "submitter", 3.5)

	if _, err := f.service.Verify(ctx, sub.ID, "v1", false, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current, err := f.submissions.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.VerificationCount != 0 {
		t.Fatalf("inaccurate vote must not raise the counter, got %d", current.VerificationCount)
	}

	// The verifier is still paid for checking.
	if got := points(t, f.reputation, "v1"); got != reputation.PointsForVerification {
		t.Fatalf("expected %d points for verifier, got %d", reputation.PointsForVerification, got)
	}

	// The vote is kept for audit.
	verifications, err := f.service.Verifications(ctx, sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verifications) != 1 || verifications[0].IsAccurate {
		t.Fatalf("expected one inaccurate verification on record, got %+v", verifications)
	}
}

func TestVerifyUnknownSubmission(t *testing.T) {
	f := newFixture()

	_, err := f.service.Verify(context.Background(), 999, "v1", true, nil)
	if err == nil {
		t.Fatalf("expected error for unknown submission")
	}
	if _, err := f.reputation.Snapshot(context.Background(), "v1"); err == nil {
		t.Fatalf("failed verification must not award points")
	}
}

func TestVerifyRejectsOversizedNotes(t *testing.T) {
	f := newFixture()
	sub := f.createSubmission(t, "submitter", 3.5)

	notes := strings.Repeat("x", MaxVerificationNotesLength+1)
	_, err := f.service.Verify(context.Background(), sub.ID, "v1", true, &notes)
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// --------------------------------------------------
// Disputes
// --------------------------------------------------

func TestDisputeBumpsCounterOnFiling(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub := f.createSubmission(t, "submitter", 3.5)

	dispute, err := f.service.Dispute(ctx, sub.ID, "challenger", "price is outdated", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispute.Status != DisputePending {
		t.Fatalf("expected pending, got %s", dispute.Status)
	}

	current, err := f.submissions.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.DisputeCount != 1 {
		t.Fatalf("dispute counter must rise at filing, got %d", current.DisputeCount)
	}
}

func TestDisputeValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub := f.createSubmission(t, "submitter", 3.5)

	if _, err := f.service.Dispute(ctx, sub.ID, "challenger", "", nil, nil); !core.IsValidation(err) {
		t.Fatalf("expected validation error for empty reason, got %v", err)
	}

	long := strings.Repeat("x", MaxDisputeReasonLength+1)
	if _, err := f.service.Dispute(ctx, sub.ID, "challenger", long, nil, nil); !core.IsValidation(err) {
		t.Fatalf("expected validation error for long reason, got %v", err)
	}

	bad := 5000.0
	if _, err := f.service.Dispute(ctx, sub.ID, "challenger", "too high", &bad, nil); !core.IsValidation(err) {
		t.Fatalf("expected validation error for out-of-range suggested price, got %v", err)
	}
}

func TestDisputeLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub := f.createSubmission(t, "submitter", 3.5)

	dispute, err := f.service.Dispute(ctx, sub.ID, "challenger", "wrong price", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cannot resolve before review starts.
	if _, err := f.service.Resolve(ctx, dispute.ID, "mod", OutcomeAccepted); !core.IsStateConflict(err) {
		t.Fatalf("expected state conflict resolving a pending dispute, got %v", err)
	}

	reviewed, err := f.service.StartReview(ctx, dispute.ID, "mod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reviewed.Status != DisputeUnderReview {
		t.Fatalf("expected under_review, got %s", reviewed.Status)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != "mod" {
		t.Fatalf("expected reviewer recorded at review start, got %+v", reviewed.ReviewedBy)
	}

	// Starting review twice conflicts.
	if _, err := f.service.StartReview(ctx, dispute.ID, "mod"); !core.IsStateConflict(err) {
		t.Fatalf("expected state conflict on second review start, got %v", err)
	}

	resolved, err := f.service.Resolve(ctx, dispute.ID, "mod", OutcomeAccepted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Status != DisputeResolvedAccepted {
		t.Fatalf("expected resolved_accepted, got %s", resolved.Status)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != "mod" {
		t.Fatalf("expected resolver recorded, got %+v", resolved.ResolvedBy)
	}

	// Terminal states never change again.
	if _, err := f.service.Resolve(ctx, dispute.ID, "mod", OutcomeRejected); !core.IsStateConflict(err) {
		t.Fatalf("expected state conflict on double resolution, got %v", err)
	}
}

func TestAcceptedDisputeSettlesPoints(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sub := f.createSubmission(t, "submitter", 3.5)

	// Give the submitter a starting balance so the penalty is visible.
	if err := f.reputation.AwardPoints(ctx, "submitter", reputation.PointsForSubmission, reputation.ActionSubmission, "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dispute, err := f.service.Dispute(ctx, sub.ID, "challenger", "wrong price", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.StartReview(ctx, dispute.ID, "mod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.Resolve(ctx, dispute.ID, "mod", OutcomeAccepted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := points(t, f.reputation, "mod"); got != reputation.PointsForDisputeResolution {
		t.Fatalf("expected resolver to earn %d, got %d", reputation.PointsForDisputeResolution, got)
	}
	if got := points(t, f.reputation, "submitter"); got != reputation.PointsForSubmission-reputation.DisputePenaltyPoints {
		t.Fatalf("expected submitter at %d, got %d",
			reputation.PointsForSubmission-reputation.DisputePenaltyPoints, got)
	}
}

func TestRejectedDisputeSettlesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sub := f.createSubmission(t, "submitter", 3.5)

	dispute, err := f.service.Dispute(ctx, sub.ID, "challenger", "wrong price", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.StartReview(ctx, dispute.ID, "mod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.Resolve(ctx, dispute.ID, "mod", OutcomeRejected); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.reputation.Snapshot(ctx, "mod"); err == nil {
		t.Fatalf("rejected dispute must not pay the resolver")
	}
	if _, err := f.reputation.Snapshot(ctx, "submitter"); err == nil {
		t.Fatalf("rejected dispute must not penalize the submitter")
	}
}

// --------------------------------------------------
// Full contribution flow
// --------------------------------------------------

func TestContributionFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Alice submits a price.
	sub := f.createSubmission(t, "alice", 3.5)
	if err := f.reputation.AwardPoints(ctx, "alice", reputation.PointsForSubmission, reputation.ActionSubmission, "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Three accurate verifications push it over the threshold.
	for _, verifier := range []string{"bob", "carol", "dave"} {
		if _, err := f.service.Verify(ctx, sub.ID, verifier, true, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	current, err := f.submissions.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !current.IsVerified {
		t.Fatalf("expected submission verified after three accurate votes")
	}

	if got := points(t, f.reputation, "alice"); got != reputation.PointsForSubmission {
		t.Fatalf("expected alice at %d, got %d", reputation.PointsForSubmission, got)
	}
	for _, verifier := range []string{"bob", "carol", "dave"} {
		if got := points(t, f.reputation, verifier); got != reputation.PointsForVerification {
			t.Fatalf("expected %s at %d, got %d", verifier, reputation.PointsForVerification, got)
		}
	}
}
