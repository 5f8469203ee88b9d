package reputation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"pricecheck/internal/core"
)

// BadgeCounter reports how many active badges a user holds. Implemented
// by the badges repository; kept as a local interface so the ledger does
// not depend on the badge package.
type BadgeCounter interface {
	CountActive(ctx context.Context, userID string) (int, error)
}

type Service struct {
	repo   Repository
	badges BadgeCounter
	clock  core.Clock
	logger *zap.Logger

	// serializes append-then-recompute per user
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewService(repo Repository, badges BadgeCounter, clock core.Clock, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		badges: badges,
		clock:  clock,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// AwardPoints appends a ledger entry and recomputes the user's snapshot
// from the full history. Concurrent awards for the same user are
// serialized so the read-history-then-overwrite step never interleaves.
func (s *Service) AwardPoints(
	ctx context.Context,
	userID string,
	points int,
	action Action,
	description string,
	referenceID *int64,
) error {

	if userID == "" {
		return core.NewValidationError("userId", "must not be empty")
	}
	if !action.Valid() {
		return core.NewValidationError("actionType", "unknown action type")
	}

	magnitude := points
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude < MinPointsPerAction || magnitude > MaxPointsPerAction {
		return core.NewValidationError("points", "points per action out of range")
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	event := &PointEvent{
		UserID:      userID,
		Points:      points,
		ActionType:  action,
		Description: description,
		ReferenceID: referenceID,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.AppendEvent(ctx, event); err != nil {
		return err
	}

	snapshot, err := s.recompute(ctx, userID)
	if err != nil {
		return err
	}

	s.logger.Info("points awarded",
		zap.String("user_id", userID),
		zap.Int("points", points),
		zap.String("action", string(action)),
		zap.Int("total_points", snapshot.TotalPoints),
	)

	return nil
}

// Recompute rebuilds the snapshot from the event ledger. It is a pure
// fold over history and therefore idempotent: replaying the same events
// always yields the same snapshot.
func (s *Service) Recompute(ctx context.Context, userID string) (*Snapshot, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.recompute(ctx, userID)
}

func (s *Service) recompute(ctx context.Context, userID string) (*Snapshot, error) {
	events, err := s.repo.EventsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	badgeCount := 0
	if s.badges != nil {
		badgeCount, err = s.badges.CountActive(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	snapshot := foldEvents(userID, events, badgeCount)
	snapshot.LastUpdated = s.clock.Now()

	if err := s.repo.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// foldEvents derives the snapshot counters from the ledger alone.
func foldEvents(userID string, events []*PointEvent, badgeCount int) *Snapshot {
	var total, submissions, verifications, disputes int

	for _, e := range events {
		total += e.Points
		switch e.ActionType {
		case ActionSubmission:
			submissions++
		case ActionVerification:
			verifications++
		case ActionDisputePenalty:
			disputes++
		}
	}

	if total < 0 {
		total = 0
	}

	trust := verifications*10 + submissions*2 - disputes*5
	if trust < 0 {
		trust = 0
	}
	if trust > 100 {
		trust = 100
	}

	return &Snapshot{
		UserID:                  userID,
		TotalPoints:             total,
		TrustScore:              trust,
		SubmissionCount:         submissions,
		VerifiedSubmissionCount: verifications,
		DisputeCount:            disputes,
		BadgeCount:              badgeCount,
		Level:                   total/100 + 1,
	}
}

// Snapshot returns the stored snapshot for a user.
func (s *Service) Snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	return s.repo.GetSnapshot(ctx, userID)
}

// AllSnapshots returns every stored snapshot, for leaderboard rebuilds.
func (s *Service) AllSnapshots(ctx context.Context) ([]*Snapshot, error) {
	return s.repo.ListSnapshots(ctx)
}

// TotalsBetween aggregates the ledger over [from, to).
func (s *Service) TotalsBetween(ctx context.Context, from, to time.Time) ([]UserTotals, error) {
	return s.repo.TotalsBetween(ctx, from, to)
}
