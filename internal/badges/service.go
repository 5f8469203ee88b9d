package badges

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"pricecheck/internal/core"
	"pricecheck/internal/reputation"
)

// rule grants a badge once the reputation snapshot satisfies it.
type rule struct {
	badgeType   Type
	name        string
	description string
	satisfied   func(*reputation.Snapshot) bool
}

var rules = []rule{
	{
		badgeType:   TypeFirstSubmission,
		name:        "First Submission",
		description: "Submitted your first price!",
		satisfied: func(s *reputation.Snapshot) bool {
			return s.SubmissionCount >= 1
		},
	},
	{
		badgeType:   TypeTopContributor,
		name:        "Top Contributor",
		description: "Submitted 50+ prices!",
		satisfied: func(s *reputation.Snapshot) bool {
			return s.SubmissionCount >= 50
		},
	},
	{
		badgeType:   TypeVerifiedContributor,
		name:        "Verified Contributor",
		description: "High trust score achieved!",
		satisfied: func(s *reputation.Snapshot) bool {
			return s.TrustScore >= 80
		},
	},
}

type Service struct {
	repo       Repository
	reputation *reputation.Service
	clock      core.Clock
	logger     *zap.Logger
}

func NewService(repo Repository, reps *reputation.Service, clock core.Clock, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		reputation: reps,
		clock:      clock,
		logger:     logger,
	}
}

// Evaluate grants every badge whose rule the user's current snapshot
// satisfies and that is not already active. Granting is idempotent.
func (s *Service) Evaluate(ctx context.Context, userID string) ([]*Badge, error) {
	snapshot, err := s.reputation.Snapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	existing, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := make(map[Type]bool, len(existing))
	for _, b := range existing {
		active[b.BadgeType] = true
	}

	var granted []*Badge

	for _, r := range rules {
		if active[r.badgeType] || !r.satisfied(snapshot) {
			continue
		}

		badge := &Badge{
			UserID:      userID,
			BadgeType:   r.badgeType,
			Name:        r.name,
			Description: r.description,
			EarnedAt:    s.clock.Now(),
			IsActive:    true,
		}

		if err := s.repo.Create(ctx, badge); err != nil {
			return granted, err
		}

		s.logger.Info("badge granted",
			zap.String("user_id", userID),
			zap.String("badge", string(r.badgeType)),
		)

		granted = append(granted, badge)
	}

	// The snapshot carries a badge count; refresh it after new grants.
	if len(granted) > 0 {
		if _, err := s.reputation.Recompute(ctx, userID); err != nil {
			return granted, err
		}
	}

	return granted, nil
}

// ActiveBadges lists a user's active badges.
func (s *Service) ActiveBadges(ctx context.Context, userID string) ([]*Badge, error) {
	return s.repo.ListActive(ctx, userID)
}
