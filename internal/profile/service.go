package profile

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"pricecheck/internal/badges"
	"pricecheck/internal/core"
	"pricecheck/internal/leaderboard"
	"pricecheck/internal/reputation"
	"pricecheck/internal/submission"
)

const recentSubmissionLimit = 10

// UserStats is everything the profile screen shows about a contributor:
// the reputation snapshot, active badges, the latest submissions and the
// all-time leaderboard rank.
type UserStats struct {
	Reputation        *reputation.Snapshot          `json:"reputation"`
	Badges            []*badges.Badge               `json:"badges"`
	RecentSubmissions []*submission.PriceSubmission `json:"recent_submissions"`
	Rank              int                           `json:"rank"`
}

type Service struct {
	reputations  *reputation.Service
	badges       *badges.Service
	submissions  *submission.Service
	leaderboards *leaderboard.Service
	logger       *zap.Logger
}

func NewService(
	reputations *reputation.Service,
	badgeService *badges.Service,
	submissions *submission.Service,
	leaderboards *leaderboard.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		reputations:  reputations,
		badges:       badgeService,
		submissions:  submissions,
		leaderboards: leaderboards,
		logger:       logger,
	}
}

// Stats assembles the profile view for userID. A user with no ledger
// activity yet gets a zero-valued snapshot rather than a not-found error.
func (s *Service) Stats(ctx context.Context, userID string) (*UserStats, error) {
	if userID == "" {
		return nil, core.NewValidationError("userID", "must not be empty")
	}

	snapshot, err := s.reputations.Snapshot(ctx, userID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		snapshot = &reputation.Snapshot{UserID: userID, Level: 1}
	}

	activeBadges, err := s.badges.ActiveBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.submissions.RecentByUser(ctx, userID, recentSubmissionLimit)
	if err != nil {
		return nil, err
	}

	rank, err := s.leaderboards.Rank(ctx, leaderboard.PeriodAllTime, userID)
	if err != nil {
		s.logger.Warn("leaderboard rank lookup failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		rank = 0
	}

	return &UserStats{
		Reputation:        snapshot,
		Badges:            activeBadges,
		RecentSubmissions: recent,
		Rank:              rank,
	}, nil
}

// Badges returns the user's active badges only.
func (s *Service) Badges(ctx context.Context, userID string) ([]*badges.Badge, error) {
	if userID == "" {
		return nil, core.NewValidationError("userID", "must not be empty")
	}
	return s.badges.ActiveBadges(ctx, userID)
}
