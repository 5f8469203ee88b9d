package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"pricecheck/internal/cache"
	"pricecheck/internal/core"
	"pricecheck/internal/reputation"
)

const topCacheTTL = 30 * time.Second

type Service struct {
	repo       Repository
	reputation *reputation.Service
	cache      cache.Cache
	clock      core.Clock
	logger     *zap.Logger
}

func NewService(
	repo Repository,
	reps *reputation.Service,
	c cache.Cache,
	clock core.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		reputation: reps,
		cache:      c,
		clock:      clock,
		logger:     logger,
	}
}

// Rebuild recomputes a period's ranking from scratch and atomically
// replaces its stored entries. Ranking is points descending with ties
// broken by ascending user id, so rebuilds are deterministic.
func (s *Service) Rebuild(ctx context.Context, period Period) ([]*Entry, error) {
	now := s.clock.Now()

	var totals []reputation.UserTotals

	if from, ok := period.Window(now); ok {
		windowed, err := s.reputation.TotalsBetween(ctx, from, now)
		if err != nil {
			return nil, err
		}
		totals = windowed
	} else {
		snapshots, err := s.reputation.AllSnapshots(ctx)
		if err != nil {
			return nil, err
		}
		for _, snap := range snapshots {
			totals = append(totals, reputation.UserTotals{
				UserID:            snap.UserID,
				Points:            snap.TotalPoints,
				SubmissionCount:   snap.SubmissionCount,
				VerificationCount: snap.VerifiedSubmissionCount,
			})
		}
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Points != totals[j].Points {
			return totals[i].Points > totals[j].Points
		}
		return totals[i].UserID < totals[j].UserID
	})

	entries := make([]*Entry, 0, len(totals))
	for i, t := range totals {
		entries = append(entries, &Entry{
			Period:            period,
			UserID:            t.UserID,
			Position:          i + 1,
			Points:            t.Points,
			SubmissionCount:   t.SubmissionCount,
			VerificationCount: t.VerificationCount,
			UpdatedAt:         now,
		})
	}

	if err := s.repo.ReplaceEntries(ctx, period, entries); err != nil {
		return nil, err
	}

	s.logger.Info("leaderboard rebuilt",
		zap.String("period", string(period)),
		zap.Int("entries", len(entries)),
	)

	return entries, nil
}

// Top returns the period's leading entries, briefly cached.
func (s *Service) Top(ctx context.Context, period Period, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	key := fmt.Sprintf("leaderboard:%s:%d", period, limit)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached []*Entry
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	entries, err := s.repo.ListByPeriod(ctx, period, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, key, raw, topCacheTTL); err != nil {
				s.logger.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return entries, nil
}

// Rank returns a user's position on a period's leaderboard, or 0 when
// the user is unranked.
func (s *Service) Rank(ctx context.Context, period Period, userID string) (int, error) {
	entry, err := s.repo.FindUserEntry(ctx, period, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return entry.Position, nil
}
