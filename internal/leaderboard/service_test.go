package leaderboard

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"pricecheck/internal/core"
	"pricecheck/internal/reputation"
)

func newTestService() (*Service, *reputation.Service, *reputation.InMemoryRepository) {
	clock := core.FixedClock{Time: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	logger := zap.NewNop()

	reputationRepo := reputation.NewInMemoryRepository()
	reputationService := reputation.NewService(reputationRepo, nil, clock, logger)

	service := NewService(NewInMemoryRepository(), reputationService, nil, clock, logger)
	return service, reputationService, reputationRepo
}

func TestParsePeriod(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly", "all_time"} {
		if _, err := ParsePeriod(valid); err != nil {
			t.Fatalf("%s: unexpected error: %v", valid, err)
		}
	}
	if _, err := ParsePeriod("fortnightly"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestRebuildAllTimeFromSnapshots(t *testing.T) {
	service, reputationService, _ := newTestService()
	ctx := context.Background()

	// alice 20, bob 10
	for i := 0; i < 2; i++ {
		err := reputationService.AwardPoints(ctx, "alice", reputation.PointsForSubmission, reputation.ActionSubmission, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	err := reputationService.AwardPoints(ctx, "bob", reputation.PointsForSubmission, reputation.ActionSubmission, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := service.Rebuild(ctx, PeriodAllTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].UserID != "alice" || entries[0].Position != 1 || entries[0].Points != 20 {
		t.Fatalf("unexpected leader: %+v", entries[0])
	}
	if entries[1].UserID != "bob" || entries[1].Position != 2 || entries[1].Points != 10 {
		t.Fatalf("unexpected runner-up: %+v", entries[1])
	}
}

func TestRebuildBreaksTiesByUserID(t *testing.T) {
	service, reputationService, _ := newTestService()
	ctx := context.Background()

	for _, user := range []string{"zed", "amy"} {
		err := reputationService.AwardPoints(ctx, user, reputation.PointsForSubmission, reputation.ActionSubmission, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := service.Rebuild(ctx, PeriodAllTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].UserID != "amy" || entries[1].UserID != "zed" {
		t.Fatalf("ties must order by ascending user id, got %s then %s",
			entries[0].UserID, entries[1].UserID)
	}
}

func TestRebuildWindowedPeriodFoldsLedger(t *testing.T) {
	service, _, reputationRepo := newTestService()
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	events := []*reputation.PointEvent{
		{UserID: "alice", Points: 10, ActionType: reputation.ActionSubmission, CreatedAt: now.Add(-time.Hour)},
		{UserID: "alice", Points: 10, ActionType: reputation.ActionSubmission, CreatedAt: now.Add(-48 * time.Hour)},
		{UserID: "bob", Points: 5, ActionType: reputation.ActionVerification, CreatedAt: now.Add(-2 * time.Hour)},
	}
	for _, e := range events {
		if err := reputationRepo.AppendEvent(ctx, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := service.Rebuild(ctx, PeriodDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries in the daily window, got %d", len(entries))
	}

	// Only alice's event inside 24h counts.
	if entries[0].UserID != "alice" || entries[0].Points != 10 {
		t.Fatalf("unexpected daily leader: %+v", entries[0])
	}
	if entries[1].UserID != "bob" || entries[1].Points != 5 {
		t.Fatalf("unexpected daily runner-up: %+v", entries[1])
	}
}

func TestRebuildReplacesPreviousEntries(t *testing.T) {
	service, reputationService, _ := newTestService()
	ctx := context.Background()

	err := reputationService.AwardPoints(ctx, "alice", reputation.PointsForSubmission, reputation.ActionSubmission, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Rebuild(ctx, PeriodAllTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = reputationService.AwardPoints(ctx, "bob", 50, reputation.ActionBonus, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Rebuild(ctx, PeriodAllTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := service.Top(ctx, PeriodAllTime, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected fresh entries for both users, got %d", len(entries))
	}
	if entries[0].UserID != "bob" {
		t.Fatalf("expected bob leading after bonus, got %s", entries[0].UserID)
	}
}

func TestRankReturnsZeroWhenUnranked(t *testing.T) {
	service, _, _ := newTestService()

	rank, err := service.Rank(context.Background(), PeriodAllTime, "ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rank != 0 {
		t.Fatalf("expected rank 0 for unranked user, got %d", rank)
	}
}
