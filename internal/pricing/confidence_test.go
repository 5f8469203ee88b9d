package pricing

import (
	"testing"
	"time"

	"pricecheck/internal/submission"
)

var confidenceNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func submittedAgo(age time.Duration) *submission.PriceSubmission {
	return &submission.PriceSubmission{SubmittedAt: confidenceNow.Add(-age)}
}

func TestConfidenceRecencyTiers(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want int
	}{
		{time.Hour, 80},             // under a day: 50 + 30
		{3 * 24 * time.Hour, 70},    // under a week: 50 + 20
		{20 * 24 * time.Hour, 60},   // under a month: 50 + 10
		{45 * 24 * time.Hour, 50},   // older: base only
	}

	for _, tc := range cases {
		sub := submittedAgo(tc.age)
		if got := ConfidenceScore(sub, confidenceNow); got != tc.want {
			t.Fatalf("age %v: expected %d, got %d", tc.age, tc.want, got)
		}
	}
}

func TestConfidenceVerificationBonuses(t *testing.T) {
	sub := submittedAgo(45 * 24 * time.Hour)
	sub.IsVerified = true
	sub.VerificationCount = 3

	// 50 + 20 verified + 15 count bonus
	if got := ConfidenceScore(sub, confidenceNow); got != 85 {
		t.Fatalf("expected 85, got %d", got)
	}
}

func TestConfidenceCountBonusCapped(t *testing.T) {
	sub := submittedAgo(45 * 24 * time.Hour)
	sub.VerificationCount = 10

	// 50 + min(50, 20) count bonus
	if got := ConfidenceScore(sub, confidenceNow); got != 70 {
		t.Fatalf("expected count bonus capped at 20, got %d", got)
	}
}

func TestConfidenceDisputePenalty(t *testing.T) {
	fresh := submittedAgo(time.Hour)
	fresh.DisputeCount = 1
	if got := ConfidenceScore(fresh, confidenceNow); got != 70 {
		t.Fatalf("expected 70 with one dispute, got %d", got)
	}

	disputed := submittedAgo(45 * 24 * time.Hour)
	disputed.DisputeCount = 9
	if got := ConfidenceScore(disputed, confidenceNow); got != 0 {
		t.Fatalf("expected score clamped to 0, got %d", got)
	}
}

func TestConfidenceClampedToHundred(t *testing.T) {
	sub := submittedAgo(time.Hour)
	sub.IsVerified = true
	sub.VerificationCount = 10

	// 50 + 30 + 20 + 20 = 120, clamped
	if got := ConfidenceScore(sub, confidenceNow); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}
