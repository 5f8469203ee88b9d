package badges

import "time"

// Type names an achievement.
type Type string

const (
	TypeFirstSubmission     Type = "first_submission"
	TypeTopContributor      Type = "top_contributor"
	TypeVerifiedContributor Type = "verified_contributor"
	TypePriceHunter         Type = "price_hunter"
	TypeCommunityHelper     Type = "community_helper"
	TypeAccuracyMaster      Type = "accuracy_master"
	TypeWeeklyChampion      Type = "weekly_champion"
	TypeMonthlyChampion     Type = "monthly_champion"
	TypePriceVerifier       Type = "price_verifier"
	TypeDisputeResolver     Type = "dispute_resolver"
)

// Badge is one earned achievement. At most one active badge exists per
// (user, type).
type Badge struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	BadgeType   Type      `json:"badge_type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
	IsActive    bool      `json:"is_active"`
}
