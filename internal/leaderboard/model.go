package leaderboard

import (
	"time"

	"pricecheck/internal/core"
)

// Period is the ranking window.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAllTime Period = "all_time"
)

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime:
		return Period(s), nil
	}
	return "", core.NewValidationError("period", "unknown leaderboard period")
}

// Window returns the rolling time range the period covers, ending now.
// The all-time period has no window and reports ok=false.
func (p Period) Window(now time.Time) (from time.Time, ok bool) {
	switch p {
	case PeriodDaily:
		return now.Add(-24 * time.Hour), true
	case PeriodWeekly:
		return now.Add(-7 * 24 * time.Hour), true
	case PeriodMonthly:
		return now.Add(-30 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

// Entry is one user's rank for one period. Entries are fully replaced
// on every rebuild, never patched in place.
type Entry struct {
	ID                int64     `json:"id"`
	Period            Period    `json:"period"`
	UserID            string    `json:"user_id"`
	Position          int       `json:"position"`
	Points            int       `json:"points"`
	SubmissionCount   int       `json:"submission_count"`
	VerificationCount int       `json:"verification_count"`
	UpdatedAt         time.Time `json:"updated_at"`
}
