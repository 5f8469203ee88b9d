package reputation

import "time"

// Action classifies a point event.
type Action string

const (
	ActionSubmission         Action = "price_submission"
	ActionVerification       Action = "price_verification"
	ActionDisputeResolution  Action = "dispute_resolution"
	ActionAccurateSubmission Action = "accurate_submission"
	ActionWeeklyTop          Action = "weekly_top_contributor"
	ActionMonthlyTop         Action = "monthly_top_contributor"
	ActionBonus              Action = "bonus_points"
	ActionDisputePenalty     Action = "dispute_penalty"
)

// Valid reports whether a is a known action type.
func (a Action) Valid() bool {
	switch a {
	case ActionSubmission, ActionVerification, ActionDisputeResolution,
		ActionAccurateSubmission, ActionWeeklyTop, ActionMonthlyTop,
		ActionBonus, ActionDisputePenalty:
		return true
	}
	return false
}

// Point awards per action. Changing these only affects new events; the
// snapshot fold never re-prices history.
const (
	PointsForSubmission         = 10
	PointsForVerification       = 5
	PointsForAccurateSubmission = 15
	PointsForDisputeResolution  = 20
	DisputePenaltyPoints        = 5

	MaxPointsPerAction = 1000
	MinPointsPerAction = 1
)

// PointEvent is one immutable ledger entry. The ledger is the source of
// truth for snapshots; events are never mutated or deleted.
type PointEvent struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Points      int       `json:"points"`
	ActionType  Action    `json:"action_type"`
	Description string    `json:"description"`
	ReferenceID *int64    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot is the derived, recomputable reputation state for one user.
type Snapshot struct {
	UserID                  string    `json:"user_id"`
	TotalPoints             int       `json:"total_points"`
	TrustScore              int       `json:"trust_score"`
	SubmissionCount         int       `json:"submission_count"`
	VerifiedSubmissionCount int       `json:"verified_submission_count"`
	DisputeCount            int       `json:"dispute_count"`
	BadgeCount              int       `json:"badge_count"`
	Level                   int       `json:"level"`
	LastUpdated             time.Time `json:"last_updated"`
}

// UserTotals is a per-user aggregate over a slice of the ledger, used by
// period leaderboards.
type UserTotals struct {
	UserID            string
	Points            int
	SubmissionCount   int
	VerificationCount int
}
