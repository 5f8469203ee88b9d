package review

import "time"

// MaxVerificationNotesLength bounds the free-text notes on a verification.
const MaxVerificationNotesLength = 200

// MaxDisputeReasonLength bounds the dispute reason.
const MaxDisputeReasonLength = 500

// Verification is one user's attestation about one submission.
// Verifications are kept even when inaccurate, for audit; only accurate
// ones count toward the submission's verification threshold.
type Verification struct {
	ID             int64     `json:"id"`
	SubmissionID   int64     `json:"submission_id"`
	VerifierUserID string    `json:"verifier_user_id"`
	IsAccurate     bool      `json:"is_accurate"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DisputeStatus is the dispute state machine. Transitions:
// pending -> under_review -> {resolved_accepted, resolved_rejected, dismissed}.
// Terminal states never change again.
type DisputeStatus string

const (
	DisputePending          DisputeStatus = "pending"
	DisputeUnderReview      DisputeStatus = "under_review"
	DisputeResolvedAccepted DisputeStatus = "resolved_accepted"
	DisputeResolvedRejected DisputeStatus = "resolved_rejected"
	DisputeDismissed        DisputeStatus = "dismissed"
)

// Terminal reports whether s admits no further transitions.
func (s DisputeStatus) Terminal() bool {
	switch s {
	case DisputeResolvedAccepted, DisputeResolvedRejected, DisputeDismissed:
		return true
	}
	return false
}

// Dispute is a challenge to a submission's correctness. Filing one
// immediately bumps the submission's dispute counter; resolution only
// settles the point awards.
type Dispute struct {
	ID             int64         `json:"id"`
	SubmissionID   int64         `json:"submission_id"`
	DisputerUserID string        `json:"disputer_user_id"`
	Reason         string        `json:"reason"`
	SuggestedPrice *float64      `json:"suggested_price,omitempty"`
	EvidenceURL    *string       `json:"evidence_url,omitempty"`
	Status         DisputeStatus `json:"status"`
	ReviewedBy     *string       `json:"reviewed_by,omitempty"`
	ResolvedBy     *string       `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
