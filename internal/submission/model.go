package submission

import "time"

// Price bounds in KWD; submissions outside them are rejected.
const (
	MinPriceValue = 0.1
	MaxPriceValue = 1000.0
)

// VerificationThreshold is the accurate-verification count at which a
// submission becomes verified.
const VerificationThreshold = 3

// PriceSubmission is one observed price for one menu item on one
// delivery provider. Rows are append-only: corrections are new
// submissions, and only the verification/dispute counters ever mutate.
type PriceSubmission struct {
	ID                int64     `json:"id"`
	MenuItemID        int64     `json:"menu_item_id"`
	ProviderID        int64     `json:"provider_id"`
	SubmitterID       string    `json:"submitter_id"`
	PriceValue        float64   `json:"price_value"`
	SubmittedAt       time.Time `json:"submitted_at"`
	IsOffer           bool      `json:"is_offer"`
	OfferDescription  *string   `json:"offer_description,omitempty"`
	EvidenceURL       *string   `json:"evidence_url,omitempty"`
	IsVerified        bool      `json:"is_verified"`
	VerificationCount int       `json:"verification_count"`
	DisputeCount      int       `json:"dispute_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
