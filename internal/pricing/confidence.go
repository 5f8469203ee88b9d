package pricing

import (
	"time"

	"pricecheck/internal/submission"
)

// ConfidenceScore rates how much to trust a single submission at query
// time, 0-100. It is a pure function of the submission's current state
// and must never be cached past a counter mutation:
//
//	base 50
//	+30 / +20 / +10 for age under 24h / 1 week / 1 month
//	+20 once verified
//	+5 per verification, capped at +20
//	-10 per dispute
func ConfidenceScore(sub *submission.PriceSubmission, now time.Time) int {
	score := 50

	age := now.Sub(sub.SubmittedAt)
	switch {
	case age < 24*time.Hour:
		score += 30
	case age < 168*time.Hour:
		score += 20
	case age < 720*time.Hour:
		score += 10
	}

	if sub.IsVerified {
		score += 20
	}

	verificationBonus := sub.VerificationCount * 5
	if verificationBonus > 20 {
		verificationBonus = 20
	}
	score += verificationBonus

	score -= sub.DisputeCount * 10

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
