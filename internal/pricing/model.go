package pricing

import (
	"time"

	"pricecheck/internal/core"
)

// ItemPrice is the per-item detail inside a provider comparison.
type ItemPrice struct {
	MenuItem         core.MenuItemInfo `json:"menu_item"`
	Price            float64           `json:"price"`
	IsOffer          bool              `json:"is_offer"`
	OfferDescription *string           `json:"offer_description,omitempty"`
	ConfidenceScore  int               `json:"confidence_score"`
	LastUpdated      time.Time         `json:"last_updated"`
}

// ProviderComparison is one provider's estimated total for a set of
// menu items. Its confidence is the weakest item confidence included.
type ProviderComparison struct {
	Provider        core.ProviderInfo `json:"provider"`
	TotalPrice      float64           `json:"total_price"`
	DeliveryFee     float64           `json:"delivery_fee"`
	ServiceFee      float64           `json:"service_fee"`
	EstimatedTotal  float64           `json:"estimated_total"`
	ConfidenceScore int               `json:"confidence_score"`
	LastUpdated     time.Time         `json:"last_updated"`
	ItemPrices      []ItemPrice       `json:"item_prices"`
}

// Trend classifies how a (menu item, provider) price has been moving.
type Trend string

const (
	TrendStable     Trend = "stable"
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendVolatile   Trend = "volatile"
)

// ItemAnalytics summarizes the submission history for one
// (menu item, provider) pair.
type ItemAnalytics struct {
	MenuItemID      int64   `json:"menu_item_id"`
	ProviderID      int64   `json:"provider_id"`
	AveragePrice    float64 `json:"average_price"`
	MinPrice        float64 `json:"min_price"`
	MaxPrice        float64 `json:"max_price"`
	PriceVariance   float64 `json:"price_variance"`
	SubmissionCount int     `json:"submission_count"`
	Trend           Trend   `json:"trend_direction"`
}
