package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"pricecheck/internal/cache"
	"pricecheck/internal/core"
	"pricecheck/internal/submission"
)

const compareCacheTTL = time.Minute

type Service struct {
	catalog     core.CatalogReader
	submissions *submission.Service
	cache       cache.Cache
	clock       core.Clock
	logger      *zap.Logger
}

func NewService(
	catalog core.CatalogReader,
	subs *submission.Service,
	c cache.Cache,
	clock core.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		catalog:     catalog,
		submissions: subs,
		cache:       c,
		clock:       clock,
		logger:      logger,
	}
}

// Compare builds the ranked provider comparison for a set of menu
// items. Providers without a price for any requested item are excluded;
// the result is sorted ascending by estimated total with ties keeping
// provider enumeration order. An empty result means no provider has
// data. The read path is consistency-tolerant: results may come from a
// short-lived cache.
func (s *Service) Compare(ctx context.Context, menuItemIDs []int64) ([]ProviderComparison, error) {
	if len(menuItemIDs) == 0 {
		return nil, core.NewValidationError("menuItemIds", "must not be empty")
	}

	key := compareCacheKey(menuItemIDs)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached []ProviderComparison
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	providers, err := s.catalog.ActiveProviders(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	results := make([]ProviderComparison, 0, len(providers))

	for _, provider := range providers {
		comparison, err := s.compareProvider(ctx, provider, menuItemIDs, now)
		if err != nil {
			return nil, err
		}
		if comparison != nil {
			results = append(results, *comparison)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EstimatedTotal < results[j].EstimatedTotal
	})

	if s.cache != nil {
		if raw, err := json.Marshal(results); err == nil {
			if err := s.cache.Set(ctx, key, raw, compareCacheTTL); err != nil {
				s.logger.Warn("comparison cache write failed", zap.Error(err))
			}
		}
	}

	return results, nil
}

func (s *Service) compareProvider(
	ctx context.Context,
	provider core.ProviderInfo,
	menuItemIDs []int64,
	now time.Time,
) (*ProviderComparison, error) {

	var (
		itemPrices  []ItemPrice
		totalPrice  float64
		confidence  = 100
		lastUpdated time.Time
	)

	for _, menuItemID := range menuItemIDs {
		latest, err := s.submissions.LatestPrice(ctx, menuItemID, provider.ID)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			continue
		}

		menuItem, err := s.catalog.MenuItem(ctx, menuItemID)
		if err != nil {
			return nil, err
		}
		if menuItem == nil {
			continue
		}

		score := ConfidenceScore(latest, now)

		itemPrices = append(itemPrices, ItemPrice{
			MenuItem:         *menuItem,
			Price:            latest.PriceValue,
			IsOffer:          latest.IsOffer,
			OfferDescription: latest.OfferDescription,
			ConfidenceScore:  score,
			LastUpdated:      latest.SubmittedAt,
		})

		totalPrice += latest.PriceValue
		if score < confidence {
			confidence = score
		}
		if latest.SubmittedAt.After(lastUpdated) {
			lastUpdated = latest.SubmittedAt
		}
	}

	// A provider with no data for any requested item cannot be compared.
	if len(itemPrices) == 0 {
		return nil, nil
	}

	serviceFee := totalPrice * provider.ServiceFeePercentage / 100

	return &ProviderComparison{
		Provider:        provider,
		TotalPrice:      totalPrice,
		DeliveryFee:     provider.DeliveryFeeBase,
		ServiceFee:      serviceFee,
		EstimatedTotal:  totalPrice + provider.DeliveryFeeBase + serviceFee,
		ConfidenceScore: confidence,
		LastUpdated:     lastUpdated,
		ItemPrices:      itemPrices,
	}, nil
}

func compareCacheKey(menuItemIDs []int64) string {
	ids := make([]int64, len(menuItemIDs))
	copy(ids, menuItemIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "compare:" + strings.Join(parts, ",")
}

// ItemAnalytics summarizes price history for one (menu item, provider)
// pair.
func (s *Service) ItemAnalytics(
	ctx context.Context,
	menuItemID, providerID int64,
) (*ItemAnalytics, error) {

	subs, err := s.submissions.PricesForItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}

	// newest-first; keep only this provider
	var prices []float64
	for _, sub := range subs {
		if sub.ProviderID == providerID {
			prices = append(prices, sub.PriceValue)
		}
	}

	if len(prices) == 0 {
		return nil, core.ErrNotFound
	}

	minPrice, maxPrice := prices[0], prices[0]
	sum := 0.0
	for _, p := range prices {
		sum += p
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
	}
	mean := sum / float64(len(prices))

	variance := 0.0
	for _, p := range prices {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(prices))

	return &ItemAnalytics{
		MenuItemID:      menuItemID,
		ProviderID:      providerID,
		AveragePrice:    mean,
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		PriceVariance:   variance,
		SubmissionCount: len(prices),
		Trend:           classifyTrend(prices, mean, variance),
	}, nil
}

// classifyTrend compares the newer half of the history against the
// older half; prices is newest-first.
func classifyTrend(prices []float64, mean, variance float64) Trend {
	if len(prices) < 2 {
		return TrendStable
	}

	if mean > 0 && math.Sqrt(variance) > 0.2*mean {
		return TrendVolatile
	}

	half := len(prices) / 2
	newer, older := 0.0, 0.0
	for i, p := range prices {
		if i < half {
			newer += p
		} else {
			older += p
		}
	}
	newerMean := newer / float64(half)
	olderMean := older / float64(len(prices)-half)

	switch {
	case olderMean > 0 && newerMean > olderMean*1.05:
		return TrendIncreasing
	case olderMean > 0 && newerMean < olderMean*0.95:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
