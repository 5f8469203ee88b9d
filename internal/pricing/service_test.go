package pricing

import (
	"context"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"pricecheck/internal/badges"
	"pricecheck/internal/catalog"
	"pricecheck/internal/core"
	"pricecheck/internal/reputation"
	"pricecheck/internal/submission"
)

type fixture struct {
	service     *Service
	catalog     *catalog.InMemoryRepository
	submissions *submission.InMemoryRepository
	now         time.Time
}

func newFixture() *fixture {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	clock := core.FixedClock{Time: now}
	logger := zap.NewNop()

	catalogRepo := catalog.NewInMemoryRepository()
	submissionRepo := submission.NewInMemoryRepository()

	reputationService := reputation.NewService(reputation.NewInMemoryRepository(), nil, clock, logger)
	badgeService := badges.NewService(badges.NewInMemoryRepository(), reputationService, clock, logger)
	submissionService := submission.NewService(submissionRepo, reputationService, badgeService, nil, clock, logger)

	service := NewService(catalog.NewReader(catalogRepo), submissionService, nil, clock, logger)

	return &fixture{
		service:     service,
		catalog:     catalogRepo,
		submissions: submissionRepo,
		now:         now,
	}
}

func (f *fixture) addProvider(name string, deliveryFee, serviceFeePct float64) *catalog.Provider {
	return f.catalog.AddProvider(&catalog.Provider{
		Name:                 name,
		DisplayName:          name,
		IsActive:             true,
		DeliveryFeeBase:      deliveryFee,
		ServiceFeePercentage: serviceFeePct,
	})
}

func (f *fixture) addPrice(t *testing.T, menuItemID, providerID int64, price float64, age time.Duration) *submission.PriceSubmission {
	t.Helper()

	sub := &submission.PriceSubmission{
		MenuItemID:  menuItemID,
		ProviderID:  providerID,
		SubmitterID: "someone",
		PriceValue:  price,
		SubmittedAt: f.now.Add(-age),
	}
	if err := f.submissions.Create(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sub
}

func TestCompareRanksByEstimatedTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expensive := f.addProvider("slowexpensive", 1.5, 10)
	cheap := f.addProvider("quickcheap", 0.5, 0)
	middle := f.addProvider("middling", 1.0, 5)

	item := f.catalog.AddMenuItem(&catalog.MenuItem{RestaurantID: 1, Name: "Shawarma"})

	f.addPrice(t, item.ID, expensive.ID, 4.0, time.Hour)
	f.addPrice(t, item.ID, cheap.ID, 3.0, time.Hour)
	f.addPrice(t, item.ID, middle.ID, 3.5, time.Hour)

	results, err := f.service.Compare(ctx, []int64{item.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 providers, got %d", len(results))
	}

	// cheap: 3.0 + 0.5 = 3.5; middle: 3.5 + 1.0 + 0.175 = 4.675;
	// expensive: 4.0 + 1.5 + 0.4 = 5.9
	order := []string{"quickcheap", "middling", "slowexpensive"}
	for i, name := range order {
		if results[i].Provider.Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, results[i].Provider.Name)
		}
	}

	second := results[1]
	if math.Abs(second.ServiceFee-0.175) > 1e-9 {
		t.Fatalf("expected service fee 0.175, got %v", second.ServiceFee)
	}
	if math.Abs(second.EstimatedTotal-4.675) > 1e-9 {
		t.Fatalf("expected estimated total 4.675, got %v", second.EstimatedTotal)
	}
}

func TestCompareExcludesProvidersWithoutData(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	covered := f.addProvider("covered", 0.5, 0)
	f.addProvider("empty", 0.5, 0)

	item := f.catalog.AddMenuItem(&catalog.MenuItem{RestaurantID: 1, Name: "Shawarma"})
	f.addPrice(t, item.ID, covered.ID, 3.0, time.Hour)

	results, err := f.service.Compare(ctx, []int64{item.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Provider.Name != "covered" {
		t.Fatalf("expected only the covered provider, got %+v", results)
	}
}

func TestCompareUsesWeakestItemConfidence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	provider := f.addProvider("p", 0.5, 0)
	fresh := f.catalog.AddMenuItem(&catalog.MenuItem{RestaurantID: 1, Name: "Fresh"})
	stale := f.catalog.AddMenuItem(&catalog.MenuItem{RestaurantID: 1, Name: "Stale"})

	f.addPrice(t, fresh.ID, provider.ID, 3.0, time.Hour)          // confidence 80
	f.addPrice(t, stale.ID, provider.ID, 2.0, 45*24*time.Hour)    // confidence 50

	results, err := f.service.Compare(ctx, []int64{fresh.ID, stale.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 provider, got %d", len(results))
	}
	if results[0].ConfidenceScore != 50 {
		t.Fatalf("expected weakest confidence 50, got %d", results[0].ConfidenceScore)
	}
}

func TestCompareRejectsEmptyInput(t *testing.T) {
	f := newFixture()

	_, err := f.service.Compare(context.Background(), nil)
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestItemAnalytics(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	provider := f.addProvider("p", 0.5, 0)
	other := f.addProvider("other", 0.5, 0)
	item := f.catalog.AddMenuItem(&catalog.MenuItem{RestaurantID: 1, Name: "Shawarma"})

	f.addPrice(t, item.ID, provider.ID, 3.0, 3*time.Hour)
	f.addPrice(t, item.ID, provider.ID, 4.0, 2*time.Hour)
	f.addPrice(t, item.ID, provider.ID, 5.0, time.Hour)
	f.addPrice(t, item.ID, other.ID, 99.0, time.Hour) // different provider, excluded

	analytics, err := f.service.ItemAnalytics(ctx, item.ID, provider.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analytics.SubmissionCount != 3 {
		t.Fatalf("expected 3 submissions, got %d", analytics.SubmissionCount)
	}
	if math.Abs(analytics.AveragePrice-4.0) > 1e-9 {
		t.Fatalf("expected average 4.0, got %v", analytics.AveragePrice)
	}
	if analytics.MinPrice != 3.0 || analytics.MaxPrice != 5.0 {
		t.Fatalf("unexpected min/max: %v/%v", analytics.MinPrice, analytics.MaxPrice)
	}
}

func TestItemAnalyticsNotFoundWithoutData(t *testing.T) {
	f := newFixture()

	_, err := f.service.ItemAnalytics(context.Background(), 1, 2)
	if err != core.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClassifyTrend(t *testing.T) {
	// prices are newest-first
	increasing := []float64{5.0, 5.0, 4.6, 4.6}
	if got := classifyTrend(increasing, mean(increasing), variance(increasing)); got != TrendIncreasing {
		t.Fatalf("expected increasing, got %s", got)
	}

	decreasing := []float64{4.6, 4.6, 5.0, 5.0}
	if got := classifyTrend(decreasing, mean(decreasing), variance(decreasing)); got != TrendDecreasing {
		t.Fatalf("expected decreasing, got %s", got)
	}

	stable := []float64{4.0, 4.0, 4.0, 4.0}
	if got := classifyTrend(stable, mean(stable), variance(stable)); got != TrendStable {
		t.Fatalf("expected stable, got %s", got)
	}

	volatile := []float64{2.0, 8.0, 2.0, 8.0}
	if got := classifyTrend(volatile, mean(volatile), variance(volatile)); got != TrendVolatile {
		t.Fatalf("expected volatile, got %s", got)
	}
}

func mean(prices []float64) float64 {
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

func variance(prices []float64) float64 {
	m := mean(prices)
	v := 0.0
	for _, p := range prices {
		v += (p - m) * (p - m)
	}
	return v / float64(len(prices))
}
