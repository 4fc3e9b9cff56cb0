package service

import (
	"context"
	"testing"
	"time"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/forecast"
	"github.com/freshmark/backend-go/internal/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepository serves canned inventory and sales data, and records saved
// markdown suggestions.
type stubRepository struct {
	items map[string]domain.InventoryItem
	order []string
	sales map[string][]domain.SalesRecord
	saved []domain.MarkdownDecision
}

func (r *stubRepository) GetInventory(_ context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, id := range r.order {
		item := r.items[id]
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.MaxDaysUntilExpiry != nil && item.DaysUntilExpiry > *filter.MaxDaysUntilExpiry {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *stubRepository) GetSalesHistory(_ context.Context, productID string, _ int) ([]domain.SalesRecord, error) {
	return r.sales[productID], nil
}

func (r *stubRepository) SaveMarkdownSuggestion(_ context.Context, decision domain.MarkdownDecision) error {
	r.saved = append(r.saved, decision)
	return nil
}

func dailySales(start time.Time, units ...int) []domain.SalesRecord {
	out := make([]domain.SalesRecord, len(units))
	for i, u := range units {
		out[i] = domain.SalesRecord{Date: start.AddDate(0, 0, i), UnitsSold: u, Price: 3.0}
	}
	return out
}

func newStubRepository() *stubRepository {
	units := make([]int, 30)
	for i := range units {
		units[i] = 10 + i%5
	}
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	return &stubRepository{
		order: []string{"a", "b", "c"},
		items: map[string]domain.InventoryItem{
			"a": {ProductID: "a", ProductName: "Milk 1L", Category: "Dairy", Stock: 40, CurrentPrice: 1.5, DaysUntilExpiry: 2, Status: domain.StatusExpiring},
			"b": {ProductID: "b", ProductName: "Sourdough", Category: "Bakery", Stock: 25, CurrentPrice: 4.0, DaysUntilExpiry: 1, Status: domain.StatusExpiring},
			"c": {ProductID: "c", ProductName: "Apples 1kg", Category: "Produce", Stock: 60, CurrentPrice: 2.5, DaysUntilExpiry: 9, Status: domain.StatusSafe},
		},
		sales: map[string][]domain.SalesRecord{
			"a": dailySales(start, units...),
			"b": dailySales(start, units[:20]...),
		},
	}
}

func newTestForecaster() *forecast.Forecaster {
	return forecast.NewForecaster(forecast.NewModelStore(nil), 14)
}

func TestGetForecast(t *testing.T) {
	repo := newStubRepository()
	svc := NewForecastService(repo, newTestForecaster(), 90, 7)

	result, err := svc.GetForecast(context.Background(), "a", 7)
	require.NoError(t, err)

	assert.Equal(t, "a", result.ProductID)
	assert.Equal(t, 7, result.HorizonDays)
	require.Len(t, result.Forecast, 7)
	assert.NotNil(t, result.AccuracyMetrics)

	// 14 charted actuals plus 7 projected days.
	require.Len(t, result.ChartData, 21)
	assert.NotNil(t, result.ChartData[0].Actual)
	assert.Nil(t, result.ChartData[0].Predicted)
	assert.NotNil(t, result.ChartData[20].Predicted)
	assert.Nil(t, result.ChartData[20].Actual)
}

func TestGetForecastConfiguredDefaultHorizon(t *testing.T) {
	svc := NewForecastService(newStubRepository(), newTestForecaster(), 90, 5)

	result, err := svc.GetForecast(context.Background(), "a", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, result.HorizonDays)
	assert.Len(t, result.Forecast, 5)
}

func TestGetForecastNoHistory(t *testing.T) {
	svc := NewForecastService(newStubRepository(), newTestForecaster(), 90, 7)

	_, err := svc.GetForecast(context.Background(), "c", 7)
	assert.ErrorIs(t, err, domain.ErrNoSalesHistory)
}

func TestGetSalesHistoryTotals(t *testing.T) {
	repo := &stubRepository{
		sales: map[string][]domain.SalesRecord{
			"a": dailySales(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 4, 6, 8),
		},
	}
	svc := NewForecastService(repo, newTestForecaster(), 90, 7)

	result, err := svc.GetSalesHistory(context.Background(), "a", 30)
	require.NoError(t, err)
	assert.Equal(t, 18, result.TotalUnits)
	assert.Equal(t, 6.0, result.AverageDailySales)
	assert.Equal(t, 3, result.DaysCovered)
}

func TestGetMarkdownUnknownProduct(t *testing.T) {
	svc := NewMarkdownService(newStubRepository(), newTestForecaster(), markdown.NewOptimizer(nil), 90, 2)

	_, err := svc.GetMarkdown(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetMarkdown(t *testing.T) {
	svc := NewMarkdownService(newStubRepository(), newTestForecaster(), markdown.NewOptimizer(nil), 90, 2)

	decision, err := svc.GetMarkdown(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", decision.ProductID)
	assert.GreaterOrEqual(t, decision.OptimalDiscount, 0.0)
}

func TestAcceptMarkdownPersistsSuggestion(t *testing.T) {
	repo := newStubRepository()
	svc := NewMarkdownService(repo, newTestForecaster(), markdown.NewOptimizer(nil), 90, 2)

	decision, err := svc.AcceptMarkdown(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "a", repo.saved[0].ProductID)
	assert.Equal(t, decision.OptimalDiscount, repo.saved[0].OptimalDiscount)

	// A plain lookup must not write anything.
	_, err = svc.GetMarkdown(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, repo.saved, 1)
}

func TestAcceptMarkdownUnknownProduct(t *testing.T) {
	repo := newStubRepository()
	svc := NewMarkdownService(repo, newTestForecaster(), markdown.NewOptimizer(nil), 90, 2)

	_, err := svc.AcceptMarkdown(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, repo.saved)
}

func TestBatchMarkdownExplicitIDs(t *testing.T) {
	svc := NewMarkdownService(newStubRepository(), newTestForecaster(), markdown.NewOptimizer(nil), 90, 4)

	decisions, err := svc.BatchMarkdown(context.Background(), []string{"c", "a"})
	require.NoError(t, err)
	require.Len(t, decisions, 2)

	// Resolved inventory order, not request order.
	assert.Equal(t, "a", decisions[0].ProductID)
	assert.Equal(t, "c", decisions[1].ProductID)
}

func TestBatchMarkdownDefaultsToExpiring(t *testing.T) {
	svc := NewMarkdownService(newStubRepository(), newTestForecaster(), markdown.NewOptimizer(nil), 90, 4)

	decisions, err := svc.BatchMarkdown(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, decisions, 2) // product c is too far from expiry

	ids := []string{decisions[0].ProductID, decisions[1].ProductID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestBatchMarkdownCancelledContext(t *testing.T) {
	svc := NewMarkdownService(newStubRepository(), newTestForecaster(), markdown.NewOptimizer(nil), 90, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.BatchMarkdown(ctx, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetInventorySummary(t *testing.T) {
	svc := NewInventoryService(newStubRepository())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.InventoryOverview.TotalItems)
	assert.Equal(t, 2, summary.InventoryOverview.ExpiringItems)
	assert.Equal(t, 2, summary.WastePrevention.MarkdownCandidates)
}

func TestGetInventoryEmptyIsNotNil(t *testing.T) {
	svc := NewInventoryService(&stubRepository{})

	items, err := svc.GetInventory(context.Background(), domain.InventoryFilter{Category: "Seafood"})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
