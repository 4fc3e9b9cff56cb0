package analytics

import (
	"testing"
	"time"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, category, status string, stock int, price float64, days int) domain.InventoryItem {
	return domain.InventoryItem{
		ProductID:       id,
		Category:        category,
		Status:          status,
		Stock:           stock,
		CurrentPrice:    price,
		DaysUntilExpiry: days,
		ExpiryDate:      time.Now().AddDate(0, 0, days),
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := BuildSummary(nil)

	assert.Equal(t, 0, summary.InventoryOverview.TotalItems)
	assert.Equal(t, 0.0, summary.InventoryOverview.TotalValue)
	assert.Equal(t, 0, summary.WastePrevention.MarkdownCandidates)
	assert.Empty(t, summary.Categories)
}

func TestBuildSummaryAggregates(t *testing.T) {
	items := []domain.InventoryItem{
		item("a", "Produce", domain.StatusExpiring, 10, 2.0, 2), // value 20, expiring, candidate
		item("b", "Produce", domain.StatusSafe, 5, 4.0, 10),     // value 20, safe
		item("c", "Dairy", domain.StatusOverstock, 20, 1.5, 4),  // value 30, candidate
		item("d", "Bakery", domain.StatusExpiring, 8, 2.50, 1),  // value 20, expiring, candidate
	}

	summary := BuildSummary(items)
	overview := summary.InventoryOverview

	assert.Equal(t, 4, overview.TotalItems)
	assert.Equal(t, 90.0, overview.TotalValue)
	assert.Equal(t, 2, overview.ExpiringItems)
	assert.Equal(t, 1, overview.OverstockItems)
	assert.Equal(t, 1, overview.SafeItems)

	waste := summary.WastePrevention
	assert.Equal(t, 3, waste.MarkdownCandidates)
	// 30% of the candidates' value (20+30+20) is at risk, 70% of that is
	// recoverable.
	assert.InDelta(t, 21.0, waste.PotentialWasteValue, 0.01)
	assert.InDelta(t, 14.7, waste.EstimatedSavingsOpportunity, 0.01)

	require.Len(t, summary.Categories, 3)
	produce := summary.Categories["Produce"]
	assert.Equal(t, 2, produce.Count)
	assert.Equal(t, 40.0, produce.Value)
	assert.Equal(t, 1, produce.Expiring)

	dairy := summary.Categories["Dairy"]
	assert.Equal(t, 1, dairy.Count)
	assert.Equal(t, 0, dairy.Expiring)
}
