// internal/analytics/summary.go
package analytics

import (
	"math"

	"github.com/freshmark/backend-go/internal/domain"
)

const (
	// expiringThresholdDays marks items counted as expiring soon.
	expiringThresholdDays = 3

	// candidateThresholdDays marks items considered markdown candidates.
	candidateThresholdDays = 5

	// assumedWasteShare is the stock value assumed lost without any markdown
	// action; recoverableShare is how much of that a markdown program saves.
	assumedWasteShare = 0.3
	recoverableShare  = 0.7
)

// BuildSummary aggregates the current inventory into the analytics payload.
// Pure function of its input.
func BuildSummary(items []domain.InventoryItem) domain.AnalyticsSummary {
	overview := domain.InventoryOverview{TotalItems: len(items)}
	categories := make(map[string]domain.CategorySummary)

	var potentialWasteValue float64
	candidates := 0

	for _, item := range items {
		value := float64(item.Stock) * item.CurrentPrice
		overview.TotalValue += value

		if item.DaysUntilExpiry <= expiringThresholdDays {
			overview.ExpiringItems++
		}
		switch item.Status {
		case domain.StatusOverstock:
			overview.OverstockItems++
		case domain.StatusSafe:
			overview.SafeItems++
		}

		if item.DaysUntilExpiry <= candidateThresholdDays {
			candidates++
			potentialWasteValue += value * assumedWasteShare
		}

		cat := categories[item.Category]
		cat.Count++
		cat.Value += value
		if item.DaysUntilExpiry <= expiringThresholdDays {
			cat.Expiring++
		}
		categories[item.Category] = cat
	}

	overview.TotalValue = round2(overview.TotalValue)
	for name, cat := range categories {
		cat.Value = round2(cat.Value)
		categories[name] = cat
	}

	return domain.AnalyticsSummary{
		InventoryOverview: overview,
		WastePrevention: domain.WastePrevention{
			PotentialWasteValue:         round2(potentialWasteValue),
			MarkdownCandidates:          candidates,
			EstimatedSavingsOpportunity: round2(potentialWasteValue * recoverableShare),
		},
		Categories: categories,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
