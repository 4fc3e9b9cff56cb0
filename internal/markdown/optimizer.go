// internal/markdown/optimizer.go
package markdown

import (
	"math"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Discount grid searched by the optimizer: 10% to 70% in 5% steps.
const (
	minDiscount  = 10
	maxDiscount  = 70
	discountStep = 5
)

// Optimizer finds the discount that best trades recovered revenue against
// spoilage as a product approaches expiry.
type Optimizer struct {
	elasticity *ElasticityModel
}

func NewOptimizer(elasticity *ElasticityModel) *Optimizer {
	if elasticity == nil {
		elasticity = NewElasticityModel()
	}
	return &Optimizer{elasticity: elasticity}
}

type candidate struct {
	discount       float64
	unitsSold      float64
	revenue        float64
	wasteReduction float64
	score          float64
}

// Optimize evaluates the discount grid for one product. Every input degrades
// to a defined decision; this never fails.
func (o *Optimizer) Optimize(item domain.InventoryItem, forecast []domain.ForecastPoint) domain.MarkdownDecision {
	if item.CurrentPrice <= 0 || item.Stock < 0 {
		log.Warn().Str("product_id", item.ProductID).Msg("malformed product data, using rule-based markdown")
		return o.ruleBasedDecision(item)
	}

	predictedDemand := forecastDemand(item, forecast)
	potentialWaste := calculatePotentialWaste(float64(item.Stock), predictedDemand, item.DaysUntilExpiry)

	if potentialWaste <= 0 {
		// Demand covers the stock; no markdown needed.
		return domain.MarkdownDecision{
			ProductID:          item.ProductID,
			OptimalDiscount:    0,
			ProjectedUnitsSold: roundTo(predictedDemand, 1),
			ConfidenceScore:    0.9,
			DiscountedPrice:    roundTo(item.CurrentPrice, 2),
		}
	}

	best := o.searchDiscounts(item, predictedDemand, potentialWaste)
	confidence := confidenceScore(item, forecast)

	return domain.MarkdownDecision{
		ProductID:               item.ProductID,
		OptimalDiscount:         best.discount,
		ProjectedUnitsSold:      roundTo(best.unitsSold, 1),
		EstimatedWasteReduction: roundTo(best.wasteReduction, 1),
		RevenueImpact:           roundTo(best.revenue, 2),
		ConfidenceScore:         roundTo(confidence, 2),
		DiscountedPrice:         roundTo(item.CurrentPrice*(1-best.discount/100), 2),
		PotentialSavings:        roundTo(best.wasteReduction*item.CurrentPrice, 2),
	}
}

// searchDiscounts scans the grid in ascending order so ties favor the
// smaller discount.
func (o *Optimizer) searchDiscounts(item domain.InventoryItem, predictedDemand, potentialWaste float64) candidate {
	stock := float64(item.Stock)
	days := float64(item.DaysUntilExpiry)

	// Weights shift toward waste avoidance as expiry nears.
	urgency := math.Max(0.1, 1-days/7)
	wasteWeight := 0.3 + urgency*0.4
	revenueWeight := 1 - wasteWeight

	maxRevenue := stock * item.CurrentPrice

	var best *candidate
	for d := minDiscount; d <= maxDiscount; d += discountStep {
		discount := float64(d)

		newDemand := o.simulateDemand(predictedDemand, discount, item.Category)
		unitsSold := math.Min(stock, newDemand*days)
		discountedPrice := item.CurrentPrice * (1 - discount/100)
		revenue := unitsSold * discountedPrice

		wasteReduction := stock - unitsSold
		wasteReduction = math.Max(0, math.Min(wasteReduction, potentialWaste))

		revenueScore := 0.0
		if maxRevenue > 0 {
			revenueScore = revenue / maxRevenue
		}
		wasteScore := wasteReduction / potentialWaste

		score := revenueWeight*revenueScore + wasteWeight*wasteScore
		if best == nil || score > best.score {
			best = &candidate{
				discount:       discount,
				unitsSold:      unitsSold,
				revenue:        revenue,
				wasteReduction: wasteReduction,
				score:          score,
			}
		}
	}

	if best == nil {
		// Unreachable with a non-empty grid; kept as a safety net.
		return candidate{
			discount:       25,
			unitsSold:      predictedDemand * 1.2,
			revenue:        stock * item.CurrentPrice * 0.75 * 0.8,
			wasteReduction: potentialWaste * 0.6,
			score:          0.5,
		}
	}
	return *best
}

// simulateDemand applies the category's price elasticity to a discount.
func (o *Optimizer) simulateDemand(baseDemand, discountPercent float64, category string) float64 {
	elasticity := o.elasticity.Elasticity(category)

	priceChangePercent := -discountPercent
	quantityChangePercent := elasticity * priceChangePercent

	return math.Max(0, baseDemand*(1+quantityChangePercent/100))
}

// forecastDemand sums the projected demand over the remaining shelf life,
// falling back to a conservative estimate when no forecast is available.
func forecastDemand(item domain.InventoryItem, forecast []domain.ForecastPoint) float64 {
	if len(forecast) == 0 {
		return math.Max(1, float64(item.Stock)*0.3)
	}
	n := item.DaysUntilExpiry
	if n > len(forecast) {
		n = len(forecast)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += forecast[i].Predicted
	}
	return sum
}

// calculatePotentialWaste estimates stock left unsold at expiry without a
// markdown.
// An already-expired item writes off its whole stock.
func calculatePotentialWaste(stock, predictedDemand float64, daysUntilExpiry int) float64 {
	if daysUntilExpiry <= 0 {
		return stock
	}
	naturalSales := math.Min(stock, predictedDemand*float64(daysUntilExpiry))
	return math.Max(0, stock-naturalSales)
}

// confidenceScore rates the decision on data availability and urgency.
func confidenceScore(item domain.InventoryItem, forecast []domain.ForecastPoint) float64 {
	confidence := 0.5

	if len(forecast) >= 7 {
		confidence += 0.2
	}

	if item.DaysUntilExpiry <= 1 {
		confidence += 0.2
	} else if item.DaysUntilExpiry <= 3 {
		confidence += 0.1
	}

	if item.Stock > 0 {
		confidence += 0.1
	}

	return math.Min(1.0, confidence)
}

// ruleBasedDecision is the last-resort markdown used when product data is
// malformed: discount by urgency tier with a fixed 70/30 sold/waste split.
func (o *Optimizer) ruleBasedDecision(item domain.InventoryItem) domain.MarkdownDecision {
	var discount float64
	switch {
	case item.DaysUntilExpiry <= 1:
		discount = 40
	case item.DaysUntilExpiry <= 2:
		discount = 30
	case item.DaysUntilExpiry <= 3:
		discount = 20
	default:
		discount = 15
	}

	stock := math.Max(0, float64(item.Stock))
	projectedSales := stock * 0.7
	wasteReduction := stock * 0.3

	return domain.MarkdownDecision{
		ProductID:               item.ProductID,
		OptimalDiscount:         discount,
		ProjectedUnitsSold:      roundTo(projectedSales, 1),
		EstimatedWasteReduction: roundTo(wasteReduction, 1),
		RevenueImpact:           roundTo(projectedSales*item.CurrentPrice*(1-discount/100), 2),
		ConfidenceScore:         0.6,
		DiscountedPrice:         roundTo(item.CurrentPrice*(1-discount/100), 2),
		PotentialSavings:        roundTo(wasteReduction*item.CurrentPrice, 2),
	}
}

// Batch optimizes each item independently, preserving input order. Items
// without a forecast entry go through the conservative demand estimate.
func (o *Optimizer) Batch(items []domain.InventoryItem, forecasts map[string][]domain.ForecastPoint) []domain.MarkdownDecision {
	decisions := make([]domain.MarkdownDecision, len(items))
	for i, item := range items {
		decisions[i] = o.Optimize(item, forecasts[item.ProductID])
	}
	return decisions
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
