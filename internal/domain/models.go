// internal/domain/models.go
package domain

import "time"

// SalesRecord is one day of sales for a product.
type SalesRecord struct {
	Date      time.Time `json:"date" db:"date"`
	UnitsSold int       `json:"units_sold" db:"units_sold"`
	Price     float64   `json:"price" db:"price"`
}

// InventoryItem represents the current stock position of a product.
type InventoryItem struct {
	ProductID       string    `json:"product_id" db:"product_id"`
	ProductName     string    `json:"product_name" db:"product_name"`
	Category        string    `json:"category" db:"category"`
	Stock           int       `json:"stock" db:"stock"`
	ExpiryDate      time.Time `json:"expiry_date" db:"expiry_date"`
	CurrentPrice    float64   `json:"current_price" db:"current_price"`
	Status          string    `json:"status" db:"status"`
	DaysUntilExpiry int       `json:"days_until_expiry" db:"days_until_expiry"`
}

// InventoryFilter represents filters for inventory queries.
type InventoryFilter struct {
	Category           string `json:"category"`
	MaxDaysUntilExpiry *int   `json:"max_days_until_expiry"`
}

// TrainedModel holds the fitted regression coefficients together with the
// standardization parameters used at training time. Instances are immutable
// once published and replaced wholesale on retrain.
type TrainedModel struct {
	Coefficients  []float64 `json:"coefficients"`
	Intercept     float64   `json:"intercept"`
	FeatureMeans  []float64 `json:"feature_means"`
	FeatureScales []float64 `json:"feature_scales"`
	Observations  int       `json:"observations"`
	TrainedAt     time.Time `json:"trained_at"`
}

// ForecastPoint is one day of a demand projection.
type ForecastPoint struct {
	Date            string  `json:"date"`
	Predicted       float64 `json:"predicted"`
	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`
}

// AccuracyMetrics summarizes a holdout backtest. MAPE and Accuracy are nil
// when every held-out actual was zero, so no percentage error is defined.
type AccuracyMetrics struct {
	MAE      float64  `json:"mae"`
	MAPE     *float64 `json:"mape"`
	Accuracy *float64 `json:"accuracy"`
}

// ForecastResult is the payload for a single-product forecast request.
type ForecastResult struct {
	ProductID       string           `json:"product_id"`
	Forecast        []ForecastPoint  `json:"forecast"`
	ChartData       []ChartPoint     `json:"chart_data"`
	AccuracyMetrics *AccuracyMetrics `json:"accuracy_metrics"`
	HorizonDays     int              `json:"forecast_horizon_days"`
}

// ChartPoint merges history and projection for charting. Actual is set for
// historical days, the prediction fields for forecast days.
type ChartPoint struct {
	Date            string   `json:"date"`
	Actual          *int     `json:"actual"`
	Predicted       *float64 `json:"predicted"`
	ConfidenceLower *float64 `json:"confidence_lower,omitempty"`
	ConfidenceUpper *float64 `json:"confidence_upper,omitempty"`
}

// SalesHistoryResult is the payload for a sales history request.
type SalesHistoryResult struct {
	ProductID         string        `json:"product_id"`
	SalesHistory      []SalesRecord `json:"sales_history"`
	TotalUnits        int           `json:"total_units"`
	AverageDailySales float64       `json:"average_daily_sales"`
	DaysCovered       int           `json:"days_covered"`
}

// MarkdownDecision is the optimizer's recommendation for one product.
type MarkdownDecision struct {
	ProductID               string  `json:"product_id"`
	OptimalDiscount         float64 `json:"optimal_discount"`
	ProjectedUnitsSold      float64 `json:"projected_units_sold"`
	EstimatedWasteReduction float64 `json:"estimated_waste_reduction"`
	RevenueImpact           float64 `json:"revenue_impact"`
	ConfidenceScore         float64 `json:"confidence_score"`
	DiscountedPrice         float64 `json:"discounted_price"`
	PotentialSavings        float64 `json:"potential_savings"`
}
