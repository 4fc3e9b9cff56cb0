package domain

// InventoryOverview aggregates the current inventory position.
type InventoryOverview struct {
	TotalItems     int     `json:"total_items"`
	TotalValue     float64 `json:"total_value"`
	ExpiringItems  int     `json:"expiring_items"`
	OverstockItems int     `json:"overstock_items"`
	SafeItems      int     `json:"safe_items"`
}

// WastePrevention estimates the value at risk and what a markdown program
// could recover.
type WastePrevention struct {
	PotentialWasteValue         float64 `json:"potential_waste_value"`
	MarkdownCandidates          int     `json:"markdown_candidates"`
	EstimatedSavingsOpportunity float64 `json:"estimated_savings_opportunity"`
}

// CategorySummary is the per-category slice of the analytics summary.
type CategorySummary struct {
	Count    int     `json:"count"`
	Value    float64 `json:"value"`
	Expiring int     `json:"expiring"`
}

// AnalyticsSummary is the payload for the analytics summary endpoint.
type AnalyticsSummary struct {
	InventoryOverview InventoryOverview          `json:"inventory_overview"`
	WastePrevention   WastePrevention            `json:"waste_prevention"`
	Categories        map[string]CategorySummary `json:"categories"`
}
