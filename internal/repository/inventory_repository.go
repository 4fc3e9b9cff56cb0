// internal/repository/inventory_repository.go
package repository

import (
	"context"

	"github.com/freshmark/backend-go/internal/domain"
)

// InventoryRepository reads inventory positions and sales history, and
// records accepted markdown suggestions.
type InventoryRepository interface {
	// GetInventory returns items matching the filter, ordered by ascending
	// expiry date.
	GetInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error)

	// GetSalesHistory returns the trailing window of daily sales for a
	// product, ordered by ascending date.
	GetSalesHistory(ctx context.Context, productID string, days int) ([]domain.SalesRecord, error)

	// SaveMarkdownSuggestion records an accepted markdown suggestion.
	SaveMarkdownSuggestion(ctx context.Context, decision domain.MarkdownDecision) error
}
