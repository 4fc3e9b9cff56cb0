package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	if err := r.db.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.db.release()

	query := `
        SELECT p.product_id, p.product_name, p.category, p.current_price,
               i.stock, i.expiry_date, COALESCE(i.status, '') AS status,
               (i.expiry_date::date - CURRENT_DATE) AS days_until_expiry
        FROM products p
        JOIN inventory i ON p.product_id = i.product_id
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argCounter))
		args = append(args, filter.Category)
		argCounter++
	}

	if filter.MaxDaysUntilExpiry != nil {
		conditions = append(conditions, fmt.Sprintf("(i.expiry_date::date - CURRENT_DATE) <= $%d", argCounter))
		args = append(args, *filter.MaxDaysUntilExpiry)
		argCounter++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY i.expiry_date ASC"

	var items []domain.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("error getting inventory: %w", err)
	}

	for i := range items {
		if items[i].Status == "" {
			items[i].Status = domain.StatusForExpiry(items[i].DaysUntilExpiry)
		}
	}

	return items, nil
}

func (r *inventoryRepository) GetSalesHistory(ctx context.Context, productID string, days int) ([]domain.SalesRecord, error) {
	if days <= 0 {
		days = 90
	}

	if err := r.db.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.db.release()

	query := `
        SELECT date, units_sold, price
        FROM sales_history
        WHERE product_id = $1
          AND date >= CURRENT_DATE - $2::int
        ORDER BY date ASC
    `

	var records []domain.SalesRecord
	if err := r.db.SelectContext(ctx, &records, query, productID, days); err != nil {
		return nil, fmt.Errorf("error getting sales history: %w", err)
	}

	return records, nil
}

func (r *inventoryRepository) SaveMarkdownSuggestion(ctx context.Context, decision domain.MarkdownDecision) error {
	query := `
        INSERT INTO markdown_suggestions (product_id, suggested_discount, potential_savings, confidence_score)
        VALUES ($1, $2, $3, $4)
    `

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query,
			decision.ProductID, decision.OptimalDiscount, decision.PotentialSavings, decision.ConfidenceScore); err != nil {
			return fmt.Errorf("error saving markdown suggestion: %w", err)
		}
		return nil
	})
}
