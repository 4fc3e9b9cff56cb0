// internal/service/markdown_service.go
package service

import (
	"context"
	"sync"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/forecast"
	"github.com/freshmark/backend-go/internal/markdown"
	"github.com/freshmark/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// batchExpiryWindowDays selects the implicit batch set: products expiring
// within this many days.
const batchExpiryWindowDays = 3

// MarkdownService orchestrates forecasting and discount optimization per
// product.
type MarkdownService struct {
	repo        repository.InventoryRepository
	forecaster  *forecast.Forecaster
	optimizer   *markdown.Optimizer
	historyDays int
	workers     int
}

func NewMarkdownService(repo repository.InventoryRepository, forecaster *forecast.Forecaster, optimizer *markdown.Optimizer, historyDays, workers int) *MarkdownService {
	if historyDays <= 0 {
		historyDays = 90
	}
	if workers < 1 {
		workers = 1
	}
	return &MarkdownService{
		repo:        repo,
		forecaster:  forecaster,
		optimizer:   optimizer,
		historyDays: historyDays,
		workers:     workers,
	}
}

// GetMarkdown produces a markdown decision for one product.
func (s *MarkdownService) GetMarkdown(ctx context.Context, productID string) (*domain.MarkdownDecision, error) {
	items, err := s.repo.GetInventory(ctx, domain.InventoryFilter{})
	if err != nil {
		return nil, err
	}

	var item *domain.InventoryItem
	for i := range items {
		if items[i].ProductID == productID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return nil, domain.ErrProductNotFound
	}

	decision := s.optimizer.Optimize(*item, s.forecastFor(ctx, productID))
	return &decision, nil
}

// AcceptMarkdown recomputes the suggestion for a product and records it as
// accepted.
func (s *MarkdownService) AcceptMarkdown(ctx context.Context, productID string) (*domain.MarkdownDecision, error) {
	decision, err := s.GetMarkdown(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveMarkdownSuggestion(ctx, *decision); err != nil {
		return nil, err
	}

	log.Info().
		Str("product_id", productID).
		Float64("discount", decision.OptimalDiscount).
		Msg("markdown suggestion accepted")

	return decision, nil
}

// BatchMarkdown optimizes a set of products; with no explicit ids it targets
// everything expiring within three days. Decisions come back in the resolved
// item order, one per item. Forecast and optimization run per product over a
// bounded worker pool since products are independent.
func (s *MarkdownService) BatchMarkdown(ctx context.Context, productIDs []string) ([]domain.MarkdownDecision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []domain.InventoryItem

	if len(productIDs) == 0 {
		window := batchExpiryWindowDays
		expiring, err := s.repo.GetInventory(ctx, domain.InventoryFilter{MaxDaysUntilExpiry: &window})
		if err != nil {
			return nil, err
		}
		items = expiring
	} else {
		all, err := s.repo.GetInventory(ctx, domain.InventoryFilter{})
		if err != nil {
			return nil, err
		}
		wanted := make(map[string]struct{}, len(productIDs))
		for _, id := range productIDs {
			wanted[id] = struct{}{}
		}
		for _, item := range all {
			if _, ok := wanted[item.ProductID]; ok {
				items = append(items, item)
			}
		}
	}

	decisions := make([]domain.MarkdownDecision, len(items))

	jobChan := make(chan int, len(items))
	var wg sync.WaitGroup

	workers := s.workers
	if workers > len(items) {
		workers = len(items)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				item := items[idx]
				decisions[idx] = s.optimizer.Optimize(item, s.forecastFor(ctx, item.ProductID))
			}
		}()
	}

	for i := range items {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			return nil, ctx.Err()
		case jobChan <- i:
		}
	}
	close(jobChan)
	wg.Wait()

	return decisions, nil
}

// forecastFor returns a 7-day projection for the product, or nil when there
// is no usable sales history (the optimizer then falls back to its
// conservative demand estimate).
func (s *MarkdownService) forecastFor(ctx context.Context, productID string) []domain.ForecastPoint {
	series, err := s.repo.GetSalesHistory(ctx, productID, s.historyDays)
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("sales history lookup failed")
		return nil
	}
	if len(series) == 0 {
		return nil
	}
	return s.forecaster.Forecast(ctx, productID, series, 7)
}
