// internal/service/inventory_service.go
package service

import (
	"context"

	"github.com/freshmark/backend-go/internal/analytics"
	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/repository"
)

// InventoryService exposes inventory reads and the analytics summary.
type InventoryService struct {
	repo repository.InventoryRepository
}

func NewInventoryService(repo repository.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

func (s *InventoryService) GetInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	items, err := s.repo.GetInventory(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]domain.InventoryItem, 0)
	}
	return items, nil
}

func (s *InventoryService) GetSummary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	items, err := s.repo.GetInventory(ctx, domain.InventoryFilter{})
	if err != nil {
		return nil, err
	}
	summary := analytics.BuildSummary(items)
	return &summary, nil
}
