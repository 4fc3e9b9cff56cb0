// internal/api/handlers/inventory_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// GetInventory lists inventory items, optionally filtered by category and
// maximum days until expiry.
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	filter := domain.InventoryFilter{}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter.Category = category
	}

	if raw := strings.TrimSpace(c.Query("expiry_days")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MaxDaysUntilExpiry = &v
		}
	}

	items, err := h.service.GetInventory(c.Request.Context(), filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	okListResponse(c, http.StatusOK, items, len(items))
}

// GetSummary returns the aggregated analytics view of the inventory.
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	okResponse(c, http.StatusOK, summary)
}
