// internal/api/handlers/forecast_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// GetForecast returns the demand projection plus accuracy metrics for one
// product.
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	productID := c.Param("product_id")

	// Zero lets the service apply its configured default horizon.
	days := 0
	if v, err := strconv.Atoi(c.Query("days")); err == nil && v > 0 {
		days = v
	}

	result, err := h.service.GetForecast(c.Request.Context(), productID, days)
	if err != nil {
		if errors.Is(err, domain.ErrNoSalesHistory) {
			errorResponse(c, http.StatusNotFound, fmt.Sprintf("No sales history found for product %s", productID))
			return
		}
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	okResponse(c, http.StatusOK, result)
}

// GetSalesHistory returns the raw trailing sales window for one product.
func (h *ForecastHandler) GetSalesHistory(c *gin.Context) {
	productID := c.Param("product_id")

	days := 30
	if v, err := strconv.Atoi(c.DefaultQuery("days", "30")); err == nil && v > 0 {
		days = v
	}

	result, err := h.service.GetSalesHistory(c.Request.Context(), productID, days)
	if err != nil {
		if errors.Is(err, domain.ErrNoSalesHistory) {
			errorResponse(c, http.StatusNotFound, fmt.Sprintf("No sales history found for product %s", productID))
			return
		}
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	okResponse(c, http.StatusOK, result)
}
