// internal/api/handlers/markdown_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type MarkdownHandler struct {
	service *service.MarkdownService
}

func NewMarkdownHandler(service *service.MarkdownService) *MarkdownHandler {
	return &MarkdownHandler{service: service}
}

type batchMarkdownRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// GetMarkdown returns the markdown decision for one product. POST also
// records the suggestion as accepted.
func (h *MarkdownHandler) GetMarkdown(c *gin.Context) {
	productID := c.Param("product_id")

	var decision *domain.MarkdownDecision
	var err error
	if c.Request.Method == http.MethodPost {
		decision, err = h.service.AcceptMarkdown(c.Request.Context(), productID)
	} else {
		decision, err = h.service.GetMarkdown(c.Request.Context(), productID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			errorResponse(c, http.StatusNotFound, fmt.Sprintf("Product %s not found", productID))
			return
		}
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	okResponse(c, http.StatusOK, decision)
}

// BatchMarkdown optimizes a set of products in one call. An empty or missing
// product_ids list targets everything expiring within three days.
func (h *MarkdownHandler) BatchMarkdown(c *gin.Context) {
	var req batchMarkdownRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	decisions, err := h.service.BatchMarkdown(c.Request.Context(), req.ProductIDs)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	okListResponse(c, http.StatusOK, decisions, len(decisions))
}
