// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/freshmark/backend-go/internal/api/handlers"
	"github.com/freshmark/backend-go/internal/api/middleware"
	"github.com/freshmark/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	InventoryService *service.InventoryService
	ForecastService  *service.ForecastService
	MarkdownService  *service.MarkdownService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
		})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
			apiGroup.GET("/inventory", inventoryHandler.GetInventory)
			apiGroup.GET("/analytics/summary", inventoryHandler.GetSummary)
		}

		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService)
			apiGroup.GET("/forecast/:product_id", forecastHandler.GetForecast)
			apiGroup.GET("/products/:product_id/sales_history", forecastHandler.GetSalesHistory)
		}

		if services.MarkdownService != nil {
			markdownHandler := handlers.NewMarkdownHandler(services.MarkdownService)
			markdownGroup := apiGroup.Group("/markdown")
			{
				markdownGroup.POST("/batch", markdownHandler.BatchMarkdown)
				markdownGroup.GET("/:product_id", markdownHandler.GetMarkdown)
				markdownGroup.POST("/:product_id", markdownHandler.GetMarkdown)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
