// internal/api/handlers/response.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func okResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func okListResponse(c *gin.Context, status int, data interface{}, count int) {
	c.JSON(status, gin.H{
		"success":   true,
		"data":      data,
		"count":     count,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func errorResponse(c *gin.Context, status int, message string) {
	log.Error().Int("status", status).Msg(message)
	c.JSON(status, gin.H{
		"success":   false,
		"error":     message,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
