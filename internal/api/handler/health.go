package handler

import (
	"net/http"

	"uranus-analytics/internal/infra/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// timestampLayout is RFC3339 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Health checks upstream connectivity with a single /credits call.
func (h *Handler) Health(c *gin.Context) {
	timestamp := h.now().UTC().Format(timestampLayout)

	credits, err := h.credits.GetCredits(c.Request.Context())
	if err != nil {
		log.LogWarn("Health check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "unhealthy",
			"timestamp": timestamp,
			"error":     err.Error(),
			"message":   "API connection failed - using mock data",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  timestamp,
		"apiCredits": credits.Credits,
		"message":    "Solana Tracker API is working correctly",
	})
}
