package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboardData always answers 200; upstream failures surface as placeholder values.
func (h *Handler) GetDashboardData(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.BuildDashboard(c.Request.Context()))
}

// GetChartData serves the placeholder hourly price and OHLCV series.
func (h *Handler) GetChartData(c *gin.Context) {
	c.JSON(http.StatusOK, h.charts.Generate(c.Query("period")))
}
