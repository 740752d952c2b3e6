package handler

import (
	"context"
	"time"

	"uranus-analytics/internal/clients_api/solanatracker"
	"uranus-analytics/internal/features/chart_data"
	"uranus-analytics/internal/features/dashboard"
	"uranus-analytics/internal/infra/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardBuilder interface {
	BuildDashboard(ctx context.Context) dashboard.Record
}

type CreditsChecker interface {
	GetCredits(ctx context.Context) (*solanatracker.Credits, error)
}

type Handler struct {
	dashboard DashboardBuilder
	credits   CreditsChecker
	charts    chart_data.Generator
	now       func() time.Time
}

func New(builder DashboardBuilder, credits CreditsChecker, charts chart_data.Generator) *Handler {
	return &Handler{
		dashboard: builder,
		credits:   credits,
		charts:    charts,
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(RequestLogger())
	r.GET("/api/dashboard-data", h.GetDashboardData)
	r.GET("/api/health", h.Health)
	r.GET("/api/chart-data", h.GetChartData)
}

// RequestLogger writes one request and one response line per call.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := log.GenerateRequestID()
		startTime := time.Now()
		log.LogRequest(requestID, c.Request.Method, c.FullPath(),
			zap.String("client_ip", c.ClientIP()))

		c.Next()

		log.LogResponse(requestID, c.Writer.Status(), time.Since(startTime).Milliseconds(),
			zap.String("endpoint", c.FullPath()))
	}
}
