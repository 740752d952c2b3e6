package commands

// Command to run the HTTP server
// Serves /api/dashboard-data, /api/health and /api/chart-data
// Implements graceful shutdown for proper termination

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uranus-analytics/internal/api/handler"
	"uranus-analytics/internal/features/chart_data"
	"uranus-analytics/internal/infra/log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	Long:  `Serve the aggregated dashboard record, the upstream health check and the chart series over HTTP.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.SolanaTracker.ContractAddress == "" {
		log.LogWarn("CONTRACT_ADDRESS not provided, dashboard will serve placeholder data")
	}

	client := newClient(cfg)
	h := handler.New(newAggregator(cfg, client), client, chart_data.Generator{})

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	log.LogSuccess("Server is running", zap.String("addr", cfg.Server.Addr))

	select {
	case err := <-serveErr:
		if err != nil {
			log.LogError("Server failed", zap.Error(err))
			return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.LogInfo("Shutdown signal received, gracefully stopping server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogWarn("Server forced to shutdown", zap.Error(err))
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.LogSuccess("Server stopped gracefully")
	return nil
}
