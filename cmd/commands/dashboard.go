package commands

// Command to build the dashboard once and print it as JSON

import (
	"encoding/json"
	"fmt"
	"os"

	"uranus-analytics/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Build the dashboard record once and print it",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	res := newAggregator(cfg, newClient(cfg)).Build(cmd.Context())
	for _, d := range res.Degradations {
		log.LogWarn("Dashboard field is synthetic", zap.String("feature", d.Feature), zap.String("reason", d.Reason))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Record); err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	return nil
}
