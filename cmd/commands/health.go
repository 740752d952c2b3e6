package commands

// Command to check upstream connectivity with a single /credits call

import (
	"fmt"

	"uranus-analytics/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the Solana Tracker API key and connectivity",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	credits, err := newClient(cfg).GetCredits(cmd.Context())
	if err != nil {
		log.LogError("Solana Tracker API is unreachable", zap.Error(err))
		return fmt.Errorf("health check failed: %w", err)
	}

	log.LogSuccess("Solana Tracker API is working correctly", zap.String("credits", string(credits.Credits)))
	fmt.Fprintf(cmd.OutOrStdout(), "healthy, credits: %s\n", credits.Credits)
	return nil
}
