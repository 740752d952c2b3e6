package commands

// Root command for Cobra CLI
// Registers all subcommands (serve, dashboard, health, report)
// Loads configuration and starts logging before any subcommand runs

import (
	"fmt"

	"uranus-analytics/internal/clients_api/solanatracker"
	"uranus-analytics/internal/features/dashboard"
	"uranus-analytics/internal/infra/config"
	"uranus-analytics/internal/infra/log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "uranus-analytics",
	Short: "Uranus Analytics - Solana Tracker dashboard backend",
	Long: `Uranus Analytics aggregates Solana Tracker token, holder and holder-chart data
into a single dashboard record, serves it over HTTP and posts it to Telegram.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { log.Sync() },
}

// cfg is populated by setup before any RunE is called.
var cfg *config.Config

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(reportCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	if err := log.Init(log.Options{Dir: cfg.App.LogsDir, Debug: cfg.App.Debug}); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	return nil
}

// newClient wires the upstream client from the loaded configuration.
func newClient(cfg *config.Config) *solanatracker.Client {
	st := cfg.SolanaTracker
	return solanatracker.NewClient(solanatracker.Options{
		BaseURL:         st.BaseURL,
		APIKey:          st.APIKey,
		MaxRetries:      st.MaxRetries,
		RetryDelay:      st.RetryDelay(),
		SetRetryPolicy:  true,
		Timeout:         st.Timeout(),
		MaxResponseSize: st.MaxResponseSize,
		MinInterval:     st.MinRequestInterval(),
	})
}

func newAggregator(cfg *config.Config, client *solanatracker.Client) *dashboard.Aggregator {
	return dashboard.NewAggregator(client, dashboard.Options{
		Address:          cfg.SolanaTracker.ContractAddress,
		FetchTopHolders:  cfg.Dashboard.FetchTopHolders,
		FetchHolderChart: cfg.Dashboard.FetchHolderChart,
	})
}
