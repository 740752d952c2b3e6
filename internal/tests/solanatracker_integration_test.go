//go:build integration

package tests

import (
	"context"
	"os"
	"testing"
	"time"

	"uranus-analytics/internal/clients_api/solanatracker"
	"uranus-analytics/internal/features/dashboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// liveClient needs SOLANA_TRACKER_API_KEY; the test is skipped without it.
func liveClient(t *testing.T) *solanatracker.Client {
	t.Helper()
	apiKey := os.Getenv("SOLANA_TRACKER_API_KEY")
	if apiKey == "" {
		t.Skip("SOLANA_TRACKER_API_KEY not set")
	}
	return solanatracker.NewClient(solanatracker.Options{APIKey: apiKey})
}

func TestCredits_Live(t *testing.T) {
	client := liveClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	credits, err := client.GetCredits(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "null", string(credits.Credits))
}

func TestBuildDashboard_Live(t *testing.T) {
	client := liveClient(t)
	address := os.Getenv("CONTRACT_ADDRESS")
	if address == "" {
		t.Skip("CONTRACT_ADDRESS not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res := dashboard.NewAggregator(client, dashboard.Options{
		Address:          address,
		FetchTopHolders:  true,
		FetchHolderChart: true,
	}).Build(ctx)

	for _, d := range res.Degradations {
		t.Logf("degraded %s: %s", d.Feature, d.Reason)
	}
	assert.False(t, res.Synthetic())
	assert.NotEmpty(t, res.Record.TokenSymbol)
	assert.Greater(t, res.Record.Price, 0.0)
	assert.LessOrEqual(t, len(res.Record.TopWallets), 10)
}

// Three back-to-back requests through one client must be spaced by the limiter.
func TestRateLimiterSpacing_Live(t *testing.T) {
	client := liveClient(t)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.GetCredits(ctx)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 2*solanatracker.DefaultMinInterval)
}
