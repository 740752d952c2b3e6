package dashboard

import (
	"time"

	"uranus-analytics/internal/features/holders"
	"uranus-analytics/internal/features/synthetic"
)

const placeholderDescription = "Uranus Token - Because your portfolio needs a little Uranus in it! 🪐"

// FallbackRecord is served when the token document itself cannot be fetched.
// Only the leaderboard and timestamp vary between calls.
func FallbackRecord(src synthetic.Source, now time.Time) Record {
	return Record{
		TokenName:        PlaceholderName,
		TokenSymbol:      PlaceholderName,
		TokenImage:       "",
		TokenDescription: placeholderDescription,

		MarketCap:         1234567.89,
		Price:             0.000123,
		PriceChange24h:    5.23,
		TotalSupply:       1000000000,
		CirculatingSupply: 1000000000,

		Volume24h:         25000.50,
		TotalVolume:       100000.00,
		TotalTransactions: 1500,
		BuyTransactions:   800,
		SellTransactions:  700,

		TotalHolders:  1250,
		HoldersGrowth: 15,
		VolumeGrowth:  25,

		TopWallets: holders.TopHoldersNormalizer{Rand: src}.Synthetic(),

		Liquidity:       50000.00,
		RiskScore:       25,
		JupiterVerified: true,

		PoolID:      "mock-pool-id",
		Market:      "mock-market",
		LastUpdated: now.UnixMilli(),
	}
}
