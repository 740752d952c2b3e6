package dashboard

import "uranus-analytics/internal/features/holders"

// PlaceholderName fills token identity fields the upstream left empty.
const PlaceholderName = "URANUS"

// Record is the dashboard payload. Every field always carries a value.
type Record struct {
	TokenName        string `json:"tokenName"`
	TokenSymbol      string `json:"tokenSymbol"`
	TokenImage       string `json:"tokenImage"`
	TokenDescription string `json:"tokenDescription"`

	MarketCap         float64 `json:"marketCap"`
	Price             float64 `json:"price"`
	PriceChange24h    float64 `json:"priceChange24h"`
	TotalSupply       float64 `json:"totalSupply"`
	CirculatingSupply float64 `json:"circulatingSupply"`

	Volume24h         float64 `json:"volume24h"`
	TotalVolume       float64 `json:"totalVolume"`
	TotalTransactions int64   `json:"totalTransactions"`
	BuyTransactions   int64   `json:"buyTransactions"`
	SellTransactions  int64   `json:"sellTransactions"`

	TotalHolders  int64   `json:"totalHolders"`
	HoldersGrowth float64 `json:"holdersGrowth"`
	VolumeGrowth  float64 `json:"volumeGrowth"`

	TopWallets []holders.TopHolderRecord `json:"topWallets"`

	Liquidity       float64 `json:"liquidity"`
	RiskScore       float64 `json:"riskScore"`
	JupiterVerified bool    `json:"jupiterVerified"`

	PoolID      string `json:"poolId"`
	Market      string `json:"market"`
	LastUpdated int64  `json:"lastUpdated"` // epoch millis
}
