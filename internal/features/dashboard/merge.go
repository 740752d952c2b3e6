package dashboard

import (
	"time"

	"uranus-analytics/internal/features/holders"

	"github.com/tidwall/gjson"
)

// Parts are the already-normalized pieces merged with the token document.
type Parts struct {
	TopWallets    []holders.TopHolderRecord
	HoldersGrowth float64
	VolumeGrowth  float64
	Now           time.Time
}

// Merge maps a /tokens/{address} document onto Record. Missing or mistyped
// fields take their zero value; identity falls back to PlaceholderName.
// The first pool is the main pool.
func Merge(tokenDoc []byte, parts Parts) Record {
	doc := gjson.ParseBytes(tokenDoc)
	token := doc.Get("token")
	mainPool := doc.Get("pools.0")

	price := holders.Finite(mainPool.Get("price.usd"))
	totalSupply := holders.Finite(mainPool.Get("tokenSupply"))

	marketCap := holders.Finite(mainPool.Get("marketCap.usd"))
	if marketCap == 0 {
		marketCap = holders.FiniteOrZero(price * totalSupply)
	}

	lastUpdated := mainPool.Get("lastUpdated").Int()
	if lastUpdated == 0 {
		lastUpdated = parts.Now.UnixMilli()
	}

	topWallets := parts.TopWallets
	if topWallets == nil {
		topWallets = []holders.TopHolderRecord{}
	}

	txns := mainPool.Get("txns")
	return Record{
		TokenName:        stringOr(token.Get("name"), PlaceholderName),
		TokenSymbol:      stringOr(token.Get("symbol"), PlaceholderName),
		TokenImage:       token.Get("image").String(),
		TokenDescription: token.Get("description").String(),

		MarketCap:         marketCap,
		Price:             price,
		PriceChange24h:    holders.Finite(doc.Get("events.24h.priceChangePercentage")),
		TotalSupply:       totalSupply,
		CirculatingSupply: totalSupply,

		Volume24h:         holders.Finite(txns.Get("volume24h")),
		TotalVolume:       holders.Finite(txns.Get("volume")),
		TotalTransactions: txns.Get("total").Int(),
		BuyTransactions:   txns.Get("buys").Int(),
		SellTransactions:  txns.Get("sells").Int(),

		TotalHolders:  doc.Get("holders").Int(),
		HoldersGrowth: parts.HoldersGrowth,
		VolumeGrowth:  parts.VolumeGrowth,

		TopWallets: topWallets,

		Liquidity:       holders.Finite(mainPool.Get("liquidity.usd")),
		RiskScore:       holders.Finite(doc.Get("risk.score")),
		JupiterVerified: doc.Get("risk.jupiterVerified").Bool(),

		PoolID:      mainPool.Get("poolId").String(),
		Market:      mainPool.Get("market").String(),
		LastUpdated: lastUpdated,
	}
}

func stringOr(r gjson.Result, fallback string) string {
	if s := r.String(); s != "" {
		return s
	}
	return fallback
}

func hasTokenShape(tokenDoc []byte) bool {
	return gjson.GetBytes(tokenDoc, "token").IsObject()
}

