package holders

import (
	"fmt"
	"strconv"
	"strings"

	"uranus-analytics/internal/features/synthetic"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MaxTopHolders is the leaderboard length. Upstream order is kept as-is.
const MaxTopHolders = 10

// TopHolderRecord is one leaderboard row.
type TopHolderRecord struct {
	Rank             int     `json:"rank"`
	Wallet           string  `json:"wallet"`
	Balance          float64 `json:"balance"`
	BalanceFormatted string  `json:"balanceFormatted"`
	Percentage       string  `json:"percentage"`
}

// exampleWallets back the synthetic leaderboard.
var exampleWallets = []string{
	"BFgdzMkTPdKKJeTipv2njtDEwhKxkgFueJQfJGt1jups",
	"7ACsEkYSvVyCE5AuYC6hP1bNs4SpgCDwsfm3UdnyPERk",
	"8psNvWTrdNTiVRNzAgsou9kETXNJm2SXZyaKuJraVRtf",
	"9zGpUxJr2jnkwSSF9VGezy6aALEfxysE19hvcRSkbn15",
	"HvFsFTB59XWFmRcXN6noEuej5GBd2yZnYDDmnHtYiECz",
}

// TopHoldersNormalizer maps raw holder lists onto TopHolderRecord.
type TopHoldersNormalizer struct {
	Rand synthetic.Source
}

// Normalize reads a JSON array of holder objects. When raw is empty, invalid or
// not an array it returns the synthetic leaderboard and synthetic=true.
func (n TopHoldersNormalizer) Normalize(raw []byte) (records []TopHolderRecord, isSynthetic bool) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return n.Synthetic(), true
	}
	list := gjson.ParseBytes(raw)
	if !list.IsArray() {
		return n.Synthetic(), true
	}

	items := list.Array()
	if len(items) > MaxTopHolders {
		items = items[:MaxTopHolders]
	}

	records = make([]TopHolderRecord, 0, len(items))
	for i, item := range items {
		var wallet string
		if r, ok := FirstPresent(item, WalletFields...); ok {
			wallet = r.String()
		}
		var balance float64
		if r, ok := FirstPresent(item, BalanceFields...); ok {
			balance = Finite(r)
		}
		pct, _ := FirstPresent(item, PercentageFields...)

		records = append(records, TopHolderRecord{
			Rank:             i + 1,
			Wallet:           wallet,
			Balance:          balance,
			BalanceFormatted: FormatBalance(balance),
			Percentage:       formatPercentage(pct),
		})
	}
	return records, false
}

// Synthetic builds the placeholder leaderboard from the example wallets.
func (n TopHoldersNormalizer) Synthetic() []TopHolderRecord {
	records := make([]TopHolderRecord, 0, len(exampleWallets))
	for i, wallet := range exampleWallets {
		balance := synthetic.IntIn(n.Rand, 100000, 10100000)
		records = append(records, TopHolderRecord{
			Rank:             i + 1,
			Wallet:           wallet,
			Balance:          balance,
			BalanceFormatted: FormatBalance(balance),
			Percentage:       fmt.Sprintf("%.2f", synthetic.FloatIn(n.Rand, 1, 11)),
		})
	}
	return records
}

// FormatBalance renders v with en-US grouping and at most three fraction digits.
func FormatBalance(v float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

// formatPercentage always yields a two-decimal string; non-numeric values become "0.00".
func formatPercentage(r gjson.Result) string {
	switch r.Type {
	case gjson.Number:
		return fmt.Sprintf("%.2f", FiniteOrZero(r.Num))
	case gjson.String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(r.Str, "%")), 64); err == nil {
			return fmt.Sprintf("%.2f", FiniteOrZero(f))
		}
	}
	return "0.00"
}
