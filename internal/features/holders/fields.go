package holders

import (
	"math"

	"github.com/tidwall/gjson"
)

// Upstream holder records name the same attribute differently depending on the
// endpoint version. Candidates are listed most specific first.
var (
	WalletFields     = []string{"wallet", "address", "owner"}
	BalanceFields    = []string{"balance", "amount"}
	PercentageFields = []string{"percentage", "percentageOfSupply"}
)

// FirstPresent returns the first candidate field of obj that holds a set value.
// null, false, 0 and "" count as unset, so a zero balance under "balance" still
// lets "amount" win.
func FirstPresent(obj gjson.Result, names ...string) (gjson.Result, bool) {
	for _, name := range names {
		if r := obj.Get(name); isSet(r) {
			return r, true
		}
	}
	return gjson.Result{}, false
}

func isSet(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return r.Exists()
	}
}

// Finite reads a number, mapping NaN and ±Inf (e.g. "NaN" strings, 1e400) to 0.
func Finite(r gjson.Result) float64 {
	return FiniteOrZero(r.Float())
}

func FiniteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
