package holders

import (
	"encoding/json"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var percentagePattern = regexp.MustCompile(`^\d+\.\d{2}$`)

func TestNormalize_NilIsSynthetic(t *testing.T) {
	records, isSynthetic := TopHoldersNormalizer{}.Normalize(nil)

	assert.True(t, isSynthetic)
	require.Len(t, records, 5)
	for i, r := range records {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, exampleWallets[i], r.Wallet)
		assert.Regexp(t, percentagePattern, r.Percentage)
		assert.GreaterOrEqual(t, r.Balance, 100000.0)
		assert.Less(t, r.Balance, 10100000.0)
		assert.Equal(t, FormatBalance(r.Balance), r.BalanceFormatted)
	}
}

func TestNormalize_NonArrayIsSynthetic(t *testing.T) {
	for _, raw := range []string{`{"holders":[]}`, `"nope"`, `{bad json`} {
		records, isSynthetic := TopHoldersNormalizer{}.Normalize([]byte(raw))
		assert.True(t, isSynthetic, raw)
		assert.Len(t, records, 5, raw)
	}
}

func TestNormalize_TruncatesToTenInOrder(t *testing.T) {
	var raw []map[string]interface{}
	for i := 0; i < 15; i++ {
		// ascending balances: a re-sort by balance would change the order
		raw = append(raw, map[string]interface{}{
			"address":    fmt.Sprintf("wallet-%02d", i),
			"amount":     float64(i + 1),
			"percentage": float64(i) / 3,
		})
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	records, isSynthetic := TopHoldersNormalizer{}.Normalize(data)
	assert.False(t, isSynthetic)
	require.Len(t, records, 10)
	for i, r := range records {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, fmt.Sprintf("wallet-%02d", i), r.Wallet)
		assert.Equal(t, float64(i+1), r.Balance)
		assert.Regexp(t, percentagePattern, r.Percentage)
	}
}

func TestNormalize_FieldFallbacks(t *testing.T) {
	raw := `[
		{"wallet":"W1","balance":1234567,"percentage":12.346},
		{"owner":"W2","balance":0,"amount":"2500.5","percentageOfSupply":"3.1"},
		{"address":"W3"},
		42
	]`
	records, _ := TopHoldersNormalizer{}.Normalize([]byte(raw))
	require.Len(t, records, 4)

	assert.Equal(t, TopHolderRecord{Rank: 1, Wallet: "W1", Balance: 1234567, BalanceFormatted: "1,234,567", Percentage: "12.35"}, records[0])
	assert.Equal(t, "W2", records[1].Wallet)
	assert.Equal(t, 2500.5, records[1].Balance)
	assert.Equal(t, "3.10", records[1].Percentage)
	assert.Equal(t, TopHolderRecord{Rank: 3, Wallet: "W3", Balance: 0, BalanceFormatted: "0", Percentage: "0.00"}, records[2])
	assert.Equal(t, "", records[3].Wallet)
}

func TestNormalize_EmptyArray(t *testing.T) {
	records, isSynthetic := TopHoldersNormalizer{}.Normalize([]byte(`[]`))
	assert.False(t, isSynthetic)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFirstPresent(t *testing.T) {
	obj := gjson.Parse(`{"balance":0,"amount":"","wallet":null,"address":"A"}`)

	_, ok := FirstPresent(obj, BalanceFields...)
	assert.False(t, ok)

	r, ok := FirstPresent(obj, WalletFields...)
	require.True(t, ok)
	assert.Equal(t, "A", r.String())
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatBalance(1234567))
	assert.Equal(t, "999", FormatBalance(999))
	assert.Equal(t, "0", FormatBalance(0))
}

func TestNormalize_NonFiniteNumbers(t *testing.T) {
	raw := []byte(`[{"wallet":"W1","balance":"NaN","percentage":"Infinity"},{"wallet":"W2","amount":1e400,"percentage":1e400}]`)
	records, isSynthetic := TopHoldersNormalizer{}.Normalize(raw)
	require.False(t, isSynthetic)
	require.Len(t, records, 2)

	for _, r := range records {
		assert.Zero(t, r.Balance)
		assert.Equal(t, "0.00", r.Percentage)
	}
	_, err := json.Marshal(records)
	assert.NoError(t, err)
}

func TestFinite(t *testing.T) {
	assert.Equal(t, 1.5, Finite(gjson.Parse(`1.5`)))
	assert.Zero(t, Finite(gjson.Parse(`"NaN"`)))
	assert.Zero(t, Finite(gjson.Parse(`1e400`)))
	assert.Zero(t, Finite(gjson.Parse(`"-Inf"`)))
}
