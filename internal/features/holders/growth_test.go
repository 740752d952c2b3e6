package holders

import (
	"math"
	"testing"
	"time"

	"uranus-analytics/internal/features/synthetic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func estimator() GrowthEstimator {
	return GrowthEstimator{Now: func() time.Time { return fixedNow }}
}

func ago(d time.Duration) int64 { return fixedNow.Add(-d).Unix() }

func assertSynthetic(t *testing.T, g Growth) {
	t.Helper()
	assert.True(t, g.Synthetic)
	assert.GreaterOrEqual(t, g.Percent, 10.0)
	assert.Less(t, g.Percent, 60.0)
	assert.False(t, math.IsNaN(g.Percent) || math.IsInf(g.Percent, 0))
}

func TestEstimate_UsesSampleBeforeCutoff(t *testing.T) {
	g := estimator().Estimate(HolderSeries{
		{Time: ago(48 * time.Hour), Holders: 100},
		{Time: ago(time.Hour), Holders: 150},
	})
	assert.False(t, g.Synthetic)
	assert.InDelta(t, 50.0, g.Percent, 1e-9)
}

func TestEstimate_SortsUnorderedSeries(t *testing.T) {
	g := estimator().Estimate(HolderSeries{
		{Time: ago(time.Hour), Holders: 300},
		{Time: ago(72 * time.Hour), Holders: 100},
		{Time: ago(30 * time.Hour), Holders: 200},
	})
	// latest sample at or before the cutoff is the 30h one
	assert.InDelta(t, 50.0, g.Percent, 1e-9)
}

func TestEstimate_FallsBackToEarliestSample(t *testing.T) {
	g := estimator().Estimate(HolderSeries{
		{Time: ago(10 * time.Hour), Holders: 200},
		{Time: ago(5 * time.Hour), Holders: 220},
		{Time: ago(time.Hour), Holders: 250},
	})
	assert.InDelta(t, 25.0, g.Percent, 1e-9)
}

func TestEstimate_ShortSeriesIsSynthetic(t *testing.T) {
	assertSynthetic(t, estimator().Estimate(nil))
	assertSynthetic(t, estimator().Estimate(HolderSeries{}))
	assertSynthetic(t, estimator().Estimate(HolderSeries{{Time: ago(time.Hour), Holders: 10}}))
}

func TestEstimate_ZeroPreviousIsSynthetic(t *testing.T) {
	g := estimator().Estimate(HolderSeries{
		{Time: ago(48 * time.Hour), Holders: 0},
		{Time: ago(time.Hour), Holders: 150},
	})
	assertSynthetic(t, g)
}

func TestEstimate_ClampsAtMinusHundred(t *testing.T) {
	g := estimator().Estimate(HolderSeries{
		{Time: ago(48 * time.Hour), Holders: 100},
		{Time: ago(time.Hour), Holders: -50},
	})
	assert.False(t, g.Synthetic)
	assert.Equal(t, -100.0, g.Percent)
}

func TestEstimate_NoUpperClamp(t *testing.T) {
	g := estimator().Estimate(HolderSeries{
		{Time: ago(48 * time.Hour), Holders: 10},
		{Time: ago(time.Hour), Holders: 1000},
	})
	assert.InDelta(t, 9900.0, g.Percent, 1e-9)
}

func TestEstimate_DoesNotReorderCallerSeries(t *testing.T) {
	series := HolderSeries{
		{Time: ago(time.Hour), Holders: 150},
		{Time: ago(48 * time.Hour), Holders: 100},
	}
	estimator().Estimate(series)
	assert.Equal(t, int64(150), series[0].Holders)
}

func TestEstimate_SyntheticUsesSource(t *testing.T) {
	e := GrowthEstimator{Rand: synthetic.Fixed(0.999)}
	assert.Equal(t, 59.0, e.Estimate(nil).Percent)
	e.Rand = synthetic.Fixed(0)
	assert.Equal(t, 10.0, e.Estimate(nil).Percent)
}

func TestParseHolderSeries(t *testing.T) {
	series, ok := ParseHolderSeries([]byte(`{"holders":[{"time":1700000000,"holders":"120"},{"time":1700003600,"holders":130}]}`))
	require.True(t, ok)
	require.Len(t, series, 2)
	assert.Equal(t, HolderSample{Time: 1700000000, Holders: 120}, series[0])

	_, ok = ParseHolderSeries([]byte(`{"holders":"n/a"}`))
	assert.False(t, ok)
	_, ok = ParseHolderSeries(nil)
	assert.False(t, ok)
	_, ok = ParseHolderSeries([]byte(`not json`))
	assert.False(t, ok)
}
