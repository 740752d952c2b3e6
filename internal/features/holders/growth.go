package holders

// 24h holder growth from the /holders/chart series
// The series is sparse and may arrive unordered, so the "24h ago" point is the
// latest sample at or before the cutoff, falling back to the earliest sample

import (
	"sort"
	"time"

	"uranus-analytics/internal/features/synthetic"

	"github.com/tidwall/gjson"
)

// HolderSample is one point of the holder-count chart.
type HolderSample struct {
	Time    int64 `json:"time"`    // unix seconds
	Holders int64 `json:"holders"` // holder count at Time
}

// HolderSeries is not guaranteed to be in chronological order.
type HolderSeries []HolderSample

// ParseHolderSeries reads {"holders":[{"time":..,"holders":..}]}.
// ok is false when the document has no holders array.
func ParseHolderSeries(raw []byte) (series HolderSeries, ok bool) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil, false
	}
	arr := gjson.GetBytes(raw, "holders")
	if !arr.IsArray() {
		return nil, false
	}
	items := arr.Array()
	series = make(HolderSeries, 0, len(items))
	for _, item := range items {
		series = append(series, HolderSample{
			Time:    item.Get("time").Int(),
			Holders: item.Get("holders").Int(),
		})
	}
	return series, true
}

// Growth is the estimator's answer. Synthetic is set when Percent is a placeholder.
type Growth struct {
	Percent   float64
	Synthetic bool
	Reason    string
}

// GrowthEstimator derives a day-over-day holder growth percentage.
type GrowthEstimator struct {
	Now  func() time.Time
	Rand synthetic.Source
}

const growthWindow = 24 * time.Hour

// Estimate never returns NaN or Inf. Results below -100 are clamped to -100.
func (e GrowthEstimator) Estimate(series HolderSeries) Growth {
	if series == nil {
		return e.synthetic("no holder chart data")
	}
	if len(series) < 2 {
		return e.synthetic("insufficient holder data points")
	}

	sorted := make(HolderSeries, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	current := sorted[len(sorted)-1].Holders

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	cutoff := now().Add(-growthWindow).Unix()

	previous := current
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Time <= cutoff {
			previous = sorted[i].Holders
			break
		}
	}
	// No sample old enough (or it matches current): compare against the earliest one.
	if previous == current && len(sorted) > 1 {
		previous = sorted[0].Holders
	}

	if previous == 0 {
		return e.synthetic("no previous holder count")
	}

	growth := float64(current-previous) / float64(previous) * 100
	if growth < -100 {
		growth = -100
	}
	return Growth{Percent: growth}
}

func (e GrowthEstimator) synthetic(reason string) Growth {
	return Growth{Percent: synthetic.HolderGrowth(e.Rand), Synthetic: true, Reason: reason}
}
