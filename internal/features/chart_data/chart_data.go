package chart_data

// Placeholder price/volume series for the dashboard chart
// 24 hourly points around a fixed base price and base 24h volume

import (
	"math"
	"time"

	"uranus-analytics/internal/features/synthetic"
)

const (
	DefaultPeriod = "24h"
	Hours         = 24

	BasePrice  = 0.5022527140331136
	BaseVolume = 2370571.0

	priceVariation  = 0.05 // ±2.5% around BasePrice
	volumeVariation = 0.3  // ±15% around BaseVolume
	wickVariation   = 0.02 // high/low up to 2% away from open
	closeVariation  = 0.01 // close within ±0.5% of open
)

type PricePoint struct {
	Time   int64   `json:"time"` // epoch millis
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

type Candle struct {
	Time   int64   `json:"time"` // epoch millis
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// ChartData is the /api/chart-data payload.
type ChartData struct {
	PriceHistory []PricePoint `json:"priceHistory"`
	OHLCVData    []Candle     `json:"ohlcvData"`
	Period       string       `json:"period"`
}

type Generator struct {
	Rand synthetic.Source
	Now  func() time.Time
}

// Generate returns Hours points per series, oldest first, the last one an hour before now.
// period is only echoed back.
func (g Generator) Generate(period string) ChartData {
	if period == "" {
		period = DefaultPeriod
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	src := synthetic.Or(g.Rand)
	end := now()

	data := ChartData{
		PriceHistory: make([]PricePoint, 0, Hours),
		OHLCVData:    make([]Candle, 0, Hours),
		Period:       period,
	}
	for i := 0; i < Hours; i++ {
		ts := end.Add(-time.Duration(Hours-i) * time.Hour).UnixMilli()
		data.PriceHistory = append(data.PriceHistory, PricePoint{
			Time:   ts,
			Price:  BasePrice * jitter(src, priceVariation),
			Volume: hourlyVolume(src),
		})
	}
	for i := 0; i < Hours; i++ {
		ts := end.Add(-time.Duration(Hours-i) * time.Hour).UnixMilli()
		open := BasePrice * jitter(src, priceVariation)
		data.OHLCVData = append(data.OHLCVData, Candle{
			Time:   ts,
			Open:   open,
			High:   open * (1 + src()*wickVariation),
			Low:    open * (1 - src()*wickVariation),
			Close:  open * jitter(src, closeVariation),
			Volume: hourlyVolume(src),
		})
	}
	return data
}

// jitter returns a factor in [1-spread/2, 1+spread/2).
func jitter(src synthetic.Source, spread float64) float64 {
	return 1 + (src()-0.5)*spread
}

func hourlyVolume(src synthetic.Source) float64 {
	return math.Floor(BaseVolume * jitter(src, volumeVariation) / Hours)
}
