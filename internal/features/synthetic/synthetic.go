package synthetic

// Placeholder values shown when the upstream has nothing usable
// Values are random but stay inside fixed ranges so the dashboard keeps a plausible shape

import (
	"math"
	"math/rand"
)

// Source yields floats in [0, 1). rand.Float64 is the default; tests pass fixed sources.
type Source func() float64

// Default is safe for concurrent use.
var Default Source = rand.Float64

// Fixed returns a Source that always yields v.
func Fixed(v float64) Source {
	return func() float64 { return v }
}

// Or returns src, or Default when src is nil.
func Or(src Source) Source {
	if src == nil {
		return Default
	}
	return src
}

// IntIn returns a whole number in [lo, hi).
func IntIn(src Source, lo, hi int) float64 {
	return math.Floor(Or(src)()*float64(hi-lo)) + float64(lo)
}

// FloatIn returns a number in [lo, hi).
func FloatIn(src Source, lo, hi float64) float64 {
	return Or(src)()*(hi-lo) + lo
}

// HolderGrowth is the stand-in for a 24h holder growth percentage, in [10, 60).
func HolderGrowth(src Source) float64 { return IntIn(src, 10, 60) }

// VolumeGrowth is the stand-in for a volume growth percentage, in [20, 120).
func VolumeGrowth(src Source) float64 { return IntIn(src, 20, 120) }
