package timeline

import "math"

const dayMillis = 24 * 60 * 60 * 1000.0

// Scale maps timestamps (milliseconds since the epoch) to [0, 1].
type Scale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// newScale spans [min, max]. A single instant is widened by half a day on
// each side so it lands in the middle.
func newScale(min, max float64) Scale {
	if min == max {
		min -= dayMillis / 2
		max += dayMillis / 2
	}
	return Scale{Min: min, Max: max}
}

// Transform returns the ratio of v along the scale.
func (s Scale) Transform(v float64) float64 {
	if s.Max == s.Min {
		return 0.5
	}
	return (v - s.Min) / (s.Max - s.Min)
}

// Valid reports whether the scale has a finite extent.
func (s Scale) Valid() bool {
	return !math.IsInf(s.Min, 0) && !math.IsInf(s.Max, 0) && !math.IsNaN(s.Min) && !math.IsNaN(s.Max)
}

// extent folds timestamps into a running min/max.
type extent struct{ min, max float64 }

func newExtent() extent { return extent{min: math.Inf(1), max: math.Inf(-1)} }

func (e *extent) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	e.min = math.Min(e.min, v)
	e.max = math.Max(e.max, v)
}
