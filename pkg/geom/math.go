package geom

import "math"

// significantDigits is how many decimal digits of a float64 Round trusts.
const significantDigits = 14

// Round rounds num to digits decimal places. Precision is capped so that no
// more than 14 significant digits survive, which keeps accumulated layout
// sums from drifting in the last bits between identical passes. Halves
// round toward positive infinity and a NaN result becomes 0.
func Round(num float64, digits int) float64 {
	magnitude := math.Floor(math.Log10(math.Abs(num)))
	tmp := math.Pow(10, math.Min(float64(digits), significantDigits-magnitude))
	r := math.Floor(num*tmp+0.5) / tmp
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// IsPointOnLine reports on which side of the directed line p1→p2 the point
// p3 lies: 0 on the line, otherwise the sign of the cross product.
func IsPointOnLine(p1x, p1y, p2x, p2y, p3x, p3y float64) int {
	v := (p1y-p2y)*p3x + (p2x-p1x)*p3y + (p1x*p2y - p2x*p1y)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Near reports whether a and b are equal within eps.
func Near(a, b float64) bool {
	return math.Abs(a-b) < eps
}
