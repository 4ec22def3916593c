package timeline

import "math"

// verticalOffsets derives the limits of the vertical translation from the
// envelope. Content that fits is pinned: against the bottom edge when it
// only grows upwards, against the top when it only grows downwards, and
// centered on the axis when it grows both ways.
func (p *pass) verticalOffsets(up, down int) (min, max float64) {
	top, bottom := p.opts.scrollerHeights()
	half := p.bounds.Height / 2
	tr := p.total
	minOff := half - math.Abs(tr.SY) - bottom
	maxOff := tr.EY - half - top
	if tr.EY-tr.SY > p.bounds.Height {
		return minOff, maxOff
	}
	switch {
	case up > 0 && down == 0:
		return minOff, minOff
	case up == 0 && down > 0:
		return maxOff, maxOff
	}
	return 0, 0
}

// Translate clamps a requested vertical translation (positive moves the
// axis down) into the allowed range. When the
// limits cross, the upper one wins.
func (r *Result) Translate(requested float64) float64 {
	return math.Min(math.Max(requested, r.OffsetMin), r.OffsetMax)
}

// AxisTranslate keeps the axis band inside the viewport for a plot
// translation t.
func (r *Result) AxisTranslate(t, scrollerTop, scrollerBottom float64) float64 {
	half := r.Bounds.Height / 2
	axisHalf := r.AxisHeight / 2
	if limit := half - axisHalf - scrollerBottom; t > limit {
		return limit
	}
	if limit := -half + axisHalf + scrollerTop; t < limit {
		return limit
	}
	return t
}
