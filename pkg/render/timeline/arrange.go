package timeline

import "math"

// arrange stacks each side of the axis independently. Range bars go
// first, in sort order; each new range series on a side gets a z-index
// just below the previous one. Moments follow in reverse sort order, so
// later moments claim the lanes nearest the axis.
func (p *pass) arrange() {
	p.arrangeSide(p.b.rangeUp, p.b.momentUp, false)
	p.arrangeSide(p.b.rangeDown, p.b.momentDown, true)
}

func (p *pass) arrangeSide(ranges, moments []*placement, down bool) {
	var stack intersections
	var seen []int
	for _, pl := range ranges {
		if !containsInt(seen, pl.series) {
			p.res.Series[pl.series].ZIndex = RangeBaseZIndex - float64(len(seen))/100
			seen = append(seen, pl.series)
		}
		stack.add(&pl.b, true)
		p.enlarge(pl.b, down)

		pt := p.point(pl)
		pt.Bounds = pl.b
		pt.StateZIndex = 1 - pl.b.EY/1e6
	}
	for i := len(moments) - 1; i >= 0; i-- {
		pl := moments[i]
		stack.add(&pl.b, false)
		p.enlarge(pl.b, down)

		pt := p.point(pl)
		pt.Bounds = pl.b
		pt.MinLength = pl.b.SY + (pl.b.EY-pl.b.SY)/2
	}
}

// enlarge widens the envelope. Boxes below the axis are mirrored so the
// envelope's y axis points up.
func (p *pass) enlarge(b Bounds, down bool) {
	if down {
		b.SY, b.EY = -b.EY, -b.SY
	}
	p.total.SX = math.Min(p.total.SX, b.SX)
	p.total.EX = math.Max(p.total.EX, b.EX)
	p.total.SY = math.Min(p.total.SY, b.SY)
	p.total.EY = math.Max(p.total.EY, b.EY)
}

func (p *pass) point(pl *placement) *Point {
	return &p.res.Series[pl.series].Points[pl.index]
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
