package funnel

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/style"
)

// shiftCenterX moves the shared center when the natural-width label of
// row i does not fit beside its band. A shift larger than the remaining
// half-base width is clamped, and the label is narrowed instead.
//
// It runs in row order while heights are assigned, so a shift only
// reduces the room left for later rows.
func (p *pass) shiftCenterX(i int) {
	if !p.opts.labelsEnabled() || !p.labelPos.Outside() {
		return
	}

	p.calculatePoint(i)
	pt := &p.points[i]
	pt.forced = 0

	b := p.bounds
	minConn := p.opts.MinConnectorLength

	s := p.settings(i, style.Normal)
	x, y := p.position(i, s, p.seriesAnchor(), nil)
	lb := s.Bounds(x, y, p.measure(i, s, 0))
	labelX1 := lb.Left
	labelX2 := lb.Right()

	var w float64
	if p.reversed {
		w = p.widthAtY(lb.Top - b.Top)
	} else {
		w = p.widthAtY(b.Height - lb.Bottom() + b.Top)
	}
	halfBase := p.baseW / 2

	switch {
	case p.labelPos.Left():
		pointXLeft := b.Left + p.centerX - w/2
		maxShift := b.Width - p.centerX - halfBase

		if p.labelPos.InColumn() {
			if labelX2+minConn > pointXLeft {
				shift := labelX2 + minConn - pointXLeft
				if shift > maxShift {
					p.centerX += maxShift
					pointXLeft = b.Left + p.centerX - w/2
					pt.forced = p.floorWidth(pointXLeft - minConn - labelX1)
				} else {
					p.centerX += shift
				}
			}
		} else if labelX1 < b.Left {
			shift := math.Abs(b.Left - labelX1)
			if shift > maxShift {
				p.centerX += maxShift
				pointXLeft = p.centerX - w/2
				pt.forced = p.floorWidth(pointXLeft - p.connLen)
			} else {
				p.centerX += shift
			}
		}

	case p.labelPos.Right():
		pointXRight := b.Left + p.centerX + w/2
		maxShift := p.centerX - halfBase

		if p.labelPos.InColumn() {
			// A very long label may start left of the chart.
			if labelX1 < 0 || labelX1-minConn < pointXRight {
				shift := math.Abs(pointXRight - labelX1 + minConn)
				if labelX1 < 0 || shift > maxShift {
					p.centerX -= maxShift
					pointXRight = b.Left + p.centerX + w/2
					pt.forced = p.floorWidth(labelX2 - minConn - pointXRight)
				} else {
					p.centerX -= shift
				}
			}
		} else if labelX2 > b.Right() {
			shift := labelX2 - b.Right()
			if shift > maxShift {
				p.centerX -= maxShift
				pt.forced = p.floorWidth(b.Right() - labelX1 + maxShift)
			} else {
				p.centerX -= shift
			}
		}
	}
}

// floorWidth keeps forced widths at or above the minimum label width.
func (p *pass) floorWidth(w float64) float64 {
	return math.Max(w, p.opts.MinLabelWidth)
}
