// Package geom holds the small amount of plane geometry shared by the
// layout engines: screen-space rectangles, coordinate-box normalization,
// half-plane tests and rounding that is stable across repeated passes.
//
// All coordinates are screen pixels with y growing downward.
package geom

// eps is the tolerance used when comparing computed coordinates.
const eps = 1e-9

// Point is a position in screen space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left   float64 `json:"left" bson:"left"`
	Top    float64 `json:"top" bson:"top"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Right returns the x of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left-eps && p.X <= r.Right()+eps &&
		p.Y >= r.Top-eps && p.Y <= r.Bottom()+eps
}

// Intersects reports whether r and o share interior area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right()-eps && o.Left < r.Right()-eps &&
		r.Top < o.Bottom()-eps && o.Top < r.Bottom()-eps
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	left := min(r.Left, o.Left)
	top := min(r.Top, o.Top)
	return Rect{
		Left:   left,
		Top:    top,
		Width:  max(r.Right(), o.Right()) - left,
		Height: max(r.Bottom(), o.Bottom()) - top,
	}
}

// Corners returns the corners clockwise from the top-left as a flat
// x,y list, the shape FromCoordinateBox accepts.
func (r Rect) Corners() []float64 {
	return []float64{
		r.Left, r.Top,
		r.Right(), r.Top,
		r.Right(), r.Bottom(),
		r.Left, r.Bottom(),
	}
}

// FromCoordinateBox returns the bounding rectangle of a flat x,y list such
// as the possibly rotated box a text measurer reports. Fewer than two
// numbers yield the zero Rect; a trailing odd number is ignored.
func FromCoordinateBox(coords []float64) Rect {
	if len(coords) < 2 {
		return Rect{}
	}
	minX, minY := coords[0], coords[1]
	maxX, maxY := minX, minY
	for i := 2; i+1 < len(coords); i += 2 {
		minX = min(minX, coords[i])
		maxX = max(maxX, coords[i])
		minY = min(minY, coords[i+1])
		maxY = max(maxY, coords[i+1])
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}
