package surface

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/geom"
)

// Op is a path command.
type Op int

const (
	MoveTo Op = iota
	LineTo
	Close
)

// Segment is one path command with its target point. Close ignores the
// point.
type Segment struct {
	Op   Op
	X, Y float64
}

// Path is a polyline or polygon with its paint.
type Path struct {
	Segments []Segment

	Fill        string
	Stroke      string
	StrokeWidth float64
	ZIndex      float64
	Class       string
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) *Path {
	p.Segments = append(p.Segments, Segment{Op: MoveTo, X: x, Y: y})
	return p
}

// LineTo draws a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) *Path {
	p.Segments = append(p.Segments, Segment{Op: LineTo, X: x, Y: y})
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.Segments = append(p.Segments, Segment{Op: Close})
	return p
}

// Clear drops the segments and keeps the paint.
func (p *Path) Clear() *Path {
	p.Segments = p.Segments[:0]
	return p
}

// Empty reports whether the path has no segments.
func (p *Path) Empty() bool { return len(p.Segments) == 0 }

// Points returns the coordinates of every non-Close segment.
func (p *Path) Points() []geom.Point {
	pts := make([]geom.Point, 0, len(p.Segments))
	for _, s := range p.Segments {
		if s.Op != Close {
			pts = append(pts, geom.Point{X: s.X, Y: s.Y})
		}
	}
	return pts
}

// Bounds returns the axis-aligned bounding box of the path's points.
// An empty path has zero bounds.
func (p *Path) Bounds() geom.Rect {
	pts := p.Points()
	if len(pts) == 0 {
		return geom.Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range pts {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return geom.Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}
