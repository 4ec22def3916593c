// Package surface is the drawing model the layout engines write into and
// the sinks read from.
//
// A [Surface] holds a tree of [Layer]s. Layers own paths and text runs,
// carry a z-index and an optional clip rectangle, and hand out pooled
// paths by stable index so a redraw reuses the path a label drew last
// time instead of allocating a new one.
package surface

import (
	"cmp"
	"slices"

	"github.com/matzehuels/chartlayout/pkg/geom"
)

// Surface is the root of a drawing.
type Surface struct {
	Width  float64
	Height float64
	Root   *Layer
}

// New returns an empty surface of the given size.
func New(width, height float64) *Surface {
	return &Surface{Width: width, Height: height, Root: NewLayer("root")}
}

// Layer is a z-ordered group of paths, text runs and child layers.
type Layer struct {
	ID     string
	ZIndex float64
	Clip   *geom.Rect

	paths    []*Path
	texts    []Text
	children []*Layer
}

// NewLayer returns an empty layer.
func NewLayer(id string) *Layer {
	return &Layer{ID: id}
}

// Path returns the pooled path at index i, creating it and any missing
// lower indices on first use. A path handed out again keeps its identity.
func (l *Layer) Path(i int) *Path {
	for len(l.paths) <= i {
		l.paths = append(l.paths, &Path{})
	}
	return l.paths[i]
}

// Paths returns the non-empty paths in index order.
func (l *Layer) Paths() []*Path {
	out := make([]*Path, 0, len(l.paths))
	for _, p := range l.paths {
		if !p.Empty() {
			out = append(out, p)
		}
	}
	return out
}

// PoolSize returns how many paths the layer has allocated.
func (l *Layer) PoolSize() int { return len(l.paths) }

// AddText appends a text run.
func (l *Layer) AddText(t Text) { l.texts = append(l.texts, t) }

// Texts returns the layer's text runs in insertion order.
func (l *Layer) Texts() []Text { return l.texts }

// Child returns the child layer with the given id, creating it if needed.
func (l *Layer) Child(id string) *Layer {
	for _, c := range l.children {
		if c.ID == id {
			return c
		}
	}
	c := NewLayer(id)
	l.children = append(l.children, c)
	return c
}

// Children returns the child layers sorted by z-index. Equal z-indices
// keep creation order.
func (l *Layer) Children() []*Layer {
	out := slices.Clone(l.children)
	slices.SortStableFunc(out, func(a, b *Layer) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
	return out
}

// SetClip restricts drawing to r.
func (l *Layer) SetClip(r geom.Rect) { l.Clip = &r }

// Clear empties every pooled path and drops the text runs. Pooled paths
// survive so they can be reused on the next pass.
func (l *Layer) Clear() {
	for _, p := range l.paths {
		p.Clear()
	}
	l.texts = l.texts[:0]
}

// Walk visits l and its descendants depth first in z order.
func (l *Layer) Walk(fn func(*Layer)) {
	fn(l)
	for _, c := range l.Children() {
		c.Walk(fn)
	}
}

// Text is a positioned text block. Box is the block's bounding rectangle
// before rotation; Rotation turns it around its center, in degrees.
type Text struct {
	Content  string
	Box      geom.Rect
	FontSize float64
	Rotation float64
	Color    string
	Class    string
}
