package style

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// LabelSettings configure one level of label settings (series default,
// hover, select, or a single point). Zero fields are "not set" and fall
// through to the level below when merged. Offsets and rotation are
// pointers so that an explicit 0 can reset a lower level.
type LabelSettings struct {
	Enabled  *bool      `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Anchor   Anchor     `json:"anchor,omitempty" yaml:"anchor,omitempty" toml:"anchor,omitempty"`
	OffsetX  *float64   `json:"offsetX,omitempty" yaml:"offsetX,omitempty" toml:"offsetX,omitempty"`
	OffsetY  *float64   `json:"offsetY,omitempty" yaml:"offsetY,omitempty" toml:"offsetY,omitempty"`
	Rotation *float64   `json:"rotation,omitempty" yaml:"rotation,omitempty" toml:"rotation,omitempty"`
	Format   string     `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	Text     text.Style `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
}

// Merge overlays the set fields of over onto s.
func (s LabelSettings) Merge(over *LabelSettings) LabelSettings {
	if over == nil {
		return s
	}
	if over.Enabled != nil {
		s.Enabled = over.Enabled
	}
	if over.Anchor != "" {
		s.Anchor = over.Anchor
	}
	if over.OffsetX != nil {
		s.OffsetX = over.OffsetX
	}
	if over.OffsetY != nil {
		s.OffsetY = over.OffsetY
	}
	if over.Rotation != nil {
		s.Rotation = over.Rotation
	}
	if over.Format != "" {
		s.Format = over.Format
	}
	if over.Text.FontSize != 0 {
		s.Text.FontSize = over.Text.FontSize
	}
	if over.Text.LineHeight != 0 {
		s.Text.LineHeight = over.Text.LineHeight
	}
	if over.Text.Padding != (text.Padding{}) {
		s.Text.Padding = over.Text.Padding
	}
	if over.Text.Width != 0 {
		s.Text.Width = over.Text.Width
	}
	return s
}

// Float returns a pointer to v, for offsets and rotation.
func Float(v float64) *float64 { return &v }

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// GetOffsetX returns the horizontal offset, 0 when unset.
func (s LabelSettings) GetOffsetX() float64 { return deref(s.OffsetX) }

// GetOffsetY returns the vertical offset, 0 when unset.
func (s LabelSettings) GetOffsetY() float64 { return deref(s.OffsetY) }

// GetRotation returns the rotation in degrees, 0 when unset.
func (s LabelSettings) GetRotation() float64 { return deref(s.Rotation) }

// StateLabels are the series-level label settings per state.
type StateLabels struct {
	Normal LabelSettings  `json:"normal" yaml:"normal" toml:"normal"`
	Hover  *LabelSettings `json:"hover,omitempty" yaml:"hover,omitempty" toml:"hover,omitempty"`
	Select *LabelSettings `json:"select,omitempty" yaml:"select,omitempty" toml:"select,omitempty"`
}

// For returns the state-level settings for s, or nil for Normal or when
// the state has no settings of its own.
func (l StateLabels) For(s State) *LabelSettings {
	switch s {
	case Hover:
		return l.Hover
	case Select:
		return l.Select
	}
	return nil
}

// Enabled returns the per-state enabled flags of the series.
func (l StateLabels) Enabled() Toggles {
	var t Toggles
	t[Normal] = l.Normal.Enabled
	if l.Hover != nil {
		t[Hover] = l.Hover.Enabled
	}
	if l.Select != nil {
		t[Select] = l.Select.Enabled
	}
	return t
}

// Resolve merges the settings that apply to a point in state s:
// series normal, then the series state factory, then the point's normal
// override, then the point's state override.
func (l StateLabels) Resolve(s State, point [3]*LabelSettings) LabelSettings {
	out := l.Normal.Merge(l.For(s))
	out = out.Merge(point[Normal])
	if s != Normal {
		out = out.Merge(point[s])
	}
	if out.Anchor == "" {
		out.Anchor = AnchorCenter
	}
	return out
}

// Box places a label of the given size so that its anchor sits at (x, y)
// shifted by the offsets, rotates it around that point, and returns the
// corner coordinates clockwise from the top-left.
func (s LabelSettings) Box(x, y float64, size text.Size) []float64 {
	ax, ay := x+s.GetOffsetX(), y+s.GetOffsetY()
	fx, fy := s.Anchor.Fractions()
	left := ax - fx*size.Width
	top := ay - fy*size.Height
	corners := geom.Rect{Left: left, Top: top, Width: size.Width, Height: size.Height}.Corners()
	rot := s.GetRotation()
	if rot == 0 {
		return corners
	}

	rad := rot * math.Pi / 180
	sin, cos := math.Sincos(rad)
	for i := 0; i+1 < len(corners); i += 2 {
		dx, dy := corners[i]-ax, corners[i+1]-ay
		corners[i] = ax + dx*cos - dy*sin
		corners[i+1] = ay + dx*sin + dy*cos
	}
	return corners
}

// Bounds is Box normalized to its bounding rectangle.
func (s LabelSettings) Bounds(x, y float64, size text.Size) geom.Rect {
	return geom.FromCoordinateBox(s.Box(x, y, size))
}
