package chartdoc

import (
	"encoding/json"
	"os"
	"time"

	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/render/funnel"
	"github.com/matzehuels/chartlayout/pkg/render/timeline"
)

// =============================================================================
// Layout - Serialized Layout Result
// =============================================================================

// Layout is the storable outcome of a layout pass.
//
// Check Kind to see which fields are populated:
//
//	Funnel, pyramid:
//	  - Points: band polygons, labels and connectors
//	  - Domains, Iterations, Capped: overlap correction outcome
//	  - CenterX, Forced: center shift outcome
//
//	Timeline:
//	  - Series: stacked points per series
//	  - TotalRange, OffsetMin, OffsetMax: envelope and scroll limits
//
// Chart holds the JSON encoding of the document that produced the layout,
// so a stored layout can be rendered again.
type Layout struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Kind      string    `json:"kind" bson:"kind"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Width     float64   `json:"width" bson:"width"`
	Height    float64   `json:"height" bson:"height"`
	CreatedAt time.Time `json:"created_at,omitzero" bson:"created_at,omitempty"`

	Chart    json.RawMessage `json:"chart,omitempty" bson:"chart,omitempty"`
	Warnings []string        `json:"warnings,omitempty" bson:"warnings,omitempty"`

	// Funnel and pyramid
	Points     []Point `json:"points,omitempty" bson:"points,omitempty"`
	Domains    [][]int `json:"domains,omitempty" bson:"domains,omitempty"`
	Iterations int     `json:"iterations,omitempty" bson:"iterations,omitempty"`
	Capped     bool    `json:"capped,omitempty" bson:"capped,omitempty"`
	CenterX    float64 `json:"center_x,omitempty" bson:"center_x,omitempty"`
	Forced     int     `json:"forced,omitempty" bson:"forced,omitempty"`

	// Timeline
	Series     []Series         `json:"series,omitempty" bson:"series,omitempty"`
	TotalRange *timeline.Bounds `json:"total_range,omitempty" bson:"total_range,omitempty"`
	OffsetMin  float64          `json:"offset_min,omitempty" bson:"offset_min,omitempty"`
	OffsetMax  float64          `json:"offset_max,omitempty" bson:"offset_max,omitempty"`
}

// IsTimeline reports whether l holds a timeline.
func (l *Layout) IsTimeline() bool { return l.Kind == KindTimeline }

// =============================================================================
// Point - Funnel/Pyramid Band
// =============================================================================

// Point is one band of a funnel or pyramid.
type Point struct {
	Index   int          `json:"index" bson:"index"`
	Name    string       `json:"name,omitempty" bson:"name,omitempty"`
	Value   float64      `json:"value" bson:"value"`
	Percent float64      `json:"percent" bson:"percent"`
	Missing bool         `json:"missing,omitempty" bson:"missing,omitempty"`
	State   string       `json:"state,omitempty" bson:"state,omitempty"`
	Color   string       `json:"color,omitempty" bson:"color,omitempty"`
	Polygon []geom.Point `json:"polygon" bson:"polygon"`
	Label   *Label       `json:"label,omitempty" bson:"label,omitempty"`
}

// Label is a placed label.
type Label struct {
	Text        string       `json:"text" bson:"text"`
	Box         geom.Rect    `json:"box" bson:"box"`
	Fits        bool         `json:"fits" bson:"fits"`
	Domain      int          `json:"domain" bson:"domain"`
	WidthForced float64      `json:"width_forced,omitempty" bson:"width_forced,omitempty"`
	Connector   []geom.Point `json:"connector,omitempty" bson:"connector,omitempty"`
}

// =============================================================================
// Series - Timeline Series
// =============================================================================

// Series is one timeline series.
type Series struct {
	Name      string          `json:"name,omitempty" bson:"name,omitempty"`
	Kind      string          `json:"kind" bson:"kind"`
	Direction string          `json:"direction" bson:"direction"`
	ZIndex    float64         `json:"z_index" bson:"z_index"`
	Points    []TimelinePoint `json:"points" bson:"points"`
}

// TimelinePoint is one stacked timeline point.
type TimelinePoint struct {
	Index       int             `json:"index" bson:"index"`
	Missing     bool            `json:"missing,omitempty" bson:"missing,omitempty"`
	Direction   string          `json:"direction,omitempty" bson:"direction,omitempty"`
	Bounds      timeline.Bounds `json:"bounds" bson:"bounds"`
	StateZIndex float64         `json:"state_z_index,omitempty" bson:"state_z_index,omitempty"`
	MinLength   float64         `json:"min_length,omitempty" bson:"min_length,omitempty"`
	Color       string          `json:"color,omitempty" bson:"color,omitempty"`
	Label       string          `json:"label,omitempty" bson:"label,omitempty"`
}

// =============================================================================
// Result ↔ Layout Conversion
// =============================================================================

// FromFunnel converts a funnel or pyramid result.
func FromFunnel(r *funnel.Result) Layout {
	l := Layout{
		Kind:       string(r.Kind),
		Width:      r.Bounds.Width,
		Height:     r.Bounds.Height,
		Points:     make([]Point, len(r.Points)),
		Domains:    r.Domains,
		Iterations: r.Iterations,
		Capped:     r.Capped,
		CenterX:    r.CenterX,
		Forced:     r.Forced,
	}
	for i := range r.Points {
		pt := &r.Points[i]
		out := Point{
			Index:   pt.Index,
			Name:    pt.Name,
			Value:   pt.Value,
			Percent: pt.Percent,
			Missing: pt.Missing,
			State:   pt.State.String(),
			Color:   pt.Color,
			Polygon: pt.Polygon(),
		}
		if lb := pt.Label; lb != nil {
			out.Label = &Label{
				Text:        lb.Text,
				Box:         lb.Bounds,
				Fits:        lb.Fits,
				Domain:      lb.Domain,
				WidthForced: lb.WidthForced,
				Connector:   lb.Connector,
			}
		}
		l.Points[i] = out
	}
	return l
}

// FromTimeline converts a timeline result.
func FromTimeline(r *timeline.Result) Layout {
	tr := r.TotalRange
	l := Layout{
		Kind:       KindTimeline,
		Width:      r.Bounds.Width,
		Height:     r.Bounds.Height,
		Series:     make([]Series, len(r.Series)),
		TotalRange: &tr,
		OffsetMin:  r.OffsetMin,
		OffsetMax:  r.OffsetMax,
	}
	for i, s := range r.Series {
		out := Series{
			Name:      s.Name,
			Kind:      string(s.Kind),
			Direction: string(s.Direction),
			ZIndex:    s.ZIndex,
			Points:    make([]TimelinePoint, len(s.Points)),
		}
		for k, pt := range s.Points {
			out.Points[k] = TimelinePoint{
				Index:       pt.Index,
				Missing:     pt.Missing,
				Direction:   string(pt.Direction),
				Bounds:      pt.Bounds,
				StateZIndex: pt.StateZIndex,
				MinLength:   pt.MinLength,
				Color:       pt.Color,
				Label:       pt.Label,
			}
		}
		l.Series[i] = out
	}
	return l
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(raw []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(raw, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidData, err, "unmarshal layout")
	}
	if err := errors.ValidateChartType(l.Kind); err != nil {
		return Layout{}, err
	}
	if l.IsTimeline() && l.TotalRange == nil {
		return Layout{}, errors.New(errors.ErrCodeInvalidData, "timeline layout must contain a total range")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	raw, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	return UnmarshalLayout(raw)
}
