package timeline

import (
	"strings"

	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/style"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// SeriesKind selects how a series' rows become points.
type SeriesKind string

const (
	// KindRange rows have a start and an optional end.
	KindRange SeriesKind = "range"
	// KindMoment rows mark a single instant with a labeled marker.
	KindMoment SeriesKind = "moment"
)

// Direction is the side of the axis a point is stacked on.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionAuto    Direction = "auto"
	DirectionOddEven Direction = "odd-even"
)

// ParseDirection accepts kebab, camel and snake spellings.
func ParseDirection(s string) (Direction, bool) {
	switch strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s)) {
	case "up":
		return DirectionUp, true
	case "down":
		return DirectionDown, true
	case "auto":
		return DirectionAuto, true
	case "oddeven":
		return DirectionOddEven, true
	}
	return "", false
}

// Orientation places the scroller above or below the plot.
type Orientation string

const (
	OrientationTop    Orientation = "top"
	OrientationBottom Orientation = "bottom"
)

// Engine defaults.
const (
	DefaultRangeHeight    = 20.0
	DefaultMarkerSize     = 6.0
	DefaultAxisHeight     = 32.0
	DefaultScrollerHeight = 40.0

	// RangeBaseZIndex is the z-index of the first range series on each
	// side of the axis; later range series sit 0.01 below the previous.
	RangeBaseZIndex = 34.0
	// MomentZIndex is the z-index of every moment series.
	MomentZIndex = 35.0

	// MomentCenterY is the vertical center of a moment label before
	// stacking, measured from the axis.
	MomentCenterY = 50.0

	DefaultStartColumn     = "start"
	DefaultEndColumn       = "end"
	DefaultNameColumn      = "name"
	DefaultXColumn         = "x"
	DefaultValueColumn     = "value"
	DefaultDirectionColumn = "direction"

	DefaultRangeLabelFormat  = "{name}"
	DefaultMomentLabelFormat = "{value}"
	DefaultAxisFill          = "#eeeeee"
)

// Markers configure the marker drawn at each moment.
type Markers struct {
	Enabled *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Size    float64 `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty"`
}

// Series configures one series. Its rows are passed to Layout separately.
type Series struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Kind      SeriesKind `json:"kind" yaml:"kind" toml:"kind"`
	Direction Direction  `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`

	// Height is the bar height of range points, in pixels or percent of
	// the plot height.
	Height style.Size `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`

	Labels  style.StateLabels `json:"labels" yaml:"labels" toml:"labels"`
	Markers Markers           `json:"markers,omitempty" yaml:"markers,omitempty" toml:"markers,omitempty"`
	Fill    style.Color       `json:"fill,omitempty" yaml:"fill,omitempty" toml:"fill,omitempty"`

	StartColumn     string `json:"startColumn,omitempty" yaml:"startColumn,omitempty" toml:"startColumn,omitempty"`
	EndColumn       string `json:"endColumn,omitempty" yaml:"endColumn,omitempty" toml:"endColumn,omitempty"`
	NameColumn      string `json:"nameColumn,omitempty" yaml:"nameColumn,omitempty" toml:"nameColumn,omitempty"`
	XColumn         string `json:"xColumn,omitempty" yaml:"xColumn,omitempty" toml:"xColumn,omitempty"`
	ValueColumn     string `json:"valueColumn,omitempty" yaml:"valueColumn,omitempty" toml:"valueColumn,omitempty"`
	DirectionColumn string `json:"directionColumn,omitempty" yaml:"directionColumn,omitempty" toml:"directionColumn,omitempty"`
}

// Axis is the band the points are stacked around.
type Axis struct {
	Enabled *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Height  float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	Fill    string  `json:"fill,omitempty" yaml:"fill,omitempty" toml:"fill,omitempty"`
}

// Scroller reserves room at the top or bottom of the plot.
type Scroller struct {
	Enabled     bool        `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Orientation Orientation `json:"orientation,omitempty" yaml:"orientation,omitempty" toml:"orientation,omitempty"`
	Height      float64     `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
}

// Marker is an axis marker. Markers with Consider set widen the date
// range so their value is always on the scale.
type Marker struct {
	Value    any  `json:"value" yaml:"value" toml:"value"`
	Consider bool `json:"consider,omitempty" yaml:"consider,omitempty" toml:"consider,omitempty"`
}

// Options configure a timeline layout.
type Options struct {
	Series   []Series `json:"series" yaml:"series" toml:"series"`
	Axis     Axis     `json:"axis,omitempty" yaml:"axis,omitempty" toml:"axis,omitempty"`
	Scroller Scroller `json:"scroller,omitempty" yaml:"scroller,omitempty" toml:"scroller,omitempty"`
	Markers  []Marker `json:"markers,omitempty" yaml:"markers,omitempty" toml:"markers,omitempty"`
	Palette  []string `json:"palette,omitempty" yaml:"palette,omitempty" toml:"palette,omitempty"`

	// Measurer sizes label text. Defaults to text.Estimator.
	Measurer text.Measurer `json:"-" yaml:"-" toml:"-"`
	// Reporter receives warnings about unusable settings.
	Reporter style.Reporter `json:"-" yaml:"-" toml:"-"`
}

// ValidateAndSetDefaults checks enumerated settings and fills every unset
// field with its default.
func (o *Options) ValidateAndSetDefaults() error {
	for i := range o.Series {
		s := &o.Series[i]
		switch s.Kind {
		case KindRange, KindMoment:
		case "":
			return errors.New(errors.ErrCodeInvalidSetting, "series %d: kind is required (range or moment)", i)
		default:
			return errors.New(errors.ErrCodeInvalidSetting, "series %d: unknown kind %q", i, s.Kind)
		}
		if s.Direction != "" {
			d, ok := ParseDirection(string(s.Direction))
			if !ok {
				return errors.New(errors.ErrCodeInvalidSetting, "series %d: unknown direction %q", i, s.Direction)
			}
			s.Direction = d
		}
		if s.Markers.Size < 0 {
			return errors.New(errors.ErrCodeInvalidSetting, "series %d: marker size must not be negative", i)
		}
	}
	switch o.Scroller.Orientation {
	case "", OrientationTop, OrientationBottom:
	default:
		return errors.New(errors.ErrCodeInvalidSetting, "unknown scroller orientation %q", o.Scroller.Orientation)
	}
	if o.Axis.Height < 0 {
		return errors.New(errors.ErrCodeInvalidSetting, "axis height must not be negative")
	}
	o.setDefaults()
	return nil
}

func (o *Options) setDefaults() {
	for i := range o.Series {
		s := &o.Series[i]
		if s.Direction == "" {
			s.Direction = DirectionAuto
		}
		s.Height = s.Height.Or(style.Px(DefaultRangeHeight))
		if s.Markers.Size == 0 {
			s.Markers.Size = DefaultMarkerSize
		}
		if s.Labels.Normal.Format == "" {
			if s.Kind == KindMoment {
				s.Labels.Normal.Format = DefaultMomentLabelFormat
			} else {
				s.Labels.Normal.Format = DefaultRangeLabelFormat
			}
		}
		if s.StartColumn == "" {
			s.StartColumn = DefaultStartColumn
		}
		if s.EndColumn == "" {
			s.EndColumn = DefaultEndColumn
		}
		if s.NameColumn == "" {
			s.NameColumn = DefaultNameColumn
		}
		if s.XColumn == "" {
			s.XColumn = DefaultXColumn
		}
		if s.ValueColumn == "" {
			s.ValueColumn = DefaultValueColumn
		}
		if s.DirectionColumn == "" {
			s.DirectionColumn = DefaultDirectionColumn
		}
	}
	if o.Axis.Height == 0 {
		o.Axis.Height = DefaultAxisHeight
	}
	if o.Axis.Fill == "" {
		o.Axis.Fill = DefaultAxisFill
	}
	if o.Scroller.Orientation == "" {
		o.Scroller.Orientation = OrientationBottom
	}
	if o.Scroller.Height == 0 {
		o.Scroller.Height = DefaultScrollerHeight
	}
	if o.Measurer == nil {
		o.Measurer = text.Estimator{}
	}
	o.Reporter = style.OrNop(o.Reporter)
}

// axisHeight is 0 when the axis is disabled.
func (o *Options) axisHeight() float64 {
	if o.Axis.Enabled != nil && !*o.Axis.Enabled {
		return 0
	}
	return o.Axis.Height
}

// scrollerHeights splits the scroller height by orientation.
func (o *Options) scrollerHeights() (top, bottom float64) {
	if !o.Scroller.Enabled {
		return 0, 0
	}
	if o.Scroller.Orientation == OrientationTop {
		return o.Scroller.Height, 0
	}
	return 0, o.Scroller.Height
}

func (s *Series) markerSize() float64 {
	if s.Markers.Enabled != nil && !*s.Markers.Enabled {
		return 0
	}
	return s.Markers.Size
}

func (s *Series) labelsEnabled() bool {
	return s.Labels.Normal.Enabled == nil || *s.Labels.Normal.Enabled
}
