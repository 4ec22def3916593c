package funnel

import (
	"strings"

	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/style"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// Kind selects the shape family.
type Kind string

const (
	KindFunnel  Kind = "funnel"
	KindPyramid Kind = "pyramid"
)

// LabelPosition places labels relative to their point.
type LabelPosition string

const (
	PositionInside               LabelPosition = "inside"
	PositionOutsideLeft          LabelPosition = "outside-left"
	PositionOutsideLeftInColumn  LabelPosition = "outside-left-in-column"
	PositionOutsideRight         LabelPosition = "outside-right"
	PositionOutsideRightInColumn LabelPosition = "outside-right-in-column"
)

// ParseLabelPosition accepts kebab, camel and snake spellings.
func ParseLabelPosition(s string) (LabelPosition, bool) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch key {
	case "inside":
		return PositionInside, true
	case "outsideleft":
		return PositionOutsideLeft, true
	case "outsideleftincolumn":
		return PositionOutsideLeftInColumn, true
	case "outsideright":
		return PositionOutsideRight, true
	case "outsiderightincolumn":
		return PositionOutsideRightInColumn, true
	}
	return "", false
}

// Outside reports whether labels sit outside the shape.
func (p LabelPosition) Outside() bool { return p != PositionInside }

// InColumn reports whether outside labels are aligned to a chart edge.
func (p LabelPosition) InColumn() bool {
	return p == PositionOutsideLeftInColumn || p == PositionOutsideRightInColumn
}

// Left reports whether labels are on the left side.
func (p LabelPosition) Left() bool {
	return p == PositionOutsideLeft || p == PositionOutsideLeftInColumn
}

// Right reports whether labels are on the right side.
func (p LabelPosition) Right() bool {
	return p == PositionOutsideRight || p == PositionOutsideRightInColumn
}

// OverlapMode decides whether outside labels are pushed apart.
type OverlapMode string

const (
	NoOverlap    OverlapMode = "no-overlap"
	AllowOverlap OverlapMode = "allow-overlap"
)

// ParseOverlapMode accepts kebab, camel and snake spellings.
func ParseOverlapMode(s string) (OverlapMode, bool) {
	switch strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(s)) {
	case "nooverlap":
		return NoOverlap, true
	case "allowoverlap":
		return AllowOverlap, true
	}
	return "", false
}

// Engine defaults.
const (
	DefaultMaxOverlapIterations = 10
	DefaultMinConnectorLength   = 5.0
	DefaultMinLabelWidth        = 10.0
	DefaultMinHeightOfPoint     = 1.0

	DefaultValueColumn = "value"
	DefaultNameColumn  = "name"
	DefaultLabelFormat = "{name}"
	DefaultConnector   = "#999999"
)

// Options configure a pyramid or funnel layout.
type Options struct {
	Kind Kind `json:"kind" yaml:"kind" toml:"kind"`

	BaseWidth       style.Size `json:"baseWidth,omitempty" yaml:"baseWidth,omitempty" toml:"baseWidth,omitempty"`
	NeckWidth       style.Size `json:"neckWidth,omitempty" yaml:"neckWidth,omitempty" toml:"neckWidth,omitempty"`
	NeckHeight      style.Size `json:"neckHeight,omitempty" yaml:"neckHeight,omitempty" toml:"neckHeight,omitempty"`
	PointsPadding   style.Size `json:"pointsPadding,omitempty" yaml:"pointsPadding,omitempty" toml:"pointsPadding,omitempty"`
	ConnectorLength style.Size `json:"connectorLength,omitempty" yaml:"connectorLength,omitempty" toml:"connectorLength,omitempty"`

	MinHeightOfPoint float64 `json:"minHeightOfPoint,omitempty" yaml:"minHeightOfPoint,omitempty" toml:"minHeightOfPoint,omitempty"`

	// Reversed draws the first row at the top. Funnels are always
	// reversed; pyramids default to the first row at the bottom.
	Reversed *bool `json:"reversed,omitempty" yaml:"reversed,omitempty" toml:"reversed,omitempty"`

	Labels        style.StateLabels `json:"labels" yaml:"labels" toml:"labels"`
	LabelPosition LabelPosition     `json:"labelPosition,omitempty" yaml:"labelPosition,omitempty" toml:"labelPosition,omitempty"`
	OverlapMode   OverlapMode       `json:"overlapMode,omitempty" yaml:"overlapMode,omitempty" toml:"overlapMode,omitempty"`

	ValueColumn string `json:"valueColumn,omitempty" yaml:"valueColumn,omitempty" toml:"valueColumn,omitempty"`
	NameColumn  string `json:"nameColumn,omitempty" yaml:"nameColumn,omitempty" toml:"nameColumn,omitempty"`

	Palette         []string    `json:"palette,omitempty" yaml:"palette,omitempty" toml:"palette,omitempty"`
	Fill            style.Color `json:"fill,omitempty" yaml:"fill,omitempty" toml:"fill,omitempty"`
	ConnectorStroke string      `json:"connectorStroke,omitempty" yaml:"connectorStroke,omitempty" toml:"connectorStroke,omitempty"`

	MaxOverlapIterations int     `json:"maxOverlapIterations,omitempty" yaml:"maxOverlapIterations,omitempty" toml:"maxOverlapIterations,omitempty"`
	MinConnectorLength   float64 `json:"minConnectorLength,omitempty" yaml:"minConnectorLength,omitempty" toml:"minConnectorLength,omitempty"`
	MinLabelWidth        float64 `json:"minLabelWidth,omitempty" yaml:"minLabelWidth,omitempty" toml:"minLabelWidth,omitempty"`

	// Measurer sizes label text. Defaults to text.Estimator.
	Measurer text.Measurer `json:"-" yaml:"-" toml:"-"`
	// Reporter receives warnings about unusable settings.
	Reporter style.Reporter `json:"-" yaml:"-" toml:"-"`
}

// DefaultOptions returns the stock settings for kind.
func DefaultOptions(kind Kind) Options {
	o := Options{Kind: kind}
	o.setDefaults()
	return o
}

// ValidateAndSetDefaults checks enumerated settings and fills every unset
// field with its default.
func (o *Options) ValidateAndSetDefaults() error {
	switch o.Kind {
	case "":
		o.Kind = KindFunnel
	case KindFunnel, KindPyramid:
	default:
		return errors.New(errors.ErrCodeInvalidChartType, "unknown shape %q (use funnel or pyramid)", o.Kind)
	}
	if o.LabelPosition != "" {
		p, ok := ParseLabelPosition(string(o.LabelPosition))
		if !ok {
			return errors.New(errors.ErrCodeInvalidSetting, "unknown label position %q", o.LabelPosition)
		}
		o.LabelPosition = p
	}
	if o.OverlapMode != "" {
		m, ok := ParseOverlapMode(string(o.OverlapMode))
		if !ok {
			return errors.New(errors.ErrCodeInvalidSetting, "unknown overlap mode %q", o.OverlapMode)
		}
		o.OverlapMode = m
	}
	if o.MaxOverlapIterations < 0 {
		return errors.New(errors.ErrCodeInvalidSetting, "maxOverlapIterations must not be negative")
	}
	o.setDefaults()
	return nil
}

func (o *Options) setDefaults() {
	if o.Kind == "" {
		o.Kind = KindFunnel
	}
	o.BaseWidth = o.BaseWidth.Or(style.Pct(70))
	if o.Kind == KindFunnel {
		o.NeckWidth = o.NeckWidth.Or(style.Pct(30))
		o.NeckHeight = o.NeckHeight.Or(style.Pct(25))
		o.Reversed = style.Bool(true)
	} else {
		o.NeckWidth = o.NeckWidth.Or(style.Px(0))
		o.NeckHeight = o.NeckHeight.Or(style.Px(0))
		if o.Reversed == nil {
			o.Reversed = style.Bool(false)
		}
	}
	o.PointsPadding = o.PointsPadding.Or(style.Px(5))
	o.ConnectorLength = o.ConnectorLength.Or(style.Px(20))
	if o.MinHeightOfPoint <= 0 {
		o.MinHeightOfPoint = DefaultMinHeightOfPoint
	}
	if o.LabelPosition == "" {
		o.LabelPosition = PositionOutsideLeftInColumn
	}
	if o.OverlapMode == "" {
		o.OverlapMode = NoOverlap
	}
	if o.ValueColumn == "" {
		o.ValueColumn = DefaultValueColumn
	}
	if o.NameColumn == "" {
		o.NameColumn = DefaultNameColumn
	}
	if o.Labels.Normal.Format == "" {
		o.Labels.Normal.Format = DefaultLabelFormat
	}
	if o.ConnectorStroke == "" {
		o.ConnectorStroke = DefaultConnector
	}
	if o.MaxOverlapIterations == 0 {
		o.MaxOverlapIterations = DefaultMaxOverlapIterations
	}
	if o.MinConnectorLength <= 0 {
		o.MinConnectorLength = DefaultMinConnectorLength
	}
	if o.MinLabelWidth <= 0 {
		o.MinLabelWidth = DefaultMinLabelWidth
	}
	if o.Measurer == nil {
		o.Measurer = text.Estimator{}
	}
	o.Reporter = style.OrNop(o.Reporter)
}

func (o *Options) reversed() bool { return o.Reversed != nil && *o.Reversed }

func (o *Options) labelsEnabled() bool {
	return o.Labels.Normal.Enabled == nil || *o.Labels.Normal.Enabled
}
