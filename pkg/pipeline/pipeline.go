// Package pipeline provides the load → layout → render pipeline shared by
// the CLI and the HTTP API.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: read the row tables a chart document references
//  2. Layout: run the funnel/pyramid or timeline engine over the rows
//  3. Render: draw the layout onto a surface and write SVG, PNG or JSON
//
// Each stage is cached under a hash of its inputs by a [Runner]. Layout
// passes are deterministic, so a cached layout is always the layout a
// fresh pass would produce.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	chart, err := chartdoc.ReadChartFile("sales.yaml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Chart:   chart,
//	    BaseDir: ".",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run single stages:
//
//	tables, err := pipeline.LoadTables(ctx, chart, baseDir)
//	scene, err := pipeline.ComputeLayout(ctx, chart, tables, opts)
//	artifacts, err := pipeline.Render(ctx, scene, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/style"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default chart width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default chart height in pixels.
	DefaultHeight = 600.0

	// DefaultScale is the default PNG pixel density.
	DefaultScale = 2.0

	// TitleHeight is the band reserved above the plot for a chart title.
	TitleHeight = 32.0

	// TitleFontSize is the font size of the chart title.
	TitleFontSize = 16.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Text measurers.
const (
	MeasurerFont     = "font"
	MeasurerEstimate = "estimate"
)

// DefaultMeasurer measures label text with real glyph advances.
const DefaultMeasurer = MeasurerFont

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Chart is the chart document to lay out.
	Chart *chartdoc.Chart `json:"chart"`

	// BaseDir resolves relative data file paths of the document.
	BaseDir string `json:"-"`

	// Width and Height override the document size. Zero means the
	// document's size, then the defaults.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`
	Hover      bool     `json:"hover,omitempty"`

	// Scroll is the requested vertical translation of a timeline plot. It
	// is clamped to the offsets the layout allows.
	Scroll float64 `json:"scroll,omitempty"`

	// Measurer selects label measurement: "font" or "estimate".
	Measurer string `json:"measurer,omitempty"`

	// Refresh skips cache reads.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger    `json:"-"`
	Reporter style.Reporter `json:"-"`

	// TextMeasurer overrides Measurer. When nil the Runner supplies a
	// shared font measurer; ComputeLayout alone falls back to estimates.
	TextMeasurer text.Measurer `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the serialized layout.
	Layout chartdoc.Layout

	// DocumentHash is the content hash of the document and its rows.
	DocumentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings are the non-fatal problems reported during layout.
	Warnings []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMeasurer checks a measurer name.
func ValidateMeasurer(name string) error {
	switch name {
	case MeasurerFont, MeasurerEstimate:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidSetting, "unknown measurer %q (must be font or estimate)", name)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Chart == nil {
		return errors.New(errors.ErrCodeInvalidSetting, "chart is required")
	}
	if err := o.Chart.Validate(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := errors.ValidateBounds(o.Width, o.Height); err != nil {
		return err
	}
	if err := ValidateMeasurer(o.Measurer); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidSetting, "scale must not be negative")
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills size, measurer and logger.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 && o.Chart != nil {
		o.Width = o.Chart.Width
	}
	if o.Height == 0 && o.Chart != nil {
		o.Height = o.Chart.Height
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults fills formats and scale.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
}

// Kind returns the chart kind.
func (o *Options) Kind() string {
	if o.Chart == nil {
		return ""
	}
	return o.Chart.Kind
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ChartType: o.Kind(),
		Width:     o.Width,
		Height:    o.Height,
		Measurer:  o.Measurer,
	}
}

// RenderKeyOpts returns cache key options for rendering one format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	k := cache.RenderKeyOpts{
		Format:     format,
		Background: o.Background,
		Scroll:     o.Scroll,
	}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatSVG:
		k.Hover = o.Hover
	}
	return k
}
