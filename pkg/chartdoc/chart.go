package chartdoc

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartlayout/pkg/data"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/render/funnel"
	"github.com/matzehuels/chartlayout/pkg/render/timeline"
	"github.com/matzehuels/chartlayout/pkg/style"
)

// =============================================================================
// Constants
// =============================================================================

// Chart kinds.
const (
	KindFunnel   = "funnel"
	KindPyramid  = "pyramid"
	KindTimeline = "timeline"
)

// Document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// =============================================================================
// Chart - Chart Document
// =============================================================================

// Chart is a chart document.
type Chart struct {
	Kind   string  `json:"kind" yaml:"kind" toml:"kind"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`

	// Data holds the rows of a funnel or pyramid.
	Data Dataset `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty"`

	Funnel   *funnel.Options `json:"funnel,omitempty" yaml:"funnel,omitempty" toml:"funnel,omitempty"`
	Timeline *Timeline       `json:"timeline,omitempty" yaml:"timeline,omitempty" toml:"timeline,omitempty"`
}

// Dataset is a set of rows, given inline or as a file reference. Relative
// file paths are resolved against the document's directory.
type Dataset struct {
	Rows  []data.Row `json:"rows,omitempty" yaml:"rows,omitempty" toml:"rows,omitempty"`
	File  string     `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
	Sheet string     `json:"sheet,omitempty" yaml:"sheet,omitempty" toml:"sheet,omitempty"`
}

// Empty reports whether the dataset names no rows at all.
func (d Dataset) Empty() bool { return len(d.Rows) == 0 && d.File == "" }

// Table loads the rows. Inline rows win over a file.
func (d Dataset) Table(baseDir string) (*data.Table, error) {
	if len(d.Rows) > 0 || d.File == "" {
		return data.NewTable(d.Rows...), nil
	}
	path := d.File
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	return data.Load(path, d.Sheet)
}

// Timeline holds the settings of a timeline and the rows of each series.
type Timeline struct {
	Series   []TimelineSeries   `json:"series" yaml:"series" toml:"series"`
	Axis     timeline.Axis      `json:"axis,omitempty" yaml:"axis,omitempty" toml:"axis,omitempty"`
	Scroller timeline.Scroller  `json:"scroller,omitempty" yaml:"scroller,omitempty" toml:"scroller,omitempty"`
	Markers  []timeline.Marker  `json:"markers,omitempty" yaml:"markers,omitempty" toml:"markers,omitempty"`
	Palette  []string           `json:"palette,omitempty" yaml:"palette,omitempty" toml:"palette,omitempty"`
}

// TimelineSeries is one series with its rows.
type TimelineSeries struct {
	timeline.Series `yaml:",inline"`
	Data            Dataset `json:"data" yaml:"data" toml:"data"`
}

// Options returns the engine options of t.
func (t *Timeline) Options() timeline.Options {
	o := timeline.Options{
		Axis:     t.Axis,
		Scroller: t.Scroller,
		Markers:  t.Markers,
		Palette:  t.Palette,
		Series:   make([]timeline.Series, len(t.Series)),
	}
	for i, s := range t.Series {
		o.Series[i] = s.Series
	}
	return o
}

// Validate checks the kind and that the settings match it.
func (c *Chart) Validate() error {
	c.Kind = strings.ToLower(strings.TrimSpace(c.Kind))
	if err := errors.ValidateChartType(c.Kind); err != nil {
		return err
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.New(errors.ErrCodeInvalidBounds, "width and height must not be negative")
	}
	switch c.Kind {
	case KindTimeline:
		if c.Funnel != nil {
			return errors.New(errors.ErrCodeInvalidSetting, "funnel settings on a timeline chart")
		}
	default:
		if c.Timeline != nil {
			return errors.New(errors.ErrCodeInvalidSetting, "timeline settings on a %s chart", c.Kind)
		}
		if c.Funnel == nil {
			c.Funnel = &funnel.Options{}
		}
		if c.Funnel.Kind == "" {
			c.Funnel.Kind = funnel.Kind(c.Kind)
		}
		if string(c.Funnel.Kind) != c.Kind {
			return errors.New(errors.ErrCodeInvalidSetting, "funnel.kind %q does not match chart kind %q", c.Funnel.Kind, c.Kind)
		}
	}
	return nil
}

// Inline reports whether all rows are part of the document.
func (c *Chart) Inline() bool {
	if c.Data.File != "" {
		return false
	}
	if c.Timeline != nil {
		for _, s := range c.Timeline.Series {
			if s.Data.File != "" {
				return false
			}
		}
	}
	return true
}

// =============================================================================
// Chart Serialization API
// =============================================================================

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupportedInput, "cannot tell the format of %s (use .json, .yaml or .toml)", path)
}

// DecodeChart parses and validates a chart document.
func DecodeChart(raw []byte, format string) (*Chart, error) {
	var c Chart
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		err = dec.Decode(&c)
	case FormatYAML:
		err = yaml.Unmarshal(raw, &c)
	case FormatTOML:
		_, err = toml.Decode(string(raw), &c)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSetting, err, "decode %s chart", format)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ReadChartFile reads a chart document, choosing the format by extension.
func ReadChartFile(path string) (*Chart, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "chart file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "read %s", path)
	}
	return DecodeChart(raw, format)
}

// EncodeChart serializes c. Settings that only exist in code are left out
// and reported.
func EncodeChart(c *Chart, format string, r style.Reporter) ([]byte, error) {
	reportFuncs(c, style.OrNop(r))
	var (
		out []byte
		err error
	)
	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(c, "", "  ")
	case FormatYAML:
		out, err = yaml.Marshal(c)
	case FormatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		out = buf.Bytes()
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s chart", format)
	}
	return out, nil
}

func reportFuncs(c *Chart, r style.Reporter) {
	if c.Funnel != nil && c.Funnel.Fill.Func != nil {
		r.Warn("color function cannot be serialized, omitting it", "setting", "funnel.fill")
	}
	if c.Timeline == nil {
		return
	}
	for i, s := range c.Timeline.Series {
		if s.Fill.Func != nil {
			r.Warn("color function cannot be serialized, omitting it", "setting", "timeline.series.fill", "series", i)
		}
	}
}
