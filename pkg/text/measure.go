// Package text measures label text.
//
// Two measurers implement [Measurer]:
//
//   - [Estimator] approximates glyph advances with a fixed ratio of the font
//     size. It needs no font data and is fully deterministic across
//     platforms, which makes it the default for tests and cached layouts.
//   - [FontMeasurer] uses real glyph advances from an OpenType face.
//
// Both report the unrotated size of a text block including padding. Placing
// the block (anchor, offsets, rotation) is left to the layout engines.
package text

import (
	"math"
	"strings"
)

// Default text metrics.
const (
	DefaultFontSize   = 13.0
	DefaultLineHeight = 1.2

	// charWidthRatio is the average advance of a glyph as a fraction of
	// the font size.
	charWidthRatio = 0.55
)

// Padding is the space between the text and its box edges.
type Padding struct {
	Top    float64 `json:"top,omitempty" yaml:"top,omitempty" toml:"top,omitempty"`
	Right  float64 `json:"right,omitempty" yaml:"right,omitempty" toml:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty" yaml:"bottom,omitempty" toml:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty" yaml:"left,omitempty" toml:"left,omitempty"`
}

// Style describes how a text block is set.
type Style struct {
	FontSize   float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty" toml:"fontSize,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty" toml:"lineHeight,omitempty"`
	Padding    Padding `json:"padding,omitempty" yaml:"padding,omitempty" toml:"padding,omitempty"`

	// Width, when positive, fixes the box width; text wraps to fit.
	Width float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
}

// WithDefaults fills zero metrics.
func (s Style) WithDefaults() Style {
	if s.FontSize <= 0 {
		s.FontSize = DefaultFontSize
	}
	if s.LineHeight <= 0 {
		s.LineHeight = DefaultLineHeight
	}
	return s
}

// Size is the measured extent of a text block.
type Size struct {
	Width, Height float64
}

// Measurer measures a text block.
type Measurer interface {
	Measure(text string, st Style) Size
}

// Estimator measures text from character counts.
type Estimator struct{}

// Measure implements Measurer.
func (Estimator) Measure(text string, st Style) Size {
	st = st.WithDefaults()
	return layoutBlock(text, st, func(line string) float64 {
		return float64(len([]rune(line))) * st.FontSize * charWidthRatio
	})
}

// layoutBlock applies padding and the fixed-width wrap rule on top of a
// per-line advance function.
func layoutBlock(text string, st Style, advance func(string) float64) Size {
	lines := strings.Split(text, "\n")
	lineH := st.FontSize * st.LineHeight
	padX := st.Padding.Left + st.Padding.Right
	padY := st.Padding.Top + st.Padding.Bottom

	var natural float64
	for _, l := range lines {
		natural = math.Max(natural, advance(l))
	}

	if st.Width <= 0 {
		return Size{Width: natural + padX, Height: float64(len(lines))*lineH + padY}
	}

	// A fixed width wraps every line that does not fit into as many rows
	// as its advance requires.
	inner := math.Max(st.Width-padX, 1)
	rows := 0
	for _, l := range lines {
		rows += max(1, int(math.Ceil(advance(l)/inner-1e-9)))
	}
	return Size{Width: st.Width, Height: float64(rows)*lineH + padY}
}
