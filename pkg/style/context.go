package style

import (
	"regexp"
	"strconv"

	"github.com/matzehuels/chartlayout/pkg/data"
)

// Context is what a style resolver sees for one point: its row index, the
// color the palette assigned to it, and a cursor positioned on its row.
type Context struct {
	Index       int
	SourceColor string
	Iterator    data.Cursor
}

// ColorResolver computes a color for a point.
type ColorResolver func(Context) string

// Color is a fixed color, a resolver function, or neither (use the
// palette). Resolver functions only exist in code; they are never
// serialized.
type Color struct {
	Value string        `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Func  ColorResolver `json:"-" yaml:"-" toml:"-"`
}

// Resolve returns the color for ctx.
func (c Color) Resolve(ctx Context) string {
	switch {
	case c.Func != nil:
		return c.Func(ctx)
	case c.Value != "":
		return c.Value
	}
	return ctx.SourceColor
}

// DefaultPalette is used for point fills when no color is configured.
var DefaultPalette = []string{
	"#64b5f6", "#1976d2", "#ef6c00", "#ffd54f", "#455a64",
	"#96a6a6", "#dd2c00", "#00838f", "#00bfa5", "#ffa000",
}

// PaletteColor returns the palette entry for index i, cycling.
func PaletteColor(palette []string, i int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

var tokenPattern = regexp.MustCompile(`\{%?([A-Za-z0-9_.]+)\}`)

// FormatLabel expands {column} tokens from the current row. A few tokens
// come from the layout rather than the data:
//
//	{index}    row index
//	{percent}  the point's share of the total, from row meta "percent"
//	{color}    the source color
//
// Unknown tokens expand to the empty string. A "%" after the opening brace
// is accepted for compatibility, so {%value} equals {value}.
func FormatLabel(format string, ctx Context) string {
	return tokenPattern.ReplaceAllStringFunc(format, func(tok string) string {
		name := tokenPattern.FindStringSubmatch(tok)[1]
		switch name {
		case "index":
			return strconv.Itoa(ctx.Index)
		case "color":
			return ctx.SourceColor
		case "percent":
			if ctx.Iterator != nil {
				if p, ok := ctx.Iterator.Meta("percent").(float64); ok {
					return strconv.FormatFloat(p, 'f', -1, 64)
				}
			}
			return ""
		}
		if ctx.Iterator == nil {
			return ""
		}
		return data.String(ctx.Iterator.Get(name))
	})
}
