package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/chartlayout/pkg/fonts"
	"github.com/matzehuels/chartlayout/pkg/surface"
)

// DefaultTextColor is used for text runs without a color.
const DefaultTextColor = "#222222"

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	fontFamily string
	hoverCSS   bool
}

// WithBackground fills the canvas before drawing.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithFontFamily overrides the CSS font-family of text runs.
func WithFontFamily(family string) SVGOption { return func(r *svgRenderer) { r.fontFamily = family } }

// WithHover adds a stylesheet that highlights points under the pointer.
func WithHover() SVGOption { return func(r *svgRenderer) { r.hoverCSS = true } }

const hoverCSS = `
    .point, .range { transition: opacity 0.2s ease; }
    .point:hover, .range:hover { opacity: 0.8; }`

// RenderSVG writes s as a standalone SVG document.
func RenderSVG(s *surface.Surface, opts ...SVGOption) []byte {
	r := svgRenderer{fontFamily: fonts.FallbackFontFamily}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(s.Width), num(s.Height), s.Width, s.Height)
	if r.hoverCSS {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", hoverCSS)
	}
	renderClipDefs(&buf, s.Root)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(r.background))
	}
	r.renderLayer(&buf, s.Root, 1)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderClipDefs(buf *bytes.Buffer, root *surface.Layer) {
	var clipped []*surface.Layer
	root.Walk(func(l *surface.Layer) {
		if l.Clip != nil {
			clipped = append(clipped, l)
		}
	})
	if len(clipped) == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	for _, l := range clipped {
		c := l.Clip
		fmt.Fprintf(buf, `    <clipPath id="clip-%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
			EscapeXML(l.ID), num(c.Left), num(c.Top), num(c.Width), num(c.Height))
	}
	buf.WriteString("  </defs>\n")
}

func (r *svgRenderer) renderLayer(buf *bytes.Buffer, l *surface.Layer, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(buf, `%s<g id="%s"`, indent, EscapeXML(l.ID))
	if l.Clip != nil {
		fmt.Fprintf(buf, ` clip-path="url(#clip-%s)"`, EscapeXML(l.ID))
	}
	buf.WriteString(">\n")

	for _, p := range sortedPaths(l) {
		fmt.Fprintf(buf, `%s  <path d="%s" fill="%s" stroke="%s"`, indent, PathData(p), paint(p.Fill), paint(p.Stroke))
		if p.StrokeWidth > 0 {
			fmt.Fprintf(buf, ` stroke-width="%s"`, num(p.StrokeWidth))
		}
		if p.Class != "" {
			fmt.Fprintf(buf, ` class="%s"`, EscapeXML(p.Class))
		}
		buf.WriteString("/>\n")
	}
	for _, t := range l.Texts() {
		r.renderText(buf, indent+"  ", t)
	}
	for _, c := range l.Children() {
		r.renderLayer(buf, c, depth+1)
	}
	fmt.Fprintf(buf, "%s</g>\n", indent)
}

func (r *svgRenderer) renderText(buf *bytes.Buffer, indent string, t surface.Text) {
	cx, cy := t.Box.CenterX(), t.Box.CenterY()
	color := t.Color
	if color == "" {
		color = DefaultTextColor
	}
	fmt.Fprintf(buf, `%s<text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s" text-anchor="middle" dominant-baseline="central"`,
		indent, num(cx), num(cy), EscapeXML(r.fontFamily), num(t.FontSize), EscapeXML(color))
	if t.Rotation != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%s %s %s)"`, num(t.Rotation), num(cx), num(cy))
	}
	if t.Class != "" {
		fmt.Fprintf(buf, ` class="%s"`, EscapeXML(t.Class))
	}
	buf.WriteString(">")
	lines := strings.Split(t.Content, "\n")
	if len(lines) == 1 {
		buf.WriteString(EscapeXML(t.Content))
	} else {
		// Center the block: the first line sits (n-1)/2 lines above cy.
		first := -float64(len(lines)-1) / 2 * 1.2
		for i, line := range lines {
			dy := "1.2em"
			if i == 0 {
				dy = num(first) + "em"
			}
			fmt.Fprintf(buf, `<tspan x="%s" dy="%s">%s</tspan>`, num(cx), dy, EscapeXML(line))
		}
	}
	buf.WriteString("</text>\n")
}

// PathData is the SVG path syntax for p.
func PathData(p *surface.Path) string {
	var sb strings.Builder
	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch seg.Op {
		case surface.MoveTo:
			fmt.Fprintf(&sb, "M%s,%s", num(seg.X), num(seg.Y))
		case surface.LineTo:
			fmt.Fprintf(&sb, "L%s,%s", num(seg.X), num(seg.Y))
		case surface.Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

// EscapeXML escapes s for use in text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func paint(c string) string {
	if c == "" {
		return "none"
	}
	return EscapeXML(c)
}

// num formats with at most three decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(float64(int64(v*1000+sign(v)*0.5))/1000, 'f', -1, 64)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
