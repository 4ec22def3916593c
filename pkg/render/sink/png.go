package sink

import (
	"bytes"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/fonts"
	"github.com/matzehuels/chartlayout/pkg/surface"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
	faces      map[float64]font.Face
	font       *opentype.Font
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground fills the canvas before drawing. Default is white.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// RenderPNG rasterizes s.
func RenderPNG(s *surface.Surface, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: "#ffffff", faces: make(map[float64]font.Face)}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSetting, "png scale must be positive, got %v", r.scale)
	}
	f, err := fonts.Regular()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "load font")
	}
	r.font = f
	defer r.closeFaces()

	w := int(s.Width*r.scale + 0.5)
	h := int(s.Height*r.scale + 0.5)
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidBounds, "surface is empty (%vx%v)", s.Width, s.Height)
	}
	dc := gg.NewContext(w, h)
	if r.background != "" && r.background != "none" {
		dc.SetHexColor(r.background)
		dc.Clear()
	}
	dc.Scale(r.scale, r.scale)
	r.drawLayer(dc, s.Root)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) drawLayer(dc *gg.Context, l *surface.Layer) {
	dc.Push()
	defer dc.Pop()
	if c := l.Clip; c != nil {
		dc.DrawRectangle(c.Left, c.Top, c.Width, c.Height)
		dc.Clip()
	}
	for _, p := range sortedPaths(l) {
		tracePath(dc, p)
		fill, stroke := visible(p.Fill), visible(p.Stroke)
		if fill {
			dc.SetHexColor(p.Fill)
			if stroke {
				dc.FillPreserve()
			} else {
				dc.Fill()
			}
		}
		if stroke {
			dc.SetHexColor(p.Stroke)
			w := p.StrokeWidth
			if w <= 0 {
				w = 1
			}
			dc.SetLineWidth(w)
			dc.Stroke()
		}
		dc.ClearPath()
	}
	for _, t := range l.Texts() {
		r.drawText(dc, t)
	}
	for _, c := range l.Children() {
		r.drawLayer(dc, c)
	}
}

func tracePath(dc *gg.Context, p *surface.Path) {
	for _, seg := range p.Segments {
		switch seg.Op {
		case surface.MoveTo:
			dc.MoveTo(seg.X, seg.Y)
		case surface.LineTo:
			dc.LineTo(seg.X, seg.Y)
		case surface.Close:
			dc.ClosePath()
		}
	}
}

func (r *pngRenderer) drawText(dc *gg.Context, t surface.Text) {
	size := t.FontSize
	if size <= 0 {
		size = text.DefaultFontSize
	}
	face := r.face(size)
	if face == nil {
		return
	}
	dc.Push()
	defer dc.Pop()
	dc.SetFontFace(face)
	c := t.Color
	if c == "" {
		c = DefaultTextColor
	}
	dc.SetHexColor(c)
	cx, cy := t.Box.CenterX(), t.Box.CenterY()
	if t.Rotation != 0 {
		dc.RotateAbout(gg.Radians(t.Rotation), cx, cy)
	}
	dc.DrawStringWrapped(t.Content, cx, cy, 0.5, 0.5, t.Box.Width+1, text.DefaultLineHeight, gg.AlignCenter)
}

func (r *pngRenderer) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil
	}
	r.faces[size] = f
	return f
}

func (r *pngRenderer) closeFaces() {
	for _, f := range r.faces {
		_ = f.Close()
	}
}

func visible(c string) bool { return c != "" && c != "none" }
