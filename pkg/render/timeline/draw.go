package timeline

import (
	"fmt"

	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/surface"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// Layer z-indices outside the series layers.
const (
	ZIndexAxis   = 1
	ZIndexLabels = 40
)

// Draw writes the result onto s at the vertical translation closest to
// requested. Each series gets its own layer at the series z-index; bars
// and stems are pooled by row index.
func (r *Result) Draw(s *surface.Surface, o Options, requested float64) {
	top, bottom := o.scrollerHeights()
	t := r.Translate(requested)
	axisY := r.Bounds.Top + r.Bounds.Height/2 + t
	left := r.Bounds.Left

	labels := s.Root.Child("labels")
	labels.ZIndex = ZIndexLabels
	labels.SetClip(r.Bounds)
	labels.Clear()

	for si := range r.Series {
		sr := &r.Series[si]
		layer := s.Root.Child(fmt.Sprintf("series-%d", si))
		layer.ZIndex = sr.ZIndex
		layer.SetClip(r.Bounds)
		layer.Clear()

		var marker, offsetX float64
		fontSize := text.DefaultFontSize
		if si < len(o.Series) {
			ls := o.Series[si].Labels.Normal
			marker = o.Series[si].markerSize()
			offsetX = ls.GetOffsetX()
			fontSize = ls.Text.WithDefaults().FontSize
		}
		for k := range sr.Points {
			pt := &sr.Points[k]
			if pt.Missing {
				continue
			}
			if pt.Kind == KindRange {
				r.drawRange(layer.Path(k), labels, pt, axisY, left, fontSize)
				continue
			}
			r.drawMoment(layer.Path(k), labels, pt, axisY, left, marker, offsetX, fontSize)
		}
	}

	if r.AxisHeight > 0 {
		axis := s.Root.Child("axis")
		axis.ZIndex = ZIndexAxis
		axis.SetClip(r.Bounds)
		axis.Clear()
		y := r.Bounds.Top + r.Bounds.Height/2 + r.AxisTranslate(t, top, bottom) - r.AxisHeight/2
		band := axis.Path(0)
		band.Fill = o.Axis.Fill
		band.Stroke = "none"
		band.Class = "axis"
		traceRect(band, geom.Rect{Left: left, Top: y, Width: r.Bounds.Width, Height: r.AxisHeight})
	}
}

// side maps a stacking y to a plot y.
func side(d Direction, axisY, y float64) float64 {
	if d == DirectionDown {
		return axisY + y
	}
	return axisY - y
}

func (r *Result) drawRange(path *surface.Path, labels *surface.Layer, pt *Point, axisY, left, fontSize float64) {
	y1 := side(pt.Direction, axisY, pt.Bounds.SY)
	y2 := side(pt.Direction, axisY, pt.Bounds.EY)
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	box := geom.Rect{Left: left + pt.Bounds.SX, Top: y1, Width: pt.Bounds.EX - pt.Bounds.SX, Height: y2 - y1}
	path.Fill = pt.Color
	path.Stroke = "none"
	path.ZIndex = pt.StateZIndex
	path.Class = "range"
	traceRect(path, box)

	if !pt.Labeled || pt.Label == "" {
		return
	}
	labels.AddText(surface.Text{
		Content:  pt.Label,
		Box:      geom.Rect{Left: box.Left, Top: box.CenterY() - pt.LabelSize.Height/2, Width: pt.LabelSize.Width, Height: pt.LabelSize.Height},
		FontSize: fontSize,
		Class:    "range-label",
	})
}

func (r *Result) drawMoment(path *surface.Path, labels *surface.Layer, pt *Point, axisY, left, marker, offsetX, fontSize float64) {
	x := left + pt.Bounds.SX + marker
	end := side(pt.Direction, axisY, pt.MinLength)
	path.Stroke = pt.Color
	path.StrokeWidth = 1
	path.Fill = "none"
	path.Class = "moment"
	path.MoveTo(x, axisY).LineTo(x, end)
	if marker > 0 {
		h := marker / 2
		path.MoveTo(x, end-h).LineTo(x+h, end).LineTo(x, end+h).LineTo(x-h, end).Close()
	}

	if !pt.Labeled || pt.Label == "" {
		return
	}
	labels.AddText(surface.Text{
		Content:  pt.Label,
		Box:      geom.Rect{Left: x + offsetX, Top: end - pt.LabelSize.Height/2, Width: pt.LabelSize.Width, Height: pt.LabelSize.Height},
		FontSize: fontSize,
		Class:    "moment-label",
	})
}

func traceRect(path *surface.Path, b geom.Rect) {
	path.MoveTo(b.Left, b.Top).
		LineTo(b.Right(), b.Top).
		LineTo(b.Right(), b.Bottom()).
		LineTo(b.Left, b.Bottom()).
		Close()
}
