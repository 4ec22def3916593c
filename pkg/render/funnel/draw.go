package funnel

import (
	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/surface"
)

// Layer z-indices.
const (
	ZIndexPoints     = 30
	ZIndexConnectors = 32
	ZIndexLabels     = 34
)

// Draw writes the result onto s: one filled path per band, one connector
// per outside label and one text run per visible label. Paths are pooled
// by row index, so drawing into the same surface again reuses them.
func (r *Result) Draw(s *surface.Surface, connectorStroke string) {
	points := s.Root.Child("points")
	points.ZIndex = ZIndexPoints
	points.Clear()

	connectors := s.Root.Child("connectors")
	connectors.ZIndex = ZIndexConnectors
	connectors.SetClip(r.Bounds)
	connectors.Clear()

	labels := s.Root.Child("labels")
	labels.ZIndex = ZIndexLabels
	labels.SetClip(r.Bounds)
	labels.Clear()

	for i := range r.Points {
		pt := &r.Points[i]
		path := points.Path(i)
		path.Fill = pt.Color
		path.Stroke = "none"
		path.Class = "point"
		tracePolygon(path, pt.Polygon())

		l := pt.Label
		if !l.Visible() {
			continue
		}
		if len(l.Connector) == 2 {
			c := connectors.Path(i)
			c.Stroke = connectorStroke
			c.StrokeWidth = 1
			c.Class = "connector"
			c.MoveTo(l.Connector[0].X, l.Connector[0].Y).LineTo(l.Connector[1].X, l.Connector[1].Y)
		}
		labels.AddText(surface.Text{
			Content:  l.Text,
			Box:      unrotated(l),
			FontSize: l.Settings.Text.WithDefaults().FontSize,
			Rotation: l.Settings.GetRotation(),
			Class:    "label",
		})
	}
}

// unrotated is the label box before rotation, centered where the rotated
// bounds are centered.
func unrotated(l *Label) geom.Rect {
	if l.Settings.GetRotation() == 0 {
		return l.Bounds
	}
	w, h := l.Size.Width, l.Size.Height
	return geom.Rect{Left: l.Bounds.CenterX() - w/2, Top: l.Bounds.CenterY() - h/2, Width: w, Height: h}
}

func tracePolygon(path *surface.Path, poly []geom.Point) {
	for k, c := range poly {
		if k == 0 {
			path.MoveTo(c.X, c.Y)
			continue
		}
		path.LineTo(c.X, c.Y)
	}
	path.Close()
}
