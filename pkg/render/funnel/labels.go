package funnel

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/chartlayout/pkg/data"
	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/style"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// Row columns that carry per-point interaction state and label overrides.
const (
	ColumnState       = "state"
	ColumnHovered     = "hovered"
	ColumnSelected    = "selected"
	ColumnLabel       = "label"
	ColumnHoverLabel  = "hoverLabel"
	ColumnSelectLabel = "selectLabel"
)

func rowState(cur data.Cursor) style.State {
	if s, ok := style.ParseState(data.String(cur.Get(ColumnState))); ok && s != style.Normal {
		return s
	}
	hovered := data.Bool(cur.Get(ColumnHovered))
	selected := data.Bool(cur.Get(ColumnSelected))
	return style.EffectiveState(hovered != nil && *hovered, selected != nil && *selected)
}

func rowLabels(cur data.Cursor, r style.Reporter) [3]*style.LabelSettings {
	var out [3]*style.LabelSettings
	for st, col := range [3]string{ColumnLabel, ColumnHoverLabel, ColumnSelectLabel} {
		out[st] = labelOverride(cur.Get(col), col, cur.Index(), r)
	}
	return out
}

// labelOverride accepts settings given as a struct or as a decoded
// JSON/YAML object.
func labelOverride(v any, column string, row int, r style.Reporter) *style.LabelSettings {
	switch x := v.(type) {
	case nil:
		return nil
	case *style.LabelSettings:
		return x
	case style.LabelSettings:
		return &x
	case map[string]any:
		raw, err := json.Marshal(x)
		if err == nil {
			var s style.LabelSettings
			if err = json.Unmarshal(raw, &s); err == nil {
				return &s
			}
		}
		r.Warn("ignoring label override", "row", row, "column", column, "err", err)
		return nil
	}
	r.Warn("ignoring label override", "row", row, "column", column, "type", fmt.Sprintf("%T", v))
	return nil
}

// settings resolves the label settings of row i in state s.
func (p *pass) settings(i int, s style.State) style.LabelSettings {
	out := p.opts.Labels.Resolve(s, p.points[i].labels)
	out.Anchor = p.normalizeAnchor(out.Anchor)
	return out
}

// anchorOf returns a usable anchor for resolved settings.
func (p *pass) anchorOf(s style.LabelSettings) style.Anchor {
	return p.normalizeAnchor(s.Anchor)
}

func (p *pass) normalizeAnchor(a style.Anchor) style.Anchor {
	n, ok := style.ParseAnchor(string(a))
	if !ok && a != "" && a != style.AnchorCenter {
		p.opts.Reporter.Warn("unknown label anchor, using center", "anchor", string(a))
	}
	return n
}

// seriesAnchor is the anchor of the series-level normal settings.
func (p *pass) seriesAnchor() style.Anchor {
	return p.normalizeAnchor(p.opts.Labels.Normal.Anchor)
}

func (p *pass) labelText(i int, s style.LabelSettings) string {
	return style.FormatLabel(s.Format, p.styleContext(i))
}

// measure sizes the label text of row i, narrowed to width when positive.
func (p *pass) measure(i int, s style.LabelSettings, width float64) text.Size {
	st := s.Text
	if width > 0 {
		st.Width = width
	}
	return p.opts.Measurer.Measure(p.labelText(i, s), st)
}

// labelSize is the axis-aligned extent of a label after rotation.
func labelSize(s style.LabelSettings, size text.Size) (w, h float64) {
	r := s.Bounds(0, 0, size)
	return r.Width, r.Height
}

// position computes the anchor position of the label of row i. When l is
// non-nil the vertical position is taken from it and its current width is
// used; otherwise the label is measured at its natural size.
func (p *pass) position(i int, s style.LabelSettings, anchor style.Anchor, l *Label) (x, y float64) {
	pt := &p.points[i]
	b := p.bounds

	pointWidth := pt.X2 - pt.X1
	pointHeight := pt.Y2 - pt.Y1
	if pt.Neck {
		pointHeight = pt.Y3 - pt.Y1
	}

	x = pt.X1
	y = pt.Y1 + pointHeight/2

	var lw, lh float64
	if l != nil {
		lw, lh = l.Bounds.Width, l.Bounds.Height
		y = l.Y
	} else {
		lw, lh = labelSize(s, p.measure(i, s, 0))
	}

	yForWidth := y + s.GetOffsetY()

	if lh > pointHeight && anchor.IsMiddle() {
		if y+lh/2 > b.Bottom() {
			y = b.Bottom() - lh/2
		}
		if y-lh/2 < b.Top {
			y = b.Top + lh/2
		}
	}

	w := p.widthAtAbsY(yForWidth)

	switch p.labelPos {
	case PositionInside:
		x += pointWidth / 2
	case PositionOutsideLeft:
		x = b.Left + p.centerX - w/2 - p.connLen - lw/2
	case PositionOutsideLeftInColumn:
		x = b.Left + lw/2
	case PositionOutsideRight:
		x = b.Left + p.centerX + w/2 + p.connLen + lw/2
	case PositionOutsideRightInColumn:
		x = b.Left + b.Width - lw/2
	}

	switch {
	case anchor.IsTop():
		y -= .5
	case anchor.IsBottom():
		y += .5
	}
	return x, y
}

// placeLabel decides whether row i gets a label and where.
func (p *pass) placeLabel(i int) {
	pt := &p.points[i]
	state := pt.State
	s := p.settings(i, state)

	enabled := style.ResolveEnabled(state, pointToggles(pt.labels), p.opts.Labels.Enabled(), true)
	if !enabled {
		pt.Label = nil
		p.pool.Path(i).Clear()
		return
	}

	// Before any label exists the series-level anchor drives placement.
	x, y := p.position(i, s, p.seriesAnchor(), nil)

	fits := true
	if state == style.Normal && !p.labelPos.Outside() && p.opts.OverlapMode == NoOverlap {
		box := s.Box(x, y, p.measure(i, s, 0))
		fits = p.fitsInto(pt, box)
	}

	if !p.labelPos.Outside() {
		pt.forced = 0
	}

	l := &Label{
		Index:          i,
		Text:           p.labelText(i, s),
		Settings:       s,
		X:              x,
		Y:              y,
		Fits:           fits,
		Domain:         -1,
		WidthForced:    pt.forced,
		anchorFromData: anchorFromData(pt.labels, state),
	}
	pt.Label = l
	p.remeasure(l)

	if l.WidthForced > 0 && !l.anchorFromData {
		l.X, l.Y = p.position(i, s, s.Anchor, l)
		p.remeasure(l)
	}

	if p.labelPos.Outside() {
		p.updateConnector(l)
	} else {
		p.pool.Path(i).Clear()
	}
}

// remeasure refreshes the bounds of l at its current position.
func (p *pass) remeasure(l *Label) {
	l.Size = p.measure(l.Index, l.Settings, l.WidthForced)
	l.Bounds = l.Settings.Bounds(l.X, l.Y, l.Size)
}

func pointToggles(labels [3]*style.LabelSettings) style.Toggles {
	var t style.Toggles
	for st, l := range labels {
		if l != nil {
			t[st] = l.Enabled
		}
	}
	return t
}

func anchorFromData(labels [3]*style.LabelSettings, state style.State) bool {
	if labels[style.Normal] != nil && labels[style.Normal].Anchor != "" {
		return true
	}
	if state != style.Normal && labels[state] != nil && labels[state].Anchor != "" {
		return true
	}
	return false
}

// fitsInto reports whether every corner of box lies inside the band of pt.
// box holds corner coordinates clockwise from the top-left.
func (p *pass) fitsInto(pt *Point, box []float64) bool {
	poly := []float64{
		pt.X1, pt.Y1,
		pt.X2, pt.Y1,
		pt.X4, pt.Y2,
		pt.X3, pt.Y2,
	}
	n := len(poly)
	for i := 0; i < n-1; i += 2 {
		k, k1 := i+2, i+3
		if i == n-2 {
			k, k1 = 0, 1
		}
		p1x, p1y := poly[i], poly[i+1]
		p2x, p2y := poly[k], poly[k1]

		// The lower edge of a neck band is at Y3.
		if pt.Neck && i == 4 {
			p1y, p2y = pt.Y3, pt.Y3
		}
		// A zero-length edge (the tip of a pyramid) still needs a direction.
		if p1x == p2x {
			p2x += .01
		}

		if geom.IsPointOnLine(p1x, p1y, p2x, p2y, box[i], box[i+1]) != 1 ||
			geom.IsPointOnLine(p1x, p1y, p2x, p2y, box[k], box[k1]) != 1 {
			return false
		}
	}
	return true
}

// updateConnector routes the leader line of an outside label to the band
// edge at the band's vertical center.
func (p *pass) updateConnector(l *Label) {
	pt := &p.points[l.Index]
	pb := pt.Bounds()
	minLen := p.opts.MinConnectorLength

	x0 := l.Bounds.Left
	y0 := l.Bounds.Top + l.Bounds.Height/2
	y1 := pb.Top + pb.Height/2
	w := p.widthAtAbsY(y1)

	var x1 float64
	switch {
	case p.labelPos.Left():
		x0 += l.Bounds.Width
		x1 = p.centerX - w/2 + p.bounds.Left
		if x0 > x1 && math.Abs(y1-y0) < minLen {
			x0 = x1 - minLen
		}
	case p.labelPos.Right():
		x1 = p.centerX + w/2 + p.bounds.Left
		if x0 < x1 && math.Abs(y1-y0) < minLen {
			x0 = x1 + minLen
		}
	}

	// The tiny y offset keeps gradient strokes working on level lines.
	path := p.pool.Path(l.Index)
	path.Stroke = p.opts.ConnectorStroke
	path.Clear().MoveTo(x0, y0).LineTo(x1, y1+.001)
	l.Connector = path.Points()
}
