// Package funnel lays out pyramid and funnel charts.
//
// A layout pass turns the rows of a table into stacked bands (one per row,
// with an optional neck split), then places a label per band. Outside
// labels may shift the shared horizontal center of the shape when they do
// not fit, are pushed apart into stacked groups ("domains") when they
// overlap, and are tied back to their band by a connector line.
//
// Passes are deterministic: the same rows, options and bounds produce the
// same geometry. An [Engine] keeps only its pooled connector paths between
// passes and is not safe for concurrent use.
package funnel

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/data"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/style"
	"github.com/matzehuels/chartlayout/pkg/surface"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// Point is the geometry of one row.
//
// Corners are named as in a trapezoid with (X1,Y1)-(X2,Y1) on one
// horizontal edge and (X3,Y2)-(X4,Y2) on the other. When the band crosses
// the neck line, Neck is set and the band continues straight from Y2 to
// Y3 at the neck width.
type Point struct {
	Index   int
	Name    string
	Value   float64
	Percent float64
	Missing bool

	Height float64
	StartY float64

	X1, X2, X3, X4 float64
	Y1, Y2, Y3     float64
	Neck           bool

	State  style.State
	Color  string
	Marker geom.Point
	Label  *Label

	labels [3]*style.LabelSettings
	forced float64
}

// Polygon returns the band outline in drawing order.
func (p *Point) Polygon() []geom.Point {
	if p.Neck {
		return []geom.Point{
			{X: p.X1, Y: p.Y1}, {X: p.X2, Y: p.Y1},
			{X: p.X4, Y: p.Y2}, {X: p.X4, Y: p.Y3},
			{X: p.X3, Y: p.Y3}, {X: p.X3, Y: p.Y2},
		}
	}
	return []geom.Point{
		{X: p.X1, Y: p.Y1}, {X: p.X2, Y: p.Y1},
		{X: p.X4, Y: p.Y2}, {X: p.X3, Y: p.Y2},
	}
}

// Bounds is the bounding box of the band outline.
func (p *Point) Bounds() geom.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range p.Polygon() {
		minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
		minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
	}
	return geom.Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// Label is a placed label.
type Label struct {
	Index    int
	Text     string
	Settings style.LabelSettings

	// X and Y are where the label anchor sits before offsets.
	X, Y float64

	// Bounds is the axis-aligned box after rotation; Size is the text
	// block before it.
	Bounds geom.Rect
	Size   text.Size

	// WidthForced is the narrowed label width chosen by the center shift,
	// or 0 when the label keeps its natural width.
	WidthForced float64

	// Fits is false for inside labels that would stick out of their band;
	// such labels are not drawn.
	Fits bool

	// Domain is the index into Result.Domains, or -1.
	Domain int

	// Connector runs from the label edge to the band edge. Empty for
	// inside labels.
	Connector []geom.Point

	// anchorFromData is set when a point-level override picked the anchor.
	anchorFromData bool
}

// Visible reports whether the label is drawn.
func (l *Label) Visible() bool { return l != nil && l.Fits }

// Result is the outcome of one layout pass.
type Result struct {
	Kind     Kind
	Bounds   geom.Rect
	Reversed bool
	Position LabelPosition

	// CenterX is the final horizontal center relative to Bounds.Left.
	CenterX float64

	BaseWidth       float64
	NeckWidth       float64
	NeckHeight      float64
	PointsPadding   float64
	ConnectorLength float64

	Points []Point

	// Domains lists label indices per group in stacking order.
	Domains [][]int

	// Iterations counts scan and reposition cycles; Capped is set when
	// the loop stopped at the iteration limit, which may leave overlaps.
	Iterations int
	Capped     bool

	// Forced counts labels whose width was narrowed.
	Forced int
}

// Engine runs layout passes with fixed options.
type Engine struct {
	opts       Options
	connectors *surface.Layer
}

// New validates opts and returns an engine.
func New(opts Options) (*Engine, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts, connectors: surface.NewLayer("connectors")}, nil
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Connectors returns the pooled connector paths, indexed by row.
func (e *Engine) Connectors() *surface.Layer { return e.connectors }

// Layout runs a full pass over the rows of cur inside bounds. Row geometry
// is also written back to the cursor as meta values (x1..x4, y1..y3,
// height, startY, missing, percent, labelWidthForced).
func (e *Engine) Layout(cur data.Cursor, bounds geom.Rect) (*Result, error) {
	if err := errors.ValidateBounds(bounds.Width, bounds.Height); err != nil {
		return nil, err
	}
	p := newPass(&e.opts, cur, bounds, e.connectors)
	p.run()
	return p.result(), nil
}

// pass holds the mutable state of one layout run.
type pass struct {
	opts   *Options
	cur    data.Cursor
	bounds geom.Rect
	pool   *surface.Layer

	reversed bool
	labelPos LabelPosition

	padding float64
	baseW   float64
	neckW   float64
	neckH   float64
	neckY   float64
	centerX float64
	connLen float64

	points  []Point
	domains *domainSet

	iterations int
	capped     bool
}

func newPass(opts *Options, cur data.Cursor, bounds geom.Rect, pool *surface.Layer) *pass {
	p := &pass{
		opts:     opts,
		cur:      cur,
		bounds:   bounds,
		pool:     pool,
		reversed: opts.reversed(),
		labelPos: opts.LabelPosition,
	}
	p.padding = math.Abs(geom.Round(opts.PointsPadding.Normalize(bounds.Height), 2))
	p.baseW = math.Abs(geom.Round(opts.BaseWidth.Normalize(bounds.Width), 2))
	p.neckW = math.Abs(geom.Round(opts.NeckWidth.Normalize(bounds.Width), 2))
	p.neckH = math.Abs(geom.Round(opts.NeckHeight.Normalize(bounds.Height), 2))
	p.neckY = bounds.Top + bounds.Height - p.neckH
	p.centerX = bounds.Width / 2
	p.connLen = opts.ConnectorLength.Normalize((bounds.Width - p.baseW) / 2)
	if p.connLen < 0 {
		p.connLen = opts.MinConnectorLength
	}
	return p
}

func (p *pass) run() {
	p.readRows()
	p.measureHeights()
	for i := range p.points {
		p.calculatePoint(i)
		p.colorize(i)
	}
	for i := range p.points {
		p.placeLabel(i)
	}
	p.overlapCorrection()
	p.placeMarkers()
	p.writeMeta()
}

func (p *pass) result() *Result {
	r := &Result{
		Kind:            p.opts.Kind,
		Bounds:          p.bounds,
		Reversed:        p.reversed,
		Position:        p.labelPos,
		CenterX:         p.centerX,
		BaseWidth:       p.baseW,
		NeckWidth:       p.neckW,
		NeckHeight:      p.neckH,
		PointsPadding:   p.padding,
		ConnectorLength: p.connLen,
		Points:          p.points,
		Iterations:      p.iterations,
		Capped:          p.capped,
	}
	if p.domains != nil {
		r.Domains = p.domains.groups()
		for d, members := range r.Domains {
			for _, i := range members {
				p.points[i].Label.Domain = d
			}
		}
	}
	for i := range p.points {
		if l := p.points[i].Label; l != nil && l.WidthForced > 0 {
			r.Forced++
		}
	}
	return r
}

// readRows loads values, names, states and point-level label overrides.
func (p *pass) readRows() {
	p.points = make([]Point, 0, p.cur.RowsCount())
	p.cur.Reset()
	for p.cur.Advance() {
		i := p.cur.Index()
		v := data.Float(p.cur.Get(p.opts.ValueColumn))
		missing := v <= 0 || !geom.IsFinite(v)
		if missing {
			v = 0
		}
		p.points = append(p.points, Point{
			Index:   i,
			Name:    data.String(p.cur.Get(p.opts.NameColumn)),
			Value:   v,
			Missing: missing,
			State:   rowState(p.cur),
			labels:  rowLabels(p.cur, p.opts.Reporter),
		})
	}
}

// measureHeights assigns heights and start offsets in row order. Each row
// may move the shared center before the next one is measured.
func (p *pass) measureHeights() {
	var sum float64
	countMissing := 0
	for _, pt := range p.points {
		if pt.Missing {
			countMissing++
			continue
		}
		sum += pt.Value
	}
	paddingPercent := geom.Round(p.padding/p.bounds.Height*100, 2)

	startY := 0.0
	for i := range p.points {
		pt := &p.points[i]
		percent := paddingPercent
		if !pt.Missing {
			percent = geom.Round(pt.Value/sum*100, 2)
		}
		height := geom.Round(p.bounds.Height/(100+float64(countMissing)*paddingPercent)*percent, 2)
		if height == 0 {
			height = p.opts.MinHeightOfPoint
		}
		pt.Percent = percent
		pt.Height = height
		pt.StartY = startY
		startY += height

		p.shiftCenterX(i)
	}
}

// widthAtY is the shape width at y, measured from the wide end.
func (p *pass) widthAtY(y float64) float64 {
	h := p.bounds.Height
	if y > h-p.neckH || h == p.neckH {
		return p.neckW
	}
	return p.neckW + (p.baseW-p.neckW)*((h-p.neckH-y)/(h-p.neckH))
}

// widthAtAbsY is widthAtY for a y in chart coordinates.
func (p *pass) widthAtAbsY(y float64) float64 {
	if p.reversed {
		return p.widthAtY(y - p.bounds.Top)
	}
	return p.widthAtY(p.bounds.Height - y + p.bounds.Top)
}

// calculatePoint computes the corners of row i at the current center.
func (p *pass) calculatePoint(i int) {
	pt := &p.points[i]
	b := p.bounds
	minH := p.opts.MinHeightOfPoint

	y1 := pt.StartY
	y2 := pt.StartY + pt.Height
	var y3 float64
	neck := false

	if pad := p.padding; pad != 0 {
		switch {
		case i == 0:
			y2 -= pad / 2
			if y2 < y1 {
				y2 = minH
			}
		case i == len(p.points)-1:
			y1 += pad / 2
			if y1 > y2 {
				y1 = y2 - minH
			}
		default:
			y1 += pad / 2
			y2 -= pad / 2
			if y1 > y2 {
				y1 = pt.StartY + pt.Height/2
				y2 = y1 + minH
			}
		}
	}

	w := p.widthAtY(y1)
	x1 := p.centerX - w/2
	x2 := x1 + w
	w = p.widthAtY(y2)
	x3 := p.centerX - w/2
	x4 := x3 + w

	y1 += b.Top
	y2 += b.Top
	x1 += b.Left
	x2 += b.Left

	if p.neckH > 0 && y1 < p.neckY && y2 > p.neckY {
		y3 = y2
		y2 = p.neckY
		neck = true
		// The neck line is an absolute coordinate; the width lookup takes
		// it unchanged.
		w = p.widthAtY(y2)
		x3 = p.centerX - w/2
		x4 = x3 + w
	}

	x3 += b.Left
	x4 += b.Left

	if !p.reversed {
		y1 = b.Height - (y1 - b.Top) + b.Top
		y2 = b.Height - (y2 - b.Top) + b.Top
		if neck {
			y3 = b.Height - (y3 - b.Top) + b.Top
		}
		// Keep (X1,Y1)-(X2,Y1) as the upper edge on screen.
		y1, y2 = y2, y1
		x1, x3 = x3, x1
		x2, x4 = x4, x2
	}

	pt.X1, pt.X2, pt.X3, pt.X4 = x1, x2, x3, x4
	pt.Y1, pt.Y2, pt.Y3 = y1, y2, y3
	pt.Neck = neck
}

func (p *pass) colorize(i int) {
	pt := &p.points[i]
	ctx := p.styleContext(i)
	pt.Color = p.opts.Fill.Resolve(ctx)
}

func (p *pass) styleContext(i int) style.Context {
	p.cur.Select(i)
	p.cur.SetMeta("percent", p.points[i].Percent)
	return style.Context{
		Index:       i,
		SourceColor: style.PaletteColor(p.opts.Palette, i),
		Iterator:    p.cur,
	}
}

// placeMarkers sets each point's marker at its label anchor.
func (p *pass) placeMarkers() {
	for i := range p.points {
		pt := &p.points[i]
		s := p.opts.Labels.Resolve(pt.State, pt.labels)
		pt.Marker = p.markerPosition(i, p.anchorOf(s))
	}
}

func (p *pass) markerPosition(i int, a style.Anchor) geom.Point {
	pt := &p.points[i]
	pb := pt.Bounds()
	left := p.bounds.Left
	x, y := pt.X1, pt.Y1

	switch a {
	case style.AnchorLeftCenter:
		y += pb.Height / 2
		x = p.centerX - p.widthAtAbsY(y)/2 + left
	case style.AnchorLeftBottom:
		y += pb.Height
		x = pt.X3
	case style.AnchorCenterTop:
		x = p.centerX + left
	case style.AnchorCenter:
		y += pb.Height / 2
		x = p.centerX + left
	case style.AnchorCenterBottom:
		y += pb.Height
		x = p.centerX + left
	case style.AnchorRightTop:
		x += p.widthAtAbsY(y)
	case style.AnchorRightCenter:
		y += pb.Height / 2
		x = p.centerX + p.widthAtAbsY(y)/2 + left
	case style.AnchorRightBottom:
		x = pt.X4
		y += pb.Height
	}
	return geom.Point{X: x, Y: y}
}

func (p *pass) writeMeta() {
	for i := range p.points {
		pt := &p.points[i]
		if !p.cur.Select(i) {
			continue
		}
		p.cur.SetMeta("value", pt.Value)
		p.cur.SetMeta("height", pt.Height)
		p.cur.SetMeta("startY", pt.StartY)
		p.cur.SetMeta("missing", pt.Missing)
		p.cur.SetMeta("percent", pt.Percent)
		p.cur.SetMeta("x1", pt.X1)
		p.cur.SetMeta("x2", pt.X2)
		p.cur.SetMeta("x3", pt.X3)
		p.cur.SetMeta("x4", pt.X4)
		p.cur.SetMeta("y1", pt.Y1)
		p.cur.SetMeta("y2", pt.Y2)
		if pt.Neck {
			p.cur.SetMeta("y3", pt.Y3)
		} else {
			p.cur.SetMeta("y3", nil)
		}
		if pt.Label != nil && pt.Label.WidthForced > 0 {
			p.cur.SetMeta("labelWidthForced", pt.Label.WidthForced)
		} else {
			p.cur.SetMeta("labelWidthForced", nil)
		}
	}
}
