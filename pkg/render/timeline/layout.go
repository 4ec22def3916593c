// Package timeline lays out timeline charts.
//
// Range rows become bars spanning their start and end dates; moment rows
// become a marker on the axis with a label beside it. Points are stacked
// away from the axis, upwards or downwards, so that bars never overlap
// other bars and labels never overlap other labels. The pass also tracks
// the envelope of everything it placed, from which the vertical scroll
// limits are derived.
package timeline

import (
	"math"
	"slices"

	"github.com/matzehuels/chartlayout/pkg/data"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/style"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// Point is one placed row.
type Point struct {
	Series  int
	Index   int
	Kind    SeriesKind
	Missing bool

	Direction Direction

	// Start and End are timestamps of a range; X is the instant of a
	// moment. End is NaN for open ranges.
	Start, End, X float64

	// Bounds is the stacked box. Y grows away from the axis on the
	// point's side, so StartY and EndY of a range equal Bounds.SY and
	// Bounds.EY.
	Bounds Bounds

	// StateZIndex orders range bars within a series: lower bars paint on
	// top of higher ones.
	StateZIndex float64
	// MinLength is the distance from the axis to the middle of a moment
	// label, which is where its stem ends.
	MinLength float64

	Color     string
	Label     string
	LabelSize text.Size
	Labeled   bool
}

// SeriesResult is the outcome for one series.
type SeriesResult struct {
	Name      string
	Kind      SeriesKind
	Direction Direction
	ZIndex    float64
	Points    []Point
}

// Result is the outcome of one layout pass.
type Result struct {
	Bounds     geom.Rect
	Scale      Scale
	AxisHeight float64
	Series     []SeriesResult

	// TotalRange is the envelope of all placed boxes in plot pixels, y
	// pointing up from the axis, padded by half the axis height.
	TotalRange Bounds

	// OffsetMin and OffsetMax limit the vertical translation of the plot.
	OffsetMin float64
	OffsetMax float64

	// Up and Down count the points placed on each side.
	Up, Down int
}

// Empty reports whether nothing was placed.
func (r *Result) Empty() bool { return r.Up+r.Down == 0 }

// Engine runs layout passes with fixed options.
type Engine struct {
	opts Options
}

// New validates opts and returns an engine.
func New(opts Options) (*Engine, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts}, nil
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Layout runs a full pass. rows holds one cursor per configured series.
// Stacking results are also written back to the cursors as meta values
// (missing, startY, endY, stateZIndex, minLength, axisHeight).
func (e *Engine) Layout(rows []data.Cursor, bounds geom.Rect) (*Result, error) {
	if err := errors.ValidateBounds(bounds.Width, bounds.Height); err != nil {
		return nil, err
	}
	if len(rows) != len(e.opts.Series) {
		return nil, errors.New(errors.ErrCodeInvalidData, "got %d row sets for %d series", len(rows), len(e.opts.Series))
	}
	p := &pass{opts: &e.opts, rows: rows, bounds: bounds}
	p.run()
	return p.res, nil
}

// placement ties a stacking box to its point.
type placement struct {
	b      Bounds
	series int
	index  int
}

type buckets struct {
	rangeUp, rangeDown   []*placement
	momentUp, momentDown []*placement
}

// pass holds the mutable state of one layout run.
type pass struct {
	opts   *Options
	rows   []data.Cursor
	bounds geom.Rect

	res   *Result
	total Bounds
	b     buckets
}

func (p *pass) run() {
	p.res = &Result{
		Bounds:     p.bounds,
		AxisHeight: p.opts.axisHeight(),
		Series:     make([]SeriesResult, len(p.opts.Series)),
	}
	ext := p.prepareSeries()
	if len(p.opts.Series) == 0 || !ext.valid() {
		p.empty()
		return
	}
	p.res.Scale = newScale(ext.min, ext.max)

	p.calculateBounds()
	slices.SortStableFunc(p.b.rangeUp, rangeOrder)
	slices.SortStableFunc(p.b.rangeDown, rangeOrder)
	slices.SortStableFunc(p.b.momentUp, momentOrder)
	slices.SortStableFunc(p.b.momentDown, momentOrder)

	w := p.bounds.Width
	p.total = Bounds{
		SX: p.res.Scale.Transform(p.res.Scale.Min) * w,
		EX: p.res.Scale.Transform(p.res.Scale.Max) * w,
		SY: math.Inf(1),
		EY: math.Inf(-1),
	}
	p.arrange()
	if math.IsInf(p.total.SY, 1) {
		p.total.SY, p.total.EY = 0, 0
	}
	half := p.res.AxisHeight / 2
	p.total.SY -= half
	p.total.EY += half
	p.res.TotalRange = p.total

	up := len(p.b.rangeUp) + len(p.b.momentUp)
	down := len(p.b.rangeDown) + len(p.b.momentDown)
	p.res.Up, p.res.Down = up, down
	p.res.OffsetMin, p.res.OffsetMax = p.verticalOffsets(up, down)
	p.writeMeta()
}

// empty is the layout of a chart with nothing to place. Rows of series
// without a single usable date are all missing.
func (p *pass) empty() {
	h := p.bounds.Height
	for i, cur := range p.rows {
		sr := &p.res.Series[i]
		sr.Points = make([]Point, cur.RowsCount())
		for k := range sr.Points {
			sr.Points[k] = Point{Series: i, Index: k, Kind: sr.Kind, Missing: true,
				Start: math.NaN(), End: math.NaN(), X: math.NaN()}
		}
	}
	p.res.TotalRange = Bounds{SX: 0, EX: p.bounds.Width, SY: -h / 2, EY: h / 2}
	p.res.OffsetMin, p.res.OffsetMax = 0, 0
	p.writeMeta()
}

func (e extent) valid() bool {
	return !math.IsInf(e.min, 0) && !math.IsInf(e.max, 0)
}

// prepareSeries resolves series directions and collects the date range.
func (p *pass) prepareSeries() extent {
	ext := newExtent()
	var rangeNum, momentNum int
	sides := [2]Direction{DirectionUp, DirectionDown}

	for i := range p.opts.Series {
		s := &p.opts.Series[i]
		dir := s.Direction
		switch dir {
		case DirectionOddEven:
			if s.Kind == KindRange {
				dir = sides[rangeNum&1]
				rangeNum++
			} else {
				dir = sides[momentNum&1]
				momentNum++
			}
		case DirectionAuto:
			dir = DirectionUp
		}
		z := RangeBaseZIndex
		if s.Kind == KindMoment {
			z = MomentZIndex
		}
		p.res.Series[i] = SeriesResult{Name: s.Name, Kind: s.Kind, Direction: dir, ZIndex: z}

		cur := p.rows[i]
		cur.Reset()
		for cur.Advance() {
			if s.Kind == KindMoment {
				ext.add(data.Timestamp(cur.Get(s.XColumn)))
				continue
			}
			start := data.Timestamp(cur.Get(s.StartColumn))
			if math.IsNaN(start) {
				continue
			}
			ext.add(data.Timestamp(cur.Get(s.EndColumn)))
			ext.add(start)
		}
	}
	for _, m := range p.opts.Markers {
		if m.Consider {
			ext.add(data.Timestamp(m.Value))
		}
	}
	return ext
}

// calculateBounds measures every point and sorts it into a bucket.
func (p *pass) calculateBounds() {
	for i := range p.opts.Series {
		s := &p.opts.Series[i]
		sr := &p.res.Series[i]
		cur := p.rows[i]
		sr.Points = make([]Point, 0, cur.RowsCount())
		cur.Reset()
		for cur.Advance() {
			var pt Point
			if s.Kind == KindRange {
				pt = p.rangePoint(i, cur)
			} else {
				pt = p.momentPoint(i, cur)
			}
			sr.Points = append(sr.Points, pt)
			if pt.Missing {
				continue
			}
			pl := &placement{b: pt.Bounds, series: i, index: len(sr.Points) - 1}
			switch {
			case s.Kind == KindRange && pt.Direction == DirectionUp:
				p.b.rangeUp = append(p.b.rangeUp, pl)
			case s.Kind == KindRange:
				p.b.rangeDown = append(p.b.rangeDown, pl)
			case pt.Direction == DirectionUp:
				p.b.momentUp = append(p.b.momentUp, pl)
			default:
				p.b.momentDown = append(p.b.momentDown, pl)
			}
		}
	}
}

func (p *pass) rangePoint(si int, cur data.Cursor) Point {
	s := &p.opts.Series[si]
	pt := Point{Series: si, Index: cur.Index(), Kind: KindRange, X: math.NaN()}
	pt.Start = data.Timestamp(cur.Get(s.StartColumn))
	pt.End = data.Timestamp(cur.Get(s.EndColumn))
	name := cur.Get(s.NameColumn)
	if name == nil || name == "" {
		name = cur.Get(s.XColumn)
	}
	if math.IsNaN(pt.Start) || name == nil {
		pt.Missing = true
		return pt
	}
	w := p.bounds.Width
	sc := p.res.Scale
	end := sc.Max
	if !math.IsNaN(pt.End) {
		end = pt.End
	}
	pt.Bounds = Bounds{
		SX: sc.Transform(pt.Start) * w,
		EX: sc.Transform(end) * w,
		SY: 0,
		EY: s.Height.Normalize(p.bounds.Height),
	}
	pt.Direction = p.pointDirection(si, cur)
	p.decorate(&pt, si, cur)
	return pt
}

func (p *pass) momentPoint(si int, cur data.Cursor) Point {
	s := &p.opts.Series[si]
	pt := Point{Series: si, Index: cur.Index(), Kind: KindMoment, Start: math.NaN(), End: math.NaN()}
	pt.X = data.Timestamp(cur.Get(s.XColumn))
	if cur.Get(s.ValueColumn) == nil || math.IsNaN(pt.X) {
		pt.Missing = true
		return pt
	}
	p.decorate(&pt, si, cur)

	marker := s.markerSize()
	var offsetX float64
	if s.labelsEnabled() {
		offsetX = s.Labels.Normal.GetOffsetX()
	}
	sx := p.res.Scale.Transform(pt.X)*p.bounds.Width - marker
	pt.Bounds = Bounds{
		SX: sx,
		EX: sx + pt.LabelSize.Width + offsetX + marker,
		SY: MomentCenterY - pt.LabelSize.Height/2,
		EY: MomentCenterY + pt.LabelSize.Height/2,
	}
	pt.Direction = p.pointDirection(si, cur)
	return pt
}

// decorate resolves color and label text.
func (p *pass) decorate(pt *Point, si int, cur data.Cursor) {
	s := &p.opts.Series[si]
	ctx := style.Context{
		Index:       pt.Index,
		SourceColor: style.PaletteColor(p.opts.Palette, si),
		Iterator:    cur,
	}
	pt.Color = s.Fill.Resolve(ctx)
	if !s.labelsEnabled() {
		return
	}
	pt.Labeled = true
	pt.Label = style.FormatLabel(s.Labels.Normal.Format, ctx)
	pt.LabelSize = p.opts.Measurer.Measure(pt.Label, s.Labels.Normal.Text)
}

// pointDirection lets a row override its series direction with "up" or
// "down".
func (p *pass) pointDirection(si int, cur data.Cursor) Direction {
	s := &p.opts.Series[si]
	def := p.res.Series[si].Direction
	v := cur.Get(s.DirectionColumn)
	if v == nil {
		return def
	}
	d, ok := ParseDirection(data.String(v))
	switch {
	case ok && (d == DirectionUp || d == DirectionDown):
		return d
	case v != "":
		p.opts.Reporter.Warn("ignoring point direction", "series", si, "row", cur.Index(), "direction", v)
	}
	return def
}

// rangeOrder sorts by start, wider first on ties.
func rangeOrder(a, b *placement) int {
	if d := a.b.SX - b.b.SX; d != 0 {
		return sign(d)
	}
	return sign(b.b.EX - a.b.EX)
}

// momentOrder sorts by start, narrower first on ties.
func momentOrder(a, b *placement) int {
	if d := a.b.SX - b.b.SX; d != 0 {
		return sign(d)
	}
	return sign(a.b.EX - b.b.EX)
}

func sign(d float64) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// Meta keys written to the cursors.
const (
	MetaMissing     = "missing"
	MetaStartY      = "startY"
	MetaEndY        = "endY"
	MetaStateZIndex = "stateZIndex"
	MetaMinLength   = "minLength"
	MetaAxisHeight  = "axisHeight"
)

func (p *pass) writeMeta() {
	for i, cur := range p.rows {
		if i >= len(p.res.Series) {
			break
		}
		for _, pt := range p.res.Series[i].Points {
			if !cur.Select(pt.Index) {
				continue
			}
			cur.SetMeta(MetaMissing, pt.Missing)
			if pt.Missing {
				continue
			}
			cur.SetMeta(MetaAxisHeight, p.res.AxisHeight)
			if pt.Kind == KindRange {
				cur.SetMeta(MetaStartY, pt.Bounds.SY)
				cur.SetMeta(MetaEndY, pt.Bounds.EY)
				cur.SetMeta(MetaStateZIndex, pt.StateZIndex)
			} else {
				cur.SetMeta(MetaMinLength, pt.MinLength)
			}
		}
		cur.Reset()
	}
}
