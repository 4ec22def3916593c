package funnel

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/chartlayout/pkg/data"
	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/style"
	"github.com/matzehuels/chartlayout/pkg/surface"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// fixedMeasurer returns the same box for every label; a forced width
// replaces the natural width.
type fixedMeasurer struct{ w, h float64 }

func (m fixedMeasurer) Measure(_ string, st text.Style) text.Size {
	w := m.w
	if st.Width > 0 {
		w = st.Width
	}
	return text.Size{Width: w, Height: m.h}
}

func rows(values ...float64) *data.Table {
	rs := make([]data.Row, len(values))
	for i, v := range values {
		rs[i] = data.Row{"name": string(rune('A' + i)), "value": v}
	}
	return data.NewTable(rs...)
}

func noLabels() style.StateLabels {
	return style.StateLabels{Normal: style.LabelSettings{Enabled: style.Bool(false)}}
}

func mustLayout(t *testing.T, opts Options, tbl *data.Table, b geom.Rect) *Result {
	t.Helper()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r, err := e.Layout(tbl.Iterator(), b)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	return r
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestHeightsProportional(t *testing.T) {
	values := []float64{100, 60, 40, 10}
	r := mustLayout(t, Options{
		Kind:          KindFunnel,
		PointsPadding: style.Px(0),
		Labels:        noLabels(),
	}, rows(values...), geom.Rect{Width: 400, Height: 200})

	if len(r.Points) != 4 {
		t.Fatalf("len(Points) = %d, want 4", len(r.Points))
	}
	wantHeights := []float64{95.24, 57.14, 38.1, 9.52}
	for i, pt := range r.Points {
		if !near(pt.Height, wantHeights[i]) {
			t.Errorf("Points[%d].Height = %v, want %v", i, pt.Height, wantHeights[i])
		}
		if math.Abs(pt.Height/200-values[i]/210) > 1e-3 {
			t.Errorf("Points[%d] share = %v, want %v", i, pt.Height/200, values[i]/210)
		}
		if pt.Missing {
			t.Errorf("Points[%d].Missing = true, want false", i)
		}
	}
	for i := 0; i+1 < len(r.Points); i++ {
		if got := r.Points[i].StartY + r.Points[i].Height; got != r.Points[i+1].StartY {
			t.Errorf("Points[%d] ends at %v, next starts at %v", i, got, r.Points[i+1].StartY)
		}
	}
}

func TestFunnelCorners(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:          KindFunnel,
		PointsPadding: style.Px(0),
		Labels:        noLabels(),
	}, rows(100, 60, 40, 10), geom.Rect{Width: 400, Height: 200})

	first := r.Points[0]
	if first.X1 != 60 || first.X2 != 340 || first.Y1 != 0 {
		t.Errorf("first top edge = (%v, %v, y %v), want (60, 340, y 0)", first.X1, first.X2, first.Y1)
	}
	if first.Neck {
		t.Error("first point should not reach the neck")
	}

	neck := r.Points[1]
	if !neck.Neck {
		t.Fatal("second point should cross the neck line")
	}
	if neck.Y2 != 150 || !near(neck.Y3, 152.38) {
		t.Errorf("neck split y = (%v, %v), want (150, 152.38)", neck.Y2, neck.Y3)
	}
	if !near(neck.X3, 140) || !near(neck.X4, 260) {
		t.Errorf("neck x = (%v, %v), want (140, 260)", neck.X3, neck.X4)
	}
	if got := len(neck.Polygon()); got != 6 {
		t.Errorf("neck polygon has %d corners, want 6", got)
	}

	m := first.Marker
	if m.X != 200 || !near(m.Y, 47.62) {
		t.Errorf("marker = %+v, want (200, 47.62)", m)
	}
}

func TestPyramidSwapsCorners(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:          KindPyramid,
		PointsPadding: style.Px(0),
		Labels:        noLabels(),
	}, rows(1, 1), geom.Rect{Width: 400, Height: 200})

	if r.Reversed {
		t.Fatal("pyramid should default to reversed = false")
	}
	bottom := r.Points[0]
	if bottom.Y1 != 100 || bottom.Y2 != 200 {
		t.Errorf("first row y = (%v, %v), want (100, 200)", bottom.Y1, bottom.Y2)
	}
	if bottom.X3 != 60 || bottom.X4 != 340 {
		t.Errorf("first row wide edge = (%v, %v), want (60, 340)", bottom.X3, bottom.X4)
	}
	if bottom.X1 != 130 || bottom.X2 != 270 {
		t.Errorf("first row narrow edge = (%v, %v), want (130, 270)", bottom.X1, bottom.X2)
	}
	top := r.Points[1]
	if top.Y1 != 0 || top.Y2 != 100 {
		t.Errorf("second row y = (%v, %v), want (0, 100)", top.Y1, top.Y2)
	}
}

func TestMissingPoints(t *testing.T) {
	tbl := data.NewTable(
		data.Row{"name": "a", "value": 50.0},
		data.Row{"name": "b", "value": 0.0},
		data.Row{"name": "c", "value": 30.0},
		data.Row{"name": "d", "value": 20.0},
	)
	r := mustLayout(t, Options{Kind: KindPyramid, Labels: noLabels()}, tbl, geom.Rect{Width: 400, Height: 200})

	want := []float64{97.56, 4.88, 58.54, 39.02}
	for i, pt := range r.Points {
		if !near(pt.Height, want[i]) {
			t.Errorf("Points[%d].Height = %v, want %v", i, pt.Height, want[i])
		}
	}
	miss := r.Points[1]
	if !miss.Missing || miss.Value != 0 || miss.Percent != 2.5 {
		t.Errorf("missing point = {Missing %v, Value %v, Percent %v}, want {true, 0, 2.5}", miss.Missing, miss.Value, miss.Percent)
	}
}

func TestMissingValueKinds(t *testing.T) {
	tbl := data.NewTable(
		data.Row{"value": -5.0},
		data.Row{"value": math.Inf(1)},
		data.Row{"value": "n/a"},
		data.Row{},
		data.Row{"value": 10.0},
	)
	r := mustLayout(t, Options{Labels: noLabels()}, tbl, geom.Rect{Width: 300, Height: 300})
	for i := 0; i < 4; i++ {
		if !r.Points[i].Missing {
			t.Errorf("Points[%d].Missing = false, want true", i)
		}
	}
	if r.Points[4].Missing {
		t.Error("Points[4].Missing = true, want false")
	}
}

func TestHeightFloor(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:          KindPyramid,
		PointsPadding: style.Px(0),
		Labels:        noLabels(),
	}, rows(1000, 0.001), geom.Rect{Width: 400, Height: 200})

	for i, pt := range r.Points {
		if pt.Height < DefaultMinHeightOfPoint {
			t.Errorf("Points[%d].Height = %v, want >= %v", i, pt.Height, DefaultMinHeightOfPoint)
		}
	}
	if r.Points[1].Height != DefaultMinHeightOfPoint {
		t.Errorf("tiny point height = %v, want %v", r.Points[1].Height, DefaultMinHeightOfPoint)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	opts := Options{
		Kind:     KindFunnel,
		Measurer: fixedMeasurer{w: 80, h: 30},
	}
	e, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	tbl := rows(30, 28, 27, 5, 3, 1)
	b := geom.Rect{Left: 10, Top: 20, Width: 500, Height: 240}

	first, err := e.Layout(tbl.Iterator(), b)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Layout(tbl.Iterator(), b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two passes over the same input differ")
	}
}

// labelRows builds equal rows where only the listed rows keep a label.
func labelRows(n int, labeled ...int) *data.Table {
	keep := map[int]bool{}
	for _, i := range labeled {
		keep[i] = true
	}
	rs := make([]data.Row, n)
	for i := range rs {
		rs[i] = data.Row{"name": "row", "value": 10.0}
		if !keep[i] {
			rs[i]["label"] = map[string]any{"enabled": false}
		}
	}
	return data.NewTable(rs...)
}

func TestOverlapTwoLabels(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:          KindFunnel,
		PointsPadding: style.Px(0),
		Measurer:      fixedMeasurer{w: 40, h: 55},
	}, labelRows(4, 1, 2), geom.Rect{Width: 400, Height: 200})

	a, b := r.Points[1].Label, r.Points[2].Label
	if a == nil || b == nil {
		t.Fatal("rows 1 and 2 should have labels")
	}
	if r.Points[0].Label != nil || r.Points[3].Label != nil {
		t.Error("disabled labels should not be placed")
	}
	if !reflect.DeepEqual(r.Domains, [][]int{{1, 2}}) {
		t.Fatalf("Domains = %v, want [[1 2]]", r.Domains)
	}
	if r.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", r.Iterations)
	}
	if a.Y != 72.5 || b.Y != 127.5 {
		t.Errorf("label centers = (%v, %v), want (72.5, 127.5)", a.Y, b.Y)
	}
	if a.Bounds.Bottom() > b.Bounds.Top {
		t.Errorf("labels still overlap: %v > %v", a.Bounds.Bottom(), b.Bounds.Top)
	}
	if mid := (a.Bounds.Top + b.Bounds.Bottom()) / 2; mid != 100 {
		t.Errorf("group center = %v, want 100", mid)
	}
	if a.Domain != 0 || b.Domain != 0 {
		t.Errorf("label domains = (%d, %d), want (0, 0)", a.Domain, b.Domain)
	}
}

func TestOverlapTransitiveMerge(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:          KindFunnel,
		PointsPadding: style.Px(0),
		Measurer:      fixedMeasurer{w: 40, h: 45},
	}, labelRows(5, 1, 2, 3), geom.Rect{Width: 400, Height: 200})

	if !reflect.DeepEqual(r.Domains, [][]int{{1, 2, 3}}) {
		t.Fatalf("Domains = %v, want [[1 2 3]]", r.Domains)
	}
	var prev *Label
	for _, i := range r.Domains[0] {
		l := r.Points[i].Label
		if prev != nil && prev.Bounds.Bottom() > l.Bounds.Top+1e-9 {
			t.Errorf("label %d overlaps label %d", prev.Index, l.Index)
		}
		prev = l
	}
}

func TestOverlapOrderNotReversed(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:          KindPyramid,
		PointsPadding: style.Px(0),
		Measurer:      fixedMeasurer{w: 40, h: 45},
	}, labelRows(5, 1, 2, 3), geom.Rect{Width: 400, Height: 200})

	if !reflect.DeepEqual(r.Domains, [][]int{{3, 2, 1}}) {
		t.Fatalf("Domains = %v, want [[3 2 1]]", r.Domains)
	}
}

func TestOverlapIterationCap(t *testing.T) {
	tests := []struct {
		name string
		max  int
	}{
		{"default cap", 0},
		{"small cap", 2},
		{"single cycle", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustLayout(t, Options{
				Kind:                 KindPyramid,
				PointsPadding:        style.Px(0),
				MaxOverlapIterations: tt.max,
				Measurer:             fixedMeasurer{w: 20, h: 80},
			}, rows(1, 1, 1, 1, 1), geom.Rect{Width: 300, Height: 100})

			limit := tt.max
			if limit == 0 {
				limit = DefaultMaxOverlapIterations
			}
			if r.Iterations > limit {
				t.Errorf("Iterations = %d, want <= %d", r.Iterations, limit)
			}
			if r.Iterations == 0 {
				t.Error("overlapping labels should trigger at least one cycle")
			}
		})
	}
}

func TestAllowOverlapSkipsCorrection(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:        KindFunnel,
		OverlapMode: AllowOverlap,
		Measurer:    fixedMeasurer{w: 20, h: 80},
	}, rows(1, 1, 1), geom.Rect{Width: 300, Height: 100})
	if r.Iterations != 0 || len(r.Domains) != 0 {
		t.Errorf("allow-overlap ran correction: iterations %d, domains %v", r.Iterations, r.Domains)
	}
}

func TestForcedWidthInColumn(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:          KindFunnel,
		PointsPadding: style.Px(0),
		Measurer:      fixedMeasurer{w: 500, h: 20},
	}, rows(10), geom.Rect{Width: 400, Height: 100})

	if r.CenterX != 260 {
		t.Errorf("CenterX = %v, want 260 (clamped shift)", r.CenterX)
	}
	l := r.Points[0].Label
	if l.WidthForced <= DefaultMinLabelWidth {
		t.Fatalf("WidthForced = %v, want > %v", l.WidthForced, DefaultMinLabelWidth)
	}
	if !near(l.Bounds.Width, l.WidthForced) {
		t.Errorf("label width = %v, want forced %v", l.Bounds.Width, l.WidthForced)
	}
	if r.Forced != 1 {
		t.Errorf("Forced = %d, want 1", r.Forced)
	}
}

func TestForcedWidthFloor(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:            KindFunnel,
		PointsPadding:   style.Px(0),
		LabelPosition:   PositionOutsideLeft,
		ConnectorLength: style.Px(60),
		Measurer:        fixedMeasurer{w: 500, h: 20},
	}, rows(10), geom.Rect{Width: 100, Height: 100})

	l := r.Points[0].Label
	if l.WidthForced != DefaultMinLabelWidth {
		t.Errorf("WidthForced = %v, want floor %v", l.WidthForced, DefaultMinLabelWidth)
	}
	if l.Bounds.Width != DefaultMinLabelWidth {
		t.Errorf("label width = %v, want %v", l.Bounds.Width, DefaultMinLabelWidth)
	}
	if r.CenterX != 65 {
		t.Errorf("CenterX = %v, want 65", r.CenterX)
	}
}

func TestNoShiftWhenLabelFits(t *testing.T) {
	r := mustLayout(t, Options{
		Kind:     KindFunnel,
		Measurer: fixedMeasurer{w: 30, h: 10},
	}, rows(5, 4, 3), geom.Rect{Width: 400, Height: 300})
	if r.CenterX != 200 {
		t.Errorf("CenterX = %v, want 200", r.CenterX)
	}
	if r.Forced != 0 {
		t.Errorf("Forced = %d, want 0", r.Forced)
	}
}

func TestConnectors(t *testing.T) {
	e, err := New(Options{
		Kind:          KindFunnel,
		LabelPosition: PositionOutsideRight,
		Measurer:      fixedMeasurer{w: 30, h: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	r, err := e.Layout(rows(5, 4, 3).Iterator(), geom.Rect{Width: 400, Height: 300})
	if err != nil {
		t.Fatal(err)
	}
	for i, pt := range r.Points {
		c := pt.Label.Connector
		if len(c) != 2 {
			t.Fatalf("Points[%d] connector has %d points, want 2", i, len(c))
		}
		if c[0].X != pt.Label.Bounds.Left {
			t.Errorf("Points[%d] connector starts at x %v, want label left %v", i, c[0].X, pt.Label.Bounds.Left)
		}
		pb := pt.Bounds()
		if !near(c[1].Y, pb.CenterY()+.001) {
			t.Errorf("Points[%d] connector ends at y %v, want %v", i, c[1].Y, pb.CenterY()+.001)
		}
	}
	if got := e.Connectors().PoolSize(); got != 3 {
		t.Errorf("pooled connectors = %d, want 3", got)
	}
	first := e.Connectors().Path(0)
	if _, err := e.Layout(rows(5, 4, 3).Iterator(), geom.Rect{Width: 400, Height: 300}); err != nil {
		t.Fatal(err)
	}
	if e.Connectors().Path(0) != first {
		t.Error("connector path was not reused across passes")
	}
}

func TestRightShift(t *testing.T) {
	// Band width at the label rows of a single-row funnel in 400x100:
	// 120 + 160*(75-y)/75 with the label centered on y 50.
	wTop := 120 + 160*35.0/75 // label top, y 40
	wMid := 120 + 160*25.0/75 // label center, y 50

	tests := []struct {
		name       string
		position   LabelPosition
		labelWidth float64
		wantCenter float64
		wantForced float64
	}{
		{"in column partial", PositionOutsideRightInColumn, 100, 200 - (200 + wTop/2 - 300 + 5), 0},
		{"in column clamped", PositionOutsideRightInColumn, 500, 140, 395 - (140 + wTop/2)},
		{"outside partial", PositionOutsideRight, 100, 200 - (200 + wMid/2 + 20 + 100 - 400), 0},
		{"outside clamped", PositionOutsideRight, 200, 140, 400 - (200 + wMid/2 + 20) + 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustLayout(t, Options{
				Kind:          KindFunnel,
				PointsPadding: style.Px(0),
				LabelPosition: tt.position,
				Measurer:      fixedMeasurer{w: tt.labelWidth, h: 20},
			}, rows(10), geom.Rect{Width: 400, Height: 100})

			if !near(r.CenterX, tt.wantCenter) {
				t.Errorf("CenterX = %v, want %v", r.CenterX, tt.wantCenter)
			}
			l := r.Points[0].Label
			if tt.wantForced == 0 {
				if l.WidthForced != 0 || r.Forced != 0 {
					t.Errorf("WidthForced = %v, Forced = %d, want no forced width", l.WidthForced, r.Forced)
				}
				if !near(l.Bounds.Width, tt.labelWidth) {
					t.Errorf("label width = %v, want %v", l.Bounds.Width, tt.labelWidth)
				}
			} else {
				if !near(l.WidthForced, tt.wantForced) {
					t.Errorf("WidthForced = %v, want %v", l.WidthForced, tt.wantForced)
				}
				if l.WidthForced < DefaultMinLabelWidth {
					t.Errorf("WidthForced = %v, want >= %v", l.WidthForced, DefaultMinLabelWidth)
				}
				if !near(l.Bounds.Width, l.WidthForced) {
					t.Errorf("label width = %v, want forced %v", l.Bounds.Width, l.WidthForced)
				}
				if r.Forced != 1 {
					t.Errorf("Forced = %d, want 1", r.Forced)
				}
			}
			if tt.position == PositionOutsideRight && !near(l.Bounds.Right(), 400) {
				t.Errorf("label right = %v, want 400", l.Bounds.Right())
			}
			if tt.position == PositionOutsideRightInColumn && !near(l.Bounds.Right(), 400) {
				t.Errorf("label right = %v, want column edge 400", l.Bounds.Right())
			}
		})
	}
}

func TestConnectorMinLength(t *testing.T) {
	tests := []struct {
		name     string
		position LabelPosition
		offsetX  float64
		clamped  bool
	}{
		{"left past edge", PositionOutsideLeft, 80, true},
		{"right past edge", PositionOutsideRight, -80, true},
		{"left clear", PositionOutsideLeft, 0, false},
		{"right clear", PositionOutsideRight, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustLayout(t, Options{
				Kind:          KindFunnel,
				LabelPosition: tt.position,
				Labels:        style.StateLabels{Normal: style.LabelSettings{OffsetX: style.Float(tt.offsetX)}},
				Measurer:      fixedMeasurer{w: 30, h: 10},
			}, rows(10), geom.Rect{Width: 400, Height: 200})

			l := r.Points[0].Label
			c := l.Connector
			if len(c) != 2 {
				t.Fatalf("connector has %d points, want 2", len(c))
			}
			if math.Abs(c[1].Y-c[0].Y) >= DefaultMinConnectorLength {
				t.Fatalf("connector dy = %v, want a level connector", c[1].Y-c[0].Y)
			}

			want := l.Bounds.Right()
			if tt.position == PositionOutsideRight {
				want = l.Bounds.Left
			}
			if tt.clamped {
				want = c[1].X - DefaultMinConnectorLength
				if tt.position == PositionOutsideRight {
					want = c[1].X + DefaultMinConnectorLength
				}
			}
			if !near(c[0].X, want) {
				t.Errorf("connector starts at x %v, want %v", c[0].X, want)
			}
		})
	}
}

func TestRestackHonoursOffsetY(t *testing.T) {
	tbl := data.NewTable(
		data.Row{"name": "A", "value": 10.0},
		data.Row{"name": "B", "value": 10.0, "label": map[string]any{"offsetY": -30.0}},
		data.Row{"name": "C", "value": 10.0},
	)
	r := mustLayout(t, Options{
		Kind:          KindFunnel,
		PointsPadding: style.Px(0),
		Measurer:      fixedMeasurer{w: 40, h: 50},
	}, tbl, geom.Rect{Width: 400, Height: 200})

	if !reflect.DeepEqual(r.Domains, [][]int{{0, 1}}) {
		t.Fatalf("Domains = %v, want [[0 1]]", r.Domains)
	}
	if got := r.Points[1].Label.Settings.GetOffsetY(); got != -30 {
		t.Fatalf("row 1 offsetY = %v, want -30", got)
	}
	for i := 1; i < len(r.Points); i++ {
		prev, cur := r.Points[i-1].Label, r.Points[i].Label
		if cur.Bounds.Top < prev.Bounds.Bottom()-1e-9 {
			t.Errorf("label %d top %v is above label %d bottom %v", i, cur.Bounds.Top, i-1, prev.Bounds.Bottom())
		}
	}
	a, b := r.Points[0].Label.Bounds, r.Points[1].Label.Bounds
	if !near(b.Top, a.Bottom()) {
		t.Errorf("offset label top = %v, want pushed against %v", b.Top, a.Bottom())
	}
}

func TestNeckAtChartTop(t *testing.T) {
	tbl := rows(10)
	it := tbl.Iterator()
	e, err := New(Options{
		Kind:          KindPyramid,
		PointsPadding: style.Px(0),
		NeckWidth:     style.Pct(30),
		NeckHeight:    style.Pct(25),
		Labels:        noLabels(),
	})
	if err != nil {
		t.Fatal(err)
	}
	r, err := e.Layout(it, geom.Rect{Width: 400, Height: 200})
	if err != nil {
		t.Fatal(err)
	}

	pt := r.Points[0]
	if !pt.Neck {
		t.Fatal("single row should cross the neck line")
	}
	if pt.Y3 != 0 || pt.Y1 != 50 || pt.Y2 != 200 {
		t.Errorf("y = (%v, %v, %v), want (50, 200, 0)", pt.Y1, pt.Y2, pt.Y3)
	}
	if got := len(pt.Polygon()); got != 6 {
		t.Errorf("polygon has %d corners, want 6", got)
	}
	if got := it.MetaAt(0, "y3"); got != 0.0 {
		t.Errorf("meta y3 = %v, want 0", got)
	}
}

func TestInsideLabelFit(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		want  bool
	}{
		{"small label fits", 20, true},
		{"wide label sticks out", 300, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustLayout(t, Options{
				Kind:          KindFunnel,
				LabelPosition: PositionInside,
				Measurer:      fixedMeasurer{w: tt.width, h: 10},
			}, rows(10), geom.Rect{Width: 400, Height: 200})
			l := r.Points[0].Label
			if l.Fits != tt.want {
				t.Errorf("Fits = %v, want %v", l.Fits, tt.want)
			}
			if len(l.Connector) != 0 {
				t.Error("inside labels should have no connector")
			}
		})
	}
}

func TestLabelStatePrecedence(t *testing.T) {
	tbl := data.NewTable(
		data.Row{"value": 1.0, "selected": true, "label": map[string]any{"enabled": false}},
		data.Row{"value": 1.0, "hovered": true},
		data.Row{"value": 1.0},
	)
	r := mustLayout(t, Options{
		Kind:     KindFunnel,
		Measurer: fixedMeasurer{w: 10, h: 5},
		Labels: style.StateLabels{
			Select: &style.LabelSettings{Enabled: style.Bool(true)},
			Hover:  &style.LabelSettings{Enabled: style.Bool(false)},
		},
	}, tbl, geom.Rect{Width: 400, Height: 300})

	if r.Points[0].State != style.Select || r.Points[0].Label == nil {
		t.Error("select factory should enable the selected row's label")
	}
	if r.Points[1].State != style.Hover || r.Points[1].Label != nil {
		t.Error("hover factory should disable the hovered row's label")
	}
	if r.Points[2].Label == nil {
		t.Error("normal row should keep its label")
	}
}

func TestCursorMeta(t *testing.T) {
	tbl := rows(100, 60, 40, 10)
	it := tbl.Iterator()
	e, err := New(Options{Kind: KindFunnel, PointsPadding: style.Px(0), Labels: noLabels()})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Layout(it, geom.Rect{Width: 400, Height: 200}); err != nil {
		t.Fatal(err)
	}
	if got := it.MetaAt(0, "x1"); got != 60.0 {
		t.Errorf("meta x1 = %v, want 60", got)
	}
	if got := it.MetaAt(1, "y3"); got == nil {
		t.Error("meta y3 should be set for the neck row")
	}
	if got := it.MetaAt(0, "y3"); got != nil {
		t.Errorf("meta y3 = %v, want nil", got)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"empty defaults to funnel", Options{}, false},
		{"camel case position", Options{LabelPosition: "outsideRightInColumn"}, false},
		{"unknown kind", Options{Kind: "cone"}, true},
		{"unknown position", Options{LabelPosition: "above"}, true},
		{"unknown overlap mode", Options{OverlapMode: "sometimes"}, true},
		{"negative cap", Options{MaxOverlapIterations: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	o := DefaultOptions(KindFunnel)
	if !o.reversed() {
		t.Error("funnels are always reversed")
	}
	if o.MaxOverlapIterations != 10 || o.MinConnectorLength != 5 || o.MinLabelWidth != 10 {
		t.Errorf("engine constants = (%d, %v, %v), want (10, 5, 10)", o.MaxOverlapIterations, o.MinConnectorLength, o.MinLabelWidth)
	}
}

func TestLayoutRejectsEmptyBounds(t *testing.T) {
	e, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Layout(rows(1).Iterator(), geom.Rect{Width: 0, Height: 100}); err == nil {
		t.Error("Layout() with zero width should fail")
	}
}

func TestDraw(t *testing.T) {
	tbl := labelRows(4, 0, 1, 2)
	r := mustLayout(t, Options{Kind: KindFunnel, Measurer: fixedMeasurer{w: 30, h: 10}}, tbl, geom.Rect{Width: 400, Height: 300})

	s := surface.New(400, 300)
	r.Draw(s, "#999")
	r.Draw(s, "#999")

	if got := len(s.Root.Child("points").Paths()); got != 4 {
		t.Errorf("point paths = %d, want 4", got)
	}
	if got := len(s.Root.Child("connectors").Paths()); got != 3 {
		t.Errorf("connector paths = %d, want 3", got)
	}
	if got := len(s.Root.Child("labels").Texts()); got != 3 {
		t.Errorf("label texts = %d, want 3", got)
	}
}
