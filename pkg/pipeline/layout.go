package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/data"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/observability"
	"github.com/matzehuels/chartlayout/pkg/render/funnel"
	"github.com/matzehuels/chartlayout/pkg/render/timeline"
	"github.com/matzehuels/chartlayout/pkg/style"
	"github.com/matzehuels/chartlayout/pkg/surface"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// =============================================================================
// Scene - Computed Layout
// =============================================================================

// Scene is a computed layout that can be drawn. Exactly one of Funnel and
// Timeline is set.
type Scene struct {
	Kind   string
	Title  string
	Width  float64
	Height float64

	Funnel   *funnel.Result
	Timeline *timeline.Result

	// Warnings collected from the engine reporter during the pass.
	Warnings []string

	connectorStroke string
	timelineOpts    timeline.Options
}

// Layout converts the scene to its serialized form.
func (sc *Scene) Layout() chartdoc.Layout {
	var l chartdoc.Layout
	if sc.Timeline != nil {
		l = chartdoc.FromTimeline(sc.Timeline)
	} else {
		l = chartdoc.FromFunnel(sc.Funnel)
	}
	l.Kind = sc.Kind
	l.Title = sc.Title
	l.Width = sc.Width
	l.Height = sc.Height
	l.Warnings = sc.Warnings
	return l
}

// Draw paints the scene onto a new surface. scroll is the requested
// timeline translation; funnels ignore it.
func (sc *Scene) Draw(scroll float64) *surface.Surface {
	s := surface.New(sc.Width, sc.Height)
	if sc.Title != "" {
		title := s.Root.Child("title")
		title.AddText(surface.Text{
			Content:  sc.Title,
			Box:      geom.Rect{Width: sc.Width, Height: TitleHeight},
			FontSize: TitleFontSize,
			Class:    "title",
		})
	}
	switch {
	case sc.Funnel != nil:
		sc.Funnel.Draw(s, sc.connectorStroke)
	case sc.Timeline != nil:
		sc.Timeline.Draw(s, sc.timelineOpts, scroll)
	}
	return s
}

// plotBounds is the chart area below the title band.
func plotBounds(width, height float64, title string) geom.Rect {
	b := geom.Rect{Width: width, Height: height}
	if title != "" && height > TitleHeight {
		b.Top = TitleHeight
		b.Height -= TitleHeight
	}
	return b
}

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout runs the engine for the chart kind over tables. opts must
// have been validated.
func ComputeLayout(ctx context.Context, chart *chartdoc.Chart, tables Tables, opts Options) (*Scene, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, chart.Kind, tables.Rows())
	start := time.Now()

	sc, err := computeLayout(ctx, chart, tables, opts)
	hooks.OnLayoutComplete(ctx, chart.Kind, time.Since(start), err)
	return sc, err
}

func computeLayout(ctx context.Context, chart *chartdoc.Chart, tables Tables, opts Options) (*Scene, error) {
	warnings := &style.Collector{}
	reporter := teeReporter{warnings}
	if opts.Reporter != nil {
		reporter = append(reporter, opts.Reporter)
	}
	measurer := opts.TextMeasurer
	if measurer == nil {
		measurer = text.Estimator{}
	}

	sc := &Scene{
		Kind:   chart.Kind,
		Title:  chart.Title,
		Width:  opts.Width,
		Height: opts.Height,
	}
	bounds := plotBounds(opts.Width, opts.Height, chart.Title)

	if chart.Kind == chartdoc.KindTimeline {
		if err := sc.layoutTimeline(ctx, chart, tables, bounds, measurer, reporter); err != nil {
			return nil, err
		}
	} else {
		if err := sc.layoutFunnel(ctx, chart, tables, bounds, measurer, reporter); err != nil {
			return nil, err
		}
	}
	sc.Warnings = warnings.Warnings
	return sc, nil
}

func (sc *Scene) layoutFunnel(ctx context.Context, chart *chartdoc.Chart, tables Tables, bounds geom.Rect, m text.Measurer, r style.Reporter) error {
	fopts := funnel.Options{Kind: funnel.Kind(chart.Kind)}
	if chart.Funnel != nil {
		fopts = *chart.Funnel
	}
	fopts.Measurer = m
	fopts.Reporter = r

	eng, err := funnel.New(fopts)
	if err != nil {
		return err
	}
	tbl := tables.Funnel
	if tbl == nil {
		tbl = data.NewTable()
	}
	res, err := eng.Layout(tbl.Iterator(), bounds)
	if err != nil {
		return err
	}

	lh := observability.Layout()
	lh.OnOverlapCorrection(ctx, chart.Kind, res.Iterations, len(res.Domains), res.Capped)
	lh.OnCenterShift(ctx, chart.Kind, res.CenterX, res.Forced)

	sc.Funnel = res
	sc.connectorStroke = eng.Options().ConnectorStroke
	return nil
}

func (sc *Scene) layoutTimeline(ctx context.Context, chart *chartdoc.Chart, tables Tables, bounds geom.Rect, m text.Measurer, r style.Reporter) error {
	doc := chart.Timeline
	if doc == nil {
		doc = &chartdoc.Timeline{}
	}
	if len(tables.Series) != len(doc.Series) {
		return errors.New(errors.ErrCodeInvalidData, "%d series but %d row tables", len(doc.Series), len(tables.Series))
	}
	topts := doc.Options()
	topts.Measurer = m
	topts.Reporter = r

	eng, err := timeline.New(topts)
	if err != nil {
		return err
	}
	cursors := make([]data.Cursor, len(tables.Series))
	for i, tbl := range tables.Series {
		cursors[i] = tbl.Iterator()
	}
	res, err := eng.Layout(cursors, bounds)
	if err != nil {
		return err
	}

	placed := 0
	for _, s := range res.Series {
		for _, pt := range s.Points {
			if !pt.Missing {
				placed++
			}
		}
	}
	observability.Layout().OnStacking(ctx, placed, res.TotalRange.SY, res.TotalRange.EY)

	sc.Timeline = res
	sc.timelineOpts = eng.Options()
	return nil
}

// Relayout rebuilds a scene from a stored layout. Only layouts whose
// document carries inline rows can be rebuilt.
func Relayout(ctx context.Context, l chartdoc.Layout, opts Options) (*Scene, Options, error) {
	if len(l.Chart) == 0 {
		return nil, opts, errors.New(errors.ErrCodeInvalidData, "layout %s has no chart document", l.ID)
	}
	chart, err := chartdoc.DecodeChart(l.Chart, chartdoc.FormatJSON)
	if err != nil {
		return nil, opts, err
	}
	if !chart.Inline() {
		return nil, opts, errors.New(errors.ErrCodeUnsupportedInput, "layout %s references data files", l.ID)
	}
	opts.Chart = chart
	opts.Width, opts.Height = l.Width, l.Height
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, opts, err
	}
	tables, err := LoadTables(ctx, chart, "")
	if err != nil {
		return nil, opts, err
	}
	sc, err := ComputeLayout(ctx, chart, tables, opts)
	return sc, opts, err
}

// encodeChart stores the document with the layout so it can be rebuilt.
func encodeChart(chart *chartdoc.Chart) (json.RawMessage, error) {
	raw, err := chartdoc.EncodeChart(chart, chartdoc.FormatJSON, nil)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// teeReporter forwards warnings to every reporter.
type teeReporter []style.Reporter

func (t teeReporter) Warn(msg any, keyvals ...any) {
	for _, r := range t {
		r.Warn(msg, keyvals...)
	}
}
