package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/observability"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner keeps no pipeline results. Multiple goroutines can use the
// same Runner with different options; each run owns its layout pass.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	fontOnce sync.Once
	font     *text.FontMeasurer
	fontErr  error
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := r.applyMeasurer(&opts); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	tables, err := LoadTables(ctx, opts.Chart, opts.BaseDir)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = tables.Rows()
	if result.DocumentHash, err = DocumentHash(opts.Chart, tables); err != nil {
		return nil, err
	}

	opts.Logger.Debug("loaded rows",
		"kind", opts.Kind(),
		"rows", result.Stats.Rows,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	scene, layout, layoutHit, err := r.layoutWithCacheInfo(ctx, tables, result.DocumentHash, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Warnings = layout.Warnings
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"kind", opts.Kind(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, scene, layout, tables, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout runs the load and layout stages only.
func (r *Runner) Layout(ctx context.Context, opts Options) (chartdoc.Layout, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return chartdoc.Layout{}, err
	}
	if err := r.applyMeasurer(&opts); err != nil {
		return chartdoc.Layout{}, err
	}
	tables, err := LoadTables(ctx, opts.Chart, opts.BaseDir)
	if err != nil {
		return chartdoc.Layout{}, err
	}
	hash, err := DocumentHash(opts.Chart, tables)
	if err != nil {
		return chartdoc.Layout{}, err
	}
	_, l, _, err := r.layoutWithCacheInfo(ctx, tables, hash, opts)
	return l, err
}

// RenderLayout renders a stored layout by running its document again.
func (r *Runner) RenderLayout(ctx context.Context, l chartdoc.Layout, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := r.applyMeasurer(&opts); err != nil {
		return nil, err
	}
	sc, opts, err := Relayout(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	return Render(ctx, sc, opts)
}

// ExecuteBatch runs several charts concurrently, at most limit at a time.
// Results keep the order of jobs; the first error cancels the rest.
func (r *Runner) ExecuteBatch(ctx context.Context, jobs []Options, limit int) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, opts := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Execute(ctx, opts)
			if err != nil {
				return errors.Wrap(codeOf(err), err, "chart %d", i)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// layoutWithCacheInfo returns the layout for a document hash. On a cache
// hit the scene is nil; the render stage computes it only if needed.
func (r *Runner) layoutWithCacheInfo(ctx context.Context, tables Tables, docHash string, opts Options) (*Scene, chartdoc.Layout, bool, error) {
	key := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := chartdoc.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return nil, l, true, nil
			}
			// Unreadable entries fall through to a fresh pass.
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	sc, err := ComputeLayout(ctx, opts.Chart, tables, opts)
	if err != nil {
		return nil, chartdoc.Layout{}, false, err
	}
	l := sc.Layout()
	if l.Chart, err = encodeChart(opts.Chart); err != nil {
		return nil, chartdoc.Layout{}, false, err
	}

	if data, err := chartdoc.MarshalLayout(l); err == nil {
		r.store(ctx, "layout", key, data, cache.LayoutTTL, opts)
	}
	return sc, l, false, nil
}

// renderWithCacheInfo returns artifacts for every format, rendering only
// when at least one format is missing from the cache.
func (r *Runner) renderWithCacheInfo(ctx context.Context, sc *Scene, l chartdoc.Layout, tables Tables, opts Options) (map[string][]byte, bool, error) {
	layoutData, err := chartdoc.MarshalLayout(l)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "render")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	if sc == nil {
		if sc, err = ComputeLayout(ctx, opts.Chart, tables, opts); err != nil {
			return nil, false, err
		}
	}
	artifacts, err := Render(ctx, sc, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range artifacts {
		r.store(ctx, "render", r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format)), data, cache.RenderTTL, opts)
	}
	return artifacts, false, nil
}

// store writes a cache entry. Cache failures never fail a run.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration, opts Options) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.font != nil {
		_ = r.font.Close()
	}
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
// Engine warnings go to the same logger unless a reporter is given.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Reporter == nil {
		opts.Reporter = opts.Logger
	}
}

// applyMeasurer supplies the shared font measurer.
func (r *Runner) applyMeasurer(opts *Options) error {
	if opts.TextMeasurer != nil {
		return nil
	}
	if opts.Measurer == MeasurerEstimate {
		opts.TextMeasurer = text.Estimator{}
		return nil
	}
	r.fontOnce.Do(func() {
		r.font, r.fontErr = text.NewFontMeasurer(nil)
	})
	if r.fontErr != nil {
		return errors.Wrap(errors.ErrCodeInternal, r.fontErr, "load measuring font")
	}
	opts.TextMeasurer = r.font
	return nil
}

func codeOf(err error) errors.Code {
	if c := errors.GetCode(err); c != "" {
		return c
	}
	return errors.ErrCodeInternal
}
