// Package observability lets callers watch the pipeline without coupling it
// to a metrics or tracing library.
//
// The layout engines are pure functions and never log. Everything that wants
// to be observed (table loading, layout passes, overlap-correction
// convergence, cache traffic, API requests) is reported through the hook
// interfaces below. Consumers register implementations at startup; until
// then every call lands on a no-op.
//
// Register an implementation once, before the first chart is processed:
//
//	observability.SetLayoutHooks(overlapMetrics{})
//
// and emit from library code through the accessor:
//
//	observability.Pipeline().OnLayoutStart(ctx, "funnel", rows)
//	// ... run the layout pass ...
//	observability.Pipeline().OnLayoutComplete(ctx, "funnel", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the chart pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, rows int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, chartType string, rows int)
	OnLayoutComplete(ctx context.Context, chartType string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives summaries of finished layout passes.
type LayoutHooks interface {
	// OnOverlapCorrection reports how many scan/reposition cycles the label
	// overlap correction used, how many domains survived, and whether the
	// iteration cap stopped it before it converged.
	OnOverlapCorrection(ctx context.Context, chartType string, iterations, domains int, capped bool)

	// OnCenterShift reports the final horizontal center of a pyramid or
	// funnel and how many labels had their width forced.
	OnCenterShift(ctx context.Context, chartType string, centerX float64, forced int)

	// OnStacking reports the vertical envelope of a timeline pass.
	OnStacking(ctx context.Context, points int, minY, maxY float64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                        {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)    {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnOverlapCorrection(context.Context, string, int, int, bool) {}
func (NoopLayoutHooks) OnCenterShift(context.Context, string, float64, int)         {}
func (NoopLayoutHooks) OnStacking(context.Context, int, float64, float64)           {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds one registered hook set and falls back to its no-op default.
type slot[T any] struct {
	mu  sync.RWMutex
	cur T
	def T
}

func newSlot[T any](def T) *slot[T] { return &slot[T]{cur: def, def: def} }

func (s *slot[T]) load() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) store(v T) {
	s.mu.Lock()
	s.cur = v
	s.mu.Unlock()
}

func (s *slot[T]) reset() { s.store(s.def) }

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	layoutSlot   = newSlot[LayoutHooks](NoopLayoutHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	serverSlot   = newSlot[ServerHooks](NoopServerHooks{})
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored, as for the
// other setters.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.store(h)
	}
}

func SetLayoutHooks(h LayoutHooks) {
	if h != nil {
		layoutSlot.store(h)
	}
}

func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

func SetServerHooks(h ServerHooks) {
	if h != nil {
		serverSlot.store(h)
	}
}

func Pipeline() PipelineHooks { return pipelineSlot.load() }
func Layout() LayoutHooks     { return layoutSlot.load() }
func Cache() CacheHooks       { return cacheSlot.load() }
func Server() ServerHooks     { return serverSlot.load() }

// Reset puts every slot back to its no-op hooks. Tests call it in cleanup.
func Reset() {
	pipelineSlot.reset()
	layoutSlot.reset()
	cacheSlot.reset()
	serverSlot.reset()
}
