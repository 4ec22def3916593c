// Package cache stores chart layouts and rendered artifacts keyed by the
// content that produced them.
//
// A layout pass is deterministic: identical data, settings and bounds
// always produce identical geometry. That makes every result safely
// cacheable under a hash of its inputs. Three backends implement [Cache]:
//
//   - [FileCache] for the CLI (one JSON file per entry under a cache dir)
//   - [RedisCache] for the HTTP API when several servers share results
//   - [NullCache] to disable caching
//
// Keys are produced by a [Keyer] so callers never hand-build key strings.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	LayoutTTL = 7 * 24 * time.Hour
	RenderTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored data and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the inputs of a layout pass besides the chart document.
type LayoutKeyOpts struct {
	ChartType string  `json:"chart_type"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	State     string  `json:"state,omitempty"`
	Measurer  string  `json:"measurer,omitempty"`
}

// RenderKeyOpts are the inputs of a render besides the layout.
type RenderKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
	Hover      bool    `json:"hover,omitempty"`
	Scroll     float64 `json:"scroll,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey identifies a parsed chart document by its source bytes.
	DocumentKey(source []byte) string

	// LayoutKey identifies a layout computed from a document hash.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// RenderKey identifies a rendered artifact computed from a layout hash.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) DocumentKey(source []byte) string {
	return "doc:" + Hash(source)
}

func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

func (DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}
