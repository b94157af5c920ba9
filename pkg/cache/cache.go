// Package cache provides pluggable byte caches and cache key generation for
// the render pipeline. Stage results are cached under content-derived keys:
// identical inputs with identical options always map to the same key.
package cache

import (
	"context"
	"time"
)

// Default TTLs per pipeline stage. Graph and layout results are cheap to
// recompute, artifacts less so, but all keys are content-derived so stale
// entries cannot be served for changed inputs.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// GraphKeyOpts captures the parse options that affect the resulting graph.
type GraphKeyOpts struct {
	DefaultKind string `json:"default_kind"`
}

// LayoutKeyOpts captures the layout configuration that affects geometry.
type LayoutKeyOpts struct {
	NodeWidth          float64 `json:"node_width"`
	NodeHeight         float64 `json:"node_height"`
	LayerGap           float64 `json:"layer_gap"`
	RowGap             float64 `json:"row_gap"`
	SizeFromLabel      bool    `json:"size_from_label"`
	GlyphWidthEstimate float64 `json:"glyph_width_estimate"`
	MinNodeWidth       float64 `json:"min_node_width"`
	BackEdgeSide       string  `json:"back_edge_side"`
	RefinePasses       int     `json:"refine_passes"`
}

// ArtifactKeyOpts captures the render options that affect output bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Theme  string `json:"theme"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// GraphKey generates a key for a parsed graph, from the spec text hash
	// and the parse options.
	GraphKey(specHash string, opts GraphKeyOpts) string

	// LayoutKey generates a key for a layout result, from the graph hash
	// and the layout configuration.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, from the layout
	// hash and the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hierarchical keys of the form stage:sha256(parts).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for graph caching.
func (k *DefaultKeyer) GraphKey(specHash string, opts GraphKeyOpts) string {
	return hashKey("graph", specHash, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
