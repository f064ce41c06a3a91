// Package cache provides pluggable byte caches for aggregation results.
//
// Loading and normalizing hundreds of statistics files is cheap enough to
// repeat, but grouping and chart building over large benchmark corpora is
// not; the pipeline caches those intermediates keyed by the content hash of
// the input set. Backends:
//   - file: directory-based cache for CLI usage (XDG cache dir)
//   - redis: shared cache for benchmark clusters
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached aggregation results stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache stores opaque byte values under string keys with optional expiry.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// DatasetKey identifies a loaded and normalized statistics file set.
	DatasetKey(contentHash string) string

	// ChartKey identifies a rendered chart for a dataset.
	ChartKey(contentHash string, opts ChartKeyOpts) string
}

// ChartKeyOpts captures everything that changes a rendered chart.
type ChartKeyOpts struct {
	Name       string
	X          string
	Y          string
	XTransform string
	YTransform string
	Width      float64
	Height     float64
	Band       bool
	Markers    bool
	Format     string
}

// DefaultKeyer generates stable hash-based keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DatasetKey generates a key for a normalized statistics file set.
func (k *DefaultKeyer) DatasetKey(contentHash string) string {
	return hashKey("dataset", contentHash)
}

// ChartKey generates a key for a rendered chart.
func (k *DefaultKeyer) ChartKey(contentHash string, opts ChartKeyOpts) string {
	return hashKey("chart", contentHash, opts)
}
