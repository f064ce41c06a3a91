// Package pipeline provides the load → aggregate → render pipeline of tsplot.
//
// The pipeline consists of three stages:
//
//  1. Load: read and normalize statistics TOML files
//  2. Aggregate: group runs by parameter signature and merge repeats
//  3. Render: build charts from the groups and render the requested formats
//
// Each stage can be run independently or as part of the complete pipeline.
// Rendered charts are cached keyed by the content hash of the normalized
// input set, so re-plotting an unchanged benchmark corpus is instant.
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tsalign/tsplot/pkg/cache"
	"github.com/tsalign/tsplot/pkg/errors"
	"github.com/tsalign/tsplot/pkg/plot"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

// Options contains all configuration for the plotting pipeline.
type Options struct {
	// Inputs are statistics file or directory paths.
	Inputs []string

	// Config describes the charts to render. Zero value means
	// plot.DefaultConfig().
	Config plot.Config

	// Markers draws median markers on all charts.
	Markers bool

	// Refresh bypasses the chart cache.
	Refresh bool

	// Logger receives progress events. Defaults to a discarding logger.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Inputs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no statistics files given")
	}
	if len(o.Config.Plots) == 0 {
		o.Config = plot.DefaultConfig()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Files are the loaded and normalized statistics files.
	Files []statsfile.File

	// DatasetHash is the content hash of the normalized input set.
	DatasetHash string

	// Artifacts contains rendered charts keyed by "<name>.<format>".
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FileCount     int
	ChartCount    int
	LoadTime      time.Duration
	AggregateTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits of the render stage.
type CacheInfo struct {
	ChartHits   int
	ChartMisses int
}

// datasetHash computes the content hash of a normalized file set.
// JSON is used as the canonical byte representation.
func datasetHash(files []statsfile.File) (string, error) {
	data, err := json.Marshal(files)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
	}
	return cache.Hash(data), nil
}
