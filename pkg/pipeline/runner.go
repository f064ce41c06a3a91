package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tsalign/tsplot/pkg/cache"
	"github.com/tsalign/tsplot/pkg/errors"
	"github.com/tsalign/tsplot/pkg/plot"
	"github.com/tsalign/tsplot/pkg/plot/sink"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the complete load → aggregate → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	files, err := statsfile.Load(opts.Inputs)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Files = files
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.FileCount = len(files)

	hash, err := datasetHash(files)
	if err != nil {
		return nil, err
	}
	result.DatasetHash = hash

	r.Logger.Info("loaded statistics files",
		"files", len(files),
		"duration", result.Stats.LoadTime)

	// Stage 2+3: Aggregate per x axis, render per spec and format.
	// Groups are cached in-process per axis since several specs usually
	// share one.
	groupsByAxis := make(map[string][]statsfile.Group)
	aggregateStart := time.Now()
	for _, spec := range opts.Config.Plots {
		if _, ok := groupsByAxis[spec.X]; ok {
			continue
		}
		groups, err := statsfile.GroupFiles(files, spec.X)
		if err != nil {
			return nil, fmt.Errorf("aggregate: %w", err)
		}
		groupsByAxis[spec.X] = groups
	}
	result.Stats.AggregateTime = time.Since(aggregateStart)

	renderStart := time.Now()
	for _, spec := range opts.Config.Plots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, format := range spec.Formats {
			name := spec.Name + "." + format
			data, hit, err := r.renderCached(ctx, groupsByAxis[spec.X], spec, format, hash, opts)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", name, err)
			}
			if hit {
				result.CacheInfo.ChartHits++
			} else {
				result.CacheInfo.ChartMisses++
			}
			result.Artifacts[name] = data
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.ChartCount = len(result.Artifacts)

	r.Logger.Info("rendered charts",
		"charts", result.Stats.ChartCount,
		"cache_hits", result.CacheInfo.ChartHits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderChart builds and renders a single chart without caching.
func (r *Runner) RenderChart(groups []statsfile.Group, spec plot.Spec, format string, markers bool) ([]byte, error) {
	chart, err := plot.Build(groups, spec)
	if err != nil {
		return nil, err
	}

	switch format {
	case plot.FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithSize(spec.Width, spec.Height)}
		if spec.Band {
			svgOpts = append(svgOpts, sink.WithBand())
		}
		if markers {
			svgOpts = append(svgOpts, sink.WithMarkers())
		}
		return sink.RenderSVG(chart, svgOpts...)
	case plot.FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithPNGSize(spec.Width, spec.Height)}
		if spec.Band {
			pngOpts = append(pngOpts, sink.WithPNGBand())
		}
		if markers {
			pngOpts = append(pngOpts, sink.WithPNGMarkers())
		}
		return sink.RenderPNG(chart, pngOpts...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
}

// renderCached renders a chart, consulting the cache first unless a refresh
// was requested. The second return value reports a cache hit.
func (r *Runner) renderCached(ctx context.Context, groups []statsfile.Group, spec plot.Spec, format, hash string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ChartKey(hash, cache.ChartKeyOpts{
		Name:       spec.Name,
		X:          spec.X,
		Y:          spec.Y,
		XTransform: spec.XTransform,
		YTransform: spec.YTransform,
		Width:      spec.Width,
		Height:     spec.Height,
		Band:       spec.Band,
		Markers:    opts.Markers,
		Format:     format,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			r.Logger.Debug("chart cache hit", "chart", spec.Name, "format", format)
			return data, true, nil
		}
	}

	data, err := r.RenderChart(groups, spec, format, opts.Markers)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Warn("chart cache write failed", "err", err)
	}
	return data, false, nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger != nil {
		r.Logger = opts.Logger
	}
}
