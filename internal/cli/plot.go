package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tsalign/tsplot/pkg/errors"
	"github.com/tsalign/tsplot/pkg/pipeline"
	"github.com/tsalign/tsplot/pkg/plot"
)

// plotOpts holds the command-line flags for the plot command.
type plotOpts struct {
	config    string   // plot configuration file
	outputDir string   // directory for rendered charts
	formats   []string // format override for all charts
	markers   bool     // draw median markers
	refresh   bool     // bypass the chart cache
	noCache   bool     // disable caching entirely
}

// plotCommand creates the plot command, the main rendering entry point.
func (c *CLI) plotCommand() *cobra.Command {
	var opts plotOpts

	cmd := &cobra.Command{
		Use:   "plot <statistics-files...>",
		Short: "Render charts from statistics files",
		Long: `Render comparison charts from tsalign statistics files.

Without --config, a default configuration plotting runtime and memory
against sequence length is used. Charts are cached by dataset content,
so re-plotting unchanged inputs is instant.`,
		Example: `  # Default charts into the current directory
  tsplot plot results/

  # Custom chart configuration, PNG only
  tsplot plot --config plots.toml --format png -o charts/ results/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlot(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "plot configuration file (TOML)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", ".", "directory for rendered charts")
	cmd.Flags().StringSliceVar(&opts.formats, "format", nil, "override output formats for all charts (svg, png)")
	cmd.Flags().BoolVar(&opts.markers, "markers", false, "draw median markers")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even on cache hit")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the chart cache")

	return cmd
}

func (c *CLI) runPlot(ctx context.Context, inputs []string, opts *plotOpts) error {
	cfg, err := c.loadPlotConfig(opts.config)
	if err != nil {
		return err
	}
	if len(opts.formats) > 0 {
		for _, f := range opts.formats {
			if !plot.ValidFormats[f] {
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
			}
		}
		for i := range cfg.Plots {
			cfg.Plots[i].Formats = opts.formats
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	sp := newSpinner(ctx, "Rendering charts")
	result, err := runner.Execute(ctx, pipeline.Options{
		Inputs:  inputs,
		Config:  cfg,
		Markers: opts.markers,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	sp.stop()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return err
	}
	names := make([]string, 0, len(result.Artifacts))
	for name := range result.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(opts.outputDir, name)
		if err := os.WriteFile(path, result.Artifacts[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printSuccess("%s", path)
	}

	prog.done(fmt.Sprintf("Rendered %d charts from %d files (%d cached)",
		result.Stats.ChartCount, result.Stats.FileCount, result.CacheInfo.ChartHits))
	return nil
}

// loadPlotConfig reads the plot configuration, falling back to the default
// chart set when no file is given.
func (c *CLI) loadPlotConfig(path string) (plot.Config, error) {
	if path == "" {
		c.Logger.Debug("using default plot configuration")
		return plot.DefaultConfig(), nil
	}
	return plot.LoadConfig(path)
}
