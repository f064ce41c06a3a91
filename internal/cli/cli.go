// Package cli implements the tsplot command-line interface.
//
// tsplot computes statistics over the TOML output files of tsalign benchmark
// runs and renders plots. The main commands are:
//   - plot: render charts (SVG, PNG) driven by a plot configuration
//   - csv: export tabular summaries
//   - summary: per-group aggregates in the terminal
//   - groups: visualize the grouping structure as a Graphviz diagram
//   - serve: browse generated plots over HTTP
//   - cache: manage the chart cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tsalign/tsplot/pkg/buildinfo"
	"github.com/tsalign/tsplot/pkg/cache"
	"github.com/tsalign/tsplot/pkg/pipeline"
)

const (
	// appName is the application name used for directories and display.
	appName = "tsplot"

	// redisEnv names the environment variable selecting a Redis cache backend.
	redisEnv = "TSPLOT_REDIS_ADDR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "tsplot",
		Short:        "tsplot plots statistics of tsalign benchmark runs",
		Long:         `tsplot reads the TOML statistics files written by tsalign benchmark runs, aggregates repeated runs, and renders comparison charts and tabular exports.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.plotCommand())
	root.AddCommand(c.csvCommand())
	root.AddCommand(c.summaryCommand())
	root.AddCommand(c.groupsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

// newCache selects the cache backend: disabled, Redis when TSPLOT_REDIS_ADDR
// is set, otherwise the file cache. A missing cache directory degrades to no
// caching instead of failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(redisEnv); addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err != nil {
			c.Logger.Warnf("Redis cache unavailable (%v), falling back to file cache", err)
		} else {
			return rc, nil
		}
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/tsplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
