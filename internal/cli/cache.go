package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsalign/tsplot/pkg/cache"
)

// cacheCommand creates the cache command with info and clear subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the chart cache",
		Long: fmt.Sprintf(`Inspect or clear the local chart cache (~/.cache/%s/).

When %s is set, charts are cached in Redis instead; clearing then
only affects the local directory.`, appName, redisEnv),
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())

	return cmd
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}

			entries, size, err := cacheUsage(fc.Dir())
			if err != nil {
				return err
			}

			printInfo("Location: %s", styleValue.Render(fc.Dir()))
			printInfo("Entries:  %s", styleValue.Render(fmt.Sprintf("%d", entries)))
			printInfo("Size:     %s", styleValue.Render(formatBytes(size)))
			if addr := os.Getenv(redisEnv); addr != "" {
				printInfo("Redis:    %s", styleValue.Render(addr))
			}
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}

			entries, _, err := cacheUsage(fc.Dir())
			if err != nil {
				return err
			}
			if entries == 0 {
				printWarning("Cache at %s is already empty", fc.Dir())
				return nil
			}

			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared %d cached charts at %s", entries, fc.Dir())
			return nil
		},
	}
}

// openFileCache opens the local file cache for inspection, regardless of the
// backend the pipeline would pick.
func (c *CLI) openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// cacheUsage counts the entries and bytes under the cache directory.
// A missing directory counts as an empty cache.
func cacheUsage(dir string) (entries int, size int64, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries++
		size += info.Size()
		return nil
	})
	return entries, size, err
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
