package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsalign/tsplot/pkg/export"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

// csvOpts holds the command-line flags for the csv command.
type csvOpts struct {
	output  string // output file path (stdout if empty)
	columns string // comma-separated column selection
}

// csvCommand creates the csv command for tabular export.
func (c *CLI) csvCommand() *cobra.Command {
	var opts csvOpts

	cmd := &cobra.Command{
		Use:   "csv <statistics-files...>",
		Short: "Export statistics files as CSV",
		Long: fmt.Sprintf(`Export one CSV row per statistics file.

Directories are walked recursively for *.toml files.

Available columns: %s
Default columns:   %s`,
			strings.Join(export.ColumnNames(), ", "),
			strings.Join(export.DefaultColumns, ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCSV(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.columns, "columns", "", "comma-separated columns (default aligner,runtime_seconds,memory_bytes)")

	return cmd
}

func (c *CLI) runCSV(ctx context.Context, inputs []string, opts *csvOpts) error {
	files, err := c.loadFiles(ctx, inputs)
	if err != nil {
		return err
	}

	var columns []string
	if opts.columns != "" {
		columns = strings.Split(opts.columns, ",")
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := export.WriteCSV(files, columns, out); err != nil {
		return err
	}
	if opts.output != "" {
		c.Logger.Infof("Wrote %s", opts.output)
	}
	return nil
}

// loadFiles loads statistics files with a spinner and progress logging.
func (c *CLI) loadFiles(ctx context.Context, inputs []string) ([]statsfile.File, error) {
	prog := newProgress(c.Logger)
	sp := newSpinner(ctx, fmt.Sprintf("Loading statistics from %d input(s)", len(inputs)))
	files, err := statsfile.Load(inputs)
	sp.stop()
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d statistics files", len(files)))
	return files, nil
}
