package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tsalign/tsplot/pkg/errors"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

// summaryOpts holds the command-line flags for the summary command.
type summaryOpts struct {
	axis        string // grouping axis
	metric      string // metric to summarize
	interactive bool   // browse groups in a TUI
}

// summaryCommand creates the summary command showing per-group aggregates.
func (c *CLI) summaryCommand() *cobra.Command {
	var opts summaryOpts

	cmd := &cobra.Command{
		Use:   "summary <statistics-files...>",
		Short: "Show per-group aggregates in the terminal",
		Long: `Aggregate repeated runs per group and print min, median, mean and max
of the selected metric. With --interactive, browse groups and their
per-axis breakdown in a terminal UI.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSummary(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.axis, "axis", "length", "grouping axis (length, seed, cost)")
	cmd.Flags().StringVar(&opts.metric, "metric", "runtime", "metric to summarize")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse groups interactively")

	return cmd
}

func (c *CLI) runSummary(ctx context.Context, inputs []string, opts *summaryOpts) error {
	if !slices.Contains(statsfile.MetricNames, opts.metric) {
		return errors.New(errors.ErrCodeInvalidMetric, "unknown metric %q (want one of %s)",
			opts.metric, strings.Join(statsfile.MetricNames, ", "))
	}

	files, err := c.loadFiles(ctx, inputs)
	if err != nil {
		return err
	}
	groups, err := statsfile.GroupFiles(files, opts.axis)
	if err != nil {
		return err
	}

	if opts.interactive {
		return runGroupBrowser(ctx, groups, opts.axis, opts.metric)
	}
	return printSummaryTable(groups, opts.metric)
}

// summaryRow is one aggregated line of the summary table.
type summaryRow struct {
	label                 string
	runs                  int
	min, median, mean, max float64
}

// aggregateGroup folds all samples of a group into a single summary row.
func aggregateGroup(g statsfile.Group, metric string) (summaryRow, error) {
	var samples []statsfile.Statistics
	for _, p := range g.Points {
		samples = append(samples, p.Samples...)
	}

	median, err := statsfile.PiecewiseMedian(samples)
	if err != nil {
		return summaryRow{}, err
	}

	lo := statsfile.MaxStatistics()
	hi := statsfile.MinStatistics()
	sum := statsfile.ZeroStatistics()
	for _, s := range samples {
		lo = lo.PiecewiseMin(s)
		hi = hi.PiecewiseMax(s)
		sum = sum.PiecewiseAdd(s)
	}
	mean := sum.PiecewiseDiv(float64(len(samples)))

	row := summaryRow{label: g.Label, runs: len(samples)}
	for _, pick := range []struct {
		src statsfile.Statistics
		dst *float64
	}{
		{lo, &row.min},
		{median, &row.median},
		{mean, &row.mean},
		{hi, &row.max},
	} {
		v, err := pick.src.Metric(metric)
		if err != nil {
			return summaryRow{}, err
		}
		*pick.dst = v
	}
	return row, nil
}

func printSummaryTable(groups []statsfile.Group, metric string) error {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		row, err := aggregateGroup(g, metric)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			row.label,
			strconv.Itoa(row.runs),
			formatMetric(row.min),
			formatMetric(row.median),
			formatMetric(row.mean),
			formatMetric(row.max),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("GROUP", "RUNS", "MIN", "MEDIAN", "MEAN", "MAX").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if col == 0 {
				return styleValue
			}
			return lipgloss.NewStyle()
		})

	fmt.Println(styleTitle.Render(fmt.Sprintf("Summary of %s", metric)))
	fmt.Println(t.Render())
	return nil
}

// formatMetric renders a metric value with four significant digits.
func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
