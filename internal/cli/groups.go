package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tsalign/tsplot/pkg/errors"
	"github.com/tsalign/tsplot/pkg/groupviz"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

// groupsOpts holds the command-line flags for the groups command.
type groupsOpts struct {
	axis   string // grouping axis
	format string // dot, svg or png
	output string // output file path (stdout if empty)
}

// groupsCommand creates the groups command visualizing the grouping structure.
func (c *CLI) groupsCommand() *cobra.Command {
	var opts groupsOpts

	cmd := &cobra.Command{
		Use:   "groups <statistics-files...>",
		Short: "Visualize the grouping structure as a Graphviz diagram",
		Long: `Show which statistics files end up in which plot series.

Useful when a chart has more (or fewer) lines than expected: the diagram
makes the grouping keys visible.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGroups(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.axis, "axis", "length", "grouping axis (length, seed, cost)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format (dot, svg, png)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runGroups(ctx context.Context, inputs []string, opts *groupsOpts) error {
	files, err := c.loadFiles(ctx, inputs)
	if err != nil {
		return err
	}
	groups, err := statsfile.GroupFiles(files, opts.axis)
	if err != nil {
		return err
	}

	dot := groupviz.ToDOT(groups, groupviz.Options{Axis: opts.axis})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = groupviz.RenderSVG(dot)
	case "png":
		data, err = groupviz.RenderPNG(dot)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want dot, svg or png)", opts.format)
	}
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		c.Logger.Infof("Wrote %s", opts.output)
	}
	return nil
}
