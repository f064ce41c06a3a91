// Package groupviz renders the grouping structure of a statistics file set
// as a Graphviz diagram.
//
// The diagram shows which files ended up in which series: the root fans out
// to one node per group label, which fans out to one node per x value with
// the number of merged runs. It exists to debug surprising plots - a group
// that splits in two usually means a strategy or configuration key differs
// when it should not.
package groupviz

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/tsalign/tsplot/pkg/statsfile"
)

// Options configures the diagram.
type Options struct {
	// Axis is the x axis the groups were keyed on, used for point labels.
	Axis string
}

// ToDOT converts grouped statistics to Graphviz DOT format.
func ToDOT(groups []statsfile.Group, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph groups {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	total := 0
	for _, g := range groups {
		for _, p := range g.Points {
			total += len(p.Samples)
		}
	}
	fmt.Fprintf(&buf, "  root [label=\"%d files\\n%d groups\", fillcolor=lightblue];\n", total, len(groups))

	for i, g := range groups {
		groupID := "g" + strconv.Itoa(i)
		fmt.Fprintf(&buf, "  %s [label=%q];\n", groupID, g.Label)
		fmt.Fprintf(&buf, "  root -> %s;\n", groupID)

		for j, p := range g.Points {
			pointID := fmt.Sprintf("%s_p%d", groupID, j)
			label := fmt.Sprintf("%s %s\\n%d runs", opts.Axis, formatKey(p.Key), len(p.Samples))
			fmt.Fprintf(&buf, "  %s [label=\"%s\", fillcolor=lightgrey, fontsize=11];\n", pointID, label)
			fmt.Fprintf(&buf, "  %s -> %s;\n", groupID, pointID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func formatKey(key float64) string {
	return strconv.FormatFloat(key, 'g', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
