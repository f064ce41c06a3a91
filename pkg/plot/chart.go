package plot

import (
	"github.com/tsalign/tsplot/pkg/errors"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

// Point is one aggregated measurement of a series, in data space.
// Min and Max bound the repeated runs merged into the point.
type Point struct {
	X      float64
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// Series is a labelled line of a chart, sorted by X.
type Series struct {
	Label  string
	Points []Point
}

// Scale maps data values to the unit interval through a transform.
type Scale struct {
	Transform Transform

	lo, hi float64 // transformed bounds
}

// NewScale builds a scale covering [min, max] in data space.
// A degenerate range is padded so division stays well-defined.
func NewScale(t Transform, min, max float64) (Scale, error) {
	lo, err := t.Apply(min)
	if err != nil {
		return Scale{}, err
	}
	hi, err := t.Apply(max)
	if err != nil {
		return Scale{}, err
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	return Scale{Transform: t, lo: lo, hi: hi}, nil
}

// Normalize maps a data value to [0, 1] within the scale's range.
func (s Scale) Normalize(v float64) (float64, error) {
	t, err := s.Transform.Apply(v)
	if err != nil {
		return 0, err
	}
	return (t - s.lo) / (s.hi - s.lo), nil
}

// Chart is a fully resolved, renderable chart.
type Chart struct {
	Title  string
	XLabel string
	YLabel string

	XScale Scale
	YScale Scale
	XTicks []Tick
	YTicks []Tick

	Series []Series
}

// metricLabels maps metrics to human-readable axis labels with units.
var metricLabels = map[string]string{
	"cost":              "cost",
	"runtime":           "runtime [s]",
	"memory":            "memory [bytes]",
	"template_switches": "template switches",
	"opened_nodes":      "opened nodes",
	"closed_nodes":      "closed nodes",
	"length":            "sequence length",
	"seed":              "seed",
}

// Build resolves a spec against grouped statistics into a renderable chart.
// Every x and y value must lie within the domain of the configured
// transforms; values outside (e.g. zero on a log axis) are an error.
func Build(groups []statsfile.Group, spec Spec) (*Chart, error) {
	if len(groups) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "plot %q: no groups to plot", spec.Name)
	}

	xt, err := ParseTransform(spec.XTransform)
	if err != nil {
		return nil, err
	}
	yt, err := ParseTransform(spec.YTransform)
	if err != nil {
		return nil, err
	}

	var (
		series                 []Series
		xMin, xMax, yMin, yMax float64
		first                  = true
	)
	for _, g := range groups {
		s := Series{Label: g.Label, Points: make([]Point, 0, len(g.Points))}
		for _, m := range g.Points {
			p, err := buildPoint(m, spec.Y)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidStatistics, err, "plot %q: group %q", spec.Name, g.Label)
			}
			if first {
				xMin, xMax = p.X, p.X
				yMin, yMax = p.Min, p.Max
				first = false
			} else {
				xMin, xMax = min(xMin, p.X), max(xMax, p.X)
				yMin, yMax = min(yMin, p.Min), max(yMax, p.Max)
			}
			s.Points = append(s.Points, p)
		}
		series = append(series, s)
	}

	xScale, err := NewScale(xt, xMin, xMax)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTransform, err, "plot %q: x axis (%s)", spec.Name, spec.X)
	}
	yScale, err := NewScale(yt, yMin, yMax)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTransform, err, "plot %q: y axis (%s)", spec.Name, spec.Y)
	}

	return &Chart{
		Title:  spec.Title,
		XLabel: axisLabel(spec.X, xt),
		YLabel: axisLabel(spec.Y, yt),
		XScale: xScale,
		YScale: yScale,
		XTicks: Ticks(xt, xMin, xMax, 8),
		YTicks: Ticks(yt, yMin, yMax, 6),
		Series: series,
	}, nil
}

func buildPoint(m statsfile.Merged, metric string) (Point, error) {
	mean, err := m.Mean.Metric(metric)
	if err != nil {
		return Point{}, err
	}
	median, err := m.Median.Metric(metric)
	if err != nil {
		return Point{}, err
	}
	lo, err := m.Min.Metric(metric)
	if err != nil {
		return Point{}, err
	}
	hi, err := m.Max.Metric(metric)
	if err != nil {
		return Point{}, err
	}
	return Point{X: m.Key, Mean: mean, Median: median, Min: lo, Max: hi}, nil
}

func axisLabel(metric string, t Transform) string {
	label := metricLabels[metric]
	if label == "" {
		label = metric
	}
	if _, linear := t.(Linear); !linear {
		label += " (" + t.String() + ")"
	}
	return label
}
