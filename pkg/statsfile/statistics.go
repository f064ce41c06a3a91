package statsfile

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/tsalign/tsplot/pkg/errors"
)

// Statistics holds the normalized measurements of a single aligner run.
// Runtime is in seconds, memory in bytes. All values must stay finite;
// aggregation functions return ErrCodeNonFinite when they do not.
type Statistics struct {
	Cost             float64 `toml:"cost"`
	Runtime          float64 `toml:"runtime"`
	Memory           float64 `toml:"memory"`
	TemplateSwitches float64 `toml:"template_switch_amount"`
	OpenedNodes      float64 `toml:"opened_nodes"`
	ClosedNodes      float64 `toml:"closed_nodes"`
}

// MetricNames lists the statistics metrics in canonical order.
var MetricNames = []string{
	"cost",
	"runtime",
	"memory",
	"template_switches",
	"opened_nodes",
	"closed_nodes",
}

// fields maps metric names to accessors, in MetricNames order.
// Piecewise operations iterate this table so new metrics only need one entry.
var fields = []struct {
	name string
	get  func(*Statistics) *float64
}{
	{"cost", func(s *Statistics) *float64 { return &s.Cost }},
	{"runtime", func(s *Statistics) *float64 { return &s.Runtime }},
	{"memory", func(s *Statistics) *float64 { return &s.Memory }},
	{"template_switches", func(s *Statistics) *float64 { return &s.TemplateSwitches }},
	{"opened_nodes", func(s *Statistics) *float64 { return &s.OpenedNodes }},
	{"closed_nodes", func(s *Statistics) *float64 { return &s.ClosedNodes }},
}

// Metric returns the value of the named metric.
func (s Statistics) Metric(name string) (float64, error) {
	for _, f := range fields {
		if f.name == name {
			return *f.get(&s), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidMetric, "unknown metric: %s", name)
}

// ZeroStatistics returns statistics with all metrics set to zero.
func ZeroStatistics() Statistics {
	return Statistics{}
}

// MinStatistics returns statistics with all metrics at -Inf.
// Used as the identity element for piecewise max.
func MinStatistics() Statistics {
	return fill(math.Inf(-1))
}

// MaxStatistics returns statistics with all metrics at +Inf.
// Used as the identity element for piecewise min.
func MaxStatistics() Statistics {
	return fill(math.Inf(1))
}

func fill(v float64) Statistics {
	var s Statistics
	for _, f := range fields {
		*f.get(&s) = v
	}
	return s
}

// PiecewiseMin returns the per-metric minimum of s and o.
func (s Statistics) PiecewiseMin(o Statistics) Statistics {
	return s.combine(o, math.Min)
}

// PiecewiseMax returns the per-metric maximum of s and o.
func (s Statistics) PiecewiseMax(o Statistics) Statistics {
	return s.combine(o, math.Max)
}

// PiecewiseAdd returns the per-metric sum of s and o.
func (s Statistics) PiecewiseAdd(o Statistics) Statistics {
	return s.combine(o, func(a, b float64) float64 { return a + b })
}

// PiecewiseDiv divides every metric by the given divisor.
func (s Statistics) PiecewiseDiv(divisor float64) Statistics {
	var out Statistics
	for _, f := range fields {
		*f.get(&out) = *f.get(&s) / divisor
	}
	return out
}

func (s Statistics) combine(o Statistics, op func(a, b float64) float64) Statistics {
	var out Statistics
	for _, f := range fields {
		*f.get(&out) = op(*f.get(&s), *f.get(&o))
	}
	return out
}

// PiecewiseMedian computes the median of every metric across the samples:
// the middle element for odd counts, the mean of the two middle elements
// for even counts.
func PiecewiseMedian(samples []Statistics) (Statistics, error) {
	if len(samples) == 0 {
		return Statistics{}, errors.New(errors.ErrCodeInvalidInput, "median of empty sample set")
	}

	var out Statistics
	values := make([]float64, len(samples))
	for _, f := range fields {
		for i := range samples {
			values[i] = *f.get(&samples[i])
		}
		m, err := stats.Median(values)
		if err != nil {
			return Statistics{}, errors.Wrap(errors.ErrCodeInternal, err, "median of %s", f.name)
		}
		*f.get(&out) = m
	}
	return out, nil
}

// CheckFinite returns an error if any metric is NaN or infinite.
func (s Statistics) CheckFinite() error {
	for _, f := range fields {
		v := *f.get(&s)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeNonFinite, "%s is not finite: %v", f.name, v)
		}
	}
	return nil
}
