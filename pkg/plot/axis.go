// Package plot builds renderable charts from aggregated statistics.
//
// A chart is produced in two steps: [Build] resolves a [Spec] against
// grouped statistics into a [Chart] with scales and ticks, and the sink
// subpackage renders the chart to SVG or PNG.
package plot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tsalign/tsplot/pkg/errors"
)

// Transform maps data values into axis space. Apply returns an error when
// the value is outside the transform's domain (e.g. log of a non-positive
// value); ApplyInverse is total.
type Transform interface {
	Apply(v float64) (float64, error)
	ApplyInverse(v float64) float64
	fmt.Stringer
}

// Linear is the identity transform.
type Linear struct{}

// Apply returns v unchanged.
func (Linear) Apply(v float64) (float64, error) { return v, nil }

// ApplyInverse returns v unchanged.
func (Linear) ApplyInverse(v float64) float64 { return v }

func (Linear) String() string { return "linear" }

// Log10 transforms values by the decadic logarithm.
type Log10 struct{}

// Apply returns log10(v). Non-positive values are outside the domain.
func (Log10) Apply(v float64) (float64, error) {
	if v <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidTransform, "log10 of non-positive value %v", v)
	}
	return math.Log10(v), nil
}

// ApplyInverse returns 10^v.
func (Log10) ApplyInverse(v float64) float64 { return math.Pow(10, v) }

func (Log10) String() string { return "log10" }

// PolynomialRoot transforms values by the degree-th root.
type PolynomialRoot struct {
	Degree float64
}

// Apply returns v^(1/degree). Negative values are outside the domain.
func (t PolynomialRoot) Apply(v float64) (float64, error) {
	if v < 0 {
		return 0, errors.New(errors.ErrCodeInvalidTransform, "%s of negative value %v", t, v)
	}
	return math.Pow(v, 1/t.Degree), nil
}

// ApplyInverse returns v^degree.
func (t PolynomialRoot) ApplyInverse(v float64) float64 { return math.Pow(v, t.Degree) }

func (t PolynomialRoot) String() string {
	return strconv.FormatFloat(t.Degree, 'g', -1, 64) + "-th root"
}

// ParseTransform parses a transform from its configuration string:
// "linear", "log", or "root:N" for the N-th root.
func ParseTransform(s string) (Transform, error) {
	switch {
	case s == "" || s == "linear":
		return Linear{}, nil
	case s == "log":
		return Log10{}, nil
	case strings.HasPrefix(s, "root:"):
		degree, err := strconv.ParseFloat(strings.TrimPrefix(s, "root:"), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTransform, err, "transform %q", s)
		}
		if degree <= 0 || math.IsNaN(degree) || math.IsInf(degree, 0) {
			return nil, errors.New(errors.ErrCodeInvalidTransform, "transform %q: degree must be positive and finite", s)
		}
		return PolynomialRoot{Degree: degree}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidTransform, "unknown transform %q (want linear, log, or root:N)", s)
	}
}
