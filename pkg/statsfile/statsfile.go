// Package statsfile models the TOML statistics files written by tsalign
// benchmark runs.
//
// Each file records the parameters of one run (aligner, sequence, seed,
// strategy selections, resource limits) together with the measured results.
// Raw measurements are stored the way the benchmark harness emits them:
// runtimes as "mm:ss" or "hh:mm:ss" strings and memory in kibibytes.
// [File.Normalize] converts them into the uniform [Statistics] representation
// used by aggregation and plotting.
package statsfile

import (
	"strconv"
	"strings"

	"github.com/tsalign/tsplot/pkg/errors"
)

// File is one decoded statistics file.
//
// Parameter keys live at the top level of the TOML document; measurements
// live in the [statistics] table. TemplateSwitchAmount is a top-level
// fallback used by harnesses that count template switches outside the
// aligner; Normalize folds it into Statistics.
type File struct {
	Parameters

	Statistics           Statistics `toml:"statistics"`
	TemplateSwitchAmount uint64     `toml:"template_switch_amount"`

	// Path records where the file was loaded from. Informational only;
	// excluded from the dataset fingerprint so a relocated corpus keeps
	// its cached charts.
	Path string `toml:"-" json:"-"`
}

// Parameters describes the configuration of a benchmark run.
type Parameters struct {
	TestSequenceName string   `toml:"test_sequence_name"`
	Aligner          string   `toml:"aligner"`
	AlignmentMethod  string   `toml:"alignment_method"`
	Length           int      `toml:"length"`
	Seed             uint64   `toml:"seed"`
	AlignmentConfig  string   `toml:"alignment_config"`
	RQRange          string   `toml:"rq_range"`
	CostLimit        string   `toml:"cost_limit"`
	MemoryLimit      string   `toml:"memory_limit"`
	RuntimeRaw       []string `toml:"runtime_raw"`

	// MemoryRawKiB is the peak memory as reported by the harness, in kibibytes.
	MemoryRawKiB uint64 `toml:"memory_raw"`

	// Cost is filled from the statistics block during Normalize.
	Cost uint64 `toml:"-"`

	Strategies
}

// Normalize converts raw measurements into the uniform statistics
// representation. It must be called exactly once after decoding:
//   - runtime_raw entries are summed into Statistics.Runtime (seconds),
//   - memory_raw is converted from kibibytes to bytes,
//   - cost is propagated into Parameters,
//   - a top-level template switch count replaces a zero statistics value.
func (f *File) Normalize() error {
	f.Parameters.Cost = uint64(f.Statistics.Cost)

	runtime, err := unpackRuntime(f.RuntimeRaw)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRuntime, err, "statistics file %s", f.Path)
	}
	f.Statistics.Runtime = runtime
	f.Statistics.Memory = float64(f.MemoryRawKiB) * 1024

	if f.TemplateSwitchAmount > 0 {
		if f.Statistics.TemplateSwitches != 0 {
			return errors.New(errors.ErrCodeInvalidStatistics,
				"statistics file %s: template switch count given both in [statistics] (%v) and at top level (%d)",
				f.Path, f.Statistics.TemplateSwitches, f.TemplateSwitchAmount)
		}
		f.Statistics.TemplateSwitches = float64(f.TemplateSwitchAmount)
	}

	if err := f.Statistics.CheckFinite(); err != nil {
		return errors.Wrap(errors.ErrCodeNonFinite, err, "statistics file %s", f.Path)
	}
	return nil
}

// unpackRuntime sums the raw runtime strings into seconds.
// Each entry has two or three colon-separated parts ("mm:ss" or "hh:mm:ss");
// parts may carry fractional seconds. Entries accumulate because a run can
// report user and system time separately.
func unpackRuntime(raw []string) (float64, error) {
	var total float64
	for _, entry := range raw {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return 0, errors.New(errors.ErrCodeInvalidRuntime,
				"runtime %q: want 2 or 3 colon-separated parts, got %d", entry, len(parts))
		}

		factor := 1.0
		for i := len(parts) - 1; i >= 0; i-- {
			v, err := strconv.ParseFloat(parts[i], 64)
			if err != nil {
				return 0, errors.Wrap(errors.ErrCodeInvalidRuntime, err, "runtime %q", entry)
			}
			total += v * factor
			factor *= 60
		}
	}
	return total, nil
}

// AxisNames lists the parameter axes usable as plot x values.
var AxisNames = []string{"length", "seed", "cost"}

// AxisValue returns the value of the given parameter axis.
// Valid axes are "length", "seed" and "cost".
func (f File) AxisValue(axis string) (float64, error) {
	switch axis {
	case "length":
		return float64(f.Length), nil
	case "seed":
		return float64(f.Seed), nil
	case "cost":
		return float64(f.Parameters.Cost), nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidMetric, "unknown axis: %s (want one of %s)",
			axis, strings.Join(AxisNames, ", "))
	}
}
