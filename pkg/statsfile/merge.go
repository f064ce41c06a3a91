package statsfile

import (
	"cmp"
	"slices"

	"github.com/tsalign/tsplot/pkg/errors"
)

// Merged aggregates repeated runs that share a group and x value.
// Min, Max, Mean and Median are piecewise over all contained samples.
type Merged struct {
	Min    Statistics
	Max    Statistics
	Mean   Statistics
	Median Statistics

	// Samples are the statistics of the contained runs.
	Samples []Statistics

	// Key is the x value the runs share (e.g. the sequence length).
	Key float64
}

// Merge aggregates the statistics of the given files under the given key.
// It returns an error for an empty input or when aggregation produces a
// non-finite value.
func Merge(key float64, files []File) (Merged, error) {
	if len(files) == 0 {
		return Merged{}, errors.New(errors.ErrCodeInvalidInput, "merge of empty file set (key %v)", key)
	}

	samples := make([]Statistics, len(files))
	for i, f := range files {
		samples[i] = f.Statistics
	}

	median, err := PiecewiseMedian(samples)
	if err != nil {
		return Merged{}, err
	}

	m := Merged{
		Min:     MaxStatistics(),
		Max:     MinStatistics(),
		Mean:    ZeroStatistics(),
		Median:  median,
		Samples: samples,
		Key:     key,
	}
	for _, s := range samples {
		m.Min = m.Min.PiecewiseMin(s)
		m.Max = m.Max.PiecewiseMax(s)
		m.Mean = m.Mean.PiecewiseAdd(s)
	}
	m.Mean = m.Mean.PiecewiseDiv(float64(len(samples)))

	for _, s := range []Statistics{m.Min, m.Max, m.Mean, m.Median} {
		if err := s.CheckFinite(); err != nil {
			return Merged{}, err
		}
	}
	return m, nil
}

// Group is a labelled series of merged runs, sorted by key.
type Group struct {
	Label  string
	Points []Merged
}

// GroupFiles partitions files into labelled series. Files sharing a label
// (aligner, configuration and varying strategies) form one group; within a
// group, files sharing the same value on the given axis are merged.
// Groups are sorted by label, points by key.
func GroupFiles(files []File, axis string) ([]Group, error) {
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no statistics files given")
	}

	sf := NewStrategyStringifier(files)
	byLabel := make(map[string]map[float64][]File)
	for _, f := range files {
		key, err := f.AxisValue(axis)
		if err != nil {
			return nil, err
		}
		label := GroupLabel(f, sf)
		if byLabel[label] == nil {
			byLabel[label] = make(map[float64][]File)
		}
		byLabel[label][key] = append(byLabel[label][key], f)
	}

	groups := make([]Group, 0, len(byLabel))
	for label, byKey := range byLabel {
		g := Group{Label: label, Points: make([]Merged, 0, len(byKey))}
		for key, runs := range byKey {
			m, err := Merge(key, runs)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidStatistics, err, "group %q", label)
			}
			g.Points = append(g.Points, m)
		}
		slices.SortFunc(g.Points, func(a, b Merged) int { return cmp.Compare(a.Key, b.Key) })
		groups = append(groups, g)
	}
	slices.SortFunc(groups, func(a, b Group) int { return cmp.Compare(a.Label, b.Label) })

	return groups, nil
}

// GroupLabel derives the series label of a file: the aligner name, the
// alignment configuration when present, and the strategy suffix for
// strategies that vary across the input set.
func GroupLabel(f File, sf *StrategyStringifier) string {
	label := f.Aligner
	if f.AlignmentConfig != "" {
		label += " (" + f.AlignmentConfig + ")"
	}
	return label + sf.Suffix(f)
}
