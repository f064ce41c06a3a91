package statsfile

import (
	"fmt"
	"strings"
)

// Strategies holds the strategy selections of a run. The keys appear at the
// top level of the statistics TOML document and default to empty when a
// harness predates the corresponding strategy.
type Strategies struct {
	// NodeOrd is the node ordering strategy of the A* search.
	NodeOrd string `toml:"ts_node_ord_strategy"`

	// TSMinLength is the template switch minimum length strategy.
	TSMinLength string `toml:"ts_min_length_strategy"`
}

// StrategyName identifies one strategy dimension.
type StrategyName string

// Known strategy dimensions, in display order.
const (
	StrategyNodeOrd     StrategyName = "node_ord"
	StrategyTSMinLength StrategyName = "ts_min_len"
)

// strategyNames fixes the iteration order for comparison and display.
var strategyNames = []StrategyName{StrategyNodeOrd, StrategyTSMinLength}

// Get returns the selected value for the given strategy dimension.
func (s Strategies) Get(name StrategyName) string {
	switch name {
	case StrategyNodeOrd:
		return s.NodeOrd
	case StrategyTSMinLength:
		return s.TSMinLength
	default:
		return ""
	}
}

// Compare orders strategy selections lexicographically by dimension.
func (s Strategies) Compare(o Strategies) int {
	for _, name := range strategyNames {
		if c := strings.Compare(s.Get(name), o.Get(name)); c != 0 {
			return c
		}
	}
	return 0
}

// StrategyStringifier renders strategy suffixes for group labels.
// Only dimensions that take more than one distinct value across the input
// set are included, so labels stay short when a strategy never varies.
type StrategyStringifier struct {
	relevant []StrategyName
}

// NewStrategyStringifier inspects the files and records which strategy
// dimensions actually vary.
func NewStrategyStringifier(files []File) *StrategyStringifier {
	values := make(map[StrategyName]map[string]bool)
	for _, f := range files {
		for _, name := range strategyNames {
			if values[name] == nil {
				values[name] = make(map[string]bool)
			}
			values[name][f.Strategies.Get(name)] = true
		}
	}

	sf := &StrategyStringifier{}
	for _, name := range strategyNames {
		if len(values[name]) > 1 {
			sf.relevant = append(sf.relevant, name)
		}
	}
	return sf
}

// Suffix renders the varying strategies of f as a label suffix,
// e.g. "; node_ord anti-diagonal; ts_min_len lookahead".
// It returns the empty string when no strategy varies.
func (sf *StrategyStringifier) Suffix(f File) string {
	var b strings.Builder
	for _, name := range sf.relevant {
		fmt.Fprintf(&b, "; %s %s", name, f.Strategies.Get(name))
	}
	return b.String()
}
