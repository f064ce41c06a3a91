package cli

import (
	"testing"

	"github.com/tsalign/tsplot/pkg/statsfile"
)

func TestAggregateGroup(t *testing.T) {
	point := func(key float64, runtimes ...float64) statsfile.Merged {
		samples := make([]statsfile.Statistics, len(runtimes))
		for i, r := range runtimes {
			samples[i] = statsfile.Statistics{Runtime: r}
		}
		return statsfile.Merged{Key: key, Samples: samples}
	}
	g := statsfile.Group{
		Label:  "fast",
		Points: []statsfile.Merged{point(100, 1, 3), point(200, 5)},
	}

	row, err := aggregateGroup(g, "runtime")
	if err != nil {
		t.Fatalf("aggregateGroup() error: %v", err)
	}

	if row.label != "fast" {
		t.Errorf("label = %q, want %q", row.label, "fast")
	}
	if row.runs != 3 {
		t.Errorf("runs = %d, want 3", row.runs)
	}
	if row.min != 1 {
		t.Errorf("min = %v, want 1", row.min)
	}
	if row.max != 5 {
		t.Errorf("max = %v, want 5", row.max)
	}
	if row.mean != 3 {
		t.Errorf("mean = %v, want 3", row.mean)
	}
	if row.median != 3 {
		t.Errorf("median = %v, want 3", row.median)
	}
}

func TestAggregateGroupUnknownMetric(t *testing.T) {
	g := statsfile.Group{
		Label:  "fast",
		Points: []statsfile.Merged{{Key: 1, Samples: []statsfile.Statistics{{}}}},
	}
	if _, err := aggregateGroup(g, "speed"); err == nil {
		t.Error("aggregateGroup() with unknown metric expected error")
	}
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{2, "2"},
		{1.5, "1.5"},
		{1234567, "1.235e+06"},
		{0.000123, "0.000123"},
	}
	for _, tt := range tests {
		if got := formatMetric(tt.v); got != tt.want {
			t.Errorf("formatMetric(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
