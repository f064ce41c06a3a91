package groupviz

import (
	"strings"
	"testing"

	"github.com/tsalign/tsplot/pkg/statsfile"
)

func testGroups() []statsfile.Group {
	point := func(key float64, runs int) statsfile.Merged {
		return statsfile.Merged{Key: key, Samples: make([]statsfile.Statistics, runs)}
	}
	return []statsfile.Group{
		{Label: "fast (low-memory)", Points: []statsfile.Merged{point(100, 3), point(200, 3)}},
		{Label: "slow", Points: []statsfile.Merged{point(100, 2)}},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGroups(), Options{Axis: "length"})

	for _, want := range []string{
		"digraph groups {",
		`root [label="8 files\n2 groups"`,
		`"fast (low-memory)"`,
		`"slow"`,
		`length 100\n3 runs`,
		`length 200\n3 runs`,
		`length 100\n2 runs`,
		"root -> g0;",
		"root -> g1;",
		"g0 -> g0_p0;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, Options{Axis: "length"})
	if !strings.Contains(dot, `"0 files\n0 groups"`) {
		t.Errorf("DOT for empty input missing root summary:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	data, err := RenderSVG(ToDOT(testGroups(), Options{Axis: "length"}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not SVG")
	}
}
