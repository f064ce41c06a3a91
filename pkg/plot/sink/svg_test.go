package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tsalign/tsplot/pkg/plot"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

func testChart(t *testing.T) *plot.Chart {
	t.Helper()
	point := func(key, runtime float64) statsfile.Merged {
		lo := statsfile.Statistics{Runtime: runtime * 0.9}
		hi := statsfile.Statistics{Runtime: runtime * 1.1}
		mid := statsfile.Statistics{Runtime: runtime}
		return statsfile.Merged{Min: lo, Max: hi, Mean: mid, Median: mid, Key: key}
	}
	groups := []statsfile.Group{
		{Label: "fast & simple", Points: []statsfile.Merged{point(100, 1), point(200, 2), point(400, 4)}},
		{Label: "slow", Points: []statsfile.Merged{point(100, 10), point(200, 20), point(400, 40)}},
	}

	chart, err := plot.Build(groups, plot.Spec{Name: "runtime", Title: "Runtime", X: "length", Y: "runtime"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return chart
}

func TestRenderSVG(t *testing.T) {
	data, err := RenderSVG(testChart(t), WithSize(800, 600))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	svg := string(data)

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`width="800" height="600"`,
		"<polyline",
		"Runtime",
		"sequence length",
		"runtime [s]",
		"slow",
		"</svg>",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}

	// Two series, two mean polylines.
	if got := strings.Count(svg, "<polyline"); got != 2 {
		t.Errorf("polyline count = %d, want 2", got)
	}

	// No band or markers unless requested.
	if strings.Contains(svg, "<polygon") {
		t.Error("SVG contains band polygon without WithBand")
	}
}

func TestRenderSVGWithBandAndMarkers(t *testing.T) {
	data, err := RenderSVG(testChart(t), WithBand(), WithMarkers())
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	svg := string(data)

	if got := strings.Count(svg, "<polygon"); got != 2 {
		t.Errorf("band polygon count = %d, want 2", got)
	}
	// One median marker per point per series.
	if got := strings.Count(svg, `fill="white" stroke=`); got != 6 {
		t.Errorf("median marker count = %d, want 6", got)
	}
}

func TestRenderSVGEscapesLabels(t *testing.T) {
	data, err := RenderSVG(testChart(t))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if bytes.Contains(data, []byte("fast & simple")) {
		t.Error("SVG contains unescaped ampersand")
	}
	if !bytes.Contains(data, []byte("fast &amp; simple")) {
		t.Error("SVG missing escaped legend label")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	chart := testChart(t)
	a, err := RenderSVG(chart, WithBand())
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderSVG(chart, WithBand())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("RenderSVG() output differs between identical runs")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testChart(t), WithPNGSize(400, 300), WithPNGBand())
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}

	// PNG magic bytes.
	if len(data) < 8 || !bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}) {
		t.Error("RenderPNG() output is not a PNG")
	}
}

func TestLayoutChartBandPolygon(t *testing.T) {
	f, err := layoutChart(testChart(t), 800, 600)
	if err != nil {
		t.Fatalf("layoutChart() error: %v", err)
	}

	if len(f.Series) != 2 {
		t.Fatalf("len(Series) = %d, want 2", len(f.Series))
	}
	s := f.Series[0]
	// Band closes: 3 max points plus 3 min points.
	if len(s.Band) != 6 {
		t.Errorf("len(Band) = %d, want 6", len(s.Band))
	}
	// Max edge runs left to right, min edge returns right to left.
	if s.Band[0].X != s.Band[5].X || s.Band[2].X != s.Band[3].X {
		t.Error("band polygon edges do not line up")
	}
	// Max is above min (smaller y in pixel space).
	if s.Band[0].Y >= s.Band[5].Y {
		t.Errorf("band max y %v not above min y %v", s.Band[0].Y, s.Band[5].Y)
	}
}
