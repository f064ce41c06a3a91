package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsalign/tsplot/pkg/cache"
	"github.com/tsalign/tsplot/pkg/plot"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	doc := `
aligner = %q
length = %d
seed = %d
runtime_raw = ["0:%02d"]
memory_raw = %d

[statistics]
cost = 10
`
	i := 0
	for _, aligner := range []string{"fast", "slow"} {
		for _, length := range []int{100, 200} {
			for seed := 1; seed <= 2; seed++ {
				i++
				name := fmt.Sprintf("%s_%d_%d.toml", aligner, length, seed)
				content := fmt.Sprintf(doc, aligner, length, seed, i, 1024*i)
				if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
		}
	}
	return dir
}

func TestExecute(t *testing.T) {
	dir := writeCorpus(t)
	r := NewRunner(nil, nil, nil)

	result, err := r.Execute(context.Background(), Options{Inputs: []string{dir}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Stats.FileCount != 8 {
		t.Errorf("FileCount = %d, want 8", result.Stats.FileCount)
	}
	// Default config: runtime and memory charts, SVG each.
	if len(result.Artifacts) != 2 {
		t.Fatalf("len(Artifacts) = %d, want 2", len(result.Artifacts))
	}
	for _, name := range []string{"runtime.svg", "memory.svg"} {
		data, ok := result.Artifacts[name]
		if !ok {
			t.Errorf("missing artifact %s", name)
			continue
		}
		if !strings.HasPrefix(string(data), "<svg") {
			t.Errorf("artifact %s is not SVG", name)
		}
	}
	if result.DatasetHash == "" {
		t.Error("DatasetHash is empty")
	}
	if result.CacheInfo.ChartHits != 0 || result.CacheInfo.ChartMisses != 2 {
		t.Errorf("CacheInfo = %+v, want 0 hits, 2 misses on cold cache", result.CacheInfo)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	dir := writeCorpus(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, Options{Inputs: []string{dir}})
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if first.CacheInfo.ChartHits != 0 {
		t.Errorf("first run hits = %d, want 0", first.CacheInfo.ChartHits)
	}

	second, err := r.Execute(ctx, Options{Inputs: []string{dir}})
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if second.CacheInfo.ChartHits != 2 {
		t.Errorf("second run hits = %d, want 2", second.CacheInfo.ChartHits)
	}
	if second.DatasetHash != first.DatasetHash {
		t.Error("dataset hash changed for identical inputs")
	}

	// Refresh bypasses the cache.
	third, err := r.Execute(ctx, Options{Inputs: []string{dir}, Refresh: true})
	if err != nil {
		t.Fatalf("third Execute() error: %v", err)
	}
	if third.CacheInfo.ChartHits != 0 {
		t.Errorf("refresh run hits = %d, want 0", third.CacheInfo.ChartHits)
	}
}

func TestDatasetHashIgnoresLocation(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	first, err := r.Execute(ctx, Options{Inputs: []string{writeCorpus(t)}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	// The same corpus in a different directory is the same dataset.
	second, err := r.Execute(ctx, Options{Inputs: []string{writeCorpus(t)}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if first.DatasetHash != second.DatasetHash {
		t.Errorf("dataset hash differs for relocated corpus: %s vs %s", first.DatasetHash, second.DatasetHash)
	}
}

func TestExecuteNoInputs(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{}); err == nil {
		t.Error("Execute() without inputs expected error")
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	dir := writeCorpus(t)
	r := NewRunner(nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Execute(ctx, Options{Inputs: []string{dir}}); err == nil {
		t.Error("Execute() with cancelled context expected error")
	}
}

func TestRenderChartUnknownFormat(t *testing.T) {
	groups := []statsfile.Group{{
		Label:  "g",
		Points: []statsfile.Merged{{Min: statsfile.Statistics{Runtime: 1}, Max: statsfile.Statistics{Runtime: 1}, Mean: statsfile.Statistics{Runtime: 1}, Median: statsfile.Statistics{Runtime: 1}, Key: 100}},
	}}

	r := NewRunner(nil, nil, nil)
	spec := plot.Spec{Name: "x", X: "length", Y: "runtime", Width: 100, Height: 100}
	if _, err := r.RenderChart(groups, spec, "pdf", false); err == nil {
		t.Error("RenderChart() with unknown format expected error")
	}
}
