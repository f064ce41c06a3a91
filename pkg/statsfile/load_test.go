package statsfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsalign/tsplot/pkg/errors"
)

const sampleDoc = `
aligner = "tsalign"
length = 100
seed = 1
runtime_raw = ["0:01"]
memory_raw = 1024

[statistics]
cost = 10
`

func writeSample(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir, "run.toml", sampleDoc)

	files, err := Load([]string{path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("len(files) = %d, want 1", len(files))
	}
	if files[0].Path != path {
		t.Errorf("Path = %q, want %q", files[0].Path, path)
	}
	if files[0].Statistics.Runtime != 1 {
		t.Errorf("Runtime = %v, want 1 (normalized)", files[0].Statistics.Runtime)
	}
}

func TestLoadWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "a.toml", sampleDoc)
	writeSample(t, dir, "notes.txt", "not a statistics file")

	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSample(t, sub, "b.toml", sampleDoc)

	files, err := Load([]string{dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("len(files) = %d, want 2 (non-TOML files skipped)", len(files))
	}
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load([]string{"/does/not/exist"})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestLoadEmptyDirectory(t *testing.T) {
	_, err := Load([]string{t.TempDir()})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load() error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestLoadNoPaths(t *testing.T) {
	if _, err := Load(nil); err == nil {
		t.Error("Load(nil) expected error")
	}
}
