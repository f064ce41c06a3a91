package statsfile

import (
	"math"
	"testing"

	"github.com/tsalign/tsplot/pkg/errors"
)

func TestUnpackRuntime(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    float64
		wantErr bool
	}{
		{"minutes and seconds", []string{"1:30"}, 90, false},
		{"hours minutes seconds", []string{"01:02:03"}, 3723, false},
		{"fractional seconds", []string{"0:00.25"}, 0.25, false},
		{"user and system time accumulate", []string{"0:01.50", "0:00.50"}, 2, false},
		{"empty input", nil, 0, false},
		{"single part", []string{"90"}, 0, true},
		{"too many parts", []string{"1:2:3:4"}, 0, true},
		{"non-numeric part", []string{"1:xx"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unpackRuntime(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("unpackRuntime(%v) expected error, got %v", tt.raw, got)
				}
				if !errors.Is(err, errors.ErrCodeInvalidRuntime) {
					t.Errorf("unpackRuntime(%v) error code = %v, want %v", tt.raw, errors.GetCode(err), errors.ErrCodeInvalidRuntime)
				}
				return
			}
			if err != nil {
				t.Fatalf("unpackRuntime(%v) error: %v", tt.raw, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("unpackRuntime(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	f := File{
		Parameters: Parameters{
			Aligner:      "tsalign",
			Length:       1000,
			RuntimeRaw:   []string{"1:30", "0:30"},
			MemoryRawKiB: 2048,
		},
		Statistics:           Statistics{Cost: 42},
		TemplateSwitchAmount: 3,
	}

	if err := f.Normalize(); err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	if f.Parameters.Cost != 42 {
		t.Errorf("Parameters.Cost = %d, want 42", f.Parameters.Cost)
	}
	if f.Statistics.Runtime != 120 {
		t.Errorf("Statistics.Runtime = %v, want 120", f.Statistics.Runtime)
	}
	if f.Statistics.Memory != 2048*1024 {
		t.Errorf("Statistics.Memory = %v, want %v", f.Statistics.Memory, 2048*1024)
	}
	if f.Statistics.TemplateSwitches != 3 {
		t.Errorf("Statistics.TemplateSwitches = %v, want 3", f.Statistics.TemplateSwitches)
	}
}

func TestNormalizeTemplateSwitchConflict(t *testing.T) {
	f := File{
		Statistics:           Statistics{TemplateSwitches: 2},
		TemplateSwitchAmount: 3,
	}

	err := f.Normalize()
	if err == nil {
		t.Fatal("Normalize() expected error for double template switch count")
	}
	if !errors.Is(err, errors.ErrCodeInvalidStatistics) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidStatistics)
	}
}

func TestNormalizeInvalidRuntime(t *testing.T) {
	f := File{
		Parameters: Parameters{RuntimeRaw: []string{"not-a-time"}},
	}

	err := f.Normalize()
	if err == nil {
		t.Fatal("Normalize() expected error for invalid runtime")
	}
	if !errors.Is(err, errors.ErrCodeInvalidRuntime) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidRuntime)
	}
}

func TestDecode(t *testing.T) {
	doc := []byte(`
test_sequence_name = "seq1"
aligner = "tsalign"
alignment_method = "astar"
length = 1000
seed = 7
alignment_config = "low-memory"
runtime_raw = ["0:01.50", "0:00.50"]
memory_raw = 4096
ts_node_ord_strategy = "anti-diagonal"

[statistics]
cost = 42
template_switch_amount = 5
opened_nodes = 100
closed_nodes = 90
`)

	f, err := Decode(doc, "run1.toml")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if f.Aligner != "tsalign" {
		t.Errorf("Aligner = %q, want %q", f.Aligner, "tsalign")
	}
	if f.Length != 1000 {
		t.Errorf("Length = %d, want 1000", f.Length)
	}
	if f.Seed != 7 {
		t.Errorf("Seed = %d, want 7", f.Seed)
	}
	if f.NodeOrd != "anti-diagonal" {
		t.Errorf("NodeOrd = %q, want %q", f.NodeOrd, "anti-diagonal")
	}
	if f.Statistics.Runtime != 2 {
		t.Errorf("Runtime = %v, want 2", f.Statistics.Runtime)
	}
	if f.Statistics.Memory != 4096*1024 {
		t.Errorf("Memory = %v, want %v", f.Statistics.Memory, 4096*1024)
	}
	if f.Statistics.TemplateSwitches != 5 {
		t.Errorf("TemplateSwitches = %v, want 5", f.Statistics.TemplateSwitches)
	}
	if f.Path != "run1.toml" {
		t.Errorf("Path = %q, want %q", f.Path, "run1.toml")
	}
}

func TestDecodeInvalidTOML(t *testing.T) {
	_, err := Decode([]byte("aligner = [unclosed"), "bad.toml")
	if err == nil {
		t.Fatal("Decode() expected error for invalid TOML")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestAxisValue(t *testing.T) {
	f := File{Parameters: Parameters{Length: 500, Seed: 13, Cost: 99}}

	tests := []struct {
		axis string
		want float64
	}{
		{"length", 500},
		{"seed", 13},
		{"cost", 99},
	}
	for _, tt := range tests {
		got, err := f.AxisValue(tt.axis)
		if err != nil {
			t.Fatalf("AxisValue(%q) error: %v", tt.axis, err)
		}
		if got != tt.want {
			t.Errorf("AxisValue(%q) = %v, want %v", tt.axis, got, tt.want)
		}
	}

	if _, err := f.AxisValue("nope"); err == nil {
		t.Error("AxisValue(\"nope\") expected error")
	}
}
