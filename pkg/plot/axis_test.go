package plot

import (
	"math"
	"testing"

	"github.com/tsalign/tsplot/pkg/errors"
)

func TestTransformRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		v    float64
	}{
		{"linear", Linear{}, 42},
		{"log10", Log10{}, 1000},
		{"square root", PolynomialRoot{Degree: 2}, 16},
		{"cube root", PolynomialRoot{Degree: 3}, 27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, err := tt.tr.Apply(tt.v)
			if err != nil {
				t.Fatalf("Apply(%v) error: %v", tt.v, err)
			}
			back := tt.tr.ApplyInverse(applied)
			if math.Abs(back-tt.v) > 1e-9 {
				t.Errorf("ApplyInverse(Apply(%v)) = %v, want %v", tt.v, back, tt.v)
			}
		})
	}
}

func TestTransformApply(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		v    float64
		want float64
	}{
		{"linear identity", Linear{}, -3, -3},
		{"log10 of 100", Log10{}, 100, 2},
		{"square root of 9", PolynomialRoot{Degree: 2}, 9, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tr.Apply(tt.v)
			if err != nil {
				t.Fatalf("Apply(%v) error: %v", tt.v, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Apply(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestTransformDomainErrors(t *testing.T) {
	if _, err := (Log10{}).Apply(0); !errors.Is(err, errors.ErrCodeInvalidTransform) {
		t.Errorf("Log10.Apply(0) error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTransform)
	}
	if _, err := (Log10{}).Apply(-1); err == nil {
		t.Error("Log10.Apply(-1) expected error")
	}
	if _, err := (PolynomialRoot{Degree: 2}).Apply(-4); err == nil {
		t.Error("PolynomialRoot.Apply(-4) expected error")
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "linear", false},
		{"linear", "linear", false},
		{"log", "log10", false},
		{"root:2", "2-th root", false},
		{"root:2.5", "2.5-th root", false},
		{"root:0", "", true},
		{"root:-1", "", true},
		{"root:x", "", true},
		{"sqrt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tr, err := ParseTransform(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTransform(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTransform(%q) error: %v", tt.in, err)
			}
			if tr.String() != tt.want {
				t.Errorf("ParseTransform(%q).String() = %q, want %q", tt.in, tr.String(), tt.want)
			}
		})
	}
}
