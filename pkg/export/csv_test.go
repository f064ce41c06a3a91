package export

import (
	"strings"
	"testing"

	"github.com/tsalign/tsplot/pkg/errors"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

func testFiles() []statsfile.File {
	return []statsfile.File{
		{
			Parameters: statsfile.Parameters{Aligner: "fast", Length: 100, Seed: 1},
			Statistics: statsfile.Statistics{Runtime: 1.5, Memory: 1048576},
		},
		{
			Parameters: statsfile.Parameters{Aligner: "slow", Length: 100, Seed: 2},
			Statistics: statsfile.Statistics{Runtime: 12, Memory: 2097152},
		},
	}
}

func TestWriteCSVDefaultColumns(t *testing.T) {
	var buf strings.Builder
	if err := WriteCSV(testFiles(), nil, &buf); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	want := "aligner,runtime_seconds,memory_bytes\n" +
		"fast,1.5,1048576\n" +
		"slow,12,2097152\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCSVSelectedColumns(t *testing.T) {
	var buf strings.Builder
	err := WriteCSV(testFiles(), []string{"aligner", "length", "seed"}, &buf)
	if err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	want := "aligner,length,seed\n" +
		"fast,100,1\n" +
		"slow,100,2\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCSVUnknownColumn(t *testing.T) {
	var buf strings.Builder
	err := WriteCSV(testFiles(), []string{"aligner", "speed"}, &buf)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestColumnNamesComplete(t *testing.T) {
	names := ColumnNames()
	if len(names) != len(Columns) {
		t.Fatalf("len(ColumnNames()) = %d, want %d", len(names), len(Columns))
	}
	for _, def := range DefaultColumns {
		found := false
		for _, n := range names {
			if n == def {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("default column %q not in registry", def)
		}
	}
}
