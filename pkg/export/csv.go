// Package export writes tabular summaries of statistics files.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/tsalign/tsplot/pkg/errors"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

// Column is a named CSV column with an accessor producing its cell value.
type Column struct {
	Name  string
	Value func(f statsfile.File) string
}

// Columns is the registry of available CSV columns, in canonical order.
var Columns = []Column{
	{"aligner", func(f statsfile.File) string { return f.Aligner }},
	{"alignment_method", func(f statsfile.File) string { return f.AlignmentMethod }},
	{"test_sequence_name", func(f statsfile.File) string { return f.TestSequenceName }},
	{"length", func(f statsfile.File) string { return strconv.Itoa(f.Length) }},
	{"seed", func(f statsfile.File) string { return strconv.FormatUint(f.Seed, 10) }},
	{"cost", func(f statsfile.File) string { return strconv.FormatUint(f.Parameters.Cost, 10) }},
	{"runtime_seconds", func(f statsfile.File) string { return formatFloat(f.Statistics.Runtime) }},
	{"memory_bytes", func(f statsfile.File) string { return formatFloat(f.Statistics.Memory) }},
	{"template_switches", func(f statsfile.File) string { return formatFloat(f.Statistics.TemplateSwitches) }},
	{"opened_nodes", func(f statsfile.File) string { return formatFloat(f.Statistics.OpenedNodes) }},
	{"closed_nodes", func(f statsfile.File) string { return formatFloat(f.Statistics.ClosedNodes) }},
}

// DefaultColumns is the column selection used when none is given:
// the runtime/memory comparison table.
var DefaultColumns = []string{"aligner", "runtime_seconds", "memory_bytes"}

// ColumnNames lists the names of all registered columns.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// lookupColumns resolves column names against the registry.
func lookupColumns(names []string) ([]Column, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		found := false
		for _, c := range Columns {
			if c.Name == name {
				cols = append(cols, c)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown column %q (available: %s)",
				name, strings.Join(ColumnNames(), ", "))
		}
	}
	return cols, nil
}

// WriteCSV writes one row per statistics file with the selected columns.
// An empty selection uses [DefaultColumns].
func WriteCSV(files []statsfile.File, names []string, w io.Writer) error {
	if len(names) == 0 {
		names = DefaultColumns
	}
	cols, err := lookupColumns(names)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for _, f := range files {
		for i, c := range cols {
			row[i] = c.Value(f)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
