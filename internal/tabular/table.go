// Package tabular loads customer datasets into an in-memory table and
// normalizes the optional columns the pipeline depends on.
package tabular

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/marlowe-io/persona/internal/common"
)

// Table wraps a gota DataFrame. Extra columns from the source file are
// preserved untouched; only the recognized optional columns are ever
// synthesized or read.
type Table struct {
	df dataframe.DataFrame
}

// FromDataFrame wraps an existing DataFrame.
func FromDataFrame(df dataframe.DataFrame) *Table {
	return &Table{df: df}
}

// DataFrame exposes the underlying frame for export and rendering.
func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df
}

// Nrow returns the number of data rows.
func (t *Table) Nrow() int {
	if t.df.Err != nil {
		return 0
	}
	return t.df.Nrow()
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// NumericColumn reads a column as float64 values. Unlike the frame's
// own coercion, any value that does not parse as a finite number fails
// loudly with a DataFormatError naming the column and row. Blank cells
// count: the frame renders them as "NaN", which ParseFloat would
// otherwise accept, and a NaN engagement score silently shifts the
// global thresholds for every row.
func (t *Table) NumericColumn(name string) ([]float64, error) {
	records := t.df.Col(name).Records()
	out := make([]float64, len(records))
	for i, raw := range records {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &common.DataFormatError{Column: name, Row: i, Value: raw}
		}
		out[i] = v
	}
	return out, nil
}

// StringColumn reads a column as raw string values.
func (t *Table) StringColumn(name string) []string {
	return t.df.Col(name).Records()
}

// SetFloats adds or replaces a float column.
func (t *Table) SetFloats(name string, values []float64) {
	t.df = t.df.Mutate(series.New(values, series.Float, name))
}

// SetStrings adds or replaces a string column.
func (t *Table) SetStrings(name string, values []string) {
	t.df = t.df.Mutate(series.New(values, series.String, name))
}

// Records returns the table as CSV-shaped records, header row first.
func (t *Table) Records() [][]string {
	return t.df.Records()
}

// WriteCSV streams the table as CSV.
func (t *Table) WriteCSV(w io.Writer) error {
	return t.df.WriteCSV(w)
}
