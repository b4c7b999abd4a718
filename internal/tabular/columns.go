package tabular

import (
	"fmt"

	"github.com/marlowe-io/persona/internal/config"
)

// EnsureColumns synthesizes every recognized optional column that is
// absent from the table, filling the configured default across all
// rows. Present columns are left exactly as loaded.
func EnsureColumns(t *Table, cols config.Columns) error {
	if err := cols.Validate(); err != nil {
		return fmt.Errorf("column configuration: %w", err)
	}

	n := t.Nrow()
	for _, col := range cols.All() {
		if t.HasColumn(col.Name) {
			continue
		}
		if n == 0 {
			// Nothing to fill; an empty table stays empty.
			continue
		}
		switch col.Kind {
		case config.Numeric:
			values := make([]float64, n)
			for i := range values {
				values[i] = col.NumericDefault
			}
			t.SetFloats(col.Name, values)
		case config.Categorical:
			values := make([]string, n)
			for i := range values {
				values[i] = col.StringDefault
			}
			t.SetStrings(col.Name, values)
		}
	}

	return nil
}

// NumericOrDefault reads a numeric column strictly, or synthesizes the
// default when the column is missing entirely.
func NumericOrDefault(t *Table, col config.Column) ([]float64, error) {
	if !t.HasColumn(col.Name) {
		values := make([]float64, t.Nrow())
		for i := range values {
			values[i] = col.NumericDefault
		}
		return values, nil
	}
	return t.NumericColumn(col.Name)
}

// StringOrDefault reads a categorical column, or synthesizes the
// default when the column is missing entirely.
func StringOrDefault(t *Table, col config.Column) []string {
	if !t.HasColumn(col.Name) {
		values := make([]string, t.Nrow())
		for i := range values {
			values[i] = col.StringDefault
		}
		return values
	}
	return t.StringColumn(col.Name)
}
