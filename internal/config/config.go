// Package config provides configuration types and utilities for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marlowe-io/persona/internal/common"
)

// Default dataset locations probed when no --input flag is given.
// Parquet takes precedence over CSV.
var DefaultDataPaths = []string{
	"data/processed_data.parquet",
	"data/processed_data.csv",
}

// ColumnKind distinguishes numeric columns from categorical ones.
type ColumnKind int

// Column kinds.
const (
	Numeric ColumnKind = iota
	Categorical
)

// Column describes one recognized optional input column and the value
// synthesized for every row when the column is absent.
type Column struct {
	Name           string
	NumericDefault float64
	StringDefault  string
	Kind           ColumnKind
}

// Columns enumerates the optional columns the pipeline understands.
// Anything else in the input is preserved and ignored.
type Columns struct {
	Campaign Column
	Previous Column
	Duration Column
	Housing  Column
	Loan     Column
}

// DefaultColumns returns the standard column configuration: counts and
// durations default to 0, liabilities default to "no".
func DefaultColumns() Columns {
	return Columns{
		Campaign: Column{Name: "campaign", Kind: Numeric, NumericDefault: 0},
		Previous: Column{Name: "previous", Kind: Numeric, NumericDefault: 0},
		Duration: Column{Name: "duration", Kind: Numeric, NumericDefault: 0},
		Housing:  Column{Name: "housing", Kind: Categorical, StringDefault: "no"},
		Loan:     Column{Name: "loan", Kind: Categorical, StringDefault: "no"},
	}
}

// All returns the columns in derivation order.
func (c Columns) All() []Column {
	return []Column{c.Campaign, c.Previous, c.Duration, c.Housing, c.Loan}
}

// Validate checks the column configuration once at load time.
func (c Columns) Validate() error {
	seen := make(map[string]bool, 5)
	for _, col := range c.All() {
		if col.Name == "" {
			return fmt.Errorf("%w: column name is required", common.ErrMissingConfig)
		}
		if seen[col.Name] {
			return fmt.Errorf("%w: duplicate column %q", common.ErrInvalidConfig, col.Name)
		}
		seen[col.Name] = true
		if col.Kind == Categorical && col.StringDefault == "" {
			return fmt.Errorf("%w: categorical column %q needs a default", common.ErrInvalidConfig, col.Name)
		}
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DiscoverInput resolves the dataset path: an explicit path wins, then
// the default locations are probed in order. A missing dataset is a
// user-facing condition, not a crash.
func DiscoverInput(explicit string) (string, error) {
	if explicit != "" {
		p := ExpandPath(explicit)
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("input %s: %w", p, common.ErrNoInput)
		}
		return p, nil
	}

	for _, p := range DefaultDataPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", common.ErrNoInput
}
