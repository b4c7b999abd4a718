package tabular

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/parquet-go/parquet-go"

	"github.com/marlowe-io/persona/internal/common"
	"github.com/marlowe-io/persona/internal/config"
)

// Load reads a dataset from path, dispatching on the file extension,
// and normalizes the recognized optional columns.
func Load(path string, cols config.Columns) (*Table, error) {
	var (
		t   *Table
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err = loadCSV(path)
	case ".parquet":
		t, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, common.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	if err := EnsureColumns(t, cols); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadCSVReader reads a CSV dataset from a stream (an ad-hoc upload)
// and normalizes the recognized optional columns.
func LoadCSVReader(r io.Reader, cols config.Columns) (*Table, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", df.Err)
	}
	t := FromDataFrame(df)
	if err := EnsureColumns(t, cols); err != nil {
		return nil, err
	}
	return t, nil
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, df.Err)
	}
	return FromDataFrame(df), nil
}

func loadParquet(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Customer datasets are flat, so top-level fields are the leaf
	// columns and Value.Column() indexes them in schema order.
	fields := pf.Schema().Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name()
	}

	records := [][]string{names}
	buf := make([]parquet.Row, 128)
	for _, rowGroup := range pf.RowGroups() {
		rows := rowGroup.Rows()
		for {
			n, readErr := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				rec := make([]string, len(names))
				for _, value := range row {
					if col := value.Column(); col >= 0 && col < len(rec) {
						rec[col] = formatValue(value)
					}
				}
				records = append(records, rec)
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to read %s: %w", path, readErr)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("failed to close row reader for %s: %w", path, err)
		}
	}

	if len(records) == 1 {
		empty := make([]series.Series, len(names))
		for i, name := range names {
			empty[i] = series.New([]string{}, series.String, name)
		}
		return FromDataFrame(dataframe.New(empty...)), nil
	}

	df := dataframe.LoadRecords(records)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to build table from %s: %w", path, df.Err)
	}
	return FromDataFrame(df), nil
}

func formatValue(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
