package tabular

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe-io/persona/internal/config"
)

func TestEnsureColumnsKeepsPresentValues(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"campaign", "housing"},
		{"7", "yes"},
	})
	require.NoError(t, df.Err)
	table := FromDataFrame(df)

	require.NoError(t, EnsureColumns(table, config.DefaultColumns()))

	campaign, err := table.NumericColumn("campaign")
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, campaign)
	assert.Equal(t, []string{"yes"}, table.StringColumn("housing"))
	assert.Equal(t, []string{"no"}, table.StringColumn("loan"))
}

func TestEnsureColumnsInvalidConfig(t *testing.T) {
	df := dataframe.LoadRecords([][]string{{"a"}, {"1"}})
	require.NoError(t, df.Err)
	table := FromDataFrame(df)

	cols := config.DefaultColumns()
	cols.Housing.StringDefault = ""
	assert.Error(t, EnsureColumns(table, cols))
}

func TestNumericOrDefaultMissingColumn(t *testing.T) {
	df := dataframe.LoadRecords([][]string{{"other"}, {"x"}, {"y"}})
	require.NoError(t, df.Err)
	table := FromDataFrame(df)

	values, err := NumericOrDefault(table, config.DefaultColumns().Duration)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, values)
}

func TestStringOrDefaultMissingColumn(t *testing.T) {
	df := dataframe.LoadRecords([][]string{{"other"}, {"x"}})
	require.NoError(t, df.Err)
	table := FromDataFrame(df)

	assert.Equal(t, []string{"no"}, StringOrDefault(table, config.DefaultColumns().Loan))
}
