package derive

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe-io/persona/internal/config"
	"github.com/marlowe-io/persona/internal/tabular"
)

func tableFromRecords(t *testing.T, records [][]string) *tabular.Table {
	t.Helper()
	df := dataframe.LoadRecords(records)
	require.NoError(t, df.Err)
	return tabular.FromDataFrame(df)
}

func TestComputeAllColumnsPresent(t *testing.T) {
	table := tableFromRecords(t, [][]string{
		{"campaign", "previous", "duration", "housing", "loan"},
		{"2", "1", "100", "yes", "no"},
		{"1", "0", "50", "no", "no"},
		{"3", "2", "200", "yes", "yes"},
	})

	f, err := Compute(table, config.DefaultColumns())
	require.NoError(t, err)

	// Global max duration is 200.
	assert.InDelta(t, 2+1+100.0/200, f.Engagement[0], 1e-9)
	assert.InDelta(t, 1+0+50.0/200, f.Engagement[1], 1e-9)
	assert.InDelta(t, 3+2+1.0, f.Engagement[2], 1e-9)

	assert.Equal(t, []int{1, 0, 2}, f.Exposure)

	for i, p := range f.Persistence {
		assert.GreaterOrEqual(t, p, 1.0, "persistence_score row %d", i)
		assert.InDelta(t, f.Previous[i]+1, p, 1e-9)
	}
}

func TestComputeAugmentsTableInPlace(t *testing.T) {
	table := tableFromRecords(t, [][]string{
		{"campaign", "previous", "duration", "housing", "loan", "age"},
		{"2", "1", "100", "yes", "no", "41"},
	})

	_, err := Compute(table, config.DefaultColumns())
	require.NoError(t, err)

	for _, col := range []string{ColEngagement, ColPersistence, ColExposure} {
		assert.True(t, table.HasColumn(col), "missing derived column %s", col)
	}
	// Existing columns survive untouched.
	assert.True(t, table.HasColumn("age"))
	assert.Equal(t, []string{"41"}, table.StringColumn("age"))
}

func TestComputeDurationAbsent(t *testing.T) {
	table := tableFromRecords(t, [][]string{
		{"campaign", "previous"},
		{"2", "1"},
		{"4", "0"},
	})

	f, err := Compute(table, config.DefaultColumns())
	require.NoError(t, err)

	// Default duration 0 divided by the epsilon-floored max: the
	// engagement score reduces to campaign + previous.
	assert.InDelta(t, 3.0, f.Engagement[0], 1e-9)
	assert.InDelta(t, 4.0, f.Engagement[1], 1e-9)
	assert.Equal(t, []int{0, 0}, f.Exposure)
}

func TestComputeAllDurationsZero(t *testing.T) {
	table := tableFromRecords(t, [][]string{
		{"campaign", "previous", "duration"},
		{"1", "1", "0"},
		{"2", "0", "0"},
	})

	f, err := Compute(table, config.DefaultColumns())
	require.NoError(t, err)

	assert.InDelta(t, 2.0, f.Engagement[0], 1e-9)
	assert.InDelta(t, 2.0, f.Engagement[1], 1e-9)
}

func TestComputeExposureRange(t *testing.T) {
	table := tableFromRecords(t, [][]string{
		{"housing", "loan"},
		{"yes", "yes"},
		{"yes", "no"},
		{"no", "yes"},
		{"no", "no"},
		{"unknown", "maybe"},
	})

	f, err := Compute(table, config.DefaultColumns())
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1, 1, 0, 0}, f.Exposure)
	for _, e := range f.Exposure {
		assert.Contains(t, []int{0, 1, 2}, e)
	}
}

func TestThresholds(t *testing.T) {
	f := &Features{Engagement: []float64{1, 2, 3, 4, 10}}

	th := f.Thresholds()
	assert.InDelta(t, 4.0, th.Q75, 1e-9)
	assert.InDelta(t, 3.0, th.Median, 1e-9)
}
