package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/tabular"
)

func classifiedFixture(t *testing.T) (*tabular.Table, []model.Record) {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"campaign", "persona"},
		{"1", string(model.PersonaExplorer)},
		{"10", string(model.PersonaLoyalist)},
	})
	require.NoError(t, df.Err)

	records := []model.Record{
		{Row: 0, Persona: model.PersonaExplorer, Engagement: 1, Persistence: 1},
		{Row: 1, Persona: model.PersonaLoyalist, Engagement: 10, Persistence: 1},
	}
	return tabular.FromDataFrame(df), records
}

func TestWriteCSV(t *testing.T) {
	table, _ := classifiedFixture(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteCSV(table, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "campaign,persona"))
	assert.Contains(t, content, string(model.PersonaLoyalist))
}

func TestWriteCSVBadPath(t *testing.T) {
	table, _ := classifiedFixture(t)
	assert.Error(t, WriteCSV(table, filepath.Join(t.TempDir(), "missing", "out.csv")))
}

func TestWriteXLSX(t *testing.T) {
	table, records := classifiedFixture(t)
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, WriteXLSX(table, records, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	header, err := f.GetCellValue("Customers", "A1")
	require.NoError(t, err)
	assert.Equal(t, "campaign", header)

	persona, err := f.GetCellValue("Customers", "B3")
	require.NoError(t, err)
	assert.Equal(t, string(model.PersonaLoyalist), persona)

	summaryHeader, err := f.GetCellValue("Personas", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Persona", summaryHeader)

	// One summary row per persona present, in display order.
	first, err := f.GetCellValue("Personas", "A2")
	require.NoError(t, err)
	assert.Equal(t, string(model.PersonaLoyalist), first)
}
