package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe-io/persona/internal/common"
	"github.com/marlowe-io/persona/internal/config"
	"github.com/marlowe-io/persona/internal/model"
)

func writeDataset(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte(rows), 0600))
	return path
}

func TestRunClassifiesEveryRow(t *testing.T) {
	path := writeDataset(t, "campaign,previous,duration,housing,loan\n"+
		"1,0,0,no,no\n"+
		"2,0,0,yes,yes\n"+
		"3,0,0,no,no\n"+
		"4,0,0,no,no\n"+
		"10,0,0,no,no\n")

	p := New(config.DefaultColumns())
	result, err := p.Run(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, result.Records, 5)
	assert.InDelta(t, 4.0, result.Thresholds.Q75, 1e-9)
	assert.InDelta(t, 3.0, result.Thresholds.Median, 1e-9)
	assert.Equal(t, path, result.Source)

	for _, r := range result.Records {
		assert.True(t, r.Persona.Valid(), "row %d has no persona", r.Row)
	}
}

func TestRunOrderInvariance(t *testing.T) {
	forward := writeDataset(t, "campaign,previous,duration,housing,loan\n"+
		"1,0,0,no,no\n"+
		"2,0,0,yes,yes\n"+
		"3,0,0,no,no\n"+
		"4,0,0,no,no\n"+
		"10,0,0,no,no\n")
	reversed := writeDataset(t, "campaign,previous,duration,housing,loan\n"+
		"10,0,0,no,no\n"+
		"4,0,0,no,no\n"+
		"3,0,0,no,no\n"+
		"2,0,0,yes,yes\n"+
		"1,0,0,no,no\n")

	p1 := New(config.DefaultColumns())
	r1, err := p1.Run(context.Background(), forward)
	require.NoError(t, err)

	p2 := New(config.DefaultColumns())
	r2, err := p2.Run(context.Background(), reversed)
	require.NoError(t, err)

	byEngagement := func(records []model.Record) map[float64]model.Persona {
		out := make(map[float64]model.Persona, len(records))
		for _, r := range records {
			out[r.Engagement] = r.Persona
		}
		return out
	}

	assert.Equal(t, byEngagement(r1.Records), byEngagement(r2.Records))
	assert.Equal(t, r1.Thresholds, r2.Thresholds)
}

func TestRunFailsLoudlyOnBadNumeric(t *testing.T) {
	path := writeDataset(t, "campaign,previous\n2,1\nlots,0\n")

	p := New(config.DefaultColumns())
	_, err := p.Run(context.Background(), path)
	require.Error(t, err)

	var dfErr *common.DataFormatError
	require.ErrorAs(t, err, &dfErr)
	assert.Equal(t, "campaign", dfErr.Column)
}

func TestRunFailsLoudlyOnBlankNumericCell(t *testing.T) {
	// A blank cell must not slip through as NaN and shift the global
	// thresholds for every other row.
	path := writeDataset(t, "campaign,previous\n1,0\n,0\n3,0\n")

	p := New(config.DefaultColumns())
	_, err := p.Run(context.Background(), path)
	require.Error(t, err)

	var dfErr *common.DataFormatError
	require.ErrorAs(t, err, &dfErr)
	assert.Equal(t, "campaign", dfErr.Column)
	assert.Equal(t, 1, dfErr.Row)
	assert.Nil(t, p.Current())
}

func TestRunCSV(t *testing.T) {
	p := New(config.DefaultColumns())
	result, err := p.RunCSV(context.Background(), strings.NewReader("campaign\n1\n5\n"), "upload")
	require.NoError(t, err)

	assert.Len(t, result.Records, 2)
	assert.Equal(t, "upload", result.Source)
	assert.Same(t, result, p.Current())
}

func TestRunMemoizesResult(t *testing.T) {
	path := writeDataset(t, "campaign\n1\n5\n")

	p := New(config.DefaultColumns())
	assert.Nil(t, p.Current())

	result, err := p.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, result, p.Current())
}

func TestRunCanceledContext(t *testing.T) {
	path := writeDataset(t, "campaign\n1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(config.DefaultColumns())
	_, err := p.Run(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunMissingFile(t *testing.T) {
	p := New(config.DefaultColumns())
	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
	assert.Nil(t, p.Current())
}

func TestWithProgress(t *testing.T) {
	path := writeDataset(t, "campaign\n1\n2\n3\n")

	var done, total int
	p := New(config.DefaultColumns(), WithProgress(func(d, n int) { done, total = d, n }))
	_, err := p.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, done)
	assert.Equal(t, 3, total)
}
