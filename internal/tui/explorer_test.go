package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe-io/persona/internal/common"
	"github.com/marlowe-io/persona/internal/model"
)

func explorerRecords() []model.Record {
	return []model.Record{
		{Row: 0, Persona: model.PersonaExplorer, Engagement: 1, Persistence: 1},
		{Row: 1, Persona: model.PersonaStressed, Engagement: 2, Persistence: 1, Exposure: 2},
		{Row: 2, Persona: model.PersonaModerate, Engagement: 3, Persistence: 1},
		{Row: 3, Persona: model.PersonaLoyalist, Engagement: 10, Persistence: 1},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewExplorerStartsUnfiltered(t *testing.T) {
	e := NewExplorer(explorerRecords())

	assert.Equal(t, 4, e.matched)
	for _, p := range model.AllPersonas() {
		assert.True(t, e.criteria.Personas[p])
	}
}

func TestTogglePersona(t *testing.T) {
	e := NewExplorer(explorerRecords())

	// "1" toggles the first persona (Loyalist) off.
	m, _ := e.Update(keyMsg("1"))
	e = m.(*Explorer)

	assert.False(t, e.criteria.Personas[model.PersonaLoyalist])
	assert.Equal(t, 3, e.matched)

	// Toggling again restores it.
	m, _ = e.Update(keyMsg("1"))
	e = m.(*Explorer)
	assert.Equal(t, 4, e.matched)
}

func TestAdjustRange(t *testing.T) {
	e := NewExplorer(explorerRecords())
	require.Greater(t, e.step, 0.0)

	// Raising the minimum excludes the lowest-engagement record.
	m, _ := e.Update(keyMsg("]"))
	e = m.(*Explorer)
	m, _ = e.Update(keyMsg("]"))
	e = m.(*Explorer)
	m, _ = e.Update(keyMsg("]"))
	e = m.(*Explorer)

	assert.Less(t, e.matched, 4)
	assert.Greater(t, e.criteria.MinEngagement, 1.0)
}

func TestResetRestoresFullView(t *testing.T) {
	e := NewExplorer(explorerRecords())

	m, _ := e.Update(keyMsg("2"))
	e = m.(*Explorer)
	m, _ = e.Update(keyMsg("]"))
	e = m.(*Explorer)
	require.Less(t, e.matched, 4)

	m, _ = e.Update(keyMsg("r"))
	e = m.(*Explorer)
	assert.Equal(t, 4, e.matched)
}

func TestSingleValuedRangeSuppressesControl(t *testing.T) {
	records := []model.Record{
		{Persona: model.PersonaLoyalist, Engagement: 5, Persistence: 1},
		{Persona: model.PersonaLoyalist, Engagement: 5, Persistence: 1},
	}
	e := NewExplorer(records)
	assert.Equal(t, 0.0, e.step)

	m, _ := e.Update(keyMsg("]"))
	e = m.(*Explorer)
	assert.Equal(t, 2, e.matched)
	assert.Contains(t, e.View(), "single-valued range")
}

func TestViewListsPersonaToggles(t *testing.T) {
	e := NewExplorer(explorerRecords())
	out := e.View()

	for _, p := range model.AllPersonas() {
		assert.True(t, strings.Contains(out, string(p)), "view missing persona %s", p)
	}
}

func TestQuitKey(t *testing.T) {
	e := NewExplorer(explorerRecords())

	_, cmd := e.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRunRejectsEmptyDataset(t *testing.T) {
	err := Run(nil)
	assert.ErrorIs(t, err, common.ErrEmptyTable)
}
