// Package tui implements an interactive terminal explorer over a
// classified dataset: persona toggles, an engagement range, and a
// table of the filtered records.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marlowe-io/persona/internal/cli"
	"github.com/marlowe-io/persona/internal/common"
	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/view"
)

const maxTableRows = 500

// Explorer is the bubbletea model for the interactive session.
type Explorer struct {
	records  []model.Record
	criteria view.Criteria
	table    table.Model
	kpis     view.KPIs
	fullMin  float64
	fullMax  float64
	step     float64
	matched  int
}

// NewExplorer builds an explorer over the full classified dataset.
func NewExplorer(records []model.Record) *Explorer {
	criteria := view.AllCriteria(records)
	min, max := view.EngagementBounds(records)

	step := (max - min) / 20
	if step <= 0 {
		step = 0
	}

	columns := []table.Column{
		{Title: "Row", Width: 6},
		{Title: "Persona", Width: 30},
		{Title: "Engagement", Width: 12},
		{Title: "Persistence", Width: 12},
		{Title: "Exposure", Width: 9},
		{Title: "Housing", Width: 8},
		{Title: "Loan", Width: 6},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	e := &Explorer{
		records:  records,
		criteria: criteria,
		table:    t,
		fullMin:  min,
		fullMax:  max,
		step:     step,
	}
	e.refresh()
	return e
}

// Init implements tea.Model.
func (e *Explorer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return e, tea.Quit
		case "1", "2", "3", "4":
			idx := int(msg.String()[0] - '1')
			p := model.AllPersonas()[idx]
			e.criteria.Personas[p] = !e.criteria.Personas[p]
			e.refresh()
			return e, nil
		case "[":
			e.adjustMin(-e.step)
			return e, nil
		case "]":
			e.adjustMin(e.step)
			return e, nil
		case "{":
			e.adjustMax(-e.step)
			return e, nil
		case "}":
			e.adjustMax(e.step)
			return e, nil
		case "r":
			e.criteria = view.AllCriteria(e.records)
			e.refresh()
			return e, nil
		}
	}

	var cmd tea.Cmd
	e.table, cmd = e.table.Update(msg)
	return e, cmd
}

func (e *Explorer) adjustMin(delta float64) {
	// Single-valued range: the control is not offered.
	if e.step == 0 {
		return
	}
	v := e.criteria.MinEngagement + delta
	if v < e.fullMin {
		v = e.fullMin
	}
	if v > e.criteria.MaxEngagement {
		v = e.criteria.MaxEngagement
	}
	e.criteria.MinEngagement = v
	e.refresh()
}

func (e *Explorer) adjustMax(delta float64) {
	if e.step == 0 {
		return
	}
	v := e.criteria.MaxEngagement + delta
	if v > e.fullMax {
		v = e.fullMax
	}
	if v < e.criteria.MinEngagement {
		v = e.criteria.MinEngagement
	}
	e.criteria.MaxEngagement = v
	e.refresh()
}

func (e *Explorer) refresh() {
	filtered := view.Filter(e.records, e.criteria)
	e.matched = len(filtered)
	e.kpis = view.ComputeKPIs(filtered)

	shown := filtered
	if len(shown) > maxTableRows {
		shown = shown[:maxTableRows]
	}
	rows := make([]table.Row, len(shown))
	for i, r := range shown {
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.Row),
			string(r.Persona),
			fmt.Sprintf("%.3f", r.Engagement),
			fmt.Sprintf("%.1f", r.Persistence),
			fmt.Sprintf("%d", r.Exposure),
			r.Housing,
			r.Loan,
		}
	}
	e.table.SetRows(rows)
}

// View implements tea.Model.
func (e *Explorer) View() string {
	var b strings.Builder

	b.WriteString(cli.TitleStyle.Render("Customer Persona Explorer"))
	b.WriteString("\n")

	for i, p := range model.AllPersonas() {
		marker := "[ ]"
		if e.criteria.Personas[p] {
			marker = "[x]"
		}
		b.WriteString(cli.PersonaStyle(p).Render(fmt.Sprintf("%d %s %s", i+1, marker, p)))
		b.WriteString("  ")
	}
	b.WriteString("\n")

	if e.step == 0 {
		b.WriteString(cli.SubtleStyle.Render(
			fmt.Sprintf("engagement %.3f (single-valued range)", e.fullMin)))
	} else {
		b.WriteString(cli.SubtleStyle.Render(
			fmt.Sprintf("engagement %.3f to %.3f  ([/] min, {/} max, r reset)",
				e.criteria.MinEngagement, e.criteria.MaxEngagement)))
	}
	b.WriteString("\n\n")

	b.WriteString(e.table.View())
	b.WriteString("\n")

	footer := fmt.Sprintf("%d matched | %d personas | high engagement %.1f%% | at risk %.1f%% | q quits",
		e.matched, e.kpis.ActivePersonas, e.kpis.HighEngagementPct, e.kpis.AtRiskPct)
	b.WriteString(lipgloss.NewStyle().Foreground(cli.SubtleColor).Render(footer))
	b.WriteString("\n")

	return b.String()
}

// Run starts the interactive session and blocks until the user quits.
func Run(records []model.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("nothing to explore: %w", common.ErrEmptyTable)
	}

	program := tea.NewProgram(NewExplorer(records), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
