// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/marlowe-io/persona/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#1f77b4")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#2ca02c")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#ff7f0e")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#d62728")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// tileStyle frames one KPI tile.
	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 2).
			Align(lipgloss.Center)

	tileLabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	tileValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// PersonaStyle returns a style carrying the persona's fixed color.
func PersonaStyle(p model.Persona) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color()))
}

// Tile renders one KPI tile with a label and a value.
func Tile(label, value string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		tileValueStyle.Render(value),
		tileLabelStyle.Render(label),
	)
	return tileStyle.Render(content)
}

// TileRow joins tiles horizontally.
func TileRow(tiles ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}
