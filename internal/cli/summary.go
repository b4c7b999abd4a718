package cli

import (
	"fmt"
	"strings"

	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/view"
)

// RenderKPIs renders the four headline metrics as a tile row.
func RenderKPIs(k view.KPIs) string {
	return TileRow(
		Tile("Total Customers", fmt.Sprintf("%d", k.TotalCustomers)),
		Tile("Active Personas", fmt.Sprintf("%d", k.ActivePersonas)),
		Tile("High Engagement", fmt.Sprintf("%.1f%%", k.HighEngagementPct)),
		Tile("At Risk", fmt.Sprintf("%.1f%%", k.AtRiskPct)),
	)
}

// RenderDistribution renders persona shares as colored lines.
func RenderDistribution(shares []view.Share) string {
	var b strings.Builder
	for _, s := range shares {
		line := fmt.Sprintf("%-30s %6d  %5.1f%%", s.Persona, s.Count, s.Pct)
		b.WriteString(PersonaStyle(s.Persona).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderAverages renders a persona's score averages.
func RenderAverages(a view.Averages) string {
	header := PersonaStyle(a.Persona).Bold(true).Render(string(a.Persona))
	body := fmt.Sprintf("  engagement %.2f  persistence %.2f  exposure %.2f  (%d customers)",
		a.Engagement, a.Persistence, a.Exposure, a.Count)
	return header + "\n" + SubtleStyle.Render(body)
}

// RenderThresholds shows the global classification cutoffs.
func RenderThresholds(th model.Thresholds) string {
	return SubtleStyle.Render(fmt.Sprintf("engagement q75 %.4f, median %.4f", th.Q75, th.Median))
}
