package dashboard

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/view"
)

// personaPie builds the donut chart of persona share over the
// filtered view, with the fixed persona color map.
func personaPie(shares []view.Share) *charts.Pie {
	pie := charts.NewPie()

	colors := make([]string, 0, len(shares))
	data := make([]opts.PieData, 0, len(shares))
	for _, s := range shares {
		colors = append(colors, s.Persona.Color())
		data = append(data, opts.PieData{Name: string(s.Persona), Value: s.Count})
	}

	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Persona Distribution"}),
		charts.WithColorsOpts(opts.Colors(colors)),
	)
	pie.AddSeries("personas", data).SetSeriesOptions(
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"45%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: true, Formatter: "{b}: {d}%"}),
	)
	return pie
}

// personaRadar builds the radar chart of the three averaged scores for
// each persona present in the filtered view.
func personaRadar(records []model.Record) *charts.Radar {
	radar := charts.NewRadar()

	present := make([]view.Averages, 0, 4)
	var maxAxis float64
	for _, p := range model.AllPersonas() {
		avg := view.PersonaAverages(records, p)
		if avg.Count == 0 {
			continue
		}
		present = append(present, avg)
		for _, v := range []float64{avg.Engagement, avg.Persistence, avg.Exposure} {
			if v > maxAxis {
				maxAxis = v
			}
		}
	}
	if maxAxis == 0 {
		maxAxis = 1
	}

	radar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Persona Deep Dive"}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator: []*opts.Indicator{
				{Name: "Engagement", Max: float32(maxAxis)},
				{Name: "Persistence", Max: float32(maxAxis)},
				{Name: "Financial Exposure", Max: float32(maxAxis)},
			},
		}),
	)

	for _, avg := range present {
		radar.AddSeries(string(avg.Persona), []opts.RadarData{
			{Name: string(avg.Persona), Value: []float64{avg.Engagement, avg.Persistence, avg.Exposure}},
		}, charts.WithItemStyleOpts(opts.ItemStyle{Color: avg.Persona.Color()}))
	}
	return radar
}

// riskScatter builds the exposure-vs-engagement scatter, one colored
// series per persona.
func riskScatter(records []model.Record) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Risk vs Engagement"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Engagement Score"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Financial Exposure"}),
	)

	byPersona := make(map[model.Persona][]opts.ScatterData, 4)
	for _, r := range records {
		byPersona[r.Persona] = append(byPersona[r.Persona], opts.ScatterData{
			Value: []any{r.Engagement, r.Exposure},
		})
	}

	for _, p := range model.AllPersonas() {
		data := byPersona[p]
		if len(data) == 0 {
			continue
		}
		scatter.AddSeries(string(p), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: p.Color()}))
	}
	return scatter
}

// renderCharts writes the full chart page for a filtered view.
func renderCharts(w io.Writer, records []model.Record) error {
	page := components.NewPage()
	page.PageTitle = "Customer Persona Intelligence"
	page.AddCharts(
		personaPie(view.Distribution(records)),
		personaRadar(records),
		riskScatter(records),
	)
	return page.Render(w)
}
