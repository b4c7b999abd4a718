// Package view filters classified records and computes the aggregates
// the presentation surfaces display. All aggregates are computed from
// the filtered view, never from the full table.
package view

import (
	"github.com/marlowe-io/persona/internal/derive"
	"github.com/marlowe-io/persona/internal/model"
)

// Criteria selects a subset of classified records: a set of persona
// labels plus an inclusive engagement-score range.
type Criteria struct {
	Personas      map[model.Persona]bool
	MinEngagement float64
	MaxEngagement float64
}

// AllCriteria selects every record in records' engagement range. When
// the range collapses to a single value the full single-valued range
// is used implicitly.
func AllCriteria(records []model.Record) Criteria {
	c := Criteria{Personas: make(map[model.Persona]bool, 4)}
	for _, p := range model.AllPersonas() {
		c.Personas[p] = true
	}
	c.MinEngagement, c.MaxEngagement = EngagementBounds(records)
	return c
}

// EngagementBounds returns the min and max engagement over records.
// Both are 0 for an empty slice.
func EngagementBounds(records []model.Record) (min, max float64) {
	if len(records) == 0 {
		return 0, 0
	}
	min, max = records[0].Engagement, records[0].Engagement
	for _, r := range records[1:] {
		if r.Engagement < min {
			min = r.Engagement
		}
		if r.Engagement > max {
			max = r.Engagement
		}
	}
	return min, max
}

// Matches reports whether a record satisfies the criteria.
func (c Criteria) Matches(r model.Record) bool {
	if !c.Personas[r.Persona] {
		return false
	}
	return r.Engagement >= c.MinEngagement && r.Engagement <= c.MaxEngagement
}

// Filter produces the view: the subset of records matching the
// criteria, in input order. The source slice is never mutated.
func Filter(records []model.Record, c Criteria) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// KPIs summarizes a filtered view. An empty view degrades every field
// to zero rather than erroring.
type KPIs struct {
	TotalCustomers int
	ActivePersonas int
	// HighEngagementPct is the share of the view whose engagement
	// exceeds the view's own median.
	HighEngagementPct float64
	// AtRiskPct is the share of the view with financial exposure > 1.
	AtRiskPct float64
}

// ComputeKPIs derives the headline metrics from a filtered view.
func ComputeKPIs(records []model.Record) KPIs {
	if len(records) == 0 {
		return KPIs{}
	}

	engagement := make([]float64, len(records))
	personas := make(map[model.Persona]bool, 4)
	atRisk := 0
	for i, r := range records {
		engagement[i] = r.Engagement
		personas[r.Persona] = true
		if r.Exposure > 1 {
			atRisk++
		}
	}

	med := derive.Median(engagement)
	high := 0
	for _, e := range engagement {
		if e > med {
			high++
		}
	}

	n := float64(len(records))
	return KPIs{
		TotalCustomers:    len(records),
		ActivePersonas:    len(personas),
		HighEngagementPct: float64(high) / n * 100,
		AtRiskPct:         float64(atRisk) / n * 100,
	}
}

// Share is one slice of the persona distribution.
type Share struct {
	Persona model.Persona
	Count   int
	Pct     float64
}

// Distribution returns the normalized persona share over a filtered
// view, in display order, omitting personas with no records.
func Distribution(records []model.Record) []Share {
	counts := make(map[model.Persona]int, 4)
	for _, r := range records {
		counts[r.Persona]++
	}

	out := make([]Share, 0, 4)
	total := float64(len(records))
	for _, p := range model.AllPersonas() {
		if counts[p] == 0 {
			continue
		}
		out = append(out, Share{
			Persona: p,
			Count:   counts[p],
			Pct:     float64(counts[p]) / total * 100,
		})
	}
	return out
}

// Averages holds the per-persona mean of the three derived scores, the
// radar chart's three axes.
type Averages struct {
	Persona     model.Persona
	Engagement  float64
	Persistence float64
	Exposure    float64
	Count       int
}

// PersonaAverages computes score means for one persona within a
// filtered view. A persona absent from the view yields zeros.
func PersonaAverages(records []model.Record, p model.Persona) Averages {
	var engagement, persistence, exposure []float64
	for _, r := range records {
		if r.Persona != p {
			continue
		}
		engagement = append(engagement, r.Engagement)
		persistence = append(persistence, r.Persistence)
		exposure = append(exposure, float64(r.Exposure))
	}

	return Averages{
		Persona:     p,
		Engagement:  derive.Mean(engagement),
		Persistence: derive.Mean(persistence),
		Exposure:    derive.Mean(exposure),
		Count:       len(engagement),
	}
}
