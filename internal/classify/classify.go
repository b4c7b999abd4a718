// Package classify implements the rule-based persona classifier.
package classify

import (
	"github.com/marlowe-io/persona/internal/derive"
	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/tabular"
)

// ColPersona is the column added to the table by Apply.
const ColPersona = "persona"

// Assign maps one row's scores to a persona using the ordered
// first-match rule. The rule is total: the final branch guarantees a
// label for every input, and order is significant — a row with both
// high engagement and high exposure is a Loyalist, never a Stressed
// Repeater, because the engagement rule is checked first.
func Assign(engagement float64, exposure int, th model.Thresholds) model.Persona {
	switch {
	case engagement >= th.Q75:
		return model.PersonaLoyalist
	case exposure >= 2:
		return model.PersonaStressed
	case engagement < th.Median:
		return model.PersonaExplorer
	default:
		return model.PersonaModerate
	}
}

// Apply assigns a persona to every row, augments the table with the
// persona column, and returns the fully classified records.
func Apply(t *tabular.Table, f *derive.Features, th model.Thresholds) []model.Record {
	n := f.Len()
	records := make([]model.Record, n)
	labels := make([]string, n)

	for i := 0; i < n; i++ {
		p := Assign(f.Engagement[i], f.Exposure[i], th)
		labels[i] = string(p)
		records[i] = model.Record{
			Row:         i,
			Campaign:    f.Campaign[i],
			Previous:    f.Previous[i],
			Duration:    f.Duration[i],
			Housing:     f.Housing[i],
			Loan:        f.Loan[i],
			Engagement:  f.Engagement[i],
			Persistence: f.Persistence[i],
			Exposure:    f.Exposure[i],
			Persona:     p,
		}
	}

	if n > 0 {
		t.SetStrings(ColPersona, labels)
	}

	return records
}
