package derive

import (
	"github.com/marlowe-io/persona/internal/config"
	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/tabular"
)

// Column names added to the table by Features.
const (
	ColEngagement  = "engagement_score"
	ColPersistence = "persistence_score"
	ColExposure    = "financial_exposure"
)

// Epsilon floors the duration normalization denominator so an
// all-zero (or absent) duration column cannot divide by zero.
const Epsilon = 1e-6

// Features holds the derived per-row scores plus the raw inputs they
// came from, in row order.
type Features struct {
	Campaign    []float64
	Previous    []float64
	Duration    []float64
	Housing     []string
	Loan        []string
	Engagement  []float64
	Persistence []float64
	Exposure    []int
}

// Len returns the number of rows covered.
func (f *Features) Len() int {
	return len(f.Engagement)
}

// Compute derives engagement_score, persistence_score and
// financial_exposure for every row and augments the table in place.
// Existing columns are never removed or renamed. The duration
// normalization denominator is the global maximum over the whole
// table, floored at Epsilon, so engagement is comparable across rows.
func Compute(t *tabular.Table, cols config.Columns) (*Features, error) {
	campaign, err := tabular.NumericOrDefault(t, cols.Campaign)
	if err != nil {
		return nil, err
	}
	previous, err := tabular.NumericOrDefault(t, cols.Previous)
	if err != nil {
		return nil, err
	}
	duration, err := tabular.NumericOrDefault(t, cols.Duration)
	if err != nil {
		return nil, err
	}
	housing := tabular.StringOrDefault(t, cols.Housing)
	loan := tabular.StringOrDefault(t, cols.Loan)

	n := t.Nrow()
	f := &Features{
		Campaign:    campaign,
		Previous:    previous,
		Duration:    duration,
		Housing:     housing,
		Loan:        loan,
		Engagement:  make([]float64, n),
		Persistence: make([]float64, n),
		Exposure:    make([]int, n),
	}

	denom := Max(duration)
	if denom < Epsilon {
		denom = Epsilon
	}

	for i := 0; i < n; i++ {
		f.Engagement[i] = campaign[i] + previous[i] + duration[i]/denom
		f.Persistence[i] = previous[i] + 1
		exposure := 0
		if housing[i] == "yes" {
			exposure++
		}
		if loan[i] == "yes" {
			exposure++
		}
		f.Exposure[i] = exposure
	}

	if n > 0 {
		t.SetFloats(ColEngagement, f.Engagement)
		t.SetFloats(ColPersistence, f.Persistence)
		exposure := make([]float64, n)
		for i, e := range f.Exposure {
			exposure[i] = float64(e)
		}
		t.SetFloats(ColExposure, exposure)
	}

	return f, nil
}

// Thresholds computes the global q75 and median of engagement over the
// entire table. They are computed once, before any filtering, so
// persona assignment stays stable across filter changes.
func (f *Features) Thresholds() model.Thresholds {
	return model.Thresholds{
		Q75:    Quantile(0.75, f.Engagement),
		Median: Median(f.Engagement),
	}
}
