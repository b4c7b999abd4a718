// Package derive computes the engineered features and the global
// classification statistics for a loaded customer table.
package derive

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Quantile computes the p-quantile of values using linear
// interpolation between closest ranks, the same method pandas and
// NumPy default to: position = p * (n - 1) on the sorted sample.
// gonum's CumulantKind variants implement different conventions, so
// threshold computation carries its own implementation; all other
// summary statistics use gonum.
func Quantile(p float64, values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Median is the 0.5 quantile.
func Median(values []float64) float64 {
	return Quantile(0.5, values)
}

// Mean averages values, returning 0 for an empty slice so KPI
// rendering degrades to a defined zero state.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Max returns the largest value, or 0 for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
