package model

// Record is one customer row after feature derivation and
// classification. Raw inputs are kept alongside the derived scores so
// views and exports never need to reach back into the source table.
type Record struct {
	Persona     Persona
	Housing     string
	Loan        string
	Row         int
	Campaign    float64
	Previous    float64
	Duration    float64
	Engagement  float64
	Persistence float64
	Exposure    int
}

// Thresholds holds the global classification statistics computed once
// over the entire loaded table. They are never recomputed per filtered
// view, which keeps persona assignment stable under filtering.
type Thresholds struct {
	Q75    float64
	Median float64
}
