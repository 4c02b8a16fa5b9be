package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"oilpulse/internal/dataset"
)

// Descriptive summarizes one numeric column
type Descriptive struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Describe computes descriptive statistics over the non-null values of a
// slice. An empty slice yields a zero-count summary with NaN statistics.
func Describe(column string, values []float64) Descriptive {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}

	d := Descriptive{
		Column: column,
		Count:  len(present),
		Mean:   math.NaN(),
		Std:    math.NaN(),
		Min:    math.NaN(),
		Q1:     math.NaN(),
		Median: math.NaN(),
		Q3:     math.NaN(),
		Max:    math.NaN(),
	}
	if len(present) == 0 {
		return d
	}

	d.Mean, _ = stats.Mean(present)
	d.Std, _ = stats.StandardDeviationSample(present)
	d.Min, _ = stats.Min(present)
	d.Median, _ = stats.Median(present)
	d.Max, _ = stats.Max(present)

	if q, err := stats.Quartile(present); err == nil {
		d.Q1 = q.Q1
		d.Q3 = q.Q3
	}

	return d
}

// DescribeTable summarizes the schema numeric columns present in the
// table, in schema order.
func DescribeTable(t *dataset.Table) []Descriptive {
	var out []Descriptive
	for _, name := range t.PresentNumericColumns() {
		values, _ := t.NumericValues(name)
		out = append(out, Describe(name, values))
	}
	return out
}
