package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"oilpulse/internal/dataset"
)

// Correlation holds a Pearson correlation matrix over named columns.
// Matrix[i][j] is the correlation between Labels[i] and Labels[j].
type Correlation struct {
	Labels []string    `json:"labels"`
	Matrix [][]float64 `json:"matrix"`
}

// Correlate computes the pairwise Pearson correlation matrix over the
// schema numeric columns present in the table. Each pair uses the rows
// where both values are non-null; pairs with fewer than two complete rows
// or with a constant series get NaN.
func Correlate(t *dataset.Table) Correlation {
	labels := t.PresentNumericColumns()

	matrix := make([][]float64, len(labels))
	for i := range matrix {
		matrix[i] = make([]float64, len(labels))
	}

	for i, a := range labels {
		matrix[i][i] = 1
		for j := i + 1; j < len(labels); j++ {
			r := pairwisePearson(t, a, labels[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}

	return Correlation{Labels: labels, Matrix: matrix}
}

// PearsonPair returns the correlation between two named numeric columns,
// or NaN when either column is missing or the pair is degenerate.
func PearsonPair(t *dataset.Table, a, b string) float64 {
	if !t.HasColumn(a) || !t.HasColumn(b) {
		return math.NaN()
	}
	return pairwisePearson(t, a, b)
}

func pairwisePearson(t *dataset.Table, a, b string) float64 {
	xs, okA := t.NumericValues(a)
	ys, okB := t.NumericValues(b)
	if !okA || !okB {
		return math.NaN()
	}

	var x, y []float64
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x = append(x, xs[i])
		y = append(y, ys[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}

	return stat.Correlation(x, y, nil)
}
