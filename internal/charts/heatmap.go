package charts

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

// corrGrid adapts a square correlation matrix to plotter.GridXYZ.
// Row 0 is drawn at the bottom of the heatmap.
type corrGrid struct {
	matrix [][]float64
}

func (g corrGrid) Dims() (int, int) { return len(g.matrix), len(g.matrix) }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }
func (g corrGrid) Z(c, r int) float64 {
	// Flip rows so the first label reads top-left, matching the
	// conventional correlation matrix orientation
	return g.matrix[len(g.matrix)-1-r][c]
}

// CorrelationHeatmap renders a labeled heatmap of a correlation matrix.
// labels[i] names row and column i of matrix.
func CorrelationHeatmap(labels []string, matrix [][]float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Correlation Matrix"

	if len(matrix) == 0 {
		return p, nil
	}
	if len(labels) != len(matrix) {
		return nil, fmt.Errorf("heatmap has %d labels for %d matrix rows", len(labels), len(matrix))
	}

	// Correlations live in [-1, 1]; pin the palette range so colors are
	// comparable across runs
	pal := palette.Heat(12, 1)
	hm := plotter.NewHeatMap(corrGrid{matrix: matrix}, pal)
	hm.Min = -1
	hm.Max = 1
	p.Add(hm)

	reversed := make([]string, len(labels))
	for i, l := range labels {
		reversed[len(labels)-1-i] = l
	}
	p.NominalX(labels...)
	p.NominalY(reversed...)

	return p, nil
}
