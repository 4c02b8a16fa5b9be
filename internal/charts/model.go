package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Modeling chart names
const (
	ChartPredictedVsActual = "predicted_vs_actual"
	ChartFeatureImportance = "feature_importance"
)

// PredictedVsActual renders held-out predictions against actuals with the
// y=x reference line.
func PredictedVsActual(actual, predicted []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Predicted vs Actual Oil Production"
	p.X.Label.Text = "Actual (bbl)"
	p.Y.Label.Text = "Predicted (bbl)"
	p.Add(plotter.NewGrid())

	if len(actual) == 0 {
		return p, nil
	}
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("predicted/actual length mismatch: %d vs %d", len(predicted), len(actual))
	}

	pts := make(plotter.XYs, len(actual))
	lo, hi := actual[0], actual[0]
	for i := range actual {
		pts[i] = plotter.XY{X: actual[i], Y: predicted[i]}
		lo = math.Min(lo, math.Min(actual[i], predicted[i]))
		hi = math.Max(hi, math.Max(actual[i], predicted[i]))
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("building prediction scatter: %w", err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 139, G: 0, B: 0, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	diagonal := plotter.NewFunction(func(x float64) float64 { return x })
	diagonal.Color = color.RGBA{A: 255}
	diagonal.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(diagonal)

	pad := (hi - lo) * 0.05
	p.X.Min, p.X.Max = lo-pad, hi+pad
	p.Y.Min, p.Y.Max = lo-pad, hi+pad

	return p, nil
}

// FeatureImportanceBars renders normalized feature importance scores as a
// bar chart, one bar per feature in the given order.
func FeatureImportanceBars(names []string, scores []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Feature Importance"
	p.Y.Label.Text = "Importance"

	if len(names) == 0 {
		return p, nil
	}
	if len(names) != len(scores) {
		return nil, fmt.Errorf("importance has %d names for %d scores", len(names), len(scores))
	}

	bars, err := plotter.NewBarChart(plotter.Values(scores), vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("building importance bars: %w", err)
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight

	return p, nil
}
