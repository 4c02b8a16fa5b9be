package charts

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"oilpulse/internal/dataset"
)

// Chart names, shared by the EDA stage, the dashboard endpoints, and the
// dated figure filenames.
const (
	ChartOilHistogram       = "oil_production_histogram"
	ChartPressureScatter    = "pressure_vs_oil_scatter"
	ChartFieldBoxPlot       = "oil_by_field_boxplot"
	ChartCorrelationHeatmap = "correlation_heatmap"
	ChartTimeSeries         = "oil_production_timeseries"
	ChartCombined           = "dashboard"
)

const histogramBins = 16

// OilHistogram renders the distribution of daily oil production
func OilHistogram(t *dataset.Table) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Oil Production Distribution"
	p.X.Label.Text = "Oil Production (bbl)"
	p.Y.Label.Text = "Count"

	values := nonNullValues(t, dataset.ColOilProduction)
	if len(values) == 0 {
		return p, nil
	}

	hist, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return nil, fmt.Errorf("building histogram: %w", err)
	}
	hist.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(hist)

	return p, nil
}

// PressureScatter renders wellhead pressure against oil production, one
// color per field with a legend.
func PressureScatter(t *dataset.Table) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Wellhead Pressure vs Oil Production"
	p.X.Label.Text = "Wellhead Pressure (psi)"
	p.Y.Label.Text = "Oil Production (bbl)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	pressure, okX := t.NumericValues(dataset.ColWellheadPressure)
	oil, okY := t.NumericValues(dataset.ColOilProduction)
	if !okX || !okY {
		return p, nil
	}
	fields, _ := t.StringValues(dataset.ColFieldName)

	for i, field := range t.UniqueStrings(dataset.ColFieldName) {
		var pts plotter.XYs
		for row := range pressure {
			if fields[row] != field || math.IsNaN(pressure[row]) || math.IsNaN(oil[row]) {
				continue
			}
			pts = append(pts, plotter.XY{X: pressure[row], Y: oil[row]})
		}
		if len(pts) == 0 {
			continue
		}

		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("building scatter for field %s: %w", field, err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Radius = vg.Points(2.5)

		p.Add(scatter)
		p.Legend.Add(field, scatter)
	}

	// No field column: a single unlabeled series
	if fields == nil {
		var pts plotter.XYs
		for row := range pressure {
			if math.IsNaN(pressure[row]) || math.IsNaN(oil[row]) {
				continue
			}
			pts = append(pts, plotter.XY{X: pressure[row], Y: oil[row]})
		}
		if len(pts) > 0 {
			scatter, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, fmt.Errorf("building scatter: %w", err)
			}
			scatter.GlyphStyle.Radius = vg.Points(2.5)
			p.Add(scatter)
		}
	}

	return p, nil
}

// FieldBoxPlot renders one oil production box plot per field
func FieldBoxPlot(t *dataset.Table) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Oil Production by Field"
	p.X.Label.Text = "Field"
	p.Y.Label.Text = "Oil Production (bbl)"

	oil, ok := t.NumericValues(dataset.ColOilProduction)
	fields, okF := t.StringValues(dataset.ColFieldName)
	if !ok || !okF {
		return p, nil
	}

	names := t.UniqueStrings(dataset.ColFieldName)
	for i, field := range names {
		var values plotter.Values
		for row := range oil {
			if fields[row] == field && !math.IsNaN(oil[row]) {
				values = append(values, oil[row])
			}
		}
		if len(values) == 0 {
			continue
		}

		box, err := plotter.NewBoxPlot(vg.Points(24), float64(i), values)
		if err != nil {
			return nil, fmt.Errorf("building box plot for field %s: %w", field, err)
		}
		p.Add(box)
	}
	p.NominalX(names...)

	return p, nil
}

// TimeSeries renders the oil production readings over time as a line
func TimeSeries(t *dataset.Table) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Oil Production Over Time"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Oil Production (bbl)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	dates, okD := t.TimeValues(dataset.DateColumn)
	oil, okO := t.NumericValues(dataset.ColOilProduction)
	if !okD || !okO {
		return p, nil
	}

	pts := timeSeriesPoints(dates, oil)
	if len(pts) == 0 {
		return p, nil
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("building time series: %w", err)
	}
	line.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)

	return p, nil
}

// timeSeriesPoints builds one point per reading, in chronological order.
// Rows with a null date or a null production value are skipped; readings
// sharing a day stay separate points.
func timeSeriesPoints(dates []time.Time, oil []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(dates))
	for row, ts := range dates {
		if ts.IsZero() || math.IsNaN(oil[row]) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(ts.Unix()), Y: oil[row]})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	return pts
}

func nonNullValues(t *dataset.Table, column string) []float64 {
	values, ok := t.NumericValues(column)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
