package charts

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"

	"oilpulse/internal/dataset"
)

func buildChartTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.NewTable()
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "field_name", Kind: dataset.KindString,
		Strings: []string{"Alpha", "Alpha", "Beta", "Beta", "Beta"},
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "date", Kind: dataset.KindDate,
		Times: []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "oil_production_bbl", Kind: dataset.KindNumeric,
		Floats: []float64{100, 120, 90, 95, 110},
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "wellhead_pressure_psi", Kind: dataset.KindNumeric,
		Floats: []float64{1500, 1450, 1600, 1580, 1550},
	}))
	return table
}

func TestChartBuilders(t *testing.T) {
	table := buildChartTable(t)

	builders := map[string]func(*dataset.Table) (*plot.Plot, error){
		"histogram":   OilHistogram,
		"scatter":     PressureScatter,
		"boxplot":     FieldBoxPlot,
		"time series": TimeSeries,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			p, err := build(table)
			require.NoError(t, err)
			require.NotNil(t, p)

			data, err := RenderPNG(p, DefaultWidth, DefaultHeight)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestChartBuilders_EmptyTable(t *testing.T) {
	empty := buildChartTable(t).Filter(func(int) bool { return false })

	for _, build := range []func(*dataset.Table) (*plot.Plot, error){
		OilHistogram, PressureScatter, FieldBoxPlot, TimeSeries,
	} {
		p, err := build(empty)
		require.NoError(t, err)
		require.NotNil(t, p)
	}
}

func TestOilHistogram_IgnoresNulls(t *testing.T) {
	table := dataset.NewTable()
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "oil_production_bbl", Kind: dataset.KindNumeric,
		Floats: []float64{100, math.NaN(), 120},
	}))

	p, err := OilHistogram(table)
	require.NoError(t, err)

	_, err = RenderPNG(p, DefaultWidth, DefaultHeight)
	require.NoError(t, err)
}

func TestCorrelationHeatmap(t *testing.T) {
	labels := []string{"oil_production_bbl", "gas_production_mcf"}
	matrix := [][]float64{{1, 0.8}, {0.8, 1}}

	p, err := CorrelationHeatmap(labels, matrix)
	require.NoError(t, err)

	data, err := RenderPNG(p, DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCorrelationHeatmap_LabelMismatch(t *testing.T) {
	_, err := CorrelationHeatmap([]string{"a"}, [][]float64{{1, 0}, {0, 1}})
	require.Error(t, err)
}

func TestSaveFigure_WritesPNGAndHTML(t *testing.T) {
	table := buildChartTable(t)
	p, err := OilHistogram(table)
	require.NoError(t, err)

	dir := t.TempDir()
	pngPath := filepath.Join(dir, "oil_production_histogram_20240101.png")
	htmlPath := filepath.Join(dir, "oil_production_histogram_20240101.html")

	require.NoError(t, SaveFigure(p, pngPath, htmlPath))

	pngData, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(pngData[:4]))

	htmlData, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(htmlData), filepath.Base(pngPath)))
}

func TestSaveGrid(t *testing.T) {
	table := buildChartTable(t)

	hist, err := OilHistogram(table)
	require.NoError(t, err)
	scatter, err := PressureScatter(table)
	require.NoError(t, err)

	dir := t.TempDir()
	pngPath := filepath.Join(dir, "dashboard_20240101.png")
	htmlPath := filepath.Join(dir, "dashboard_20240101.html")
	grid := [][]*plot.Plot{
		{hist, scatter},
		{nil, nil},
		{nil, nil},
	}

	require.NoError(t, SaveGrid(grid, "Production Overview", pngPath, htmlPath))

	data, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))

	htmlData, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(htmlData), filepath.Base(pngPath))
	assert.Contains(t, string(htmlData), "Production Overview")
}

func TestTimeSeriesPoints_KeepsEveryReading(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		{},
	}
	oil := []float64{120, 100, 90, 50}

	// Readings on the same day stay separate points; null dates drop
	pts := timeSeriesPoints(dates, oil)
	require.Len(t, pts, 3)
	assert.InDelta(t, 100.0, pts[0].Y, 1e-9)
	assert.InDelta(t, 90.0, pts[1].Y, 1e-9)
	assert.InDelta(t, 120.0, pts[2].Y, 1e-9)
}
