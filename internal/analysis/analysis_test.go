package analysis

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"oilpulse/internal/config"
	"oilpulse/internal/dataset"
	apperrors "oilpulse/internal/errors"
)

func buildAnalysisTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.NewTable()
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "field_name", Kind: dataset.KindString,
		Strings: []string{"Alpha", "Alpha", "Beta", "Beta"},
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "oil_production_bbl", Kind: dataset.KindNumeric,
		Floats: []float64{100, 200, 300, 400},
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "gas_production_mcf", Kind: dataset.KindNumeric,
		Floats: []float64{10, 20, 30, 40},
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "water_production_bbl", Kind: dataset.KindNumeric,
		Floats: []float64{40, 30, 20, 10},
	}))
	return table
}

func TestDescribe(t *testing.T) {
	d := Describe("oil_production_bbl", []float64{100, 200, 300, 400, math.NaN()})

	assert.Equal(t, 4, d.Count)
	assert.InDelta(t, 250, d.Mean, 1e-9)
	assert.InDelta(t, 100, d.Min, 1e-9)
	assert.InDelta(t, 400, d.Max, 1e-9)
	assert.InDelta(t, 250, d.Median, 1e-9)
	assert.InDelta(t, 150, d.Q1, 1e-9)
	assert.InDelta(t, 350, d.Q3, 1e-9)
}

func TestDescribe_Empty(t *testing.T) {
	d := Describe("oil_production_bbl", nil)
	assert.Equal(t, 0, d.Count)
	assert.True(t, math.IsNaN(d.Mean))
}

func TestDescribeTable_SchemaOrder(t *testing.T) {
	summary := DescribeTable(buildAnalysisTable(t))

	require.Len(t, summary, 3)
	assert.Equal(t, "oil_production_bbl", summary[0].Column)
	assert.Equal(t, "gas_production_mcf", summary[1].Column)
	assert.Equal(t, "water_production_bbl", summary[2].Column)
}

func TestCorrelate(t *testing.T) {
	corr := Correlate(buildAnalysisTable(t))

	require.Equal(t, []string{"oil_production_bbl", "gas_production_mcf", "water_production_bbl"}, corr.Labels)

	// Perfectly linear relationships
	assert.InDelta(t, 1.0, corr.Matrix[0][0], 1e-9)
	assert.InDelta(t, 1.0, corr.Matrix[0][1], 1e-9)
	assert.InDelta(t, -1.0, corr.Matrix[0][2], 1e-9)
	assert.InDelta(t, corr.Matrix[1][2], corr.Matrix[2][1], 1e-12)
}

func TestCorrelate_SkipsNullPairs(t *testing.T) {
	table := dataset.NewTable()
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "oil_production_bbl", Kind: dataset.KindNumeric,
		Floats: []float64{1, 2, 3, math.NaN()},
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "gas_production_mcf", Kind: dataset.KindNumeric,
		Floats: []float64{2, 4, 6, 100},
	}))

	corr := Correlate(table)
	assert.InDelta(t, 1.0, corr.Matrix[0][1], 1e-9)
}

func TestPearsonPair_MissingColumn(t *testing.T) {
	table := buildAnalysisTable(t)
	assert.True(t, math.IsNaN(PearsonPair(table, "oil_production_bbl", "absent")))
}

func TestWriteSummaryWorkbook(t *testing.T) {
	table := buildAnalysisTable(t)
	summary := DescribeTable(table)
	corr := Correlate(table)

	path := filepath.Join(t.TempDir(), "eda_summary_20240101.xlsx")
	require.NoError(t, writeSummaryWorkbook(summary, corr, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue(statsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "oil_production_bbl", got)

	got, err = f.GetCellValue(corrSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestAnalyzerRun_EndToEnd(t *testing.T) {
	paths, err := config.GetPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	csvData := "date,field_name,oil_production_bbl,gas_production_mcf,wellhead_pressure_psi\n" +
		"2024-01-01,Alpha,100,10,1500\n" +
		"2024-01-02,Alpha,120,12,1480\n" +
		"2024-01-01,Beta,90,9,1600\n" +
		"2024-01-02,Beta,95,11,1590\n"
	cleanedPath := paths.CleanedCSVPath(time.Now())
	require.NoError(t, os.WriteFile(cleanedPath, []byte(csvData), 0644))

	require.NoError(t, NewAnalyzer(nil).Run(context.Background(), paths))

	date := time.Now().Format("20060102")
	for _, name := range []string{
		"oil_production_histogram", "pressure_vs_oil_scatter",
		"oil_by_field_boxplot", "correlation_heatmap",
		"oil_production_timeseries",
	} {
		assert.FileExists(t, filepath.Join(paths.FiguresDir, name+"_"+date+".png"))
		assert.FileExists(t, filepath.Join(paths.FiguresDir, name+"_"+date+".html"))
	}
	assert.FileExists(t, filepath.Join(paths.FiguresDir, "dashboard_"+date+".png"))
	assert.FileExists(t, filepath.Join(paths.FiguresDir, "dashboard_"+date+".html"))
	assert.FileExists(t, filepath.Join(paths.ReportsDir, "eda_summary_"+date+".xlsx"))
}

func TestAnalyzerRun_NoCleanedDataset(t *testing.T) {
	paths, err := config.GetPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	err = NewAnalyzer(nil).Run(context.Background(), paths)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}
