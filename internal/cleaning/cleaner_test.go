package cleaning

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oilpulse/internal/config"
	"oilpulse/internal/dataset"
)

func newTestCleaner(method string) *Cleaner {
	return New(config.CleaningConfig{OutlierMethod: method}, nil)
}

func buildRawTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.NewTable()
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "Field Name", Kind: dataset.KindString,
		Strings: []string{"Alpha", "Beta", "Alpha", "Beta", "Alpha"},
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "date", Kind: dataset.KindString,
		Strings: []string{"2024-01-01", "2024-01-02", "2024-01-03", "not-a-date", "2024-01-05"},
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "oil_production_bbl", Kind: dataset.KindNumeric,
		Floats: []float64{100, 200, math.NaN(), 150, 250},
	}))
	return table
}

func TestClean_NormalizesColumnNames(t *testing.T) {
	cleaned, err := newTestCleaner(config.OutlierMethodIQR).Clean(context.Background(), buildRawTable(t))
	require.NoError(t, err)

	assert.True(t, cleaned.HasColumn("field_name"))
	assert.False(t, cleaned.HasColumn("Field Name"))
}

func TestClean_ParsesDatesAndDropsUnparseableRows(t *testing.T) {
	cleaned, err := newTestCleaner(config.OutlierMethodIQR).Clean(context.Background(), buildRawTable(t))
	require.NoError(t, err)

	// The "not-a-date" row becomes a date null and is dropped with the
	// other non-numeric null rows
	assert.Equal(t, 4, cleaned.NumRows())

	dates, ok := cleaned.TimeValues("date")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), dates[0])
}

func TestClean_ImputesNumericNullsWithMean(t *testing.T) {
	cleaned, err := newTestCleaner(config.OutlierMethodIQR).Clean(context.Background(), buildRawTable(t))
	require.NoError(t, err)

	oil, ok := cleaned.NumericValues("oil_production_bbl")
	require.True(t, ok)
	// Mean of the non-null values 100, 200, 150, 250
	assert.InDelta(t, 175.0, oil[2], 1e-9)

	col, _ := cleaned.Column("oil_production_bbl")
	assert.Equal(t, 0, col.NullCount())
}

func TestClean_DoesNotModifyInput(t *testing.T) {
	raw := buildRawTable(t)
	_, err := newTestCleaner(config.OutlierMethodIQR).Clean(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 5, raw.NumRows())
	oil, _ := raw.NumericValues("oil_production_bbl")
	assert.True(t, math.IsNaN(oil[2]))
}

func TestClean_AllNullNumericColumnStaysNull(t *testing.T) {
	table := dataset.NewTable()
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "oil_production_bbl", Kind: dataset.KindNumeric,
		Floats: []float64{math.NaN(), math.NaN(), math.NaN()},
	}))

	cleaned, err := newTestCleaner(config.OutlierMethodIQR).Clean(context.Background(), table)
	require.NoError(t, err)

	col, _ := cleaned.Column("oil_production_bbl")
	assert.Equal(t, 3, col.NullCount())
}

func TestClipIQROutliers(t *testing.T) {
	// Q1=2, Q3=5, IQR=3, fence [-2.5, 9.5]
	values := []float64{1, 2, 3, 4, 5, 100}

	clipped, err := clipIQROutliers(values)
	require.NoError(t, err)

	assert.Equal(t, 1, clipped)
	assert.NotContains(t, values, 100.0)
	assert.InDelta(t, 9.5, values[5], 1e-9)
}

func TestClipIQROutliers_Idempotent(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 100, -50}

	_, err := clipIQROutliers(values)
	require.NoError(t, err)
	first := append([]float64(nil), values...)

	again, err := clipIQROutliers(values)
	require.NoError(t, err)
	assert.Equal(t, 0, again)
	assert.Equal(t, first, values)
}

func TestClipIQROutliers_ConstantColumnNoOp(t *testing.T) {
	values := []float64{7, 7, 7, 7}
	clipped, err := clipIQROutliers(values)
	require.NoError(t, err)
	assert.Equal(t, 0, clipped)
	assert.Equal(t, []float64{7, 7, 7, 7}, values)
}

func TestReplaceZScoreOutliers(t *testing.T) {
	// 21 values near 10 and one far spike; the spike's |z| exceeds 3
	values := make([]float64, 0, 22)
	for i := 0; i < 21; i++ {
		values = append(values, 10+float64(i%3))
	}
	values = append(values, 10000)

	replaced, err := replaceZScoreOutliers(values)
	require.NoError(t, err)

	assert.Equal(t, 1, replaced)
	assert.NotContains(t, values, 10000.0)
}

func TestReplaceZScoreOutliers_ConstantColumnNoOp(t *testing.T) {
	values := []float64{5, 5, 5}
	replaced, err := replaceZScoreOutliers(values)
	require.NoError(t, err)
	assert.Equal(t, 0, replaced)
}

func TestClean_ZScoreMethodSelectedByConfig(t *testing.T) {
	floats := make([]float64, 0, 22)
	strings := make([]string, 0, 22)
	for i := 0; i < 21; i++ {
		floats = append(floats, 10+float64(i%3))
		strings = append(strings, "Alpha")
	}
	floats = append(floats, 10000)
	strings = append(strings, "Alpha")

	table := dataset.NewTable()
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "field_name", Kind: dataset.KindString, Strings: strings,
	}))
	require.NoError(t, table.AddColumn(&dataset.Column{
		Name: "oil_production_bbl", Kind: dataset.KindNumeric, Floats: floats,
	}))

	cleaned, err := newTestCleaner(config.OutlierMethodZScore).Clean(context.Background(), table)
	require.NoError(t, err)

	oil, _ := cleaned.NumericValues("oil_production_bbl")
	// The spike is replaced by the column mean, not clipped to a fence
	assert.NotContains(t, oil, 10000.0)
	assert.Greater(t, oil[21], 10.0)
	assert.Less(t, oil[21], 1000.0)
}

func TestRun_WritesDatedCleanedCSV(t *testing.T) {
	root := t.TempDir()
	paths, err := config.GetPaths(root)
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	rawCSV := "date,field_name,well_id,status,oil_production_bbl\n" +
		"2024-01-01,Alpha,W-001,Active,1200.5\n" +
		"2024-01-02,Beta,W-002,Active,\n" +
		"2024-01-03,Alpha,W-001,Shut-in,900\n"
	require.NoError(t, os.WriteFile(paths.RawDataCSV, []byte(rawCSV), 0644))

	outPath, err := newTestCleaner(config.OutlierMethodIQR).Run(context.Background(), paths)
	require.NoError(t, err)

	wantName := "cleaned_oil_field_production_data_" + time.Now().Format("20060102") + ".csv"
	assert.Equal(t, wantName, filepath.Base(outPath))

	reloaded, err := dataset.Load(outPath, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.NumRows())

	oil, _ := reloaded.NumericValues("oil_production_bbl")
	assert.InDelta(t, 1050.25, oil[1], 1e-9)
}

func TestRun_MissingRawFile(t *testing.T) {
	paths, err := config.GetPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	_, err = newTestCleaner(config.OutlierMethodIQR).Run(context.Background(), paths)
	require.Error(t, err)
}
