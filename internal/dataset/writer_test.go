package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_RoundTrip(t *testing.T) {
	table := buildTestTable(t)
	path := filepath.Join(t.TempDir(), "out", "cleaned.csv")

	require.NoError(t, WriteCSV(table, path, nil))

	reloaded, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, table.NumRows(), reloaded.NumRows())
	assert.Equal(t, table.ColumnNames(), reloaded.ColumnNames())

	oil, _ := reloaded.NumericValues("oil_production_bbl")
	assert.Equal(t, 100.0, oil[0])
	// Null survived the round trip as a null
	col, _ := reloaded.Column("oil_production_bbl")
	assert.True(t, col.IsNull(2))

	dates, _ := reloaded.TimeValues("date")
	assert.Equal(t, 2024, dates[0].Year())
	dcol, _ := reloaded.Column("date")
	assert.True(t, dcol.IsNull(3))
}

func TestWriteCSV_StartsWithBOM(t *testing.T) {
	table := buildTestTable(t)
	path := filepath.Join(t.TempDir(), "cleaned.csv")

	require.NoError(t, WriteCSV(table, path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestWriteCSV_OverwritesExisting(t *testing.T) {
	table := buildTestTable(t)
	path := filepath.Join(t.TempDir(), "cleaned.csv")

	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0644))
	require.NoError(t, WriteCSV(table, path, nil))

	reloaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.NumRows())
}
