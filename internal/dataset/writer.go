package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	apperrors "oilpulse/internal/errors"
)

// WriteCSV writes the table to a CSV file, creating the parent directory
// as needed. Output starts with a UTF-8 BOM for Excel compatibility.
// Null cells become empty fields; dates are written as YYYY-MM-DD.
func WriteCSV(t *Table, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return apperrors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.ColumnNames()); err != nil {
		return apperrors.NewStorageError("failed to write CSV header", err)
	}

	rows := t.NumRows()
	record := make([]string, t.NumCols())
	for i := 0; i < rows; i++ {
		for j, name := range t.ColumnNames() {
			col, _ := t.Column(name)
			record[j] = formatCell(col, i)
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to flush %s", path), err)
	}

	logger.Info("dataset written",
		slog.String("path", path),
		slog.Int("rows", rows),
		slog.Int("columns", t.NumCols()))

	return nil
}

// formatCell renders one cell as a CSV field
func formatCell(c *Column, i int) string {
	switch c.Kind {
	case KindNumeric:
		v := c.Floats[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case KindDate:
		if c.Times[i].IsZero() {
			return ""
		}
		return c.Times[i].Format("2006-01-02")
	default:
		return c.Strings[i]
	}
}
