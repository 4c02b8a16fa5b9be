package analysis

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "oilpulse/internal/errors"
)

const (
	statsSheet = "Descriptive Statistics"
	corrSheet  = "Correlations"
)

// writeSummaryWorkbook writes the EDA summary workbook: one sheet of
// descriptive statistics, one sheet holding the correlation matrix.
func writeSummaryWorkbook(summary []Descriptive, corr Correlation, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create reports directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", statsSheet)

	headers := []string{"Column", "Count", "Mean", "Std", "Min", "Q1", "Median", "Q3", "Max"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(statsSheet, cell, header)
		f.SetColWidth(statsSheet, cell, cell, 22)
	}

	for i, d := range summary {
		row := i + 2
		f.SetCellValue(statsSheet, fmt.Sprintf("A%d", row), d.Column)
		f.SetCellValue(statsSheet, fmt.Sprintf("B%d", row), d.Count)
		setNumericCell(f, statsSheet, fmt.Sprintf("C%d", row), d.Mean)
		setNumericCell(f, statsSheet, fmt.Sprintf("D%d", row), d.Std)
		setNumericCell(f, statsSheet, fmt.Sprintf("E%d", row), d.Min)
		setNumericCell(f, statsSheet, fmt.Sprintf("F%d", row), d.Q1)
		setNumericCell(f, statsSheet, fmt.Sprintf("G%d", row), d.Median)
		setNumericCell(f, statsSheet, fmt.Sprintf("H%d", row), d.Q3)
		setNumericCell(f, statsSheet, fmt.Sprintf("I%d", row), d.Max)
	}

	f.NewSheet(corrSheet)

	for i, label := range corr.Labels {
		headerCell, _ := excelize.CoordinatesToCellName(i+2, 1)
		f.SetCellValue(corrSheet, headerCell, label)
		f.SetColWidth(corrSheet, headerCell, headerCell, 22)

		rowCell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetCellValue(corrSheet, rowCell, label)
	}
	f.SetColWidth(corrSheet, "A", "A", 22)

	for i := range corr.Matrix {
		for j, v := range corr.Matrix[i] {
			cell, _ := excelize.CoordinatesToCellName(j+2, i+2)
			setNumericCell(f, corrSheet, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save workbook %s", path), err)
	}

	return nil
}

// setNumericCell writes a float, leaving NaN cells empty
func setNumericCell(f *excelize.File, sheet, cell string, v float64) {
	if math.IsNaN(v) {
		return
	}
	f.SetCellValue(sheet, cell, v)
}
