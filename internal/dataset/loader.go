package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "oilpulse/internal/errors"
)

// dateLayouts are the calendar-date formats accepted anywhere a date is
// parsed (loading and cleaning use the same set).
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"2006-01-02T15:04:05Z07:00",
}

// ParseDate parses a calendar date in any accepted layout.
// The zero time and false signal an unparseable value.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Load reads a CSV file into a Table. The first row is the header. Known
// schema columns (matched after name normalization) are typed by the
// schema; unknown columns are typed by sniffing their values. Malformed
// numeric cells become nulls and are counted, never an error; a missing
// file is a NOT_FOUND error and a structurally broken CSV is a PARSING
// error.
func Load(path string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("dataset %s", path), err)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open dataset %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read header of %s", path), err)
	}
	// Strip a UTF-8 BOM left by spreadsheet tools
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
		}
		rows = append(rows, record)
	}

	table := NewTable()
	malformed := 0

	for colIdx, rawName := range header {
		values := make([]string, len(rows))
		for i, row := range rows {
			if colIdx < len(row) {
				values[i] = strings.TrimSpace(row[colIdx])
			}
		}

		kind := classifyColumn(rawName, values)
		col := &Column{Name: rawName, Kind: kind}

		switch kind {
		case KindNumeric:
			col.Floats = make([]float64, len(values))
			for i, v := range values {
				if v == "" {
					col.Floats[i] = math.NaN()
					continue
				}
				f, err := parseNumber(v)
				if err != nil {
					col.Floats[i] = math.NaN()
					malformed++
					continue
				}
				col.Floats[i] = f
			}
		case KindDate:
			col.Times = make([]time.Time, len(values))
			for i, v := range values {
				if ts, ok := ParseDate(v); ok {
					col.Times[i] = ts
				}
			}
		default:
			col.Strings = values
		}

		if err := table.AddColumn(col); err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid column layout in %s", path), err)
		}
	}

	logger.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()),
		slog.Int("malformed_cells", malformed))

	return table, nil
}

// parseNumber parses a numeric cell, tolerating thousands separators
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// classifyColumn decides a column's kind. Canonical schema columns are
// typed by the schema (matched on the normalized header name); anything
// else is typed by what the majority of its non-empty values parse as.
func classifyColumn(rawName string, values []string) ColumnKind {
	if kind, ok := SchemaKind(NormalizeName(rawName)); ok {
		return kind
	}

	numeric, dates, nonEmpty := 0, 0, 0
	for _, v := range values {
		if v == "" {
			continue
		}
		nonEmpty++
		if _, err := parseNumber(v); err == nil {
			numeric++
		} else if _, ok := ParseDate(v); ok {
			dates++
		}
	}

	if nonEmpty == 0 {
		return KindString
	}
	if numeric*2 > nonEmpty {
		return KindNumeric
	}
	if dates*2 > nonEmpty {
		return KindDate
	}
	return KindString
}

// NormalizeName normalizes a column name: lowercase, trimmed, any
// character outside [a-z0-9_] replaced with an underscore. Normalizing an
// already-normalized name is a no-op.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
