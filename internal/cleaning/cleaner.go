package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"oilpulse/internal/config"
	"oilpulse/internal/dataset"
)

// zScoreThreshold is the cutoff beyond which a value counts as an
// outlier under the z-score method.
const zScoreThreshold = 3.0

// Cleaner turns the raw production CSV into an analysis-ready dataset:
// normalized column names, parsed dates, imputed numeric nulls, and
// outlier-handled measurement columns.
type Cleaner struct {
	cfg    config.CleaningConfig
	logger *slog.Logger
}

// New creates a Cleaner with the given configuration
func New(cfg config.CleaningConfig, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{cfg: cfg, logger: logger.With("component", "cleaner")}
}

// Run loads the raw dataset, cleans it, and persists the result as the
// dated cleaned CSV. It returns the path written. Re-running on the same
// day overwrites the previous output.
func (c *Cleaner) Run(ctx context.Context, paths *config.Paths) (string, error) {
	raw, err := dataset.Load(paths.RawDataCSV, c.logger)
	if err != nil {
		return "", err
	}

	cleaned, err := c.Clean(ctx, raw)
	if err != nil {
		return "", err
	}

	outPath := paths.CleanedCSVPath(time.Now())
	if err := dataset.WriteCSV(cleaned, outPath, c.logger); err != nil {
		return "", err
	}

	c.logger.InfoContext(ctx, "cleaning complete",
		"step", "clean",
		"rows_in", raw.NumRows(),
		"rows_out", cleaned.NumRows(),
		"output", outPath)

	return outPath, nil
}

// Clean applies the cleaning steps to a table, in fixed order: name
// normalization, date parsing, mean imputation plus non-numeric row
// drops, then outlier handling. The input table is not modified.
func (c *Cleaner) Clean(ctx context.Context, t *dataset.Table) (*dataset.Table, error) {
	out, err := normalizeColumnNames(t.Clone())
	if err != nil {
		return nil, err
	}

	parseDates(out)
	c.logNullRates(ctx, out)
	imputeNumericMeans(ctx, out, c.logger)

	before := out.NumRows()
	out = dropRowsWithNonNumericNulls(out)
	if dropped := before - out.NumRows(); dropped > 0 {
		c.logger.InfoContext(ctx, "dropped rows with missing categorical or date values",
			"step", "clean", "rows_dropped", dropped)
	}

	if err := c.handleOutliers(ctx, out); err != nil {
		return nil, err
	}

	return out, nil
}

// normalizeColumnNames rebuilds the table with canonical column names.
// Typing is re-resolved against the schema, so a raw "Date" column typed
// by content sniffing picks up its declared kind here.
func normalizeColumnNames(t *dataset.Table) (*dataset.Table, error) {
	out := dataset.NewTable()
	for _, name := range t.ColumnNames() {
		col, _ := t.Column(name)
		renamed := &dataset.Column{
			Name:    dataset.NormalizeName(name),
			Kind:    col.Kind,
			Floats:  col.Floats,
			Strings: col.Strings,
			Times:   col.Times,
		}
		if err := out.AddColumn(renamed); err != nil {
			return nil, fmt.Errorf("column name collision after normalization: %w", err)
		}
	}
	return out, nil
}

// parseDates converts a string-typed date column into a date column,
// turning unparseable cells into nulls. A date column already typed by
// the loader passes through untouched.
func parseDates(t *dataset.Table) {
	col, ok := t.Column(dataset.DateColumn)
	if !ok || col.Kind != dataset.KindString {
		return
	}

	times := make([]time.Time, len(col.Strings))
	for i, s := range col.Strings {
		if ts, ok := dataset.ParseDate(s); ok {
			times[i] = ts
		}
	}
	_ = t.ReplaceColumn(&dataset.Column{
		Name:  dataset.DateColumn,
		Kind:  dataset.KindDate,
		Times: times,
	})
}

// logNullRates records the pre-imputation null percentage per column
func (c *Cleaner) logNullRates(ctx context.Context, t *dataset.Table) {
	rows := t.NumRows()
	if rows == 0 {
		return
	}
	for _, name := range t.ColumnNames() {
		col, _ := t.Column(name)
		nulls := col.NullCount()
		if nulls == 0 {
			continue
		}
		c.logger.InfoContext(ctx, "column has missing values",
			"step", "clean",
			"column", name,
			"null_count", nulls,
			"null_pct", 100*float64(nulls)/float64(rows))
	}
}

// imputeNumericMeans replaces numeric nulls with the column mean over the
// non-null values. A column with no non-null values is left as is.
func imputeNumericMeans(ctx context.Context, t *dataset.Table, logger *slog.Logger) {
	for _, name := range t.ColumnNames() {
		col, _ := t.Column(name)
		if col.Kind != dataset.KindNumeric {
			continue
		}

		present := col.NonNullFloats()
		if len(present) == len(col.Floats) {
			continue
		}
		if len(present) == 0 {
			logger.WarnContext(ctx, "numeric column is entirely null, skipping imputation",
				"step", "clean", "column", name)
			continue
		}

		mean, err := stats.Mean(present)
		if err != nil {
			continue
		}
		for i, v := range col.Floats {
			if math.IsNaN(v) {
				col.Floats[i] = mean
			}
		}
	}
}

// dropRowsWithNonNumericNulls removes every row that has a null in any
// string or date column.
func dropRowsWithNonNumericNulls(t *dataset.Table) *dataset.Table {
	var checks []*dataset.Column
	for _, name := range t.ColumnNames() {
		col, _ := t.Column(name)
		if col.Kind != dataset.KindNumeric {
			checks = append(checks, col)
		}
	}
	if len(checks) == 0 {
		return t
	}

	return t.Filter(func(i int) bool {
		for _, col := range checks {
			if col.IsNull(i) {
				return false
			}
		}
		return true
	})
}

// handleOutliers applies the configured outlier method to the schema
// measurement columns present in the table.
func (c *Cleaner) handleOutliers(ctx context.Context, t *dataset.Table) error {
	for _, name := range t.PresentNumericColumns() {
		col, _ := t.Column(name)

		var (
			adjusted int
			err      error
		)
		switch c.cfg.OutlierMethod {
		case config.OutlierMethodZScore:
			adjusted, err = replaceZScoreOutliers(col.Floats)
		default:
			adjusted, err = clipIQROutliers(col.Floats)
		}
		if err != nil {
			return fmt.Errorf("outlier handling for column %s: %w", name, err)
		}

		if adjusted > 0 {
			c.logger.InfoContext(ctx, "adjusted outliers",
				"step", "clean",
				"column", name,
				"method", c.cfg.OutlierMethod,
				"values_adjusted", adjusted)
		}
	}

	return nil
}

// clipIQROutliers clips values to the Tukey fence
// [Q1-1.5*IQR, Q3+1.5*IQR] in place and returns the number of values
// clipped. A zero IQR leaves the column untouched, so clipping is
// idempotent.
func clipIQROutliers(values []float64) (int, error) {
	present := nonNaN(values)
	if len(present) == 0 {
		return 0, nil
	}

	quartiles, err := stats.Quartile(present)
	if err != nil {
		return 0, err
	}

	iqr := quartiles.Q3 - quartiles.Q1
	if iqr == 0 {
		return 0, nil
	}

	lower := quartiles.Q1 - 1.5*iqr
	upper := quartiles.Q3 + 1.5*iqr

	clipped := 0
	for i, v := range values {
		switch {
		case math.IsNaN(v):
		case v < lower:
			values[i] = lower
			clipped++
		case v > upper:
			values[i] = upper
			clipped++
		}
	}
	return clipped, nil
}

// replaceZScoreOutliers replaces values whose population z-score has
// magnitude >= 3 with the column mean, in place, and returns the number
// of values replaced. A zero standard deviation leaves the column
// untouched.
func replaceZScoreOutliers(values []float64) (int, error) {
	present := nonNaN(values)
	if len(present) == 0 {
		return 0, nil
	}

	mean, err := stats.Mean(present)
	if err != nil {
		return 0, err
	}
	stddev, err := stats.StandardDeviation(present)
	if err != nil {
		return 0, err
	}
	if stddev == 0 {
		return 0, nil
	}

	replaced := 0
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs((v-mean)/stddev) >= zScoreThreshold {
			values[i] = mean
			replaced++
		}
	}
	return replaced, nil
}

func nonNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
