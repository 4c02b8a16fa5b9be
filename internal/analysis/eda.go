package analysis

import (
	"context"
	"log/slog"
	"time"

	"gonum.org/v1/plot"

	"oilpulse/internal/charts"
	"oilpulse/internal/config"
	"oilpulse/internal/dataset"
	"oilpulse/internal/files"
)

// Analyzer runs exploratory analysis over the latest cleaned dataset:
// descriptive statistics, the correlation matrix, the standard chart set,
// and the summary workbook.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger.With("component", "analyzer")}
}

// Run analyzes the most recent cleaned dataset and writes the dated
// figures and the summary workbook.
func (a *Analyzer) Run(ctx context.Context, paths *config.Paths) error {
	path, err := files.GetLatestCleanedFile(paths)
	if err != nil {
		return err
	}

	table, err := dataset.Load(path, a.logger)
	if err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "analyzing cleaned dataset",
		"step", "eda", "input", path, "rows", table.NumRows())

	summary := DescribeTable(table)
	for _, d := range summary {
		a.logger.InfoContext(ctx, "column summary",
			"step", "eda",
			"column", d.Column,
			"count", d.Count,
			"mean", d.Mean,
			"std", d.Std,
			"min", d.Min,
			"max", d.Max)
	}

	corr := Correlate(table)

	now := time.Now()
	if err := a.renderCharts(ctx, table, corr, paths, now); err != nil {
		return err
	}

	workbookPath := paths.ReportPath("eda_summary", now, "xlsx")
	if err := writeSummaryWorkbook(summary, corr, workbookPath); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "wrote summary workbook", "step", "eda", "output", workbookPath)

	return nil
}

// renderCharts writes the five standard charts as PNG+HTML pairs plus the
// combined panel figure.
func (a *Analyzer) renderCharts(ctx context.Context, table *dataset.Table, corr Correlation, paths *config.Paths, now time.Time) error {
	hist, err := charts.OilHistogram(table)
	if err != nil {
		return err
	}
	scatter, err := charts.PressureScatter(table)
	if err != nil {
		return err
	}
	box, err := charts.FieldBoxPlot(table)
	if err != nil {
		return err
	}
	heatmap, err := charts.CorrelationHeatmap(corr.Labels, corr.Matrix)
	if err != nil {
		return err
	}

	named := []struct {
		name string
		plot *plot.Plot
	}{
		{charts.ChartOilHistogram, hist},
		{charts.ChartPressureScatter, scatter},
		{charts.ChartFieldBoxPlot, box},
		{charts.ChartCorrelationHeatmap, heatmap},
	}

	var series *plot.Plot
	if table.HasColumn(dataset.DateColumn) {
		series, err = charts.TimeSeries(table)
		if err != nil {
			return err
		}
		named = append(named, struct {
			name string
			plot *plot.Plot
		}{charts.ChartTimeSeries, series})
	}

	for _, fig := range named {
		pngPath := paths.FigurePath(fig.name, now, "png")
		htmlPath := paths.FigurePath(fig.name, now, "html")
		if err := charts.SaveFigure(fig.plot, pngPath, htmlPath); err != nil {
			return err
		}
		a.logger.InfoContext(ctx, "wrote figure", "step", "eda", "chart", fig.name, "output", pngPath)
	}

	grid := [][]*plot.Plot{
		{hist, scatter},
		{box, heatmap},
		{series, nil},
	}
	gridPath := paths.FigurePath(charts.ChartCombined, now, "png")
	gridPage := paths.FigurePath(charts.ChartCombined, now, "html")
	if err := charts.SaveGrid(grid, "Production Overview", gridPath, gridPage); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "wrote combined figure", "step", "eda", "output", gridPath)

	return nil
}
