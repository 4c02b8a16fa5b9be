package model

import (
	"context"
	"log/slog"
	"time"

	"oilpulse/internal/charts"
	"oilpulse/internal/config"
	"oilpulse/internal/dataset"
	apperrors "oilpulse/internal/errors"
	"oilpulse/internal/files"
	"oilpulse/internal/report"
)

// Modeler trains the oil production regressor on the latest cleaned
// dataset and writes the evaluation charts and the PDF report.
type Modeler struct {
	cfg    config.ModelConfig
	logger *slog.Logger
}

// NewModeler creates a Modeler with the given configuration
func NewModeler(cfg config.ModelConfig, logger *slog.Logger) *Modeler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Modeler{cfg: cfg, logger: logger.With("component", "modeler")}
}

// Result is the outcome of one modeling run
type Result struct {
	Metrics     Metrics
	Importances []FeatureImportance
	TrainRows   int
	TestRows    int
	ReportPath  string
}

// Run trains and evaluates the model against the most recent cleaned
// dataset.
func (m *Modeler) Run(ctx context.Context, paths *config.Paths) (*Result, error) {
	path, err := files.GetLatestCleanedFile(paths)
	if err != nil {
		return nil, err
	}

	table, err := dataset.Load(path, m.logger)
	if err != nil {
		return nil, err
	}

	fs, err := BuildFeatures(table)
	if err != nil {
		return nil, err
	}
	if len(fs.X) < 2 {
		return nil, apperrors.NewValidationError("dataset has too few usable rows to train on")
	}

	trainIdx, testIdx := TrainTestSplit(len(fs.X), m.cfg.TestFraction, m.cfg.Seed)
	m.logger.InfoContext(ctx, "training model",
		"step", "model",
		"input", path,
		"features", len(fs.Names),
		"train_rows", len(trainIdx),
		"test_rows", len(testIdx),
		"trees", m.cfg.Trees)

	forest, err := TrainForest(fs, trainIdx, m.cfg.Trees, m.cfg.Seed)
	if err != nil {
		return nil, err
	}

	predicted := forest.PredictAll(fs, testIdx)
	actual := make([]float64, len(testIdx))
	for i, row := range testIdx {
		actual[i] = fs.Y[row]
	}

	metrics := Evaluate(actual, predicted)
	m.logger.InfoContext(ctx, "model evaluation",
		"step", "model", "mse", metrics.MSE, "r2", metrics.R2)

	importances := forest.Importances()

	now := time.Now()
	reportPath, err := m.writeOutputs(ctx, paths, now, actual, predicted, importances, metrics)
	if err != nil {
		return nil, err
	}

	return &Result{
		Metrics:     metrics,
		Importances: importances,
		TrainRows:   len(trainIdx),
		TestRows:    len(testIdx),
		ReportPath:  reportPath,
	}, nil
}

// writeOutputs renders the two evaluation charts and the PDF report
func (m *Modeler) writeOutputs(ctx context.Context, paths *config.Paths, now time.Time,
	actual, predicted []float64, importances []FeatureImportance, metrics Metrics) (string, error) {

	predPlot, err := charts.PredictedVsActual(actual, predicted)
	if err != nil {
		return "", err
	}

	names := make([]string, len(importances))
	scores := make([]float64, len(importances))
	for i, imp := range importances {
		names[i] = imp.Name
		scores[i] = imp.Score
	}
	impPlot, err := charts.FeatureImportanceBars(names, scores)
	if err != nil {
		return "", err
	}

	predPNG := paths.FigurePath(charts.ChartPredictedVsActual, now, "png")
	if err := charts.SaveFigure(predPlot, predPNG,
		paths.FigurePath(charts.ChartPredictedVsActual, now, "html")); err != nil {
		return "", err
	}
	impPNG := paths.FigurePath(charts.ChartFeatureImportance, now, "png")
	if err := charts.SaveFigure(impPlot, impPNG,
		paths.FigurePath(charts.ChartFeatureImportance, now, "html")); err != nil {
		return "", err
	}

	pdfReport := &report.ModelingReport{
		Title:      "تقرير نمذجة إنتاج النفط",
		TitleLatin: "Oil Production Modeling Report",
		MSE:        metrics.MSE,
		R2:         metrics.R2,
		Figures: []report.Figure{
			{
				PNGPath:      predPNG,
				Caption:      "مقارنة القيم الفعلية والمتوقعة لإنتاج النفط",
				CaptionLatin: "Predicted vs actual oil production",
			},
			{
				PNGPath:      impPNG,
				Caption:      "أهمية المتغيرات في نموذج التنبؤ",
				CaptionLatin: "Feature importance in the prediction model",
			},
		},
		FontPath: paths.ArabicFontTTF,
	}

	reportPath := paths.ReportPath("modeling_report", now, "pdf")
	if err := pdfReport.Write(reportPath); err != nil {
		return "", err
	}
	m.logger.InfoContext(ctx, "wrote modeling report", "step", "model", "output", reportPath)

	return reportPath, nil
}
