package pipeline

import (
	"context"
	"log/slog"

	"oilpulse/internal/analysis"
	"oilpulse/internal/cleaning"
	"oilpulse/internal/config"
	"oilpulse/internal/dashboard"
	"oilpulse/internal/dataset"
	"oilpulse/internal/files"
	"oilpulse/internal/model"
)

// BuildSteps assembles the pipeline steps named in order. Names must
// already be normalized.
func BuildSteps(names []string, cfg *config.Config, logger *slog.Logger) []Step {
	var steps []Step
	for _, name := range names {
		switch name {
		case StepClean:
			steps = append(steps, &cleanStep{cleaner: cleaning.New(cfg.Cleaning, logger)})
		case StepEDA:
			steps = append(steps, &edaStep{analyzer: analysis.NewAnalyzer(logger)})
		case StepModel:
			steps = append(steps, &modelStep{modeler: model.NewModeler(cfg.Model, logger)})
		case StepDashboard:
			steps = append(steps, &dashboardStep{cfg: cfg.Server, logger: logger})
		}
	}
	return steps
}

type cleanStep struct {
	cleaner *cleaning.Cleaner
}

func (s *cleanStep) Name() string { return StepClean }

func (s *cleanStep) Run(ctx context.Context, paths *config.Paths) error {
	_, err := s.cleaner.Run(ctx, paths)
	return err
}

type edaStep struct {
	analyzer *analysis.Analyzer
}

func (s *edaStep) Name() string { return StepEDA }

func (s *edaStep) Run(ctx context.Context, paths *config.Paths) error {
	return s.analyzer.Run(ctx, paths)
}

type modelStep struct {
	modeler *model.Modeler
}

func (s *modelStep) Name() string { return StepModel }

func (s *modelStep) Run(ctx context.Context, paths *config.Paths) error {
	_, err := s.modeler.Run(ctx, paths)
	return err
}

// dashboardStep serves the dashboard over the latest cleaned dataset.
// It blocks until the context is canceled.
type dashboardStep struct {
	cfg    config.ServerConfig
	logger *slog.Logger
}

func (s *dashboardStep) Name() string { return StepDashboard }

func (s *dashboardStep) Run(ctx context.Context, paths *config.Paths) error {
	path, err := files.GetLatestCleanedFile(paths)
	if err != nil {
		return err
	}

	table, err := dataset.Load(path, s.logger)
	if err != nil {
		return err
	}

	srv, err := dashboard.NewServer(s.cfg, table, s.logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
