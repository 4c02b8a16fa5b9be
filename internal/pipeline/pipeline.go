package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"oilpulse/internal/config"
)

// Step names, in execution order
const (
	StepClean     = "clean"
	StepEDA       = "eda"
	StepModel     = "model"
	StepDashboard = "dashboard"
)

// stepOrder fixes the execution order regardless of how steps were
// requested on the command line.
var stepOrder = []string{StepClean, StepEDA, StepModel, StepDashboard}

// Step is one stage of the analytics pipeline
type Step interface {
	Name() string
	Run(ctx context.Context, paths *config.Paths) error
}

// NormalizeSteps validates requested step names and returns them in
// execution order, deduplicated. An empty request means all steps.
func NormalizeSteps(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string{}, stepOrder...), nil
	}

	want := make(map[string]bool)
	for _, name := range requested {
		known := false
		for _, s := range stepOrder {
			if name == s {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown step %q (valid steps: clean, eda, model, dashboard)", name)
		}
		want[name] = true
	}

	var out []string
	for _, s := range stepOrder {
		if want[s] {
			out = append(out, s)
		}
	}
	return out, nil
}

// Runner executes pipeline steps sequentially. The first failing step
// aborts everything after it.
type Runner struct {
	steps  []Step
	logger *slog.Logger
}

// NewRunner creates a runner over the given steps
func NewRunner(steps []Step, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{steps: steps, logger: logger.With("component", "pipeline")}
}

// Run executes the steps in order, fail-fast
func (r *Runner) Run(ctx context.Context, paths *config.Paths) error {
	for _, step := range r.steps {
		start := time.Now()
		r.logger.InfoContext(ctx, "step starting", "step", step.Name())

		if err := step.Run(ctx, paths); err != nil {
			r.logger.ErrorContext(ctx, "step failed, aborting remaining steps",
				"step", step.Name(), "error", err)
			return fmt.Errorf("step %s: %w", step.Name(), err)
		}

		r.logger.InfoContext(ctx, "step complete",
			"step", step.Name(), "duration", time.Since(start).String())
	}
	return nil
}
