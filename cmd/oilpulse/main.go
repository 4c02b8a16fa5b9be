// oilpulse runs the oil-field production analytics pipeline: cleaning,
// exploratory analysis, modeling, and the interactive dashboard.
//
// Usage:
//
//	oilpulse                               run every step
//	oilpulse -steps clean,eda              run a subset
//	oilpulse -steps model -steps dashboard repeatable flag form
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"oilpulse/internal/config"
	"oilpulse/internal/infrastructure"
	"oilpulse/internal/pipeline"
)

// stepsFlag collects -steps values, accepting both repeated flags and
// comma-separated lists.
type stepsFlag []string

func (s *stepsFlag) String() string { return strings.Join(*s, ",") }

func (s *stepsFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "oilpulse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		steps      stepsFlag
		root       string
		configFile string
	)
	flag.Var(&steps, "steps", "pipeline steps to run: clean, eda, model, dashboard (default all)")
	flag.StringVar(&root, "root", "", "project root directory (default: working directory)")
	flag.StringVar(&configFile, "config", "", "config file path (default: <root>/oilpulse.yml)")
	flag.Parse()

	names, err := pipeline.NormalizeSteps([]string(steps))
	if err != nil {
		return err
	}

	paths, err := config.GetPaths(root)
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	if configFile == "" {
		configFile = paths.ConfigFile
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	// Relative log paths land under the project root, not the working
	// directory of whoever launched the binary
	if cfg.Logging.FilePath != "" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = filepath.Join(paths.RootDir, cfg.Logging.FilePath)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	runCtx := infrastructure.WithRunID(context.Background(), uuid.New().String())
	ctx, stop := signal.NotifyContext(runCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "pipeline starting",
		"steps", strings.Join(names, ","), "root", paths.RootDir)

	runner := pipeline.NewRunner(pipeline.BuildSteps(names, cfg, logger), logger)
	return runner.Run(ctx, paths)
}
