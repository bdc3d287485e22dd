// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/genrematch/internal/chart"
	"github.com/tomtom215/genrematch/internal/config"
	"github.com/tomtom215/genrematch/internal/corpus"
	"github.com/tomtom215/genrematch/internal/logging"
	"github.com/tomtom215/genrematch/internal/metrics"
	"github.com/tomtom215/genrematch/internal/recommend"
	"github.com/tomtom215/genrematch/internal/repl"
)

// app is what every command needs: configuration and a built engine.
type app struct {
	cfg    *config.Config
	engine *recommend.Engine
}

// loadConfig reads configuration and points the global logger at logOut.
func loadConfig(path string, logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    logOut,
	})
	return cfg, nil
}

// newApp loads configuration, reads the corpus and builds the engine.
// A corpus that cannot be read is fatal for every command.
func newApp(ctx context.Context, configPath string, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig(configPath, logOut)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, engine: engine}, nil
}

// buildEngine loads cfg.Data.CSVPath and builds a recommendation engine over it.
func buildEngine(ctx context.Context, cfg *config.Config) (*recommend.Engine, error) {
	start := time.Now()
	c, err := corpus.Load(cfg.Data.CSVPath)
	metrics.RecordBuildStage(metrics.StageLoad, cfg.Recommend.Backend, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	logging.Info().
		Str("path", cfg.Data.CSVPath).
		Int("movies", c.Len()).
		Dur("duration", time.Since(start)).
		Msg("Corpus loaded")

	engine, err := recommend.Build(ctx, c, engineConfig(cfg), logging.WithComponent("engine"))
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	stats := engine.Stats()
	logging.Info().
		Int("movies", stats.Movies).
		Int("terms", stats.Terms).
		Int("duplicate_titles", stats.DuplicateTitles).
		Str("backend", stats.Backend).
		Dur("duration", stats.BuildDuration).
		Msg("Recommendation engine ready")
	return engine, nil
}

func engineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		MaxFeatures:   cfg.Recommend.MaxFeatures,
		DefaultTopN:   cfg.Recommend.DefaultTopN,
		SelfExclusion: recommend.SelfExclusion(cfg.Recommend.SelfExclusion),
		Backend:       cfg.Recommend.Backend,
		Workers:       cfg.Recommend.Workers,
	}
}

// session wires the engine and the configured chart into a REPL session.
// topN <= 0 uses recommend.default_top_n.
func (a *app) session(in io.Reader, out io.Writer, topN int) (*repl.Session, error) {
	renderer, err := chart.New(a.cfg.Chart.Mode, a.cfg.Chart.OutputDir)
	if err != nil {
		return nil, err
	}

	var chartRenderer repl.ChartRenderer
	if renderer != nil {
		chartRenderer = renderer
	}

	if topN <= 0 {
		topN = a.cfg.Recommend.DefaultTopN
	}
	return repl.NewSession(a.engine, chartRenderer, repl.Config{
		TopN:            topN,
		AccuracyDivisor: a.cfg.Recommend.AccuracyDivisor,
		ChartAllTerms:   a.cfg.Chart.AllTerms,
	}, in, out), nil
}
