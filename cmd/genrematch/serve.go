// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/genrematch/internal/api"
	"github.com/tomtom215/genrematch/internal/config"
	"github.com/tomtom215/genrematch/internal/logging"
	"github.com/tomtom215/genrematch/internal/recommend"
	"github.com/tomtom215/genrematch/internal/supervisor"
	"github.com/tomtom215/genrematch/internal/supervisor/services"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Long: `serve builds the engine once and exposes it as a JSON API:

  GET /health
  GET /api/v1/recommendations?title=&n=
  GET /api/v1/movies/search?q=&limit=
  GET /api/v1/movies/{movieID}/features
  GET /api/v1/movies/{movieID}/chart.png
  GET /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root)
		},
	}
}

func runServe(cmd *cobra.Command, root *rootOptions) error {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	a, err := newApp(ctx, root.configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg := a.cfg
	holder := recommend.NewHolder(a.engine)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	server := newHTTPServer(cfg, holder)
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))

	if cfg.Data.ReloadInterval > 0 {
		rebuild := func(ctx context.Context) error {
			engine, err := buildEngine(ctx, cfg)
			if err != nil {
				return err
			}
			holder.Store(engine)
			return nil
		}
		tree.AddEngineService(services.NewCorpusReloadService(rebuild, services.CorpusReloadConfig{
			Path:     cfg.Data.CSVPath,
			Interval: cfg.Data.ReloadInterval,
		}, logging.WithComponent("corpus-reload")))
		logging.Info().Dur("interval", cfg.Data.ReloadInterval).Msg("Corpus reload enabled")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	serveErr := <-errCh
	if errors.Is(serveErr, context.Canceled) {
		serveErr = nil
	}
	if serveErr != nil {
		logging.Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Server stopped")
	return serveErr
}

func newHTTPServer(cfg *config.Config, holder *recommend.Holder) *http.Server {
	handler := api.NewHandlerWithSource(
		func() api.Engine { return holder.Load() },
		api.HandlerConfig{
			AccuracyDivisor: cfg.Recommend.AccuracyDivisor,
			AllTerms:        cfg.Chart.AllTerms,
			CacheSize:       cfg.Server.CacheSize,
			CacheTTL:        cfg.Server.CacheTTL,
		},
	)

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Server.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Server.RateLimitWindow

	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))

	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
}
