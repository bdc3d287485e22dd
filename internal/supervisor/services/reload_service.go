// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/genrematch/internal/metrics"
)

// RebuildFunc reloads the corpus, builds a new engine and publishes it.
type RebuildFunc func(ctx context.Context) error

// CorpusReloadConfig holds configuration for the corpus reload service.
type CorpusReloadConfig struct {
	// Path is the CSV file to watch.
	Path string

	// Interval is how often the file's modification time is checked.
	Interval time.Duration

	// BuildTimeout bounds a single rebuild.
	BuildTimeout time.Duration
}

// CorpusReloadService polls the corpus file and rebuilds the engine when it
// changes. A failed rebuild is logged and the previous engine keeps serving;
// the next modification of the file triggers another attempt.
type CorpusReloadService struct {
	rebuild RebuildFunc
	config  CorpusReloadConfig
	logger  zerolog.Logger
	name    string

	lastMod  time.Time
	lastSize int64
}

// NewCorpusReloadService creates a reload service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCorpusReloadService(rebuild RebuildFunc, cfg CorpusReloadConfig, logger zerolog.Logger) *CorpusReloadService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = 5 * time.Minute
	}
	return &CorpusReloadService{
		rebuild: rebuild,
		config:  cfg,
		logger:  logger.With().Str("service", "corpus-reload").Logger(),
		name:    "corpus-reload",
	}
}

// Serve implements suture.Service.
func (s *CorpusReloadService) Serve(ctx context.Context) error {
	if s.lastMod.IsZero() {
		// The engine was built from the file as it is now.
		if err := s.snapshot(); err != nil {
			s.logger.Warn().Err(err).Msg("cannot stat corpus file, will keep polling")
		}
	}

	s.logger.Info().
		Str("path", s.config.Path).
		Dur("interval", s.config.Interval).
		Msg("corpus reload service running")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("corpus reload service shutting down")
			return ctx.Err()

		case <-ticker.C:
			changed, err := s.changed()
			if err != nil {
				s.logger.Warn().Err(err).Msg("cannot stat corpus file")
				continue
			}
			if changed {
				s.reload(ctx)
			}
		}
	}
}

func (s *CorpusReloadService) reload(ctx context.Context) {
	buildCtx, cancel := context.WithTimeout(ctx, s.config.BuildTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info().Msg("corpus file changed, rebuilding engine")

	err := s.rebuild(buildCtx)
	metrics.RecordReload(err)
	if err != nil {
		s.logger.Error().Err(err).Msg("rebuild failed, previous engine still serving")
		return
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("engine rebuilt")
}

// changed compares the file against the last snapshot and takes a new one.
func (s *CorpusReloadService) changed() (bool, error) {
	prevMod, prevSize := s.lastMod, s.lastSize
	if err := s.snapshot(); err != nil {
		return false, err
	}
	return !s.lastMod.Equal(prevMod) || s.lastSize != prevSize, nil
}

func (s *CorpusReloadService) snapshot() error {
	info, err := os.Stat(s.config.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.config.Path, err)
	}
	s.lastMod = info.ModTime()
	s.lastSize = info.Size()
	return nil
}

// String returns the service name for logging.
func (s *CorpusReloadService) String() string {
	return s.name
}
