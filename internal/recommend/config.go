// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package recommend

import (
	"fmt"

	"github.com/tomtom215/genrematch/internal/recommend/similarity"
)

// SelfExclusion selects how the query movie is removed from its own ranking.
type SelfExclusion string

const (
	// ExcludeByIndex drops the query row by identity. Another movie with an
	// identical genre text keeps its place in the results.
	ExcludeByIndex SelfExclusion = "index"

	// ExcludeByPosition drops whatever ranks first. This reproduces the
	// legacy output, which loses a duplicate-genre movie ranked ahead of the
	// query row instead of the query itself.
	ExcludeByPosition SelfExclusion = "position"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// MaxFeatures caps the TF-IDF vocabulary.
	MaxFeatures int `json:"max_features"`

	// DefaultTopN is used when a caller asks for zero or fewer results.
	DefaultTopN int `json:"default_top_n"`

	// SelfExclusion chooses how the query movie leaves its own ranking.
	SelfExclusion SelfExclusion `json:"self_exclusion"`

	// Backend names the similarity implementation ("dense" or "sparse").
	Backend string `json:"backend"`

	// Workers bounds the sparse backend's goroutines. 0 means GOMAXPROCS.
	Workers int `json:"workers"`
}

// DefaultConfig returns the configuration matching the reference pipeline.
func DefaultConfig() *Config {
	return &Config{
		MaxFeatures:   1000,
		DefaultTopN:   10,
		SelfExclusion: ExcludeByIndex,
		Backend:       similarity.BackendSparse,
		Workers:       0,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxFeatures < 1 {
		return fmt.Errorf("max_features must be positive, got %d", c.MaxFeatures)
	}
	if c.DefaultTopN < 1 {
		return fmt.Errorf("default_top_n must be positive, got %d", c.DefaultTopN)
	}
	switch c.SelfExclusion {
	case ExcludeByIndex, ExcludeByPosition:
	default:
		return fmt.Errorf("self_exclusion must be %q or %q, got %q", ExcludeByIndex, ExcludeByPosition, c.SelfExclusion)
	}
	switch c.Backend {
	case similarity.BackendDense, similarity.BackendSparse:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", similarity.BackendDense, similarity.BackendSparse, c.Backend)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
