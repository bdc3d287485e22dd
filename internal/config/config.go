// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package config loads Genrematch configuration from built-in defaults, an
// optional YAML file and environment variables (highest priority wins).
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Chart     ChartConfig     `koanf:"chart"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig locates the movie corpus.
type DataConfig struct {
	// CSVPath is the comma-separated file with movieId, title and combined_genres columns.
	CSVPath string `koanf:"csv_path" validate:"required"`

	// ReloadInterval makes `serve` poll the CSV file and rebuild the engine
	// when its modification time changes. 0 disables reloading.
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"min=0"`
}

// RecommendConfig tunes the vectorizer, similarity backend and ranking.
type RecommendConfig struct {
	// MaxFeatures caps the TF-IDF vocabulary size.
	MaxFeatures int `koanf:"max_features" validate:"min=1,max=100000"`

	// DefaultTopN is used when a request does not say how many results it wants.
	DefaultTopN int `koanf:"default_top_n" validate:"min=1,max=1000"`

	// SelfExclusion selects how the query movie is removed from its own ranking:
	// "index" drops it by row identity, "position" drops the first ranked entry.
	SelfExclusion string `koanf:"self_exclusion" validate:"oneof=index position"`

	// Backend selects the similarity implementation: "dense" (gonum) or "sparse".
	Backend string `koanf:"backend" validate:"oneof=dense sparse"`

	// Workers bounds the goroutines used by the sparse backend (0 = GOMAXPROCS).
	Workers int `koanf:"workers" validate:"min=0,max=1024"`

	// AccuracyDivisor divides the score sum in the accuracy summary.
	// 0 divides by the number of results actually returned.
	AccuracyDivisor int `koanf:"accuracy_divisor" validate:"min=0"`
}

// ChartConfig controls the feature-weight chart printed after each lookup.
type ChartConfig struct {
	// Mode is one of "off", "terminal" or "png".
	Mode string `koanf:"mode" validate:"oneof=off terminal png"`

	// OutputDir receives PNG charts when Mode is "png".
	OutputDir string `koanf:"output_dir"`

	// AllTerms draws every vocabulary term instead of only the non-zero ones.
	AllTerms bool `koanf:"all_terms"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// CacheSize bounds the recommendation response cache (0 disables it).
	CacheSize int           `koanf:"cache_size" validate:"min=0"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with every default filled in.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			CSVPath:        "combined_df.csv",
			ReloadInterval: 0,
		},
		Recommend: RecommendConfig{
			MaxFeatures:     1000,
			DefaultTopN:     10,
			SelfExclusion:   "index",
			Backend:         "sparse",
			Workers:         0,
			AccuracyDivisor: 10,
		},
		Chart: ChartConfig{
			Mode:      "terminal",
			OutputDir: "charts",
			AllTerms:  false,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
			CacheSize:       1024,
			CacheTTL:        10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Addr returns the listen address for the HTTP server.
//
//nolint:gocritic // value receiver keeps the config immutable
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
