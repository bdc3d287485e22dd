// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdirTemp isolates a test from config.yaml or .env files in the package directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Recommend.MaxFeatures != 1000 {
		t.Errorf("MaxFeatures = %d, want 1000", cfg.Recommend.MaxFeatures)
	}
	if cfg.Recommend.DefaultTopN != 10 {
		t.Errorf("DefaultTopN = %d, want 10", cfg.Recommend.DefaultTopN)
	}
	if cfg.Recommend.AccuracyDivisor != 10 {
		t.Errorf("AccuracyDivisor = %d, want 10", cfg.Recommend.AccuracyDivisor)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{
			name:      "empty csv path",
			modify:    func(c *Config) { c.Data.CSVPath = "" },
			wantError: "data.csv_path is required",
		},
		{
			name:      "zero max features",
			modify:    func(c *Config) { c.Recommend.MaxFeatures = 0 },
			wantError: "recommend.max_features",
		},
		{
			name:      "unknown backend",
			modify:    func(c *Config) { c.Recommend.Backend = "gpu" },
			wantError: "recommend.backend must be one of",
		},
		{
			name:      "unknown self exclusion",
			modify:    func(c *Config) { c.Recommend.SelfExclusion = "none" },
			wantError: "recommend.self_exclusion",
		},
		{
			name:      "unknown chart mode",
			modify:    func(c *Config) { c.Chart.Mode = "svg" },
			wantError: "chart.mode",
		},
		{
			name: "png without output dir",
			modify: func(c *Config) {
				c.Chart.Mode = "png"
				c.Chart.OutputDir = ""
			},
			wantError: "chart.output_dir",
		},
		{
			name:      "port out of range",
			modify:    func(c *Config) { c.Server.Port = 70000 },
			wantError: "server.port",
		},
		{
			name:      "rate limit without window",
			modify:    func(c *Config) { c.Server.RateLimitWindow = 0 },
			wantError: "server.rate_limit_window",
		},
		{
			name:      "bad log format",
			modify:    func(c *Config) { c.Logging.Format = "xml" },
			wantError: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantError == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantError)
			}
			if !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantError)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Data.CSVPath != "combined_df.csv" {
		t.Errorf("CSVPath = %q", cfg.Data.CSVPath)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "custom.yaml")
	yaml := `data:
  csv_path: /data/movies.csv
recommend:
  max_features: 500
  backend: dense
server:
  port: 9090
  read_timeout: 5s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RECOMMEND_BACKEND", "sparse")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Data.CSVPath != "/data/movies.csv" {
		t.Errorf("CSVPath = %q, want file value", cfg.Data.CSVPath)
	}
	if cfg.Recommend.MaxFeatures != 500 {
		t.Errorf("MaxFeatures = %d, want 500", cfg.Recommend.MaxFeatures)
	}
	if cfg.Recommend.Backend != "sparse" {
		t.Errorf("Backend = %q, env should override file", cfg.Recommend.Backend)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if got := strings.Join(cfg.Server.CORSOrigins, "|"); got != "http://a.example|http://b.example" {
		t.Errorf("CORSOrigins = %q", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)

	if err := os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("MOVIES_CSV=from-dotenv.csv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set; clear it after the test.
	t.Setenv("MOVIES_CSV", "")
	os.Unsetenv("MOVIES_CSV")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Data.CSVPath != "from-dotenv.csv" {
		t.Errorf("CSVPath = %q, want value from .env", cfg.Data.CSVPath)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)

	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatal("Load() with missing explicit file should fail")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CHART_MODE", "hologram")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() should reject an invalid chart mode")
	}
	if !strings.Contains(err.Error(), "chart.mode") {
		t.Errorf("error = %q, want chart.mode", err.Error())
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"MOVIES_CSV":             "data.csv_path",
		"MOVIES_RELOAD_INTERVAL": "data.reload_interval",
		"RECOMMEND_BACKEND":      "recommend.backend",
		"HTTP_PORT":              "server.port",
		"PATH":                   "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
