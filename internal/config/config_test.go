// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8454 {
		t.Errorf("Server.Port = %d, want 8454", cfg.Server.Port)
	}
	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDB.BaseURL = %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.Timeout != 8*time.Second {
		t.Errorf("TMDB.Timeout = %v, want 8s", cfg.TMDB.Timeout)
	}
	if cfg.Mongo.Enabled {
		t.Error("Mongo.Enabled = true, want false by default")
	}
	if cfg.Recommend.CacheTTL != 5*time.Minute {
		t.Errorf("Recommend.CacheTTL = %v, want 5m", cfg.Recommend.CacheTTL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REELSCOPE_SERVER_PORT", "9000")
	t.Setenv("REELSCOPE_TMDB_API_KEY", "secret")
	t.Setenv("REELSCOPE_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.TMDB.APIKey != "secret" {
		t.Errorf("TMDB.APIKey = %q, want secret", cfg.TMDB.APIKey)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9100\nlog:\n  level: warn\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("REELSCOPE_SERVER_PORT", "9200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("Server.Port = %d, env should win over file", cfg.Server.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad environment", func(c *Config) { c.Server.Environment = "staging" }},
		{"zero tmdb timeout", func(c *Config) { c.TMDB.Timeout = 0 }},
		{"zero request rate", func(c *Config) { c.TMDB.RequestsPerSecond = 0 }},
		{"mongo without uri", func(c *Config) { c.Mongo.Enabled = true; c.Mongo.URI = "" }},
		{"negative cache ttl", func(c *Config) { c.Recommend.CacheTTL = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"REELSCOPE_SERVER_PORT", "server.port"},
		{"REELSCOPE_TMDB_API_KEY", "tmdb.api_key"},
		{"REELSCOPE_TMDB_REQUESTS_PER_SECOND", "tmdb.requests_per_second"},
		{"REELSCOPE_LOG_LEVEL", "log.level"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
