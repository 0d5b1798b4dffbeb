// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

// Package config loads application configuration with koanf.
//
// Precedence, lowest to highest: struct defaults, YAML config file,
// environment variables with the REELSCOPE_ prefix
// (REELSCOPE_SERVER_PORT=8080 maps to server.port).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Mongo     MongoConfig     `koanf:"mongo"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production"; controls log format
	// defaults and CORS strictness.
	Environment string `koanf:"environment" validate:"oneof=development production"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// MongoConfig holds watch-history store settings. When Enabled is false the
// server falls back to the in-memory store (development and tests).
type MongoConfig struct {
	Enabled  bool          `koanf:"enabled"`
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

// TMDBConfig holds metadata provider settings.
type TMDBConfig struct {
	BaseURL string        `koanf:"base_url" validate:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond caps outbound request rate. TMDB allows roughly
	// 40 requests per 10 seconds per IP.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// RecommendConfig holds engine tunables exposed through configuration.
// Scoring weights and caps live in the engine's own config; only the
// operational knobs are configurable here.
type RecommendConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Seed fixes the mood collector's random source. Zero selects the
	// engine default.
	Seed int64 `koanf:"seed"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8454,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Mongo: MongoConfig{
			Enabled:  false,
			URI:      "mongodb://127.0.0.1:27017",
			Database: "reelscope",
			Timeout:  10 * time.Second,
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			APIKey:            "",
			Timeout:           8 * time.Second,
			RequestsPerSecond: 4,
		},
		Recommend: RecommendConfig{
			CacheTTL: 5 * time.Minute,
			Seed:     0,
		},
	}
}

// Validate checks the configuration for errors. Struct tags cover the
// mechanical checks; cross-field rules are checked by hand.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %v", c.TMDB.Timeout)
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("tmdb.requests_per_second must be positive, got %f", c.TMDB.RequestsPerSecond)
	}
	if c.Mongo.Enabled && c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required when mongo.enabled is true")
	}
	if c.Recommend.CacheTTL < 0 {
		return fmt.Errorf("recommend.cache_ttl must be non-negative, got %v", c.Recommend.CacheTTL)
	}

	return nil
}
