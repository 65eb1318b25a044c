// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

// Package config loads and validates Quadboard's configuration from layered
// sources: built-in defaults, an optional YAML file, and environment
// variables, in ascending precedence.
package config

import (
	"time"

	"github.com/quadboard/quadboard/internal/recommend"
)

// Config is the root configuration for the Quadboard server.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Security   SecurityConfig   `koanf:"security"`
	API        APIConfig        `koanf:"api"`
	Logging    LoggingConfig    `koanf:"logging"`
	Recommend  recommend.Config `koanf:"recommend"`
	Popularity PopularityConfig `koanf:"popularity"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port. Default: 8080
	Port int `koanf:"port"`

	// Timeout bounds request read/write and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Production tightens
	// security validation (a JWT secret becomes mandatory).
	Environment string `koanf:"environment"`
}

// DatabaseConfig configures the embedded DuckDB database.
type DatabaseConfig struct {
	// Path is the database file path. ":memory:" runs fully in-memory.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB's memory usage, e.g. "1GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 uses the runtime default.
	Threads int `koanf:"threads"`

	// SeedDemoData loads a small demo dataset on first start.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// SecurityConfig configures authentication and request limits.
type SecurityConfig struct {
	// AuthMode selects the authentication mechanism: "jwt" or "none".
	// "none" trusts the X-User-ID header and exists for local development.
	AuthMode string `koanf:"auth_mode"`

	// JWTSecret signs and verifies HS256 bearer tokens. Required in
	// production when AuthMode is "jwt".
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the issued-token lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// RateLimitReqs is the per-client request budget per window.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns rate limiting off entirely.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig configures API pagination.
type APIConfig struct {
	// DefaultPageSize is the page size when the client does not specify one.
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize caps the client-requested page size.
	MaxPageSize int `koanf:"max_page_size"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is the minimum log level. Default: info
	Level string `koanf:"level"`

	// Format is json or console. Default: json
	Format string `koanf:"format"`

	// Caller includes file and line in log output.
	Caller bool `koanf:"caller"`
}

// PopularityConfig configures the background popularity refresher.
type PopularityConfig struct {
	// Enabled turns the background refresher on.
	Enabled bool `koanf:"enabled"`

	// RefreshInterval is how often popularity counters are recomputed from
	// the interactions table.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/quadboard.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: *recommend.DefaultConfig(),
		Popularity: PopularityConfig{
			Enabled:         true,
			RefreshInterval: 5 * time.Minute,
		},
	}
}
