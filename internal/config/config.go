// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataPath points at the season-stats CSV.
	DataPath string `koanf:"data_path"`

	// Seed, Restarts, MaxIterations and Tolerance drive k-means.
	Seed          int64   `koanf:"seed"`
	Restarts      int     `koanf:"restarts"`
	MaxIterations int     `koanf:"max_iterations"`
	Tolerance     float64 `koanf:"tolerance"`

	// Parallelism bounds concurrent restarts per fit.
	Parallelism int `koanf:"parallelism"`

	// TopN is the default similar-player count; MaxTopN caps ?n.
	TopN    int `koanf:"top_n"`
	MaxTopN int `koanf:"max_top_n"`

	// StrictK rejects out-of-range k overrides instead of clamping them.
	StrictK bool `koanf:"strict_k"`

	// CacheTTLSeconds bounds how long a loaded dataset is reused; 0 disables expiry.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// RateLimitPerMinute limits modeling requests per client IP; 0 disables it.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshSeconds is the system gauge refresh period.
	MetricsRefreshSeconds int `koanf:"metrics_refresh_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		DataPath:           "data/player_seasons.csv",
		Seed:               23,
		Restarts:           10,
		MaxIterations:      300,
		Tolerance:          1e-4,
		Parallelism:        runtime.NumCPU(),
		TopN:               10,
		MaxTopN:            50,
		StrictK:            true,
		CacheTTLSeconds:    300,
		RateLimitPerMinute: 120,

		MetricsEnabled:        true,
		MetricsRefreshSeconds: 10,
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataPath == "":
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	case c.Restarts < 1:
		return fmt.Errorf("%w: restarts must be positive, got %d", ErrInvalidConfig, c.Restarts)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	case c.Tolerance < 0:
		return fmt.Errorf("%w: tolerance must not be negative", ErrInvalidConfig)
	case c.Parallelism < 1:
		return fmt.Errorf("%w: parallelism must be positive, got %d", ErrInvalidConfig, c.Parallelism)
	case c.TopN < 1 || c.MaxTopN < c.TopN:
		return fmt.Errorf("%w: need 1 <= top_n <= max_top_n, got %d and %d", ErrInvalidConfig, c.TopN, c.MaxTopN)
	case c.MetricsRefreshSeconds < 1:
		return fmt.Errorf("%w: metrics_refresh_seconds must be positive, got %d", ErrInvalidConfig, c.MetricsRefreshSeconds)
	case c.CacheTTLSeconds < 0 || c.RateLimitPerMinute < 0:
		return fmt.Errorf("%w: cache_ttl_seconds and rate_limit_per_minute must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
