// Package config loads the application settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
	"github.com/ramonehamilton/MTG-Drawer/internal/stats"
)

// Config represents the application configuration.
type Config struct {
	// Hand drawing configuration
	Draw DrawConfig `toml:"draw"`

	// Card metadata resolver configuration
	Resolver ResolverConfig `toml:"resolver"`

	// Persistent metadata cache configuration
	Cache CacheConfig `toml:"cache"`

	// HTTP API configuration
	Server ServerConfig `toml:"server"`

	// Chart output configuration
	Charts ChartsConfig `toml:"charts"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// DrawConfig contains sampling and statistics settings.
type DrawConfig struct {
	HandSize     int    `toml:"hand_size"`      // Cards per hand
	MaxDrawCount int    `toml:"max_draw_count"` // Largest batch accepted
	StatsScope   string `toml:"stats_scope"`    // "all" or "latest"
	DrawMode     string `toml:"draw_mode"`      // "independent" or "consume"
	Seed         uint64 `toml:"seed"`           // 0 = random
}

// ResolverConfig contains Scryfall client settings.
type ResolverConfig struct {
	BaseURL        string `toml:"base_url"`        // Scryfall API base URL
	UserAgent      string `toml:"user_agent"`      // User-Agent header
	RateLimit      string `toml:"rate_limit"`      // Minimum delay between requests (e.g., "100ms")
	Timeout        string `toml:"timeout"`         // HTTP timeout (e.g., "30s")
	MaxConcurrency int    `toml:"max_concurrency"` // Concurrent lookups per submission
}

// CacheConfig contains persistent cache settings.
type CacheConfig struct {
	Enabled         bool   `toml:"enabled"`          // Keep resolved cards in SQLite
	DBPath          string `toml:"db_path"`          // Database file; empty uses the config directory
	TTL             string `toml:"ttl"`              // Row lifetime (e.g., "168h")
	CleanupInterval string `toml:"cleanup_interval"` // Stale row purge interval (e.g., "1h")
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// ChartsConfig contains chart rendering settings.
type ChartsConfig struct {
	OutputDir string `toml:"output_dir"` // Where CLI chart pages are written
	Width     string `toml:"width"`      // Chart width (e.g., "600px")
	Height    string `toml:"height"`     // Chart height (e.g., "450px")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Draw: DrawConfig{
			HandSize:     drawer.DefaultHandSize,
			MaxDrawCount: drawer.MaxDrawCount,
			StatsScope:   string(stats.ScopeAll),
			DrawMode:     string(drawer.DrawIndependent),
			Seed:         0,
		},
		Resolver: ResolverConfig{
			BaseURL:        "https://api.scryfall.com",
			UserAgent:      "MTG-Drawer/1.0",
			RateLimit:      "100ms",
			Timeout:        "30s",
			MaxConcurrency: 8,
		},
		Cache: CacheConfig{
			Enabled:         true,
			DBPath:          "",
			TTL:             "168h",
			CleanupInterval: "1h",
		},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: nil,
		},
		Charts: ChartsConfig{
			OutputDir: ".",
			Width:     "600px",
			Height:    "450px",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".mtg-drawer")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return configDir, nil
}

// Path returns the path to the default configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path. Returns the default config if
// the file doesn't exist. Keys missing from the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Draw.HandSize <= 0 {
		return fmt.Errorf("hand size must be positive: %d", c.Draw.HandSize)
	}
	if c.Draw.MaxDrawCount <= 0 || c.Draw.MaxDrawCount > drawer.MaxDrawCount {
		return fmt.Errorf("max draw count must be between 1 and %d: %d", drawer.MaxDrawCount, c.Draw.MaxDrawCount)
	}
	if _, err := stats.ParseScope(c.Draw.StatsScope); err != nil {
		return err
	}
	if _, err := drawer.ParseDrawMode(c.Draw.DrawMode); err != nil {
		return err
	}

	if _, err := time.ParseDuration(c.Resolver.RateLimit); err != nil {
		return fmt.Errorf("invalid rate limit %q: %w", c.Resolver.RateLimit, err)
	}
	if _, err := time.ParseDuration(c.Resolver.Timeout); err != nil {
		return fmt.Errorf("invalid resolver timeout %q: %w", c.Resolver.Timeout, err)
	}
	if c.Resolver.MaxConcurrency < 0 {
		return fmt.Errorf("max concurrency cannot be negative: %d", c.Resolver.MaxConcurrency)
	}

	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Cache.TTL, err)
	}
	if _, err := time.ParseDuration(c.Cache.CleanupInterval); err != nil {
		return fmt.Errorf("invalid cleanup interval %q: %w", c.Cache.CleanupInterval, err)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	return nil
}

// GetRateLimit returns the resolver rate limit as a duration.
func (c *Config) GetRateLimit() (time.Duration, error) {
	return time.ParseDuration(c.Resolver.RateLimit)
}

// GetResolverTimeout returns the resolver HTTP timeout as a duration.
func (c *Config) GetResolverTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Resolver.Timeout)
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// GetCleanupInterval returns the stale row purge interval as a duration.
func (c *Config) GetCleanupInterval() (time.Duration, error) {
	return time.ParseDuration(c.Cache.CleanupInterval)
}

// GetDBPath returns the cache database path, defaulting to drawer.db in the
// config directory.
func (c *Config) GetDBPath() (string, error) {
	if c.Cache.DBPath != "" {
		return c.Cache.DBPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "drawer.db"), nil
}
