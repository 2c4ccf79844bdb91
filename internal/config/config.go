// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the dashboard.
//
// Configuration is read from TOML with sensible defaults and environment
// variable overrides, in order of precedence:
//   - Environment variables (AIDASH_*)
//   - ~/.ai-dashboard/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Mode selects which backing store the dashboard talks to.
const (
	// ModeRemote uses the HTTP API server.
	ModeRemote = "remote"
	// ModeLocal uses the on-disk store, no network required.
	ModeLocal = "local"
)

// Config represents the complete dashboard configuration.
type Config struct {
	// Mode is the backing store mode: "remote" or "local".
	Mode string `toml:"mode" json:"mode"`

	// API configuration (used in remote mode)
	API APIConfig `toml:"api" json:"api"`

	// Storage configuration (used in local mode)
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains HTTP backing store configuration.
type APIConfig struct {
	// BaseURL is the root URL of the API server.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// StorageConfig contains local store configuration.
type StorageConfig struct {
	// DataDir is the directory holding projects, chats and overrides.
	// Empty means ~/.ai-dashboard/data.
	DataDir string `toml:"data_dir" json:"data_dir"`
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
	// MarkdownRendering enables glamour rendering of assistant replies.
	MarkdownRendering bool `toml:"markdown_rendering" json:"markdown_rendering"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mode: ModeRemote,

		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 60,
		},

		Storage: StorageConfig{
			DataDir: "",
		},

		UI: UIConfig{
			Theme:             "dark",
			MarkdownRendering: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the dashboard configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ai-dashboard"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir resolves the local store directory, falling back to the
// default under the config directory when unset.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from the default location.
// Missing files are not an error; defaults are used instead.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from an explicit file, with defaults
// and environment overrides applied.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - AIDASH_MODE: overrides mode ("remote" or "local")
//   - AIDASH_API_URL: overrides api.base_url
//   - AIDASH_DATA_DIR: overrides storage.data_dir
func (c *Config) ApplyEnvOverrides() {
	if mode := os.Getenv("AIDASH_MODE"); mode != "" {
		c.Mode = mode
	}
	if apiURL := os.Getenv("AIDASH_API_URL"); apiURL != "" {
		c.API.BaseURL = apiURL
	}
	if dataDir := os.Getenv("AIDASH_DATA_DIR"); dataDir != "" {
		c.Storage.DataDir = dataDir
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeRemote, ModeLocal:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeRemote, ModeLocal, c.Mode)
	}

	if c.Mode == ModeRemote {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("api.base_url is not a valid URL: %q", c.API.BaseURL)
		}
	}

	if c.API.TimeoutSecs < 0 {
		return fmt.Errorf("api.timeout_secs must not be negative, got %d", c.API.TimeoutSecs)
	}

	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}

	return nil
}
