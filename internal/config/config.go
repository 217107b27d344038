// ABOUTME: Configuration for cellar sync and external services.
// ABOUTME: JSON file under XDG config, env overrides for secrets and CI.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds everything the CLI wires at startup.
type Config struct {
	// CharmHost is the charm server URL (empty uses the charm default).
	CharmHost string `json:"charm_host,omitempty"`

	// SyncEnabled turns the remote channel on. Set by `cellar sync link`.
	SyncEnabled bool `json:"sync_enabled"`

	// WatchIntervalSeconds is how often the subscription polls the
	// remote store (default 3).
	WatchIntervalSeconds int `json:"watch_interval_seconds,omitempty"`

	// SuppressWindowMillis is the echo-suppression grace window after a
	// remote write completes (default 2000).
	SuppressWindowMillis int `json:"suppress_window_ms,omitempty"`

	// VisionProvider selects "openai" or "demo" (default demo until an
	// API key is configured).
	VisionProvider string `json:"vision_provider,omitempty"`

	// VisionEndpoint and VisionModel override the hosted defaults.
	VisionEndpoint string `json:"vision_endpoint,omitempty"`
	VisionModel    string `json:"vision_model,omitempty"`

	// ImageSearchEndpoint is the bottle-image search service. Empty
	// disables image lookup.
	ImageSearchEndpoint string `json:"image_search_endpoint,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		WatchIntervalSeconds: 3,
		SuppressWindowMillis: 2000,
		VisionProvider:       "demo",
	}
}

// WatchInterval returns the poll interval as a duration.
func (c *Config) WatchInterval() time.Duration {
	if c.WatchIntervalSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.WatchIntervalSeconds) * time.Second
}

// SuppressWindow returns the grace window as a duration.
func (c *Config) SuppressWindow() time.Duration {
	if c.SuppressWindowMillis <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.SuppressWindowMillis) * time.Millisecond
}

// VisionAPIKey reads the vision credential from the environment; secrets
// never live in the config file.
func VisionAPIKey() string {
	return os.Getenv("CELLAR_VISION_API_KEY")
}

// ConfigDir returns the configuration directory path.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "cellar")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load reads configuration from disk, returning defaults if not found.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if os.IsNotExist(err) {
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes configuration to disk.
func Save(cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// applyEnvOverrides lets the environment win over the file, mirroring
// how CI and tests configure the tool.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CELLAR_CHARM_HOST"); v != "" {
		cfg.CharmHost = v
	}
	if v := os.Getenv("CELLAR_SYNC"); v != "" {
		cfg.SyncEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("CELLAR_VISION_PROVIDER"); v != "" {
		cfg.VisionProvider = v
	}
	if v := os.Getenv("CELLAR_SUPPRESS_WINDOW_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.SuppressWindowMillis = ms
		}
	}
}
