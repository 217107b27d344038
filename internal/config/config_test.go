// ABOUTME: Tests for config loading, defaults, and env overrides.
// ABOUTME: Uses t.Setenv to isolate XDG and CELLAR_* variables.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SyncEnabled {
		t.Error("sync should be disabled by default")
	}
	if cfg.VisionProvider != "demo" {
		t.Errorf("VisionProvider = %q, want demo", cfg.VisionProvider)
	}
	if got := cfg.SuppressWindow(); got != 2*time.Second {
		t.Errorf("SuppressWindow() = %v, want 2s", got)
	}
	if got := cfg.WatchInterval(); got != 3*time.Second {
		t.Errorf("WatchInterval() = %v, want 3s", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.SyncEnabled = true
	cfg.CharmHost = "charm.example.com"
	cfg.SuppressWindowMillis = 1500

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.SyncEnabled {
		t.Error("SyncEnabled not persisted")
	}
	if loaded.CharmHost != "charm.example.com" {
		t.Errorf("CharmHost = %q", loaded.CharmHost)
	}
	if got := loaded.SuppressWindow(); got != 1500*time.Millisecond {
		t.Errorf("SuppressWindow() = %v, want 1.5s", got)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, "cellar"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cellar", "config.json"), []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on corrupt JSON")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CELLAR_CHARM_HOST", "alt.example.com")
	t.Setenv("CELLAR_SYNC", "true")
	t.Setenv("CELLAR_VISION_PROVIDER", "openai")
	t.Setenv("CELLAR_SUPPRESS_WINDOW_MS", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CharmHost != "alt.example.com" {
		t.Errorf("CharmHost = %q", cfg.CharmHost)
	}
	if !cfg.SyncEnabled {
		t.Error("CELLAR_SYNC=true should enable sync")
	}
	if cfg.VisionProvider != "openai" {
		t.Errorf("VisionProvider = %q", cfg.VisionProvider)
	}
	if got := cfg.SuppressWindow(); got != 500*time.Millisecond {
		t.Errorf("SuppressWindow() = %v, want 500ms", got)
	}
}

func TestVisionAPIKeyFromEnv(t *testing.T) {
	t.Setenv("CELLAR_VISION_API_KEY", "sk-test")
	if got := VisionAPIKey(); got != "sk-test" {
		t.Errorf("VisionAPIKey() = %q", got)
	}
}
