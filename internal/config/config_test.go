package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPath_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	want := DefaultConfig()
	if *cfg != *want {
		t.Fatalf("expected defaults %+v, got %+v", want, cfg)
	}
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "poll_ms: 25\nminimize_workers: 2\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.PollMs != 25 {
		t.Fatalf("expected PollMs=25, got %d", cfg.PollMs)
	}
	if cfg.MinimizeWorkers != 2 {
		t.Fatalf("expected MinimizeWorkers=2, got %d", cfg.MinimizeWorkers)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected LogLevel=debug, got %q", cfg.LogLevel)
	}
	// Unspecified fields retain their defaults.
	if cfg.MaxInstanceWaitMs != 2000 {
		t.Fatalf("expected untouched default MaxInstanceWaitMs=2000, got %d", cfg.MaxInstanceWaitMs)
	}
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("poll_ms: [not-a-scalar"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected an error for invalid YAML")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.PollInterval(); got.Milliseconds() != 50 {
		t.Fatalf("expected 50ms, got %v", got)
	}
	if got := cfg.MaxInstanceWait(); got.Milliseconds() != 2000 {
		t.Fatalf("expected 2000ms, got %v", got)
	}
	if got := cfg.InstanceSettle(); got.Milliseconds() != 500 {
		t.Fatalf("expected 500ms, got %v", got)
	}
	if got := cfg.Phase4Timeout(); got.Milliseconds() != 5000 {
		t.Fatalf("expected 5000ms, got %v", got)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Fatalf("expected config.yaml basename, got %q", path)
	}
}
