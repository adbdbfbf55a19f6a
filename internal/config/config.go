// Package config loads the daemon's YAML configuration, adapted from
// termtile's internal/config/loader.go but reduced to the handful of
// fields workspacesd actually needs: socket and store overrides plus the
// reconciler's timing constants.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the daemon's YAML-backed configuration.
type Config struct {
	SocketPath        string `yaml:"socket_path"`
	StoreDir          string `yaml:"store_dir"`
	PollMs            int    `yaml:"poll_ms"`
	MaxInstanceWaitMs int    `yaml:"max_instance_wait_ms"`
	InstanceSettleMs  int    `yaml:"instance_settle_ms"`
	Phase4TimeoutMs   int    `yaml:"phase4_timeout_ms"`
	MinimizeWorkers   int    `yaml:"minimize_workers"`
	LogLevel          string `yaml:"log_level"`
}

// DefaultConfig returns spec.md's constants so the daemon runs correctly
// with no config file present.
func DefaultConfig() *Config {
	return &Config{
		PollMs:            50,
		MaxInstanceWaitMs: 2000,
		InstanceSettleMs:  500,
		Phase4TimeoutMs:   5000,
		MinimizeWorkers:   4,
		LogLevel:          "info",
	}
}

// DefaultConfigPath returns ~/.config/workspacesd/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "workspacesd", "config.yaml"), nil
}

// Load reads the config at the default path, falling back to
// DefaultConfig when the file is absent.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the config at path, falling back to DefaultConfig
// when the file is absent.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// PollInterval returns PollMs as a time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// MaxInstanceWait returns MaxInstanceWaitMs as a time.Duration.
func (c *Config) MaxInstanceWait() time.Duration {
	return time.Duration(c.MaxInstanceWaitMs) * time.Millisecond
}

// InstanceSettle returns InstanceSettleMs as a time.Duration.
func (c *Config) InstanceSettle() time.Duration {
	return time.Duration(c.InstanceSettleMs) * time.Millisecond
}

// Phase4Timeout returns Phase4TimeoutMs as a time.Duration.
func (c *Config) Phase4Timeout() time.Duration {
	return time.Duration(c.Phase4TimeoutMs) * time.Millisecond
}
