// Package config loads and persists user preferences.
//
// The pipeline itself never reads preferences: the CLI loads a Config
// here and passes it into pipeline calls as a plain parameter, so
// there is no hidden global state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/portscope/internal/port"
)

// Defaults.
const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultWarningLevel    = port.WarnHighRiskOnly
)

// Config holds every preference the pipeline consumes.
type Config struct {
	// RefreshInterval between automatic scans in watch mode. Zero
	// disables the timer.
	RefreshInterval time.Duration `json:"refresh_interval"`

	// ShowSystemProcesses includes system-owned ports in listings.
	ShowSystemProcesses bool `json:"show_system_processes"`

	// HistoryEnabled opts into scan snapshot tracking.
	HistoryEnabled bool `json:"history_enabled"`

	// WarningLevel gates kill confirmations.
	WarningLevel port.WarningLevel `json:"warning_level"`
}

// Default returns the out-of-the-box configuration.
func Default() Config {
	return Config{
		RefreshInterval:     DefaultRefreshInterval,
		ShowSystemProcesses: false,
		HistoryEnabled:      false,
		WarningLevel:        DefaultWarningLevel,
	}
}

// Dir returns the portscope config directory, respecting
// XDG_CONFIG_HOME. Defaults to ~/.config/portscope.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "portscope"), nil
}

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// jsonConfig is the on-disk shape. Durations are stored as strings
// ("30s", "5m") so the file stays hand-editable.
type jsonConfig struct {
	RefreshInterval     string `json:"refresh_interval"`
	ShowSystemProcesses bool   `json:"show_system_processes"`
	HistoryEnabled      bool   `json:"history_enabled"`
	WarningLevel        string `json:"warning_level"`
}

// Load reads the config file at path. A missing file yields defaults,
// optionally seeded from the GUI preference plist on macOS.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if migrated, ok := loadFromPlatformStore(); ok {
			cfg = migrated
		}
		return cfg, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("failed to read config: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return fromJSON(jc), nil
}

// Save writes the config to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(toJSON(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func fromJSON(jc jsonConfig) Config {
	cfg := Default()
	if d, err := time.ParseDuration(jc.RefreshInterval); err == nil && d >= 0 {
		cfg.RefreshInterval = d
	}
	cfg.ShowSystemProcesses = jc.ShowSystemProcesses
	cfg.HistoryEnabled = jc.HistoryEnabled
	if wl, ok := ParseWarningLevel(jc.WarningLevel); ok {
		cfg.WarningLevel = wl
	}
	return cfg
}

func toJSON(cfg Config) jsonConfig {
	return jsonConfig{
		RefreshInterval:     cfg.RefreshInterval.String(),
		ShowSystemProcesses: cfg.ShowSystemProcesses,
		HistoryEnabled:      cfg.HistoryEnabled,
		WarningLevel:        string(cfg.WarningLevel),
	}
}

// ParseWarningLevel maps a user-supplied string onto a warning level.
func ParseWarningLevel(s string) (port.WarningLevel, bool) {
	switch s {
	case string(port.WarnNone):
		return port.WarnNone, true
	case string(port.WarnHighRiskOnly):
		return port.WarnHighRiskOnly, true
	case string(port.WarnAll):
		return port.WarnAll, true
	}
	return "", false
}
