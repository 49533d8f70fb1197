//go:build darwin

package config

import (
	"os"
	"path/filepath"
	"time"

	"howett.net/plist"

	"github.com/blackwell-systems/portscope/internal/port"
)

// Preference plist written by the menu-bar GUI. Read once to seed the
// CLI config when no config.json exists yet.
const guiPlistPath = "Library/Preferences/com.openports.app.plist"

type plistPrefs struct {
	RefreshInterval     float64 `plist:"refreshInterval"`
	ShowSystemProcesses bool    `plist:"showSystemProcesses"`
	PortHistoryEnabled  bool    `plist:"portHistoryEnabled"`
	KillWarningLevel    string  `plist:"killWarningLevel"`
}

func loadFromPlatformStore() (Config, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, false
	}

	data, err := os.ReadFile(filepath.Join(home, guiPlistPath))
	if err != nil {
		return Config{}, false
	}

	var prefs plistPrefs
	if _, err := plist.Unmarshal(data, &prefs); err != nil {
		return Config{}, false
	}

	cfg := Default()
	if prefs.RefreshInterval > 0 {
		cfg.RefreshInterval = time.Duration(prefs.RefreshInterval * float64(time.Second))
	}
	cfg.ShowSystemProcesses = prefs.ShowSystemProcesses
	cfg.HistoryEnabled = prefs.PortHistoryEnabled

	// The GUI stores display strings ("High Risk Only"), not slugs.
	switch prefs.KillWarningLevel {
	case "None", "No Warnings":
		cfg.WarningLevel = port.WarnNone
	case "All Ports":
		cfg.WarningLevel = port.WarnAll
	case "High Risk Only":
		cfg.WarningLevel = port.WarnHighRiskOnly
	}
	return cfg, true
}
