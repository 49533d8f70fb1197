// Package app wires the portscope CLI commands.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/portscope/internal/config"
	"github.com/blackwell-systems/portscope/internal/history"
	"github.com/blackwell-systems/portscope/internal/logging"
)

var (
	cfgPath string
	dbPath  string
	verbose bool

	// RootCmd is the root command for portscope.
	RootCmd = &cobra.Command{
		Use:   "portscope",
		Short: "Inspect and manage the machine's listening TCP ports",
		Long: `portscope scans the system's listening TCP sockets and enriches each
one with process identity, uptime, a termination-risk tier and a
best-guess category and technology.

Safety tiers:
  CRITICAL   core OS services; killing them can break the system
  IMPORTANT  databases and infrastructure; killing risks data loss
  USER       your own development servers; safe to close
  OPTIONAL   everything else

Examples:
  # List listening ports (system processes hidden by default)
  portscope list

  # Include system processes, machine-readable
  portscope list --all --json

  # Kill whatever listens on port 3000 (asks first for risky targets)
  portscope kill 3000

  # Watch for ports appearing and disappearing
  portscope watch

  # What usually runs on 5432?
  portscope lookup 5432`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.SetVerbose()
			}
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default: ~/.config/portscope/config.json)")
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database path (default: ~/.portscope/history.db)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable informational logging")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(killCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(lookupCmd)
	RootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig resolves and loads the active configuration.
func loadConfig() (config.Config, string, error) {
	path := cfgPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Default(), "", fmt.Errorf("failed to locate config: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Default(), path, err
	}
	return cfg, path, nil
}

// getDBPath returns the history database path, creating its directory.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	dir := filepath.Join(home, ".portscope")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create portscope directory: %w", err)
	}
	return filepath.Join(dir, "history.db"), nil
}

// openTracker opens the history store with the configured enablement.
// The caller must invoke the returned cleanup.
func openTracker(enabled bool) (*history.Tracker, func(), error) {
	path, err := getDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := history.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return history.NewTracker(db, enabled), func() { db.Close() }, nil
}
