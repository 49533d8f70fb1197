package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/portscope/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change portscope settings",
	Long: `Settings live in a JSON file (default ~/.config/portscope/config.json)
and are created on first write.

Keys:
  refresh_interval       watch mode scan interval (e.g. 30s, 2m)
  show_system_processes  include system processes in listings (true/false)
  history_enabled        record scan snapshots (true/false)
  warning_level          kill confirmations: none, high-risk-only, all`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
	}
	if path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n\n", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "refresh_interval       %s\n", cfg.RefreshInterval)
	fmt.Fprintf(cmd.OutOrStdout(), "show_system_processes  %t\n", cfg.ShowSystemProcesses)
	fmt.Fprintf(cmd.OutOrStdout(), "history_enabled        %t\n", cfg.HistoryEnabled)
	fmt.Fprintf(cmd.OutOrStdout(), "warning_level          %s\n", cfg.WarningLevel)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
	}
	val, err := configValue(cfg, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (resetting to defaults)\n", err)
	}
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	updated, err := applySetting(cfg, args[0], args[1])
	if err != nil {
		return err
	}
	if err := config.Save(path, updated); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s.\n", args[0], args[1])
	return nil
}

// configValue renders one setting by key.
func configValue(cfg config.Config, key string) (string, error) {
	switch key {
	case "refresh_interval":
		return cfg.RefreshInterval.String(), nil
	case "show_system_processes":
		return strconv.FormatBool(cfg.ShowSystemProcesses), nil
	case "history_enabled":
		return strconv.FormatBool(cfg.HistoryEnabled), nil
	case "warning_level":
		return string(cfg.WarningLevel), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// applySetting parses and applies one key=value update.
func applySetting(cfg config.Config, key, value string) (config.Config, error) {
	switch key {
	case "refresh_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("refresh_interval must be positive")
		}
		cfg.RefreshInterval = d
	case "show_system_processes":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid boolean %q", value)
		}
		cfg.ShowSystemProcesses = b
	case "history_enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid boolean %q", value)
		}
		cfg.HistoryEnabled = b
	case "warning_level":
		level, ok := config.ParseWarningLevel(value)
		if !ok {
			return cfg, fmt.Errorf("invalid warning level %q: want none, high-risk-only or all", value)
		}
		cfg.WarningLevel = level
	default:
		return cfg, fmt.Errorf("unknown config key %q", key)
	}
	return cfg, nil
}
