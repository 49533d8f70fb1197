package app

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/portscope/internal/output"
)

var (
	historyClear bool
	commonScans  int
	recentWindow time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history [port]",
	Short: "Query recorded scan history",
	Long: `Scan snapshots are recorded when history tracking is enabled in the
config (portscope config set history_enabled true). Without arguments
this prints overall history status; with a port number it prints how
often and how recently that port has been observed.

Snapshots older than 30 days are dropped automatically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all recorded history")
	historyCmd.Flags().IntVar(&commonScans, "common-threshold", 5, "scans needed before a port counts as a regular")
	historyCmd.Flags().DurationVar(&recentWindow, "recent-window", 24*time.Hour, "window for the recently-seen check")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
	}

	tracker, closeDB, err := openTracker(cfg.HistoryEnabled)
	if err != nil {
		return err
	}
	defer closeDB()

	if historyClear {
		if err := tracker.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	if !tracker.Enabled() {
		fmt.Fprintln(cmd.OutOrStdout(), "History tracking is disabled. Enable it with:")
		fmt.Fprintln(cmd.OutOrStdout(), "  portscope config set history_enabled true")
		return nil
	}

	if len(args) == 0 {
		n, err := tracker.SnapshotCount()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "History tracking is enabled: %d snapshots recorded.\n", n)
		return nil
	}

	p, err := parsePortArg(args[0])
	if err != nil {
		return err
	}

	count, last, err := tracker.PortStats(p)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Port %d has never been observed.\n", p)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Port %d observed in %d scans, last seen %s.\n",
		p, count, humanize.Time(last))

	common, err := tracker.IsCommon(p, commonScans)
	if err != nil {
		return err
	}
	if common {
		fmt.Fprintf(cmd.OutOrStdout(), "This port shows up regularly; it is likely a permanent service.\n")
	}

	recent, err := tracker.SeenRecently(p, recentWindow)
	if err != nil {
		return err
	}
	if !recent {
		fmt.Fprintf(cmd.OutOrStdout(), "Not seen in the last %s.\n", recentWindow)
	}

	if avg, ok, err := tracker.AverageUptime(p); err != nil {
		return err
	} else if ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Typical observation interval: %s.\n", output.FormatDuration(avg))
	}
	return nil
}
