package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/portscope/internal/config"
	"github.com/blackwell-systems/portscope/internal/output"
	"github.com/blackwell-systems/portscope/internal/pipeline"
	"github.com/blackwell-systems/portscope/internal/port"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously scan and report ports opening and closing",
	Long: `Rescans listening ports at the configured refresh interval and prints
a line whenever a port appears or disappears. Edits to the config file
take effect without restarting. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "override the refresh interval (e.g. 10s)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
	}
	if watchInterval > 0 {
		cfg.RefreshInterval = watchInterval
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = config.DefaultRefreshInterval
	}

	tracker, closeDB, err := openTracker(cfg.HistoryEnabled)
	if err != nil {
		return err
	}
	defer closeDB()
	pl := pipeline.New(tracker)

	var cfgChanges <-chan config.Config
	if path != "" && watchInterval == 0 {
		watcher, werr := config.NewWatcher(path)
		if werr == nil {
			defer watcher.Close()
			cfgChanges = watcher.Changes()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching listening ports every %s (Ctrl-C to stop)\n", cfg.RefreshInterval)

	var prev map[int]port.Record
	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	scan := func() {
		result, err := pl.Refresh(context.Background(), cfg)
		if err == pipeline.ErrRefreshInProgress {
			return
		}
		if err != nil || !result.Succeeded {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s scan failed\n", time.Now().Format("15:04:05"))
			return
		}
		cur := byPort(result.Records)
		if prev != nil {
			reportDiff(cmd, prev, cur)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s tracking %d listening ports\n",
				time.Now().Format("15:04:05"), len(cur))
		}
		prev = cur
	}
	scan()

	for {
		select {
		case <-ticker.C:
			scan()
		case next, ok := <-cfgChanges:
			if !ok {
				cfgChanges = nil
				continue
			}
			if next.RefreshInterval > 0 && next.RefreshInterval != cfg.RefreshInterval {
				ticker.Reset(next.RefreshInterval)
				fmt.Fprintf(cmd.OutOrStdout(), "%s refresh interval changed to %s\n",
					time.Now().Format("15:04:05"), next.RefreshInterval)
			}
			cfg = next
		case <-sigCh:
			fmt.Fprintln(cmd.OutOrStdout(), "\nStopped.")
			return nil
		}
	}
}

// byPort indexes records by port number. Duplicate ports (IPv4 and
// IPv6 listeners for the same service) keep the first record.
func byPort(records []port.Record) map[int]port.Record {
	m := make(map[int]port.Record, len(records))
	for _, r := range records {
		if _, ok := m[r.Port]; !ok {
			m[r.Port] = r
		}
	}
	return m
}

// reportDiff prints opened and closed ports between two scans in
// ascending port order.
func reportDiff(cmd *cobra.Command, prev, cur map[int]port.Record) {
	now := time.Now().Format("15:04:05")
	for _, p := range sortedPorts(cur) {
		if _, ok := prev[p]; !ok {
			r := cur[p]
			fmt.Fprintf(cmd.OutOrStdout(), "%s + port %d opened by %s (PID %d) [%s]\n",
				now, p, r.DisplayName(), r.PID, output.TierLabel(r.Safety))
		}
	}
	for _, p := range sortedPorts(prev) {
		if _, ok := cur[p]; !ok {
			r := prev[p]
			fmt.Fprintf(cmd.OutOrStdout(), "%s - port %d closed (was %s)\n",
				now, p, r.DisplayName())
		}
	}
}

func sortedPorts(m map[int]port.Record) []int {
	ports := make([]int, 0, len(m))
	for p := range m {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports
}
