package app

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/portscope/internal/categorize"
	"github.com/blackwell-systems/portscope/internal/history"
	"github.com/blackwell-systems/portscope/internal/output"
	"github.com/blackwell-systems/portscope/internal/pipeline"
	"github.com/blackwell-systems/portscope/internal/port"
	"github.com/blackwell-systems/portscope/internal/procinfo"
	"github.com/blackwell-systems/portscope/internal/safety"
)

var (
	killForce bool
	killYes   bool
	killByPID bool
)

// closeCheckDelay is how long to wait after signalling before
// re-scanning to confirm the port is gone.
const closeCheckDelay = 500 * time.Millisecond

// commonScanThreshold is how many historical sightings mark a port as
// a long-running regular, worth an extra note before killing.
const commonScanThreshold = 5

var killCmd = &cobra.Command{
	Use:   "kill <port>",
	Short: "Terminate the process listening on a port",
	Long: `Finds the process listening on the given port and sends it SIGTERM,
escalating to SIGKILL if it does not exit within half a second.

With --pid the argument is treated as a process ID instead of a port.

Risky targets (critical system services, databases) require explicit
confirmation unless --yes is given. Use --force to send SIGKILL
immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runKill,
}

func init() {
	killCmd.Flags().BoolVarP(&killForce, "force", "f", false, "send SIGKILL immediately instead of SIGTERM")
	killCmd.Flags().BoolVarP(&killYes, "yes", "y", false, "skip the confirmation prompt")
	killCmd.Flags().BoolVar(&killByPID, "pid", false, "treat the argument as a process ID")
}

func runKill(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
	}
	// Killing must see everything, including system processes.
	cfg.ShowSystemProcesses = true

	tracker, closeDB, err := openTracker(cfg.HistoryEnabled)
	if err != nil {
		return err
	}
	defer closeDB()
	pl := pipeline.New(tracker)

	result, err := pl.Refresh(context.Background(), cfg)
	if err != nil {
		return err
	}
	if !result.Succeeded {
		return fmt.Errorf("scan failed: %s", result.Err)
	}

	rec, err := resolveTarget(result.Records, args[0], killByPID)
	if err != nil {
		return err
	}

	if !killYes && safety.ShouldWarn(rec, cfg.WarningLevel) {
		fmt.Fprint(cmd.OutOrStdout(), output.RenderPortDetail(categorize.Categorize(rec), safety.Explain(rec)))
		if hint := permanenceHint(tracker, rec.Port); hint != "" {
			fmt.Fprintln(cmd.OutOrStdout(), hint)
		}
		if !confirm(cmd, fmt.Sprintf("Kill %s?", rec.DisplayName())) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	sig := procinfo.SignalTerm
	if killForce {
		sig = procinfo.SignalKill
	}
	action, err := procinfo.Terminate(rec.PID, sig)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", action, rec.DisplayName())

	time.Sleep(closeCheckDelay)
	after, err := pl.Refresh(context.Background(), cfg)
	if err == nil && after.Succeeded {
		if _, still := findPort(after.Records, rec.Port); still {
			fmt.Fprintf(cmd.OutOrStdout(), "Port %d is still in use; the process may be restarting or shutting down slowly.\n", rec.Port)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Port %d is now free.\n", rec.Port)
		}
	}
	return nil
}

// resolveTarget finds the record to kill, by listening port or, with
// byPID, by process ID.
func resolveTarget(records []port.Record, arg string, byPID bool) (port.Record, error) {
	if byPID {
		pid, err := strconv.Atoi(arg)
		if err != nil || pid <= 0 {
			return port.Record{}, fmt.Errorf("invalid pid %q", arg)
		}
		for _, r := range records {
			if r.PID == pid {
				return r, nil
			}
		}
		return port.Record{}, fmt.Errorf("no listening port belongs to PID %d", pid)
	}

	p, err := parsePortArg(arg)
	if err != nil {
		return port.Record{}, err
	}
	rec, ok := findPort(records, p)
	if !ok {
		return port.Record{}, fmt.Errorf("no process is listening on port %d", p)
	}
	return rec, nil
}

// permanenceHint notes when history shows the port as a regular,
// suggesting a permanent service rather than a one-off.
func permanenceHint(tracker *history.Tracker, p int) string {
	common, err := tracker.IsCommon(p, commonScanThreshold)
	if err != nil || !common {
		return ""
	}
	return fmt.Sprintf("Port %d shows up regularly in scan history; this looks like a permanent service.", p)
}

// parsePortArg validates a port number argument.
func parsePortArg(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: expected a number", s)
	}
	if p < 1 || p > 65535 {
		return 0, fmt.Errorf("invalid port %d: must be between 1 and 65535", p)
	}
	return p, nil
}

// findPort returns the first record listening on the given port.
func findPort(records []port.Record, p int) (port.Record, bool) {
	for _, r := range records {
		if r.Port == p {
			return r, true
		}
	}
	return port.Record{}, false
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}
