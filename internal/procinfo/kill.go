package procinfo

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/blackwell-systems/portscope/internal/logging"
)

// Signal selects the termination signal kind.
type Signal string

const (
	SignalTerm Signal = "TERM"
	SignalKill Signal = "KILL"
)

// graceDelay is how long a process gets to honor SIGTERM before the
// escalation check. It is advisory: socket teardown may lag behind
// process exit, so callers should re-scan after a similar delay.
const graceDelay = 500 * time.Millisecond

// Terminate signals a process and returns a human-readable outcome.
// SIGTERM escalates to SIGKILL if the process is still alive after the
// grace delay. Permission failures are returned as errors, never
// panics; the caller decides whether to suggest elevation.
func Terminate(pid int, sig Signal) (string, error) {
	log := logging.For("kill").WithField("pid", pid)

	s := syscall.SIGTERM
	if sig == SignalKill {
		s = syscall.SIGKILL
	}

	if err := sendSignal(pid, s); err != nil {
		if errors.Is(err, syscall.EPERM) || errors.Is(err, os.ErrPermission) {
			return "", fmt.Errorf("permission denied signaling process %d (owned by another user; re-run with sudo)", pid)
		}
		if errors.Is(err, syscall.ESRCH) || errors.Is(err, os.ErrProcessDone) {
			return "", fmt.Errorf("no such process %d (already exited?)", pid)
		}
		return "", fmt.Errorf("failed to signal process %d: %w", pid, err)
	}

	if sig == SignalTerm {
		time.Sleep(graceDelay)
		if processAlive(pid) {
			log.Debug("SIGTERM ignored, escalating to SIGKILL")
			if err := sendSignal(pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
				return "", fmt.Errorf("failed to force-kill process %d: %w", pid, err)
			}
			return fmt.Sprintf("process %d force-killed after ignoring SIGTERM", pid), nil
		}
	}

	return fmt.Sprintf("process %d terminated", pid), nil
}

func sendSignal(pid int, s syscall.Signal) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(s)
}

// processAlive probes a pid with the null signal.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
