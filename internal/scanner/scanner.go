// Package scanner discovers listening TCP sockets by invoking lsof and
// parsing its tabular output into port records.
//
// Row-level problems (truncated lines, unparseable PIDs or ports) are
// skipped, never fatal; the only whole-scan failure is the lsof binary
// being absent or exiting with a real error.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/portscope/internal/logging"
	"github.com/blackwell-systems/portscope/internal/port"
)

// DefaultTimeout bounds a single lsof invocation. A hung lsof would
// otherwise stall the whole refresh cycle.
const DefaultTimeout = 10 * time.Second

// Scanner runs lsof and converts its output into port records.
type Scanner struct {
	lsofPath string
	timeout  time.Duration
	log      *logrus.Entry
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithTimeout overrides the lsof invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.timeout = d }
}

// WithLsofPath overrides the lsof binary path. Used in tests.
func WithLsofPath(path string) Option {
	return func(s *Scanner) { s.lsofPath = path }
}

// New creates a Scanner with default settings.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		lsofPath: "lsof",
		timeout:  DefaultTimeout,
		log:      logging.For("scanner"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan lists all listening TCP sockets. It never returns an error:
// failures are reported through the ScanResult so callers have a single
// code path for rendering.
func (s *Scanner) Scan(ctx context.Context) port.ScanResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// -nP: numeric hosts and ports, no reverse DNS (it can block for
	// seconds on unreachable name servers). +c 0: full command names.
	cmd := exec.CommandContext(ctx, s.lsofPath, "-nP", "-iTCP", "-sTCP:LISTEN", "+c", "0")
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return port.Failure("lsof not found; install it or check PATH")
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return port.Failure(fmt.Sprintf("lsof timed out after %s", s.timeout))
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// lsof exits 1 when nothing matched the filter set.
			if exitErr.ExitCode() == 1 && len(exitErr.Stderr) == 0 {
				return port.ScanResult{Records: []port.Record{}, Succeeded: true}
			}
			return port.Failure(fmt.Sprintf("lsof failed: %v (stderr: %s)", err, string(exitErr.Stderr)))
		}
		return port.Failure(fmt.Sprintf("lsof failed: %v", err))
	}

	records := parseOutput(string(out), s.log)
	s.log.WithField("count", len(records)).Debug("scan complete")
	return port.ScanResult{Records: records, Succeeded: true}
}
