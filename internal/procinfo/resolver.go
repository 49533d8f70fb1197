// Package procinfo maps raw process ids to richer identity: display
// name, bundle identifier, executable path and process start time. It
// also hosts the termination primitive.
//
// Every lookup in this package is read-only with respect to OS state
// (Terminate excepted) and tolerates processes that exit between scan
// and resolution: a miss passes the record through unchanged.
package procinfo

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/portscope/internal/logging"
	"github.com/blackwell-systems/portscope/internal/port"
)

// AppInfo is a running-application registry entry.
type AppInfo struct {
	Name       string
	BundleID   string
	BundlePath string
}

// Registry looks up running GUI applications by process id. The darwin
// implementation shells out to lsappinfo; other platforms report
// misses for every pid.
type Registry interface {
	Lookup(pid int) (AppInfo, bool)
}

// resolveWorkers bounds concurrent per-record lookups. Each lookup may
// spawn a ps process, so unbounded fan-out would be rude.
const resolveWorkers = 8

// Resolver enriches records with process identity.
type Resolver struct {
	registry Registry
	execPath func(pid int) (string, bool)
	log      *logrus.Entry
}

// NewResolver creates a Resolver backed by the platform registry and
// the ps process table.
func NewResolver() *Resolver {
	return &Resolver{
		registry: newPlatformRegistry(),
		execPath: psExecutablePath,
		log:      logging.For("resolver"),
	}
}

// newTestResolver wires fakes in place of OS lookups.
func newTestResolver(reg Registry, execPath func(int) (string, bool)) *Resolver {
	return &Resolver{registry: reg, execPath: execPath, log: logging.For("resolver")}
}

// Resolve enriches every record it can and passes the rest through
// unchanged. The output has the same order and length as the input;
// per-record work runs concurrently.
func (rv *Resolver) Resolve(ctx context.Context, records []port.Record) []port.Record {
	out := make([]port.Record, len(records))
	sem := make(chan struct{}, resolveWorkers)
	var wg sync.WaitGroup

	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec port.Record) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				out[i] = rec
				return
			}
			out[i] = rv.resolveOne(rec)
		}(i, rec)
	}

	wg.Wait()
	return out
}

func (rv *Resolver) resolveOne(rec port.Record) port.Record {
	if app, ok := rv.registry.Lookup(rec.PID); ok {
		if app.Name != "" {
			rec.AppName = app.Name
		}
		rec.BundleID = app.BundleID
		if app.BundlePath != "" {
			rec.ExecutablePath = app.BundlePath
		}
		if isSystemBundle(app.BundleID) {
			rec.IsSystemProcess = true
		}
		return rec
	}

	if path, ok := rv.execPath(rec.PID); ok {
		rec.ExecutablePath = path
		if isSystemPath(path) {
			rec.IsSystemProcess = true
		}
		return rec
	}

	// Process gone or unreadable: not an error, pass through.
	rv.log.WithField("pid", rec.PID).Debug("resolution miss")
	return rec
}

var vendorBundlePrefixes = []string{"com.apple."}

var reservedPaths = []string{"/System/", "/usr/sbin/", "/usr/bin/", "/sbin/"}

func isSystemBundle(bundleID string) bool {
	for _, p := range vendorBundlePrefixes {
		if bundleID != "" && strings.HasPrefix(bundleID, p) {
			return true
		}
	}
	return false
}

func isSystemPath(path string) bool {
	for _, p := range reservedPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
