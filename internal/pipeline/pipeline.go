// Package pipeline sequences the scan stages into a single refresh
// operation: scan, resolve, enhance, analyze, and optionally record
// history.
package pipeline

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/portscope/internal/config"
	"github.com/blackwell-systems/portscope/internal/history"
	"github.com/blackwell-systems/portscope/internal/logging"
	"github.com/blackwell-systems/portscope/internal/port"
	"github.com/blackwell-systems/portscope/internal/procinfo"
	"github.com/blackwell-systems/portscope/internal/safety"
	"github.com/blackwell-systems/portscope/internal/scanner"
)

// ErrRefreshInProgress is returned when a refresh is triggered while
// another is still running. Triggers are dropped, not queued: the
// in-flight refresh is about to produce fresh data anyway.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Scanner produces the raw record set.
type Scanner interface {
	Scan(ctx context.Context) port.ScanResult
}

// Resolver enriches records with process identity.
type Resolver interface {
	Resolve(ctx context.Context, records []port.Record) []port.Record
}

// Enhancer fills in uptime and recency.
type Enhancer interface {
	Enhance(records []port.Record) []port.Record
}

// Recorder receives a snapshot of each successful scan.
type Recorder interface {
	Record(records []port.Record) error
}

// Pipeline owns the refresh sequence. Safe for use from multiple
// goroutines; concurrent refreshes are coalesced.
type Pipeline struct {
	scanner  Scanner
	resolver Resolver
	enhancer Enhancer
	recorder Recorder
	running  atomic.Bool
	log      *logrus.Entry
}

// New builds the production pipeline. tracker may be nil when history
// is not wired up (for example in one-shot lookups).
func New(tracker *history.Tracker) *Pipeline {
	p := &Pipeline{
		scanner:  scanner.New(),
		resolver: procinfo.NewResolver(),
		enhancer: procinfo.NewEnhancer(),
		log:      logging.For("pipeline"),
	}
	if tracker != nil {
		p.recorder = tracker
	}
	return p
}

// NewWithStages wires explicit stage implementations. Used by tests
// and by callers that need a custom scanner.
func NewWithStages(s Scanner, r Resolver, e Enhancer, rec Recorder) *Pipeline {
	return &Pipeline{
		scanner:  s,
		resolver: r,
		enhancer: e,
		recorder: rec,
		log:      logging.For("pipeline"),
	}
}

// Refresh runs one full pipeline pass. The returned records preserve
// scan order. When cfg.ShowSystemProcesses is false, system-owned
// records are filtered from the result (history still records the
// full set).
func (p *Pipeline) Refresh(ctx context.Context, cfg config.Config) (port.ScanResult, error) {
	if !p.running.CompareAndSwap(false, true) {
		return port.ScanResult{}, ErrRefreshInProgress
	}
	defer p.running.Store(false)

	res := p.scanner.Scan(ctx)
	if !res.Succeeded {
		p.log.WithField("error", res.Err).Warn("scan failed")
		return res, nil
	}

	records := p.resolver.Resolve(ctx, res.Records)
	records = p.enhancer.Enhance(records)
	for i, rec := range records {
		if rec.Safety == port.SafetyUnknown {
			records[i].Safety = safety.Analyze(rec)
		}
	}

	if p.recorder != nil {
		if err := p.recorder.Record(records); err != nil {
			// History is best-effort; a persistence hiccup must not
			// fail the refresh.
			p.log.WithError(err).Warn("failed to record scan history")
		}
	}

	if !cfg.ShowSystemProcesses {
		records = filterSystem(records)
	}

	p.log.WithField("count", len(records)).Debug("refresh complete")
	return port.ScanResult{Records: records, Succeeded: true}, nil
}

func filterSystem(records []port.Record) []port.Record {
	out := records[:0:0]
	for _, rec := range records {
		if !rec.IsSystemProcess {
			out = append(out, rec)
		}
	}
	return out
}
