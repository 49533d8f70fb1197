package procinfo

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/portscope/internal/logging"
	"github.com/blackwell-systems/portscope/internal/port"
)

// Start-time cache bounds. The TTL is kept short so a reused PID
// cannot inherit a stale start time for long.
const (
	startTimeCacheSize = 512
	startTimeCacheTTL  = time.Minute
)

// Enhancer fills in process uptime and recency. It is strictly
// additive: fields already populated on a record are never
// overwritten, and a failed lookup leaves the record as it was.
type Enhancer struct {
	startTime func(pid int) (time.Time, bool)
	now       func() time.Time
	cache     *expirable.LRU[int, time.Time]
	log       *logrus.Entry
}

// NewEnhancer creates an Enhancer backed by the ps process table.
func NewEnhancer() *Enhancer {
	return &Enhancer{
		startTime: psStartTime,
		now:       time.Now,
		cache:     expirable.NewLRU[int, time.Time](startTimeCacheSize, nil, startTimeCacheTTL),
		log:       logging.For("enhancer"),
	}
}

// Enhance computes uptime and recency for each record. Output order
// and cardinality match the input; a lookup failure on one pid never
// blocks the others.
func (e *Enhancer) Enhance(records []port.Record) []port.Record {
	out := make([]port.Record, len(records))
	enhanced := 0
	for i, rec := range records {
		out[i] = e.enhanceOne(rec)
		if out[i].Uptime != nil {
			enhanced++
		}
	}
	e.log.WithField("enhanced", enhanced).Debug("uptime enhancement complete")
	return out
}

func (e *Enhancer) enhanceOne(rec port.Record) port.Record {
	if rec.Uptime != nil {
		// Already enhanced; never clobber.
		return rec
	}

	start, ok := e.cachedStartTime(rec.PID)
	if !ok {
		return rec
	}

	uptime := e.now().Sub(start)
	if uptime < 0 {
		uptime = 0
	}
	rec.Uptime = &uptime
	rec.IsNew = rec.IsNew || uptime < port.RecentThreshold
	return rec
}

func (e *Enhancer) cachedStartTime(pid int) (time.Time, bool) {
	if start, ok := e.cache.Get(pid); ok {
		return start, true
	}
	start, ok := e.startTime(pid)
	if !ok {
		return time.Time{}, false
	}
	e.cache.Add(pid, start)
	return start, true
}
