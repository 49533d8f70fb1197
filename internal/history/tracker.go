package history

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/portscope/internal/logging"
	"github.com/blackwell-systems/portscope/internal/port"
)

// Retention is how long snapshots are kept. Entries beyond it are
// purged on every append.
const Retention = 30 * 24 * time.Hour

// Tracker records scan snapshots and answers longevity queries.
// Tracking is opt-in: a disabled tracker records nothing and answers
// every query with the zero/unknown value, so callers never branch on
// the preference themselves.
type Tracker struct {
	db      *DB
	enabled bool
	now     func() time.Time
	log     *logrus.Entry
}

// NewTracker wraps a history database. When enabled is false the
// tracker is inert.
func NewTracker(db *DB, enabled bool) *Tracker {
	return &Tracker{
		db:      db,
		enabled: enabled,
		now:     time.Now,
		log:     logging.For("history"),
	}
}

// Enabled reports whether tracking is active.
func (t *Tracker) Enabled() bool { return t.enabled }

// Record appends one snapshot built from the records of a successful
// scan, purging entries older than the retention window first.
func (t *Tracker) Record(records []port.Record) error {
	if !t.enabled {
		return nil
	}

	now := t.now()
	if err := t.db.purgeOlderThan(now.Add(-Retention)); err != nil {
		return err
	}

	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, Entry{
			Port:        r.Port,
			ProcessName: r.ProcessName,
			PID:         r.PID,
		})
	}

	scanID, err := t.db.insertSnapshot(entries, now)
	if err != nil {
		return err
	}
	t.log.WithFields(logrus.Fields{"scan": scanID, "entries": len(entries)}).Debug("snapshot recorded")
	return nil
}

// IsCommon reports whether a port has been observed at least threshold
// times within the retention window, suggesting a permanent service.
func (t *Tracker) IsCommon(p, threshold int) (bool, error) {
	if !t.enabled {
		return false, nil
	}
	n, err := t.db.countPort(p)
	if err != nil {
		return false, err
	}
	return n >= threshold, nil
}

// SeenRecently reports whether a port was observed within the window.
func (t *Tracker) SeenRecently(p int, window time.Duration) (bool, error) {
	if !t.enabled {
		return false, nil
	}
	last, err := t.db.lastSeen(p)
	if err != nil {
		return false, err
	}
	if last.IsZero() {
		return false, nil
	}
	return t.now().Sub(last) <= window, nil
}

// AverageUptime estimates how long a service on the port typically
// runs, as the mean interval between consecutive observations. It
// needs at least two observations; ok is false otherwise. This is a
// longevity proxy across process instances, not the wall-clock uptime
// of any single one.
func (t *Tracker) AverageUptime(p int) (time.Duration, bool, error) {
	if !t.enabled {
		return 0, false, nil
	}
	times, err := t.db.observationTimes(p)
	if err != nil {
		return 0, false, err
	}
	if len(times) < 2 {
		return 0, false, nil
	}

	var total time.Duration
	for i := 1; i < len(times); i++ {
		total += times[i].Sub(times[i-1])
	}
	return total / time.Duration(len(times)-1), true, nil
}

// PortStats returns how often a port has been observed and when it was
// last seen. last is the zero time when the port has never been seen.
func (t *Tracker) PortStats(p int) (count int, last time.Time, err error) {
	if !t.enabled {
		return 0, time.Time{}, nil
	}
	count, err = t.db.countPort(p)
	if err != nil {
		return 0, time.Time{}, err
	}
	last, err = t.db.lastSeen(p)
	if err != nil {
		return 0, time.Time{}, err
	}
	return count, last, nil
}

// Clear drops all recorded history.
func (t *Tracker) Clear() error {
	return t.db.clearAll()
}

// SnapshotCount returns the number of stored snapshots. Used by the
// CLI status output.
func (t *Tracker) SnapshotCount() (int, error) {
	if !t.enabled {
		return 0, nil
	}
	return t.db.scanCount()
}
