package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one historical port observation.
type Entry struct {
	ScanID      string
	Port        int
	ProcessName string
	PID         int
	ObservedAt  time.Time
}

// insertSnapshot stores one scan's entries under a fresh scan id and
// returns that id.
func (d *DB) insertSnapshot(entries []Entry, observedAt time.Time) (string, error) {
	scanID := uuid.NewString()

	tx, err := d.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO scans (id, observed_at) VALUES (?, ?)`,
		scanID, observedAt.Format(time.RFC3339),
	); err != nil {
		return "", fmt.Errorf("failed to insert scan row: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO entries (scan_id, port, process_name, pid, observed_at) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(scanID, e.Port, e.ProcessName, e.PID, observedAt.Format(time.RFC3339)); err != nil {
			return "", fmt.Errorf("failed to insert entry for port %d: %w", e.Port, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return scanID, nil
}

// purgeOlderThan removes entries and scans observed before the cutoff.
func (d *DB) purgeOlderThan(cutoff time.Time) error {
	ts := cutoff.Format(time.RFC3339)
	if _, err := d.db.Exec(`DELETE FROM entries WHERE observed_at < ?`, ts); err != nil {
		return fmt.Errorf("failed to purge old entries: %w", err)
	}
	if _, err := d.db.Exec(`DELETE FROM scans WHERE observed_at < ?`, ts); err != nil {
		return fmt.Errorf("failed to purge old scans: %w", err)
	}
	return nil
}

// countPort returns how many historical observations exist for a port.
func (d *DB) countPort(port int) (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM entries WHERE port = ?`, port).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count observations for port %d: %w", port, err)
	}
	return n, nil
}

// lastSeen returns the most recent observation time for a port, or a
// zero time when the port was never observed.
func (d *DB) lastSeen(port int) (time.Time, error) {
	var ts string
	err := d.db.QueryRow(
		`SELECT observed_at FROM entries WHERE port = ? ORDER BY observed_at DESC LIMIT 1`, port,
	).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last sighting of port %d: %w", port, err)
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse observed_at %q: %w", ts, err)
	}
	return t, nil
}

// observationTimes returns every observation time for a port in
// chronological order.
func (d *DB) observationTimes(port int) ([]time.Time, error) {
	rows, err := d.db.Query(
		`SELECT observed_at FROM entries WHERE port = ? ORDER BY observed_at ASC`, port,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations for port %d: %w", port, err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ts string
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan observation row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse observed_at %q: %w", ts, err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// clearAll drops every snapshot.
func (d *DB) clearAll() error {
	if _, err := d.db.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	if _, err := d.db.Exec(`DELETE FROM scans`); err != nil {
		return fmt.Errorf("failed to clear scans: %w", err)
	}
	return nil
}

// scanCount returns the number of stored snapshots.
func (d *DB) scanCount() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM scans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count scans: %w", err)
	}
	return n, nil
}
