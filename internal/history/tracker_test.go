package history

import (
	"testing"
	"time"

	"github.com/blackwell-systems/portscope/internal/logging"
	"github.com/blackwell-systems/portscope/internal/port"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory history db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testTracker returns a tracker whose clock can be moved by the test.
func testTracker(t *testing.T, enabled bool) (*Tracker, *time.Time) {
	t.Helper()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := &Tracker{
		db:      openTestDB(t),
		enabled: enabled,
		now:     func() time.Time { return now },
		log:     logging.For("history"),
	}
	return tr, &now
}

func sampleRecords() []port.Record {
	return []port.Record{
		{Port: 3000, ProcessName: "node", PID: 4242},
		{Port: 5432, ProcessName: "postgres", PID: 812},
	}
}

func TestRecordAndCount(t *testing.T) {
	tr, _ := testTracker(t, true)

	if err := tr.Record(sampleRecords()); err != nil {
		t.Fatal(err)
	}
	if err := tr.Record(sampleRecords()); err != nil {
		t.Fatal(err)
	}

	n, err := tr.SnapshotCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("snapshot count = %d, want 2", n)
	}
}

func TestIsCommon(t *testing.T) {
	tr, now := testTracker(t, true)

	// Scenario: two scans 48 hours apart plus enough repeats to cross
	// the threshold.
	for i := 0; i < 5; i++ {
		if err := tr.Record(sampleRecords()); err != nil {
			t.Fatal(err)
		}
		*now = now.Add(12 * time.Hour)
	}

	common, err := tr.IsCommon(5432, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !common {
		t.Error("port seen 5 times should be common at threshold 5")
	}

	common, err = tr.IsCommon(5432, 6)
	if err != nil {
		t.Fatal(err)
	}
	if common {
		t.Error("threshold 6 should not be met by 5 observations")
	}

	common, err = tr.IsCommon(9999, 1)
	if err != nil {
		t.Fatal(err)
	}
	if common {
		t.Error("never-seen port cannot be common")
	}
}

func TestSeenRecently(t *testing.T) {
	tr, now := testTracker(t, true)

	if err := tr.Record(sampleRecords()); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(2 * time.Hour)

	seen, err := tr.SeenRecently(3000, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !seen {
		t.Error("port observed 2h ago should be recently seen within 24h")
	}

	seen, err = tr.SeenRecently(3000, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if seen {
		t.Error("port observed 2h ago is outside a 1h window")
	}
}

func TestAverageUptime(t *testing.T) {
	tr, now := testTracker(t, true)

	for i := 0; i < 3; i++ {
		if err := tr.Record(sampleRecords()); err != nil {
			t.Fatal(err)
		}
		*now = now.Add(6 * time.Hour)
	}

	avg, ok, err := tr.AverageUptime(5432)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected an average with 3 observations")
	}
	if avg != 6*time.Hour {
		t.Errorf("average = %s, want 6h", avg)
	}

	// A port with a single observation has no interval to average.
	single, _ := testTracker(t, true)
	if err := single.Record([]port.Record{{Port: 7000, ProcessName: "ControlCe", PID: 617}}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := single.AverageUptime(7000); ok {
		t.Error("one observation must not produce an average")
	}
}

func TestRetentionPurge(t *testing.T) {
	tr, now := testTracker(t, true)

	if err := tr.Record(sampleRecords()); err != nil {
		t.Fatal(err)
	}

	// Jump past the retention window; the next append purges.
	*now = now.Add(Retention + 24*time.Hour)
	if err := tr.Record(sampleRecords()); err != nil {
		t.Fatal(err)
	}

	n, err := tr.SnapshotCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected purge to leave 1 snapshot, got %d", n)
	}
}

func TestClear(t *testing.T) {
	tr, _ := testTracker(t, true)

	if err := tr.Record(sampleRecords()); err != nil {
		t.Fatal(err)
	}
	if err := tr.Clear(); err != nil {
		t.Fatal(err)
	}

	n, err := tr.SnapshotCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected empty history after clear, got %d snapshots", n)
	}
}

func TestDisabledTrackerIsInert(t *testing.T) {
	tr, _ := testTracker(t, false)

	if err := tr.Record(sampleRecords()); err != nil {
		t.Fatal(err)
	}

	if common, _ := tr.IsCommon(3000, 1); common {
		t.Error("disabled tracker must answer false")
	}
	if seen, _ := tr.SeenRecently(3000, 24*time.Hour); seen {
		t.Error("disabled tracker must answer false")
	}
	if _, ok, _ := tr.AverageUptime(3000); ok {
		t.Error("disabled tracker must answer unknown")
	}
	if n, _ := tr.SnapshotCount(); n != 0 {
		t.Error("disabled tracker must report zero snapshots")
	}
}
