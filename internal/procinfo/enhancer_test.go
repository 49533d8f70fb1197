package procinfo

import (
	"testing"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/blackwell-systems/portscope/internal/logging"
	"github.com/blackwell-systems/portscope/internal/port"
)

func testEnhancer(startTime func(int) (time.Time, bool), now time.Time) *Enhancer {
	return &Enhancer{
		startTime: startTime,
		now:       func() time.Time { return now },
		cache:     expirable.NewLRU[int, time.Time](startTimeCacheSize, nil, startTimeCacheTTL),
		log:       logging.For("enhancer"),
	}
}

func TestEnhanceComputesUptime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e := testEnhancer(func(int) (time.Time, bool) {
		return now.Add(-2 * time.Minute), true
	}, now)

	out := e.Enhance([]port.Record{{Port: 3000, PID: 42, ProcessName: "node"}})

	rec := out[0]
	if rec.Uptime == nil {
		t.Fatal("expected uptime to be set")
	}
	if *rec.Uptime != 2*time.Minute {
		t.Errorf("uptime = %s, want 2m", rec.Uptime)
	}
	if !rec.IsNew {
		t.Error("2 minutes of uptime is recently started")
	}
}

func TestEnhanceOldProcessNotNew(t *testing.T) {
	now := time.Now()
	e := testEnhancer(func(int) (time.Time, bool) {
		return now.Add(-3 * time.Hour), true
	}, now)

	out := e.Enhance([]port.Record{{Port: 5432, PID: 812, ProcessName: "postgres"}})
	if out[0].IsNew {
		t.Error("3h old process must not be flagged recently started")
	}
}

func TestEnhanceNeverOverwrites(t *testing.T) {
	existing := 90 * time.Minute
	now := time.Now()
	e := testEnhancer(func(int) (time.Time, bool) {
		t.Fatal("lookup must not run for an already-enhanced record")
		return time.Time{}, false
	}, now)

	out := e.Enhance([]port.Record{{Port: 8080, PID: 7, Uptime: &existing, IsNew: true}})

	if *out[0].Uptime != existing {
		t.Errorf("populated uptime was clobbered: %s", out[0].Uptime)
	}
	if !out[0].IsNew {
		t.Error("populated IsNew flag was clobbered")
	}
}

func TestEnhanceLookupFailureLeavesRecord(t *testing.T) {
	e := testEnhancer(func(int) (time.Time, bool) {
		return time.Time{}, false
	}, time.Now())

	in := []port.Record{{Port: 3000, PID: 42, ProcessName: "node"}}
	out := e.Enhance(in)

	if out[0] != in[0] {
		t.Errorf("failed lookup must leave the record untouched: %+v", out[0])
	}
}

func TestEnhancePreservesOrderAndCount(t *testing.T) {
	now := time.Now()
	e := testEnhancer(func(pid int) (time.Time, bool) {
		if pid%3 == 0 {
			return time.Time{}, false
		}
		return now.Add(-time.Duration(pid) * time.Second), true
	}, now)

	var in []port.Record
	for i := 1; i <= 20; i++ {
		in = append(in, port.Record{Port: 1000 + i, PID: i})
	}

	out := e.Enhance(in)
	if len(out) != len(in) {
		t.Fatalf("cardinality changed: %d -> %d", len(in), len(out))
	}
	for i := range out {
		if out[i].PID != in[i].PID {
			t.Fatalf("order broken at %d", i)
		}
	}
}

func TestEnhanceCachesStartTime(t *testing.T) {
	calls := 0
	now := time.Now()
	e := testEnhancer(func(int) (time.Time, bool) {
		calls++
		return now.Add(-time.Hour), true
	}, now)

	recs := []port.Record{{Port: 9000, PID: 99}}
	e.Enhance(recs)
	e.Enhance(recs)

	if calls != 1 {
		t.Errorf("expected one ps lookup for repeated scans of the same pid, got %d", calls)
	}
}

func TestEnhanceClampsFutureStartTime(t *testing.T) {
	now := time.Now()
	e := testEnhancer(func(int) (time.Time, bool) {
		// Clock skew can report a start time marginally in the future.
		return now.Add(10 * time.Second), true
	}, now)

	out := e.Enhance([]port.Record{{Port: 3000, PID: 1}})
	if *out[0].Uptime != 0 {
		t.Errorf("future start time should clamp uptime to 0, got %s", out[0].Uptime)
	}
}
