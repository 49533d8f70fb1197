package output

import (
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/portscope/internal/categorize"
	"github.com/blackwell-systems/portscope/internal/port"
)

func sampleResults() []categorize.Result {
	uptime := 2 * time.Minute
	return []categorize.Result{
		{
			Record: port.Record{
				Port: 3000, PID: 4242, ProcessName: "node",
				Safety: port.SafetyUserCreated, Uptime: &uptime, IsNew: true,
			},
			Category:   categorize.Development,
			Technology: "Node.js",
			Project:    "myapp",
		},
		{
			Record: port.Record{
				Port: 5432, PID: 812, ProcessName: "postgres",
				Safety: port.SafetyImportant,
			},
			Category:   categorize.Database,
			Technology: "PostgreSQL",
		},
	}
}

func TestRenderPortTable(t *testing.T) {
	out := RenderPortTable(sampleResults(), false)

	for _, want := range []string{"PORT", "3000", "4242", "node *", "USER", "Development", "Node.js", "myapp", "5432", "IMPORTANT", "PostgreSQL", "2m"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("color disabled but ANSI codes present")
	}
}

func TestRenderPortTableColor(t *testing.T) {
	out := RenderPortTable(sampleResults(), true)
	if !strings.Contains(out, colorYellow) {
		t.Error("important tier should render yellow")
	}
	if !strings.Contains(out, colorGreen) {
		t.Error("user tier should render green")
	}
}

func TestRenderPortTableEmpty(t *testing.T) {
	out := RenderPortTable(nil, false)
	if !strings.Contains(out, "No listening ports") {
		t.Errorf("unexpected empty output: %q", out)
	}
}

func TestRenderPortTablePreservesOrder(t *testing.T) {
	out := RenderPortTable(sampleResults(), false)
	if strings.Index(out, "3000") > strings.Index(out, "5432") {
		t.Error("table must preserve input order")
	}
}

func TestFormatUptime(t *testing.T) {
	mk := func(d time.Duration) port.Record { return port.Record{Uptime: &d} }

	tests := []struct {
		name string
		rec  port.Record
		want string
	}{
		{"unknown", port.Record{}, "-"},
		{"seconds", mk(45 * time.Second), "45s"},
		{"minutes", mk(5 * time.Minute), "5m"},
		{"hours", mk(3*time.Hour + 12*time.Minute), "3h12m"},
		{"days", mk(49 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatUptime(tt.rec); got != tt.want {
				t.Errorf("FormatUptime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTierLabel(t *testing.T) {
	tests := []struct {
		tier port.SafetyTier
		want string
	}{
		{port.SafetyCritical, "CRITICAL"},
		{port.SafetyImportant, "IMPORTANT"},
		{port.SafetyUserCreated, "USER"},
		{port.SafetyOptional, "OPTIONAL"},
		{port.SafetyUnknown, "-"},
	}
	for _, tt := range tests {
		if got := TierLabel(tt.tier); got != tt.want {
			t.Errorf("TierLabel(%q) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestRenderPortDetail(t *testing.T) {
	res := sampleResults()[1]
	res.Record.ExecutablePath = "/usr/local/bin/postgres"
	out := RenderPortDetail(res, "database server (killing may cause data loss)")

	for _, want := range []string{"Port 5432", "postgres", "IMPORTANT", "database server", "/usr/local/bin/postgres"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a very long process name", 10); got != "a very ..." {
		t.Errorf("truncate = %q", got)
	}
}
