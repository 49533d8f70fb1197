package safety

import (
	"testing"
	"time"

	"github.com/blackwell-systems/portscope/internal/port"
)

func durationPtr(d time.Duration) *time.Duration { return &d }

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		rec  port.Record
		want port.SafetyTier
	}{
		{
			name: "sshd on 22 is critical",
			rec:  port.Record{Port: 22, ProcessName: "sshd"},
			want: port.SafetyCritical,
		},
		{
			name: "critical process name is case-insensitive",
			rec:  port.Record{Port: 49152, ProcessName: "mDNSResponder"},
			want: port.SafetyCritical,
		},
		{
			name: "vendor bundle prefix is critical",
			rec:  port.Record{Port: 49153, ProcessName: "rapportd", BundleID: "com.apple.rapportd"},
			want: port.SafetyCritical,
		},
		{
			name: "system path is critical",
			rec:  port.Record{Port: 49154, ProcessName: "cupsd", ExecutablePath: "/usr/sbin/cupsd"},
			want: port.SafetyCritical,
		},
		{
			name: "postgres on 5432 is important",
			rec:  port.Record{Port: 5432, ProcessName: "postgres"},
			want: port.SafetyImportant,
		},
		{
			name: "redis by name on odd port is important",
			rec:  port.Record{Port: 16379, ProcessName: "redis-server"},
			want: port.SafetyImportant,
		},
		{
			name: "database under home dir is still important",
			rec:  port.Record{Port: 5433, ProcessName: "postgres", ExecutablePath: "/Users/dev/pg/bin/postgres"},
			want: port.SafetyImportant,
		},
		{
			name: "node dev server is user-created",
			rec:  port.Record{Port: 3000, ProcessName: "node", ExecutablePath: "/Users/dev/app/node", IsNew: true},
			want: port.SafetyUserCreated,
		},
		{
			name: "young listener on dev port is user-created",
			rec:  port.Record{Port: 5173, ProcessName: "vite-helper", Uptime: durationPtr(10 * time.Minute)},
			want: port.SafetyUserCreated,
		},
		{
			name: "old listener on dev port is not user-created",
			rec:  port.Record{Port: 8080, ProcessName: "mystery", Uptime: durationPtr(48 * time.Hour)},
			want: port.SafetyOptional,
		},
		{
			name: "home dir binary is user-created",
			rec:  port.Record{Port: 6006, ProcessName: "storybookd", ExecutablePath: "/home/dev/tools/storybookd"},
			want: port.SafetyUserCreated,
		},
		{
			name: "home dir binary flagged system is not user-created",
			rec:  port.Record{Port: 6006, ProcessName: "agentd", ExecutablePath: "/Users/shared/agentd", IsSystemProcess: true},
			want: port.SafetyOptional,
		},
		{
			name: "unknown process defaults to optional",
			rec:  port.Record{Port: 52800, ProcessName: "Figma"},
			want: port.SafetyOptional,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Analyze(tt.rec); got != tt.want {
				t.Errorf("Analyze() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	rec := port.Record{Port: 3000, ProcessName: "node", IsNew: true}
	first := Analyze(rec)
	second := Analyze(rec)
	if first != second {
		t.Errorf("Analyze is not idempotent: %s then %s", first, second)
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name string
		rec  port.Record
		want string
	}{
		{"critical port", port.Record{Port: 22, ProcessName: "sshd"}, "critical network port 22"},
		{"critical name", port.Record{Port: 49152, ProcessName: "launchd"}, "core operating system process"},
		{"database port", port.Record{Port: 5432, ProcessName: "postgres"}, "database server (killing may cause data loss)"},
		{"dev port", port.Record{Port: 3000, ProcessName: "webpackd", IsNew: true}, "development server on port 3000 (safe to close)"},
		{"default", port.Record{Port: 52800, ProcessName: "Figma"}, "non-essential service or application"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Explain(tt.rec); got != tt.want {
				t.Errorf("Explain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShouldWarn(t *testing.T) {
	critical := port.Record{Port: 22, ProcessName: "sshd"}
	important := port.Record{Port: 5432, ProcessName: "postgres"}
	userCreated := port.Record{Port: 3000, ProcessName: "node", IsNew: true}

	tests := []struct {
		name  string
		rec   port.Record
		level port.WarningLevel
		want  bool
	}{
		{"none never warns", critical, port.WarnNone, false},
		{"all always warns", userCreated, port.WarnAll, true},
		{"high risk warns on critical", critical, port.WarnHighRiskOnly, true},
		{"high risk warns on important", important, port.WarnHighRiskOnly, true},
		{"high risk skips user-created", userCreated, port.WarnHighRiskOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldWarn(tt.rec, tt.level); got != tt.want {
				t.Errorf("ShouldWarn(%s) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
