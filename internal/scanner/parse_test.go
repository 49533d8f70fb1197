package scanner

import (
	"reflect"
	"testing"

	"github.com/blackwell-systems/portscope/internal/logging"
	"github.com/blackwell-systems/portscope/internal/port"
)

// Sample lsof -nP -iTCP -sTCP:LISTEN +c 0 output.
const mockLsofOutput = `COMMAND     PID   USER   FD   TYPE             DEVICE SIZE/OFF NODE NAME
ControlCe   617  alice    9u  IPv4 0xb933088e65555510      0t0  TCP *:7000 (LISTEN)
postgres    812  alice    7u  IPv6 0xb933088e65551234      0t0  TCP [::1]:5432 (LISTEN)
node       4242  alice   23u  IPv4 0xb933088e65559999      0t0  TCP 127.0.0.1:3000 (LISTEN)
mDNSRespo   321  _mdnsresponder  5u  IPv4 0xb933088e65550000      0t0  TCP *:5353 (LISTEN)
launchd       1   root   42u  IPv6 0xb933088e65557777      0t0  TCP *:22 (LISTEN)
`

func TestParseOutput(t *testing.T) {
	records := parseOutput(mockLsofOutput, logging.For("test"))

	want := []port.Record{
		{Port: 7000, Protocol: port.TCP, PID: 617, ProcessName: "ControlCe"},
		{Port: 5432, Protocol: port.TCP, PID: 812, ProcessName: "postgres"},
		{Port: 3000, Protocol: port.TCP, PID: 4242, ProcessName: "node"},
		{Port: 5353, Protocol: port.TCP, PID: 321, ProcessName: "mDNSRespo", IsSystemProcess: true},
		{Port: 22, Protocol: port.TCP, PID: 1, ProcessName: "launchd", IsSystemProcess: true},
	}

	if !reflect.DeepEqual(records, want) {
		t.Errorf("parseOutput mismatch:\ngot  %+v\nwant %+v", records, want)
	}
}

func TestParseOutputSkipsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few columns", "node 4242 alice 23u IPv4 0x0 0t0 TCP"},
		{"non-numeric pid", "node abc alice 23u IPv4 0x0 0t0 TCP *:3000 (LISTEN)"},
		{"negative pid", "node -5 alice 23u IPv4 0x0 0t0 TCP *:3000 (LISTEN)"},
		{"port zero", "node 4242 alice 23u IPv4 0x0 0t0 TCP *:0 (LISTEN)"},
		{"port out of range", "node 4242 alice 23u IPv4 0x0 0t0 TCP *:70000 (LISTEN)"},
		{"no port at all", "node 4242 alice 23u IPv4 0x0 0t0 TCP localhost (LISTEN)"},
		{"empty line", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := "COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME\n" + tt.line + "\n"
			records := parseOutput(out, logging.For("test"))
			if len(records) != 0 {
				t.Errorf("expected row to be skipped, got %+v", records)
			}
		})
	}
}

func TestExtractPort(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want int
		ok   bool
	}{
		{"wildcard", "*:7000 (LISTEN)", 7000, true},
		{"ipv4", "127.0.0.1:3000 (LISTEN)", 3000, true},
		{"ipv6 bracketed", "[::1]:5432 (LISTEN)", 5432, true},
		{"ipv6 full", "[fe80::1%lo0]:8080 (LISTEN)", 8080, true},
		{"no annotation", "10.0.0.5:443", 443, true},
		{"port 1", "*:1 (LISTEN)", 1, true},
		{"port 65535", "*:65535 (LISTEN)", 65535, true},
		{"port 0 rejected", "*:0 (LISTEN)", 0, false},
		{"port 70000 rejected", "*:70000 (LISTEN)", 0, false},
		{"trailing colon", "localhost:", 0, false},
		{"no colon", "localhost", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractPort(tt.addr)
			if got != tt.want || ok != tt.ok {
				t.Errorf("extractPort(%q) = (%d, %v), want (%d, %v)", tt.addr, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseLineScenario(t *testing.T) {
	// The canonical lsof row from the parser's documentation.
	rec, ok := parseLine("ControlCe 617 alice 9u IPv4 0x0 0t0 TCP *:7000 (LISTEN)")
	if !ok {
		t.Fatal("expected line to parse")
	}
	if rec.Port != 7000 || rec.Protocol != port.TCP || rec.PID != 617 || rec.ProcessName != "ControlCe" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.IsSystemProcess {
		t.Error("alice is not a system user")
	}
}

func TestUnescapeCommand(t *testing.T) {
	if got := unescapeCommand(`Code\x20Helper`); got != "Code Helper" {
		t.Errorf("unescapeCommand = %q, want %q", got, "Code Helper")
	}
}

func TestIsSystemUser(t *testing.T) {
	for user, want := range map[string]bool{
		"root":            true,
		"daemon":          true,
		"_windowserver":   true,
		"_mbsetupuser":    true,
		"_mdnsresponder":  true,
		"alice":           false,
		"buildkite-agent": false,
	} {
		if got := isSystemUser(user); got != want {
			t.Errorf("isSystemUser(%q) = %v, want %v", user, got, want)
		}
	}
}
