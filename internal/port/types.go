// Package port defines the record types shared by every stage of the
// scan pipeline. Records are treated as immutable values: enrichment
// stages copy a record forward and fill unset fields, they never
// overwrite populated ones.
package port

import "time"

// Protocol is the transport protocol of a listening socket.
type Protocol string

const (
	TCP Protocol = "TCP"
	UDP Protocol = "UDP"
)

// SafetyTier classifies how risky it is to terminate the process that
// owns a port. The zero value means the analyzer has not run yet.
type SafetyTier string

const (
	SafetyUnknown     SafetyTier = ""
	SafetyCritical    SafetyTier = "critical"
	SafetyImportant   SafetyTier = "important"
	SafetyOptional    SafetyTier = "optional"
	SafetyUserCreated SafetyTier = "user-created"
)

// WarningLevel controls when a kill confirmation is required.
type WarningLevel string

const (
	WarnNone         WarningLevel = "none"
	WarnHighRiskOnly WarningLevel = "high-risk-only"
	WarnAll          WarningLevel = "all"
)

// RecentThreshold is the uptime below which a process counts as
// recently started.
const RecentThreshold = 5 * time.Minute

// Record describes one listening socket observed during a scan.
type Record struct {
	Port            int        `json:"port"`
	Protocol        Protocol   `json:"protocol"`
	PID             int        `json:"pid"`
	ProcessName     string     `json:"process_name"`
	AppName         string     `json:"app_name,omitempty"`
	BundleID        string     `json:"bundle_id,omitempty"`
	ExecutablePath  string     `json:"executable_path,omitempty"`
	IsSystemProcess bool       `json:"is_system_process"`
	Safety          SafetyTier `json:"safety,omitempty"`

	// Uptime is nil until the enhancer has resolved the process start
	// time. IsNew is only meaningful when Uptime is set. Serialized in
	// nanoseconds, as time.Duration always is.
	Uptime *time.Duration `json:"uptime,omitempty"`
	IsNew  bool           `json:"is_new"`
}

// DisplayName returns the human-friendly application name when one was
// resolved, falling back to the short command name.
func (r Record) DisplayName() string {
	if r.AppName != "" {
		return r.AppName
	}
	return r.ProcessName
}

// UptimeSeconds returns the uptime in whole seconds, or -1 when the
// uptime is unknown.
func (r Record) UptimeSeconds() int64 {
	if r.Uptime == nil {
		return -1
	}
	return int64(r.Uptime.Seconds())
}

// ScanResult is the outcome of one scanner pass. A failed scan carries
// no records.
type ScanResult struct {
	Records   []Record `json:"records"`
	Succeeded bool     `json:"succeeded"`
	Err       string   `json:"error,omitempty"`
}

// Failure builds a failed ScanResult with the given error message.
func Failure(msg string) ScanResult {
	return ScanResult{Succeeded: false, Err: msg}
}
