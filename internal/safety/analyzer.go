// Package safety classifies port records into termination-risk tiers.
//
// Classification is an ordered cascade of predicate rules with
// first-match-wins semantics; it is a pure function of the record's
// fields, so analyzing the same record twice always yields the same
// tier.
package safety

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/portscope/internal/port"
)

// rule pairs a predicate with the tier it assigns and a short
// user-facing rationale for when it fires.
type rule struct {
	tier   port.SafetyTier
	match  func(port.Record) bool
	reason func(port.Record) string
}

// cascade is evaluated top to bottom; the final rule always matches.
var cascade = []rule{
	{
		tier:  port.SafetyCritical,
		match: func(r port.Record) bool { return criticalPorts[r.Port] },
		reason: func(r port.Record) string {
			return fmt.Sprintf("critical network port %d", r.Port)
		},
	},
	{
		tier:  port.SafetyCritical,
		match: func(r port.Record) bool { return criticalProcessNames[strings.ToLower(r.ProcessName)] },
		reason: func(r port.Record) string {
			return "core operating system process"
		},
	},
	{
		tier:  port.SafetyCritical,
		match: func(r port.Record) bool { return hasAnyPrefix(r.BundleID, systemBundlePrefixes) },
		reason: func(r port.Record) string {
			return "OS vendor application"
		},
	},
	{
		tier:  port.SafetyCritical,
		match: func(r port.Record) bool { return hasAnyPrefix(r.ExecutablePath, systemPaths) },
		reason: func(r port.Record) string {
			return "system service required for OS operation"
		},
	},
	{
		tier:  port.SafetyImportant,
		match: func(r port.Record) bool { return databasePorts[r.Port] },
		reason: func(r port.Record) string {
			return "database server (killing may cause data loss)"
		},
	},
	{
		tier:  port.SafetyImportant,
		match: func(r port.Record) bool { return containsAny(strings.ToLower(r.ProcessName), importantProcesses) },
		reason: func(r port.Record) string {
			return "important service (killing will stop it)"
		},
	},
	{
		tier:  port.SafetyUserCreated,
		match: func(r port.Record) bool { return containsAny(strings.ToLower(r.ProcessName), devProcesses) },
		reason: func(r port.Record) string {
			return "development tool process"
		},
	},
	{
		tier: port.SafetyUserCreated,
		match: func(r port.Record) bool {
			if !devServerPorts[r.Port] {
				return false
			}
			return r.IsNew || (r.Uptime != nil && *r.Uptime < devUptimeCutoff)
		},
		reason: func(r port.Record) string {
			return fmt.Sprintf("development server on port %d (safe to close)", r.Port)
		},
	},
	{
		tier: port.SafetyUserCreated,
		match: func(r port.Record) bool {
			return hasAnyPrefix(r.ExecutablePath, userHomePrefixes) && !r.IsSystemProcess
		},
		reason: func(r port.Record) string {
			return "user application or service"
		},
	},
	{
		tier:  port.SafetyOptional,
		match: func(port.Record) bool { return true },
		reason: func(r port.Record) string {
			return "non-essential service or application"
		},
	},
}

// Analyze returns the safety tier for a record.
func Analyze(r port.Record) port.SafetyTier {
	tier, _ := classify(r)
	return tier
}

// Explain returns a one-line rationale tied to whichever rule assigned
// the record's tier. Display only; never used for control flow.
func Explain(r port.Record) string {
	_, reason := classify(r)
	return reason
}

// ShouldWarn reports whether a kill confirmation is required for the
// record under the given warning-level preference.
func ShouldWarn(r port.Record, level port.WarningLevel) bool {
	switch level {
	case port.WarnNone:
		return false
	case port.WarnAll:
		return true
	default:
		tier := Analyze(r)
		return tier == port.SafetyCritical || tier == port.SafetyImportant
	}
}

func classify(r port.Record) (port.SafetyTier, string) {
	for _, rl := range cascade {
		if rl.match(r) {
			return rl.tier, rl.reason(r)
		}
	}
	// Unreachable: the cascade ends with a catch-all.
	return port.SafetyOptional, ""
}

func hasAnyPrefix(s string, prefixes []string) bool {
	if s == "" {
		return false
	}
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
