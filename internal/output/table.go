// Package output renders pipeline results for the terminal.
//
// Tables use plain ASCII with ANSI colors keyed to safety tiers;
// colors are suppressed when stdout is not a TTY or NO_COLOR is set.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/portscope/internal/categorize"
	"github.com/blackwell-systems/portscope/internal/port"
)

// ANSI color codes keyed to safety tiers.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func tierColor(tier port.SafetyTier) string {
	switch tier {
	case port.SafetyCritical:
		return colorRed
	case port.SafetyImportant:
		return colorYellow
	case port.SafetyUserCreated:
		return colorGreen
	default:
		return colorGray
	}
}

// TierLabel renders a safety tier for display.
func TierLabel(tier port.SafetyTier) string {
	switch tier {
	case port.SafetyCritical:
		return "CRITICAL"
	case port.SafetyImportant:
		return "IMPORTANT"
	case port.SafetyUserCreated:
		return "USER"
	case port.SafetyOptional:
		return "OPTIONAL"
	default:
		return "-"
	}
}

// FormatUptime renders a record's uptime compactly ("2m", "3h12m",
// "5d"). Unknown uptimes render as "-".
func FormatUptime(rec port.Record) string {
	if rec.Uptime == nil {
		return "-"
	}
	return FormatDuration(*rec.Uptime)
}

// FormatDuration renders a duration in the same compact form.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// FormatStarted renders when the process started relative to now
// ("2 minutes ago"), or "-" when unknown.
func FormatStarted(rec port.Record) string {
	if rec.Uptime == nil {
		return "-"
	}
	return humanize.Time(time.Now().Add(-*rec.Uptime))
}

// RenderPortTable renders categorized records as an aligned table,
// preserving the given order.
func RenderPortTable(results []categorize.Result, color bool) string {
	if len(results) == 0 {
		return "No listening ports found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-7s %-7s %-22s %-10s %-14s %-12s %-8s %s\n",
		"PORT", "PID", "PROCESS", "TIER", "CATEGORY", "TECH", "UPTIME", "PROJECT"))
	sb.WriteString(strings.Repeat("-", 92) + "\n")

	for _, res := range results {
		rec := res.Record
		tier := TierLabel(rec.Safety)
		if color {
			tier = tierColor(rec.Safety) + fmt.Sprintf("%-10s", tier) + colorReset
		} else {
			tier = fmt.Sprintf("%-10s", tier)
		}

		name := rec.DisplayName()
		if rec.IsNew {
			name += " *"
		}

		sb.WriteString(fmt.Sprintf("%-7d %-7d %-22s %s %-14s %-12s %-8s %s\n",
			rec.Port,
			rec.PID,
			truncate(name, 22),
			tier,
			truncate(string(res.Category), 14),
			truncate(res.Technology, 12),
			FormatUptime(rec),
			res.Project,
		))
	}

	sb.WriteString("\n* recently started\n")
	return sb.String()
}

// RenderPortDetail renders a single record verbosely for lookup-style
// commands.
func RenderPortDetail(res categorize.Result, explanation string) string {
	rec := res.Record
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Port %d/%s\n", rec.Port, rec.Protocol))
	sb.WriteString(fmt.Sprintf("  Process:    %s (pid %d)\n", rec.DisplayName(), rec.PID))
	if rec.BundleID != "" {
		sb.WriteString(fmt.Sprintf("  Bundle:     %s\n", rec.BundleID))
	}
	if rec.ExecutablePath != "" {
		sb.WriteString(fmt.Sprintf("  Executable: %s\n", rec.ExecutablePath))
	}
	sb.WriteString(fmt.Sprintf("  Tier:       %s (%s)\n", TierLabel(rec.Safety), explanation))
	sb.WriteString(fmt.Sprintf("  Category:   %s\n", res.Category))
	if res.Technology != "" {
		sb.WriteString(fmt.Sprintf("  Technology: %s\n", res.Technology))
	}
	if res.Project != "" {
		sb.WriteString(fmt.Sprintf("  Project:    %s\n", res.Project))
	}
	if rec.Uptime != nil {
		sb.WriteString(fmt.Sprintf("  Started:    %s\n", FormatStarted(rec)))
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
