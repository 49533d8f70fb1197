// Package categorize assigns a domain category, detected technology
// and best-guess project name to port records.
//
// All outputs are best-effort heuristics over the process name,
// executable path and bundle identifier; an empty result is a valid
// answer, not an error.
package categorize

import (
	"strings"

	"github.com/blackwell-systems/portscope/internal/port"
)

// Category is a coarse domain grouping for a port's owning process.
type Category string

const (
	Development   Category = "Development"
	Database      Category = "Database"
	WebBrowser    Category = "Web Browser"
	Communication Category = "Communication"
	Media         Category = "Media"
	Network       Category = "Network"
	System        Category = "System"
	Other         Category = "Other"
)

// Result is a read-only projection of a record plus its labels. It is
// computed per scan for display and never persisted.
type Result struct {
	Record     port.Record
	Category   Category
	Technology string
	Project    string
}

// categoryRule maps name substrings to a category. Rules are evaluated
// in priority order with first-match-wins semantics.
type categoryRule struct {
	category Category
	names    []string
}

var categoryCascade = []categoryRule{
	{Development, []string{
		"python", "node", "npm", "pnpm", "yarn",
		"ruby", "irb", "gem",
		"php",
		"java",
		"gopls", "gofmt",
		"rustc", "cargo",
		"dart", "flutter",
		"dotnet", "mono",
		"julia", "racket",
	}},
	{Database, []string{
		"postgres", "mysql", "mariadb",
		"redis", "mongo",
		"sqlite", "cassandra", "elasticsearch", "influxdb",
	}},
	{WebBrowser, []string{
		"chrome", "chromium", "safari", "firefox",
		"msedge", "microsoft edge", "opera", "brave",
	}},
	{Communication, []string{
		"slack", "discord", "teams", "zoom", "skype", "telegram", "whatsapp",
	}},
	{Media, []string{
		"spotify", "vlc", "itunes", "quicktime",
	}},
	{Network, []string{
		"ssh", "nginx", "apache", "httpd",
		"docker", "kubectl", "kubernetes", "minikube",
		"virtualbox", "vmware", "wireshark", "tailscale", "wireguard",
	}},
	{System, []string{
		"launchd", "launchctl", "kernel",
		"distnoted", "mdnsresponder", "syslogd", "logd",
		"configd", "notifyd", "spotlight", "mds",
	}},
}

// technologyRule maps name substrings to a human-readable stack label.
type technologyRule struct {
	label string
	names []string
}

var technologyCascade = []technologyRule{
	{"Python", []string{"python", "django", "flask", "gunicorn", "uvicorn"}},
	{"Node.js", []string{"node", "npm", "next"}},
	{"Ruby", []string{"ruby", "rails"}},
	{"PHP", []string{"php", "laravel", "wordpress"}},
	{"Java", []string{"java", "spring", "tomcat"}},
	{"Go", []string{"golang", "gopls"}},
	{"Rust", []string{"cargo", "rustc"}},
	{"Dart", []string{"dart", "flutter"}},
	{".NET", []string{"dotnet", "mono"}},
	{"PostgreSQL", []string{"postgres"}},
	{"MySQL", []string{"mysql", "maria"}},
	{"Redis", []string{"redis"}},
	{"MongoDB", []string{"mongo"}},
	{"Chrome", []string{"chrome"}},
	{"Safari", []string{"safari"}},
	{"Firefox", []string{"firefox"}},
	{"Nginx", []string{"nginx"}},
	{"Apache", []string{"apache"}},
	{"Docker", []string{"docker"}},
}

// Categorize computes all three labels for a record.
func Categorize(r port.Record) Result {
	return Result{
		Record:     r,
		Category:   category(r),
		Technology: technology(r),
		Project:    projectName(r),
	}
}

func category(r port.Record) Category {
	name := strings.ToLower(r.ProcessName)
	for _, rule := range categoryCascade {
		for _, sub := range rule.names {
			if strings.Contains(name, sub) {
				return rule.category
			}
		}
	}
	if r.IsSystemProcess {
		return System
	}
	return Other
}

// technology tries process-name substrings first and falls back to the
// well-known-port knowledge base when the name is unrevealing.
func technology(r port.Record) string {
	name := strings.ToLower(r.ProcessName)
	for _, rule := range technologyCascade {
		for _, sub := range rule.names {
			if strings.Contains(name, sub) {
				return rule.label
			}
		}
	}
	if info, ok := Lookup(r.Port); ok {
		return info.Technology
	}
	return ""
}
