//go:build darwin

package procinfo

import (
	"os/exec"
	"strconv"
	"strings"
)

// lsappinfoRegistry queries the macOS launch services registry via the
// lsappinfo tool. Only foreground applications are registered there;
// daemons and plain CLI processes miss and fall through to the ps
// lookup.
type lsappinfoRegistry struct{}

func newPlatformRegistry() Registry {
	return lsappinfoRegistry{}
}

func (lsappinfoRegistry) Lookup(pid int) (AppInfo, bool) {
	out, err := exec.Command(
		"lsappinfo", "info",
		"-only", "name,bundleid,bundlepath",
		"-app", strconv.Itoa(pid),
	).Output()
	if err != nil {
		return AppInfo{}, false
	}
	return parseLsappinfo(string(out))
}

// parseLsappinfo extracts key="value" pairs from lsappinfo output such
// as:
//
//	"LSDisplayName"="Safari"
//	"CFBundleIdentifier"="com.apple.Safari"
//	"LSBundlePath"="/Applications/Safari.app"
func parseLsappinfo(out string) (AppInfo, bool) {
	var info AppInfo
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := splitPair(line)
		if !ok {
			continue
		}
		switch key {
		case "LSDisplayName":
			info.Name = value
		case "CFBundleIdentifier":
			info.BundleID = value
		case "LSBundlePath":
			info.BundlePath = value
		}
	}
	if info.Name == "" && info.BundleID == "" && info.BundlePath == "" {
		return AppInfo{}, false
	}
	return info, true
}

func splitPair(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	i := strings.Index(line, "=")
	if i < 0 {
		return "", "", false
	}
	key = strings.Trim(line[:i], `" `)
	value = strings.Trim(line[i+1:], `" `)
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}
