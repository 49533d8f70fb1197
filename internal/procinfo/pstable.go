package procinfo

import (
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// lstartLayout matches ps -o lstart= output once runs of whitespace
// are collapsed: "Mon Dec 25 12:00:00 2024".
const lstartLayout = "Mon Jan 2 15:04:05 2006"

// psExecutablePath asks the process table for a pid's executable path.
// A miss (process exited, empty output, ps failure) returns false.
func psExecutablePath(pid int) (string, bool) {
	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "comm=").Output()
	if err != nil {
		return "", false
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", false
	}
	return path, true
}

// psStartTime asks the process table for a pid's start timestamp.
func psStartTime(pid int) (time.Time, bool) {
	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "lstart=").Output()
	if err != nil {
		return time.Time{}, false
	}
	return parseStartTime(string(out))
}

// parseStartTime parses lstart output. ps pads single-digit days with
// an extra space, so fields are rejoined before parsing.
func parseStartTime(out string) (time.Time, bool) {
	fields := strings.Fields(out)
	if len(fields) < 5 {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(lstartLayout, strings.Join(fields[:5], " "), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

