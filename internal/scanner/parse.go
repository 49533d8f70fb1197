package scanner

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/portscope/internal/port"
)

// lsof column layout:
//
//	COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME
//	ControlCe 617 alice 9u IPv4 0x0 0t0 TCP *:7000 (LISTEN)
//
// NAME starts at column index 8 and may itself contain spaces (the
// trailing "(LISTEN)" annotation), so everything from index 8 on is
// rejoined before the port is extracted.
const (
	colCommand = 0
	colPID     = 1
	colUser    = 2
	colName    = 8
)

// Daemon accounts that do not follow the underscore naming convention.
var systemUsers = map[string]bool{
	"root":   true,
	"daemon": true,
	"nobody": true,
}

func parseOutput(out string, log *logrus.Entry) []port.Record {
	records := []port.Record{}
	lines := strings.Split(out, "\n")
	skipped := 0

	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // header or trailing blank
		}

		rec, ok := parseLine(line)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		log.WithField("skipped", skipped).Debug("ignored malformed lsof rows")
	}
	return records
}

// parseLine converts a single lsof row into a record. A false return
// means the row is malformed and must be skipped.
func parseLine(line string) (port.Record, bool) {
	fields := strings.Fields(line)
	if len(fields) <= colName {
		return port.Record{}, false
	}

	pid, err := strconv.Atoi(fields[colPID])
	if err != nil || pid <= 0 {
		return port.Record{}, false
	}

	addr := strings.Join(fields[colName:], " ")
	portNum, ok := extractPort(addr)
	if !ok {
		return port.Record{}, false
	}

	user := fields[colUser]
	return port.Record{
		Port:            portNum,
		Protocol:        port.TCP,
		PID:             pid,
		ProcessName:     unescapeCommand(fields[colCommand]),
		IsSystemProcess: isSystemUser(user),
	}, true
}

// extractPort pulls the port number out of an lsof NAME field such as
// "*:7000 (LISTEN)", "127.0.0.1:5432" or "[::1]:8080 (LISTEN)".
// Anchoring on the last colon handles IPv4, wildcard and bracketed
// IPv6 forms uniformly.
func extractPort(addr string) (int, bool) {
	if i := strings.LastIndex(addr, " ("); i >= 0 && strings.HasSuffix(addr, ")") {
		addr = addr[:i]
	}
	addr = strings.TrimSpace(addr)

	i := strings.LastIndex(addr, ":")
	if i < 0 || i == len(addr)-1 {
		return 0, false
	}

	n, err := strconv.Atoi(addr[i+1:])
	if err != nil || n < 1 || n > 65535 {
		return 0, false
	}
	return n, true
}

// isSystemUser is a cheap provisional heuristic; the resolver and
// safety analyzer refine it with bundle and path signals later.
func isSystemUser(user string) bool {
	return systemUsers[user] || strings.HasPrefix(user, "_")
}

// unescapeCommand reverses the escaping lsof applies to command names
// when invoked with +c 0 ("Code\x20Helper" -> "Code Helper").
func unescapeCommand(name string) string {
	name = strings.ReplaceAll(name, `\x20`, " ")
	name = strings.ReplaceAll(name, `\x2d`, "-")
	return name
}
