package safety

import "time"

// Rule sets for the tier cascade. Evaluation order matters: critical
// signals must win over developer-tool signals, because a database
// binary living under a user's home directory is still a database.

// criticalPorts are well-known system and network service ports.
var criticalPorts = map[int]bool{
	22: true, 53: true, 67: true, 68: true, 80: true,
	88: true, 123: true, 139: true, 161: true, 389: true,
	443: true, 445: true, 631: true, 636: true,
}

// criticalProcessNames are core OS services, matched case-insensitively
// against the full process name.
var criticalProcessNames = map[string]bool{
	"sshd": true, "launchd": true, "mdnsresponder": true, "kernel_task": true,
	"syslogd": true, "logd": true, "configd": true, "notifyd": true,
	"spotlight": true, "mds": true, "windowserver": true, "dock": true,
	"finder": true, "loginwindow": true, "coreaudiod": true, "distnoted": true,
}

// systemBundlePrefixes mark OS-vendor applications.
var systemBundlePrefixes = []string{
	"com.apple.",
}

// systemPaths are directories reserved for OS binaries.
var systemPaths = []string{
	"/System/", "/usr/sbin/", "/usr/bin/", "/sbin/",
}

// databasePorts cover databases, caches and message brokers.
var databasePorts = map[int]bool{
	3306: true, 5432: true, 6379: true,
	27017: true, 27018: true, 27019: true,
	5672: true, 1521: true, 9042: true, 11211: true, 9200: true,
}

// importantProcesses are substring matches for services whose loss can
// cost data or break running infrastructure.
var importantProcesses = []string{
	"postgres", "postgresql", "mysql", "mysqld", "mariadb",
	"redis-server", "redis", "mongodb", "mongod",
	"docker", "docker-desktop", "nginx", "apache", "httpd",
	"elasticsearch", "influxdb", "cassandra", "vault",
}

// devServerPorts are conventional local development server ports.
var devServerPorts = map[int]bool{
	3000: true, 3001: true, 4000: true, 5000: true,
	8000: true, 8080: true, 8081: true, 9000: true,
	4200: true, 5173: true, 5174: true,
}

// devProcesses are substring matches for interpreters, package
// managers and build tools that indicate a user-started server.
var devProcesses = []string{
	"npm", "node", "nodejs", "yarn", "pnpm", "npx",
	"python", "python3", "pip",
	"manage.py", "gunicorn", "uvicorn", "django-admin",
	"ruby", "gem", "bundle", "rackup", "rails",
	"go run", "dlv", "air",
	"cargo", "rustc", "rustup",
	"php", "php-fpm", "composer",
	"java", "javac", "gradle", "maven",
}

// userHomePrefixes locate binaries launched from a user's own tree.
var userHomePrefixes = []string{
	"/Users/", "/home/",
}

// devUptimeCutoff: a process on a dev-server port only counts as
// user-created while it is young; long-lived listeners on 8080 and
// friends are more likely deployed services.
const devUptimeCutoff = time.Hour
