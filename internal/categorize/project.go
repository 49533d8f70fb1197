package categorize

import (
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/portscope/internal/port"
)

// genericDirs are directory names too generic to serve as a project
// name.
var genericDirs = map[string]bool{
	"usr": true, "bin": true, "local": true, "opt": true,
	"Applications": true, "Library": true, "System": true,
	"Users": true, "home": true, "private": true, "var": true,
}

// packageCacheDirs are package-manager cache directories; the project
// lives one level above them.
var packageCacheDirs = map[string]bool{
	"node_modules": true,
	".venv":        true,
	"vendor":       true,
}

// projectName guesses the project a process belongs to from its
// executable path, falling back to the bundle identifier. Returns ""
// when nothing plausible is found.
func projectName(r port.Record) string {
	if name := projectFromPath(r.ExecutablePath); name != "" {
		return name
	}
	return projectFromBundleID(r.BundleID)
}

// projectFromPath strips the filename and walks up the directory tree
// looking for a component that reads like a project name.
func projectFromPath(path string) string {
	if path == "" {
		return ""
	}

	dir := filepath.Dir(path)
	for dir != "/" && dir != "." {
		base := filepath.Base(dir)
		parent := filepath.Dir(dir)

		if packageCacheDirs[base] {
			// ".../myapp/node_modules/.bin/vite" -> "myapp"
			dir = parent
			continue
		}
		if isProjectName(base) {
			return base
		}
		dir = parent
	}
	return ""
}

func isProjectName(name string) bool {
	return len(name) > 2 && !strings.HasPrefix(name, ".") && !genericDirs[name]
}

// projectFromBundleID takes the second-to-last component of a
// reverse-DNS bundle identifier ("com.example.myapp.helper" ->
// "myapp").
func projectFromBundleID(bundleID string) string {
	parts := strings.Split(bundleID, ".")
	if len(parts) > 2 {
		return parts[len(parts)-2]
	}
	return ""
}
