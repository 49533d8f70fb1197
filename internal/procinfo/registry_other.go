//go:build !darwin

package procinfo

// noopRegistry reports a miss for every pid. Platforms without an
// application registry rely on the ps fallback alone.
type noopRegistry struct{}

func newPlatformRegistry() Registry {
	return noopRegistry{}
}

func (noopRegistry) Lookup(int) (AppInfo, bool) {
	return AppInfo{}, false
}
