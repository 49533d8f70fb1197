//go:build !darwin

package config

// No GUI preference store to migrate from on this platform.
func loadFromPlatformStore() (Config, bool) {
	return Config{}, false
}
