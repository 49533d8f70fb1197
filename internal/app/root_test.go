package app

import (
	"testing"
)

// TestRootCommandRegistration verifies every subcommand is wired into
// the root command.
func TestRootCommandRegistration(t *testing.T) {
	want := []string{"list", "kill", "watch", "history", "lookup", "config"}
	for _, name := range want {
		found := false
		for _, sub := range RootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "db", "verbose"} {
		if RootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q not registered", name)
		}
	}
}

func TestGetDBPathOverride(t *testing.T) {
	oldDBPath := dbPath
	dbPath = "/tmp/custom.db"
	defer func() { dbPath = oldDBPath }()

	got, err := getDBPath()
	if err != nil {
		t.Fatalf("getDBPath: %v", err)
	}
	if got != "/tmp/custom.db" {
		t.Errorf("getDBPath = %q, want /tmp/custom.db", got)
	}
}

func TestGetDBPathDefault(t *testing.T) {
	oldDBPath := dbPath
	dbPath = ""
	defer func() { dbPath = oldDBPath }()

	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := getDBPath()
	if err != nil {
		t.Fatalf("getDBPath: %v", err)
	}
	want := home + "/.portscope/history.db"
	if got != want {
		t.Errorf("getDBPath = %q, want %q", got, want)
	}
}
