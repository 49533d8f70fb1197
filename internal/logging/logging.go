// Package logging configures the process-wide logrus logger.
//
// Components obtain a scoped entry via For, which mirrors the
// per-component labels used across the codebase ("scanner",
// "resolver", "history", ...). Debug output is opt-in through the
// PORTSCOPE_DEBUG environment variable so the CLI stays quiet by
// default.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var root = logrus.New()

func init() {
	root.SetOutput(os.Stderr)
	root.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	root.SetLevel(logrus.WarnLevel)
	if os.Getenv("PORTSCOPE_DEBUG") != "" {
		root.SetLevel(logrus.DebugLevel)
	}
}

// For returns a logger entry scoped to the named component.
func For(component string) *logrus.Entry {
	return root.WithField("component", component)
}

// SetVerbose raises the log level to Info for the lifetime of the
// process. Used by the --verbose flag.
func SetVerbose() {
	if root.GetLevel() < logrus.InfoLevel {
		root.SetLevel(logrus.InfoLevel)
	}
}
