// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during release builds:
//
//	go build -ldflags "-X github.com/AaronLge/GeometrieConverter/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/AaronLge/GeometrieConverter/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/AaronLge/GeometrieConverter/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built without ldflags (plain go install) fall back to the VCS
// stamp embedded by the Go toolchain, so --version stays useful either way.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	c, d := resolve()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, c, d)
}

// Template returns the version template string for cobra.
func Template() string {
	c, d := resolve()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, c, d)
}

// resolve prefers ldflags values and falls back to the module build info.
func resolve() (commit, date string) {
	commit, date = Commit, Date
	if commit != "none" && date != "unknown" {
		return commit, date
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return commit, date
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "none" {
				commit = s.Value
			}
		case "vcs.time":
			if date == "unknown" {
				date = s.Value
			}
		}
	}
	return commit, date
}
