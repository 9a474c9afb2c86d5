// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via -ldflags
var (
	version   = "dev"
	buildDate = "unknown"
	commit    = "unknown"
)

// BuildInfo contains build-time information
type BuildInfo struct {
	Version   string
	BuildDate string
	Commit    string
	GoVersion string
}

// GetBuildInfo returns the current build information. It first checks
// ldflags-injected values, then falls back to debug.ReadBuildInfo() for
// installs done with `go install`.
func GetBuildInfo() *BuildInfo {
	info := &BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		Commit:    commit,
		GoVersion: runtime.Version(),
	}

	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}

	return info
}

// GetVersionString returns a short version string for display.
func GetVersionString() string {
	info := GetBuildInfo()
	if info.Commit != "unknown" {
		return fmt.Sprintf("%s (%s)", info.Version, info.Commit)
	}
	return info.Version
}
