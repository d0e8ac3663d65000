// Package build holds version information stamped in at link time.
// It has no dependencies on other internal packages.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Info returns the lines printed by the version command.
func Info() []string {
	return []string{
		fmt.Sprintf("changeset %s", Version),
		fmt.Sprintf("commit: %s", Commit),
		fmt.Sprintf("built: %s", BuildDate),
		fmt.Sprintf("go: %s", runtime.Version()),
		fmt.Sprintf("platform: %s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
