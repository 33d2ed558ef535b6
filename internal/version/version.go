package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the current version of moragents
	// This will be set at build time using -ldflags
	Version = "dev"

	// CommitHash is the git commit hash
	CommitHash = "unknown"

	// BuildDate is the build date
	BuildDate = "unknown"
)

// GetVersionString returns the full version string
func GetVersionString() string {
	return fmt.Sprintf("moragents version: %s (commit: %s, built: %s)", Version, CommitHash, BuildDate)
}

// GetShortVersion returns just the version number
func GetShortVersion() string {
	return Version
}

// UserAgent is sent with backend requests.
func UserAgent() string {
	return fmt.Sprintf("moragents-tui/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
