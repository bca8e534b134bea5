// Package version holds build metadata set with -ldflags -X.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release version.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String renders "version (sha, built time)". When the sha was not set at
// link time, the VCS revision embedded by the Go toolchain is used.
func String() string {
	sha := GitSHA
	if sha == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					sha = s.Value[:7]
				}
			}
		}
	}
	return fmt.Sprintf("%s (%s, built %s)", Version, sha, BuildTime)
}
