package treeutils

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/wilsonzlin/treeutils/pkg.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
)

// GetVersion returns the version string, preferring the link-time value
func GetVersion() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "development"
}

// GetCommit returns the VCS revision, preferring the link-time value
func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return "unknown"
}

// GetFullVersion returns the version with a short commit when known
func GetFullVersion() string {
	commit := GetCommit()
	if len(commit) > 7 {
		return fmt.Sprintf("%s (%s)", GetVersion(), commit[:7])
	}
	return GetVersion()
}
