package utils

import (
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	vcsRevisionSetting = "vcs.revision"
	vcsModifiedSetting = "vcs.modified"
	shortRevisionWidth = 12
)

// Version is injected at link time with -ldflags "-X .../utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion reports the linked version, the module version from
// build info, or the VCS revision recorded by the Go toolchain, in that order.
func GetApplicationVersion() string {
	if strings.TrimSpace(Version) != "" {
		return Version
	}
	buildInfo, available := debug.ReadBuildInfo()
	if !available {
		return unknownVersion
	}
	return versionFromBuildInfo(buildInfo)
}

func versionFromBuildInfo(buildInfo *debug.BuildInfo) string {
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}
	var revision string
	var modified bool
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case vcsRevisionSetting:
			revision = setting.Value
		case vcsModifiedSetting:
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return unknownVersion
	}
	if len(revision) > shortRevisionWidth {
		revision = revision[:shortRevisionWidth]
	}
	if modified {
		revision += "-dirty"
	}
	return revision
}
