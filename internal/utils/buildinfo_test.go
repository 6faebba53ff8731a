package utils

import (
	"runtime/debug"
	"testing"
)

func TestVersionFromBuildInfo(testingInstance *testing.T) {
	testCases := []struct {
		name      string
		buildInfo debug.BuildInfo
		expected  string
	}{
		{
			name:      "module version",
			buildInfo: debug.BuildInfo{Main: debug.Module{Version: "v0.3.1"}},
			expected:  "v0.3.1",
		},
		{
			name: "vcs revision",
			buildInfo: debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef0123"}},
			},
			expected: "0123456789ab",
		},
		{
			name: "dirty tree",
			buildInfo: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			expected: "abc123-dirty",
		},
		{
			name:      "nothing recorded",
			buildInfo: debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			expected:  "unknown",
		},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			if version := versionFromBuildInfo(&testCase.buildInfo); version != testCase.expected {
				testingInstance.Fatalf("expected %s, got %s", testCase.expected, version)
			}
		})
	}
}
