package version

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/basher/internal/services/process"
	"github.com/temirov/basher/internal/services/process/processtest"
)

type fakeFileInfo struct {
	modTime time.Time
}

func (info fakeFileInfo) Name() string       { return "toolx" }
func (info fakeFileInfo) Size() int64        { return 0 }
func (info fakeFileInfo) Mode() fs.FileMode  { return 0o755 }
func (info fakeFileInfo) ModTime() time.Time { return info.modTime }
func (info fakeFileInfo) IsDir() bool        { return false }
func (info fakeFileInfo) Sys() any           { return nil }

func TestExtractVersion(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "version keyword", text: "toolx version 1.4.2 (build abc)", expected: "1.4.2"},
		{name: "v prefix", text: "toolx v2.10.0", expected: "2.10.0"},
		{name: "major minor", text: "Python 3.12", expected: "3.12"},
		{name: "labelled token", text: "Version: nightly-2024", expected: "nightly-2024"},
		{name: "version token", text: "kubectl version beta", expected: "beta"},
		{name: "nothing", text: "usage: toolx [options]", expected: ""},
		{name: "blank", text: "  \n", expected: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, ExtractVersion(testCase.text))
		})
	}
}

func TestDetectorProbesInOrder(t *testing.T) {
	testCases := []struct {
		name     string
		script   func(runner *processtest.Runner)
		expected string
	}{
		{
			name: "long flag",
			script: func(runner *processtest.Runner) {
				runner.Stdout("toolx version 1.4.2\n", "toolx", "--version")
			},
			expected: "1.4.2",
		},
		{
			name: "short flag after failure",
			script: func(runner *processtest.Runner) {
				runner.Script(process.Result{ExitCode: 2, Stderr: "unknown flag"}, "toolx", "--version")
				runner.Stdout("2.0.1\n", "toolx", "-v")
			},
			expected: "2.0.1",
		},
		{
			name: "stderr when stdout empty",
			script: func(runner *processtest.Runner) {
				runner.Script(process.Result{Stderr: "toolx 0.9.7"}, "toolx", "--version")
			},
			expected: "0.9.7",
		},
		{
			name: "subcommand form",
			script: func(runner *processtest.Runner) {
				runner.Script(process.Result{Err: process.ErrTimedOut, ExitCode: -1}, "toolx", "--version")
				runner.Stdout("Version: 5.1\n", "toolx", "version")
			},
			expected: "5.1",
		},
		{
			name:     "mtime fallback",
			script:   func(runner *processtest.Runner) {},
			expected: "mtime-1700000000",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			runner := processtest.NewRunner()
			testCase.script(runner)
			detector := NewDetector(
				runner,
				processtest.Resolver{"toolx": "/usr/local/bin/toolx"},
				WithFileStater(func(path string) (os.FileInfo, error) {
					require.Equal(t, "/usr/local/bin/toolx", path)
					return fakeFileInfo{modTime: time.Unix(1700000000, 0)}, nil
				}),
			)
			require.Equal(t, testCase.expected, detector.Detect(context.Background(), "toolx"))
		})
	}
}

func TestDetectorUnknown(t *testing.T) {
	runner := processtest.NewRunner()
	detector := NewDetector(runner, processtest.Resolver{})
	require.Equal(t, "unknown", detector.Detect(context.Background(), "ghost"))
	require.Empty(t, runner.Calls())

	statFailure := NewDetector(runner, processtest.Resolver{"toolx": "/bin/toolx"}, WithFileStater(func(string) (os.FileInfo, error) {
		return nil, errors.New("gone")
	}))
	require.Equal(t, "unknown", statFailure.Detect(context.Background(), "toolx"))
}

func TestKind(t *testing.T) {
	require.Equal(t, KindSemver, Kind("1.4.2"))
	require.Equal(t, KindSemver, Kind("v3.12"))
	require.Equal(t, KindMtime, Kind("mtime-1700000000"))
	require.Equal(t, KindUnknown, Kind("unknown"))
	require.Equal(t, KindOpaque, Kind("nightly-2024"))
}
