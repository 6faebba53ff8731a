package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/basher/internal/services/process/processtest"
)

const toolxHelp = `Usage: toolx [OPTIONS] COMMAND

Commands:
  build   Build the project
  deploy  Deploy the project
  help    Show help
`

type recordingCopier struct {
	mutex  sync.Mutex
	copies []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.mutex.Lock()
	defer copier.mutex.Unlock()
	copier.copies = append(copier.copies, text)
	return nil
}

func (copier *recordingCopier) copied() []string {
	copier.mutex.Lock()
	defer copier.mutex.Unlock()
	return append([]string{}, copier.copies...)
}

type cliHarness struct {
	runner           *processtest.Runner
	resolver         processtest.Resolver
	copier           *recordingCopier
	workingDirectory string
	homeDirectory    string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	runner := processtest.NewRunner()
	runner.Stdout(toolxHelp, "toolx", "--help")
	return &cliHarness{
		runner:           runner,
		resolver:         processtest.Resolver{"toolx": filepath.Join(t.TempDir(), "toolx")},
		copier:           &recordingCopier{},
		workingDirectory: t.TempDir(),
		homeDirectory:    homeDirectory,
	}
}

func (harness *cliHarness) dependencies(stdout *bytes.Buffer) dependencies {
	return dependencies{
		runner:           harness.runner,
		resolver:         harness.resolver,
		copier:           harness.copier,
		stdin:            strings.NewReader(""),
		stdout:           stdout,
		stderr:           &bytes.Buffer{},
		workingDirectory: harness.workingDirectory,
	}
}

func (harness *cliHarness) run(t *testing.T, arguments ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	err := executeArguments(context.Background(), harness.dependencies(&stdout), arguments)
	return stdout.String(), err
}

func decodeJSON(t *testing.T, document string) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(document), &decoded))
	return decoded
}

func TestAnalyzeCommandCachesAnalysis(t *testing.T) {
	harness := newCLIHarness(t)

	first, err := harness.run(t, "analyze", "toolx", "--no-progress")
	require.NoError(t, err)
	analysis := decodeJSON(t, first)
	require.Equal(t, "toolx", analysis["command"])
	require.Equal(t, true, analysis["available"])
	require.Equal(t, []any{"build", "deploy"}, analysis["subcommands"])

	second, err := harness.run(t, "analyze", "toolx")
	require.NoError(t, err)
	require.Equal(t, analysis["capabilities"], decodeJSON(t, second)["capabilities"])
	require.Equal(t, 1, harness.runner.CallsWithPrefix("toolx --help"))

	listing, err := harness.run(t, "cache", "list")
	require.NoError(t, err)
	decoded := decodeJSON(t, listing)
	require.Equal(t, filepath.Join(harness.homeDirectory, ".basher", "command_cache.json"), decoded["path"])
	entries := decoded["entries"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	require.Equal(t, "toolx", entry["command"])
	require.Equal(t, "unknown", entry["version_kind"])
	require.NotEmpty(t, entry["cached_at"])

	cleared, err := harness.run(t, "cache", "clear")
	require.NoError(t, err)
	require.Contains(t, cleared, "Cleared analysis cache at")

	empty, err := harness.run(t, "cache", "list", "--format", "yaml")
	require.NoError(t, err)
	require.Contains(t, empty, "entries: []")
}

func TestAnalyzeCommandNarrowsAndSkips(t *testing.T) {
	harness := newCLIHarness(t)

	focused, err := harness.run(t, "analyze", "toolx", "build")
	require.NoError(t, err)
	document := decodeJSON(t, focused)
	require.Equal(t, "toolx build", document["command"])
	require.Equal(t, "toolx", document["parent_command"])

	skipped, err := harness.run(t, "a", "grep")
	require.NoError(t, err)
	require.Equal(t, "system_command", decodeJSON(t, skipped)["skip"])
}

func TestRiskCommand(t *testing.T) {
	harness := newCLIHarness(t)

	rendered, err := harness.run(t, "risk", "--format", "yaml", "sudo rm -rf /var/lib/app")
	require.NoError(t, err)
	require.Contains(t, rendered, "risk_level: CRITICAL")

	copiedOutput, err := harness.run(t, "risk", "--copy", "echo hello")
	require.NoError(t, err)
	require.Equal(t, "LOW", decodeJSON(t, copiedOutput)["risk_level"])
	require.Equal(t, []string{copiedOutput}, harness.copier.copied())
}

func TestVerifyCommand(t *testing.T) {
	harness := newCLIHarness(t)

	rendered, err := harness.run(t, "verify", "toolx")
	require.NoError(t, err)
	require.Equal(t, true, decodeJSON(t, rendered)["exists"])

	missing, err := harness.run(t, "verify", "nvim")
	require.NoError(t, err)
	report := decodeJSON(t, missing)
	require.Equal(t, false, report["exists"])
	require.Equal(t, "Command not found", report["status"])
}

func TestOutputFormatComesFromConfiguration(t *testing.T) {
	harness := newCLIHarness(t)
	configPath := filepath.Join(harness.workingDirectory, ".basher.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  format: yaml\n"), 0o600))

	rendered, err := harness.run(t, "risk", "ls -la")
	require.NoError(t, err)
	require.Contains(t, rendered, "risk_level: LOW")

	overridden, err := harness.run(t, "risk", "--format", "json", "ls -la")
	require.NoError(t, err)
	require.Equal(t, "LOW", decodeJSON(t, overridden)["risk_level"])
}

func TestCommandErrors(t *testing.T) {
	harness := newCLIHarness(t)

	_, err := harness.run(t, "risk", "--format", "xml", "ls")
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(harness.workingDirectory, ".basher.yaml"), []byte("cache:\n  disabled: true\n"), 0o600))
	_, err = harness.run(t, "cache", "list")
	require.ErrorIs(t, err, errCacheDisabled)

	_, err = harness.run(t, "analyze")
	require.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	harness := newCLIHarness(t)

	rendered, err := harness.run(t, "init")
	require.NoError(t, err)
	expectedPath := filepath.Join(harness.workingDirectory, ".basher.yaml")
	require.Equal(t, "Configuration written to "+expectedPath+"\n", rendered)

	_, err = harness.run(t, "init")
	require.Error(t, err)

	_, err = harness.run(t, "init", "--force", "yes")
	require.NoError(t, err)

	global, err := harness.run(t, "init", "--global")
	require.NoError(t, err)
	require.Contains(t, global, filepath.Join(harness.homeDirectory, ".basher", "config.yaml"))
}
