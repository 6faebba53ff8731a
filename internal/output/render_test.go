package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderJSON(t *testing.T) {
	rendered, err := Render(`{"risk_level":"LOW","warnings":[],"command":"echo hi"}`, "")
	require.NoError(t, err)
	require.Equal(t, "{\n  \"risk_level\": \"LOW\",\n  \"warnings\": [],\n  \"command\": \"echo hi\"\n}\n", rendered)
}

func TestRenderYAMLQuotesAmbiguousStrings(t *testing.T) {
	rendered, err := Render(`{"version":"1.10","flag":"true"}`, "yaml")
	require.NoError(t, err)
	require.Equal(t, "version: \"1.10\"\nflag: \"true\"\n", rendered)
}

func TestRenderYAMLPreservesOrder(t *testing.T) {
	rendered, err := Render(`{"command":"toolx","available":true,"subcommands":["build","deploy"],"capabilities":{}}`, "YAML")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rendered, "command: toolx\navailable: true\nsubcommands:\n"), rendered)
	require.Contains(t, rendered, "- build\n")
	require.True(t, strings.HasSuffix(rendered, "capabilities: {}\n"), rendered)
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := Render(`{}`, "xml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderRejectsMalformedJSON(t *testing.T) {
	_, err := Render(`{"command":`, "json")
	require.Error(t, err)
}

func TestRenderValue(t *testing.T) {
	rendered, err := RenderValue([]map[string]string{{"command": "toolx"}}, "yaml")
	require.NoError(t, err)
	require.Equal(t, "- command: toolx\n", rendered)
}

func progressFile(t *testing.T) *os.File {
	t.Helper()
	file, err := os.Create(filepath.Join(t.TempDir(), "progress.log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return file
}

func TestProgressStopWithoutStart(t *testing.T) {
	progress := NewProgress(progressFile(t), "Analyzing toolx")
	progress.Stop()
	progress.Stop()
}

func TestProgressStartStop(t *testing.T) {
	progress := NewProgress(progressFile(t), "Analyzing toolx")
	progress.Start()
	progress.Stop()
	progress.Stop()
}
