package assistant

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/basher/internal/cache"
	"github.com/temirov/basher/internal/services/process/processtest"
	"github.com/temirov/basher/internal/types"
	"github.com/temirov/basher/internal/verify"
)

type countingAnalyzer struct {
	mutex   sync.Mutex
	calls   int
	version string
}

func (analyzer *countingAnalyzer) Analyze(_ context.Context, command string) *types.CommandAnalysis {
	analyzer.mutex.Lock()
	defer analyzer.mutex.Unlock()
	analyzer.calls++
	if command != "toolx" {
		return types.NotFoundAnalysis(command)
	}
	analysis := types.NewCommandAnalysis(command)
	analysis.Available = true
	analysis.Version = analyzer.version
	analysis.Framework = types.FrameworkCobra
	analysis.SourceMethod = types.SourceHelpFramework
	analysis.Subcommands = []string{"build", "deploy"}
	analysis.Capabilities["build"] = types.Capability{
		Available:   true,
		Description: "Build the project",
		Syntax:      "toolx build [flags]",
		Flags:       types.NewFlatFlags([]string{"--release"}),
		Examples:    []string{"toolx build --release"},
		Subcommands: map[string]types.Capability{
			"image": {
				Available:   true,
				Description: "Build a container image",
				Syntax:      "toolx build image --tag <tag>",
				Flags:       types.NewPartitionedFlags([]string{"--tag"}, nil),
			},
		},
	}
	analysis.Capabilities["deploy"] = types.StubCapability("deploy subcommand")
	return analysis
}

func (analyzer *countingAnalyzer) callCount() int {
	analyzer.mutex.Lock()
	defer analyzer.mutex.Unlock()
	return analyzer.calls
}

type mutableFingerprint struct {
	mutex   sync.Mutex
	version string
}

func (fingerprint *mutableFingerprint) Detect(context.Context, string) string {
	fingerprint.mutex.Lock()
	defer fingerprint.mutex.Unlock()
	return fingerprint.version
}

func (fingerprint *mutableFingerprint) set(version string) {
	fingerprint.mutex.Lock()
	defer fingerprint.mutex.Unlock()
	fingerprint.version = version
}

func decode(t *testing.T, document string) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(document), &decoded))
	return decoded
}

func TestGetCommandAnalysisSkipsSystemCommands(t *testing.T) {
	analyzer := &countingAnalyzer{version: "1.0.0"}
	assistant := New(Config{Analyzer: analyzer, ExtraSystemCommands: []string{"toolx"}})

	for _, commandPath := range []string{"ls", "git-lfs", "toolx build"} {
		document := decode(t, assistant.GetCommandAnalysis(context.Background(), commandPath))
		if commandPath == "git-lfs" {
			require.Equal(t, false, document["available"])
			continue
		}
		require.Equal(t, "system_command", document["skip"])
	}
	require.Equal(t, "ls is a common system command", decode(t, assistant.GetCommandAnalysis(context.Background(), "ls -la"))["reason"])
	require.Equal(t, 1, analyzer.callCount())
}

func TestGetCommandAnalysisNarrowsToSubcommand(t *testing.T) {
	assistant := New(Config{Analyzer: &countingAnalyzer{version: "1.0.0"}})

	document := decode(t, assistant.GetCommandAnalysis(context.Background(), "toolx build"))
	require.Equal(t, "toolx build", document["command"])
	require.Equal(t, "toolx", document["parent_command"])
	require.Equal(t, "toolx build [flags]", document["syntax"])
	require.Equal(t, []any{"--release"}, document["flags"])
	require.Contains(t, document["subcommands"], "image")

	nested := decode(t, assistant.GetCommandAnalysis(context.Background(), "toolx build image"))
	require.Equal(t, "toolx build image", nested["command"])
	require.Equal(t, "toolx build", nested["parent_command"])
	require.Equal(t, map[string]any{"required": []any{"--tag"}, "optional": []any{}}, nested["flags"])
	require.Equal(t, []any{}, nested["examples"])
	require.Equal(t, map[string]any{}, nested["subcommands"])

	stub := decode(t, assistant.GetCommandAnalysis(context.Background(), "toolx deploy"))
	require.Equal(t, "deploy subcommand", stub["description"])
	require.Equal(t, []any{}, stub["flags"])
}

func TestGetCommandAnalysisFallsBackToFullAnalysis(t *testing.T) {
	assistant := New(Config{Analyzer: &countingAnalyzer{version: "1.0.0"}})

	document := decode(t, assistant.GetCommandAnalysis(context.Background(), "toolx missing"))
	require.Equal(t, "toolx", document["command"])
	require.Equal(t, "help_framework", document["source_method"])
	require.Contains(t, document, "capabilities")
}

func TestGetCommandAnalysisRejectsBadInput(t *testing.T) {
	assistant := New(Config{Analyzer: &countingAnalyzer{}})

	for _, commandPath := range []string{"", "   ", `toolx "unterminated`} {
		document := decode(t, assistant.GetCommandAnalysis(context.Background(), commandPath))
		require.Contains(t, document["error"], "Analysis failed")
		require.Equal(t, false, document["available"])
		require.Equal(t, commandPath, document["command"])
	}
}

func TestGetCommandAnalysisUsesCacheUntilVersionChanges(t *testing.T) {
	fingerprint := &mutableFingerprint{version: "1.0.0"}
	store := cache.Open(filepath.Join(t.TempDir(), cache.FileName), fingerprint)
	analyzer := &countingAnalyzer{version: "1.0.0"}
	assistant := New(Config{Analyzer: analyzer, Cache: store})

	first := decode(t, assistant.GetCommandAnalysis(context.Background(), "toolx"))
	second := decode(t, assistant.GetCommandAnalysis(context.Background(), "toolx"))
	require.Equal(t, 1, analyzer.callCount())
	require.Equal(t, first["capabilities"], second["capabilities"])
	require.Contains(t, second, "cached_at")

	fingerprint.set("2.0.0")
	analyzer.version = "2.0.0"
	third := decode(t, assistant.GetCommandAnalysis(context.Background(), "toolx"))
	require.Equal(t, 2, analyzer.callCount())
	require.Equal(t, "2.0.0", third["version"])
}

func TestGetCommandAnalysisDoesNotCacheMissingCommands(t *testing.T) {
	store := cache.Open(filepath.Join(t.TempDir(), cache.FileName), &mutableFingerprint{version: "unknown"})
	analyzer := &countingAnalyzer{}
	assistant := New(Config{Analyzer: analyzer, Cache: store})

	assistant.GetCommandAnalysis(context.Background(), "nothere")
	assistant.GetCommandAnalysis(context.Background(), "nothere")
	require.Equal(t, 2, analyzer.callCount())
	require.Empty(t, store.Entries())
}

func TestAssessRisk(t *testing.T) {
	assistant := New(Config{})

	document := decode(t, assistant.AssessRisk("sudo rm -rf /var/lib/prod"))
	require.Equal(t, "CRITICAL", document["risk_level"])
	require.Equal(t, "sudo rm -rf /var/lib/prod", document["command"])
	require.Len(t, document["warnings"], 3)

	calm := decode(t, assistant.AssessRisk("echo hello"))
	require.Equal(t, "LOW", calm["risk_level"])
	require.Equal(t, []any{}, calm["warnings"])
}

func TestVerifyCommandExists(t *testing.T) {
	verifier := verify.NewVerifier(processtest.Resolver{"toolx": "/usr/local/bin/toolx"})
	assistant := New(Config{Verifier: verifier})

	document := decode(t, assistant.VerifyCommandExists("toolx build --release"))
	require.Equal(t, true, document["exists"])
	require.Equal(t, "/usr/local/bin/toolx", document["path"])

	missing := decode(t, assistant.VerifyCommandExists(""))
	require.Equal(t, false, missing["exists"])
	require.Contains(t, missing["error"], "Failed to verify command")
}
