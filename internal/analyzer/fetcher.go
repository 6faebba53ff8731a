package analyzer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/basher/internal/services/process"
	"github.com/temirov/basher/internal/types"
)

const (
	localeWarningPrefix = "Unknown locale"
	manualProgram       = "man"
	backspaceRune       = '\b'
)

var helpFlagVariants = []string{"--help", "-h", "help"}

// HelpFetcher retrieves help text for a command path.
type HelpFetcher struct {
	runner  process.Runner
	timeout time.Duration
	logger  *zap.Logger
}

// NewHelpFetcher constructs a HelpFetcher.
func NewHelpFetcher(runner process.Runner, timeout time.Duration, logger *zap.Logger) *HelpFetcher {
	if timeout <= 0 {
		timeout = defaultHelpTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HelpFetcher{runner: runner, timeout: timeout, logger: logger}
}

// helpInvocations lists the argument vectors tried for path, in order.
// Only single-token paths fall back to the manual page.
func helpInvocations(path []string) [][]string {
	invocations := make([][]string, 0, len(helpFlagVariants)+1)
	for _, flag := range helpFlagVariants {
		argv := append(append([]string{}, path...), flag)
		invocations = append(invocations, argv)
	}
	if len(path) == 1 {
		invocations = append(invocations, []string{manualProgram, path[0]})
	}
	return invocations
}

// Fetch returns the first successful non-empty stdout, otherwise the first
// meaningful stderr, otherwise an unavailable result with an empty value.
func (fetcher *HelpFetcher) Fetch(ctx context.Context, path []string) types.StageResult[string] {
	if len(path) == 0 {
		return types.Unavailable[string]("empty command path")
	}
	firstDiagnostic := ""
	for _, argv := range helpInvocations(path) {
		result := fetcher.runner.Run(ctx, fetcher.timeout, argv...)
		if result.Err != nil {
			fetcher.logger.Debug("help attempt failed", zap.Strings("argv", argv), zap.Bool("timed_out", result.TimedOut()), zap.Error(result.Err))
		}
		if result.Succeeded() {
			output := removeOverstrike(dropLocaleWarnings(result.Stdout))
			if strings.TrimSpace(output) != "" {
				return types.Succeeded(output)
			}
		}
		diagnostic := strings.TrimSpace(result.Stderr)
		if firstDiagnostic == "" && diagnostic != "" && !strings.HasPrefix(diagnostic, localeWarningPrefix) {
			firstDiagnostic = diagnostic
		}
	}
	if firstDiagnostic != "" {
		return types.Degraded(firstDiagnostic, "help text taken from stderr")
	}
	return types.Unavailable[string]("no help output for " + strings.Join(path, " "))
}

func dropLocaleWarnings(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, localeWarningPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// removeOverstrike collapses "X\bX" bold sequences emitted by man.
func removeOverstrike(text string) string {
	if !strings.ContainsRune(text, backspaceRune) {
		return text
	}
	runes := []rune(text)
	output := make([]rune, 0, len(runes))
	for index := 0; index < len(runes); index++ {
		if index+2 < len(runes) && runes[index+1] == backspaceRune {
			output = append(output, runes[index+2])
			index += 2
			continue
		}
		output = append(output, runes[index])
	}
	return string(output)
}
