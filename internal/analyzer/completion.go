package analyzer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/basher/internal/services/process"
	"github.com/temirov/basher/internal/types"
)

const (
	completionSubcommand = "__complete"
	completionLineLimit  = 5
)

var (
	completionRejectMarkers = []string{"shellcomp", "activehelp"}
	completionDirectiveLine = regexp.MustCompile(`^:\d+$`)
)

// CompletionEnhancer asks cobra-style binaries for completion candidates.
type CompletionEnhancer struct {
	runner  process.Runner
	timeout time.Duration
	limit   int
	logger  *zap.Logger
}

// NewCompletionEnhancer constructs a CompletionEnhancer probing the first limit subcommands.
func NewCompletionEnhancer(runner process.Runner, timeout time.Duration, limit int, logger *zap.Logger) *CompletionEnhancer {
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	if limit <= 0 {
		limit = defaultCompletionLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionEnhancer{runner: runner, timeout: timeout, limit: limit, logger: logger}
}

// Enhance attaches completion hints to capabilities; failures leave the record untouched.
func (enhancer *CompletionEnhancer) Enhance(ctx context.Context, analysis *types.CommandAnalysis) {
	if analysis == nil {
		return
	}
	selected := analysis.Subcommands
	if len(selected) > enhancer.limit {
		selected = selected[:enhancer.limit]
	}
	for _, subcommand := range selected {
		hints := enhancer.probe(ctx, analysis.Command, subcommand)
		if len(hints) == 0 {
			continue
		}
		if analysis.Capabilities == nil {
			analysis.Capabilities = map[string]types.Capability{}
		}
		capability, found := analysis.Capabilities[subcommand]
		if !found {
			capability = types.StubCapability(subcommand + " subcommand")
		}
		capability.Completions = hints
		analysis.Capabilities[subcommand] = capability
	}
}

func (enhancer *CompletionEnhancer) probe(ctx context.Context, command, subcommand string) []string {
	result := enhancer.runner.Run(ctx, enhancer.timeout, command, subcommand, completionSubcommand, "")
	if !result.Succeeded() {
		enhancer.logger.Debug("completion probe failed", zap.String("command", command), zap.String("subcommand", subcommand), zap.Error(result.Err))
		return nil
	}
	output := strings.TrimSpace(result.Stdout)
	if output == "" {
		return nil
	}
	lowered := strings.ToLower(output)
	for _, marker := range completionRejectMarkers {
		if strings.Contains(lowered, marker) {
			return nil
		}
	}
	hints := []string{}
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || completionDirectiveLine.MatchString(trimmed) {
			continue
		}
		hints = append(hints, trimmed)
		if len(hints) == completionLineLimit {
			break
		}
	}
	return hints
}
