package analyzer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/basher/internal/types"
)

// Orchestrator analyzes the first subcommands of a record in parallel and merges the results.
type Orchestrator struct {
	fetcher *HelpFetcher
	parser  *DetailParser
	fanOut  int
	logger  *zap.Logger
}

// NewOrchestrator constructs an Orchestrator bounded to fanOut concurrent workers.
func NewOrchestrator(fetcher *HelpFetcher, parser *DetailParser, fanOut int, logger *zap.Logger) *Orchestrator {
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{fetcher: fetcher, parser: parser, fanOut: fanOut, logger: logger}
}

type subcommandOutcome struct {
	capability types.Capability
	example    string
}

// Expand fills analysis.Capabilities for at most fanOut subcommands and returns once every worker finished.
func (orchestrator *Orchestrator) Expand(ctx context.Context, analysis *types.CommandAnalysis) {
	if analysis == nil || len(analysis.Subcommands) == 0 {
		return
	}
	selected := analysis.Subcommands
	if len(selected) > orchestrator.fanOut {
		selected = selected[:orchestrator.fanOut]
	}
	if analysis.Capabilities == nil {
		analysis.Capabilities = map[string]types.Capability{}
	}

	var mergeMutex sync.Mutex
	group := new(errgroup.Group)
	group.SetLimit(orchestrator.fanOut)
	for _, subcommand := range selected {
		group.Go(func() error {
			outcome := orchestrator.analyzeSubcommand(ctx, analysis.Command, subcommand)
			mergeMutex.Lock()
			defer mergeMutex.Unlock()
			analysis.Capabilities[subcommand] = outcome.capability
			if outcome.example != "" {
				analysis.Examples = append(analysis.Examples, outcome.example)
			}
			return nil
		})
	}
	_ = group.Wait()

	stubs := 0
	for _, subcommand := range selected {
		if analysis.Capabilities[subcommand].IsStub() {
			stubs++
		}
	}
	orchestrator.logger.Debug("subcommands expanded", zap.String("command", analysis.Command), zap.Int("analyzed", len(selected)), zap.Int("stubs", stubs))
}

// analyzeSubcommand never fails; any problem yields a stub capability.
func (orchestrator *Orchestrator) analyzeSubcommand(ctx context.Context, command, subcommand string) (outcome subcommandOutcome) {
	stub := subcommandOutcome{capability: types.StubCapability(subcommand + " subcommand")}
	defer func() {
		if recovered := recover(); recovered != nil {
			orchestrator.logger.Debug("subcommand analysis panicked", zap.String("subcommand", subcommand), zap.String("panic", fmt.Sprint(recovered)))
			outcome = stub
		}
	}()

	path := []string{command, subcommand}
	help := orchestrator.fetcher.Fetch(ctx, path)
	if help.Value == "" {
		orchestrator.logger.Debug("subcommand help unavailable", zap.Strings("path", path), zap.String("reason", help.Reason))
		return stub
	}

	capability := orchestrator.parser.Parse(ctx, help.Value, path)
	example := capability.Syntax
	if example == "" {
		example = command + " " + subcommand
	}
	return subcommandOutcome{capability: capability, example: example}
}
