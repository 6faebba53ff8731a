package analyzer

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/basher/internal/services/process"
	"github.com/temirov/basher/internal/types"
)

// Fingerprinter reports a version fingerprint for a command.
type Fingerprinter interface {
	Detect(ctx context.Context, command string) string
}

// Analyzer runs the layered introspection pipeline for one command.
type Analyzer struct {
	resolver      process.ExecutableResolver
	fingerprinter Fingerprinter
	fetcher       *HelpFetcher
	orchestrator  *Orchestrator
	enhancer      *CompletionEnhancer
	logger        *zap.Logger
}

// New wires an Analyzer from its collaborators.
func New(runner process.Runner, resolver process.ExecutableResolver, fingerprinter Fingerprinter, options Options, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	normalized := options.normalized()
	fetcher := NewHelpFetcher(runner, normalized.HelpTimeout, logger)
	parser := NewDetailParser(fetcher, normalized.NestedLimit, logger)
	return &Analyzer{
		resolver:      resolver,
		fingerprinter: fingerprinter,
		fetcher:       fetcher,
		orchestrator:  NewOrchestrator(fetcher, parser, normalized.FanOut, logger),
		enhancer:      NewCompletionEnhancer(runner, normalized.CompletionTimeout, normalized.CompletionLimit, logger),
		logger:        logger,
	}
}

// Analyze produces a CommandAnalysis. Only a missing executable yields Available=false.
func (analyzer *Analyzer) Analyze(ctx context.Context, command string) *types.CommandAnalysis {
	if _, lookupErr := analyzer.resolver.LookPath(command); lookupErr != nil {
		analyzer.logger.Debug("command not on PATH", zap.String("command", command), zap.Error(lookupErr))
		return types.NotFoundAnalysis(command)
	}

	analysis := types.NewCommandAnalysis(command)
	analysis.Available = true
	analysis.Version = analyzer.fingerprinter.Detect(ctx, command)

	help := analyzer.fetcher.Fetch(ctx, []string{command})
	if help.Status != types.StageSuccess {
		analyzer.logger.Debug("top-level help degraded", zap.String("command", command), zap.String("status", string(help.Status)), zap.String("reason", help.Reason))
	}

	framed := analyzer.frameworkLayer(ctx, analysis, help.Value)
	if framed.OK() {
		return framed.Value
	}
	analyzer.logger.Debug("framework layer skipped", zap.String("command", command), zap.String("reason", framed.Reason))
	return analyzer.helpParsingLayer(analysis)
}

// frameworkLayer succeeds only when the help text lists subcommands.
func (analyzer *Analyzer) frameworkLayer(ctx context.Context, base *types.CommandAnalysis, helpText string) types.StageResult[*types.CommandAnalysis] {
	if helpText == "" {
		return types.Unavailable[*types.CommandAnalysis]("no help text")
	}
	subcommands := ExtractSubcommands(helpText)
	if len(subcommands) == 0 {
		return types.Unavailable[*types.CommandAnalysis]("no subcommands listed")
	}

	analysis := *base
	analysis.Capabilities = map[string]types.Capability{}
	analysis.Framework = DetectFramework(helpText)
	analysis.Subcommands = subcommands
	analysis.Examples = frameworkExamples(analysis.Framework, analysis.Command, subcommands)
	analysis.SourceMethod = types.SourceHelpFramework

	analyzer.orchestrator.Expand(ctx, &analysis)
	analyzer.enhancer.Enhance(ctx, &analysis)
	return types.Succeeded(&analysis)
}

// helpParsingLayer is the basic record used when no subcommand structure was found.
func (analyzer *Analyzer) helpParsingLayer(base *types.CommandAnalysis) *types.CommandAnalysis {
	analysis := *base
	analysis.Subcommands = []string{}
	analysis.Capabilities = map[string]types.Capability{}
	analysis.Examples = []string{analysis.Command + " --help"}
	analysis.SourceMethod = types.SourceHelpParsing
	return &analysis
}
