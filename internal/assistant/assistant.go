// Package assistant exposes command introspection, risk assessment and
// existence checks as string-in, JSON-out tool functions.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/temirov/basher/internal/risk"
	"github.com/temirov/basher/internal/types"
	"github.com/temirov/basher/internal/verify"
)

const skipReasonSystemCommand = "system_command"

var errEmptyCommand = errors.New("empty command")

// Analyzer produces a fresh analysis for a command name.
type Analyzer interface {
	Analyze(ctx context.Context, command string) *types.CommandAnalysis
}

// AnalysisCache stores analyses between runs.
type AnalysisCache interface {
	Get(ctx context.Context, command string) (*types.CommandAnalysis, bool)
	Put(command string, analysis *types.CommandAnalysis) error
}

// Verifier checks that a command is installed.
type Verifier interface {
	Verify(command string) verify.Report
}

// Config lists the collaborators of an Assistant. Cache may be nil to disable caching.
type Config struct {
	Analyzer            Analyzer
	Cache               AnalysisCache
	Verifier            Verifier
	ExtraSystemCommands []string
	Logger              *zap.Logger
}

// Assistant answers tool calls.
type Assistant struct {
	analyzer       Analyzer
	cache          AnalysisCache
	verifier       Verifier
	systemCommands map[string]struct{}
	logger         *zap.Logger
}

// New constructs an Assistant.
func New(config Config) *Assistant {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		analyzer:       config.Analyzer,
		cache:          config.Cache,
		verifier:       config.Verifier,
		systemCommands: buildSystemCommandSet(config.ExtraSystemCommands),
		logger:         logger,
	}
}

type skipDocument struct {
	Skip   string `json:"skip"`
	Reason string `json:"reason"`
}

type analysisErrorDocument struct {
	Error     string `json:"error"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
}

type subcommandDocument struct {
	Command       string                      `json:"command"`
	Available     bool                        `json:"available"`
	Description   string                      `json:"description"`
	Syntax        string                      `json:"syntax"`
	Flags         *types.Flags                `json:"flags"`
	Examples      []string                    `json:"examples"`
	Subcommands   map[string]types.Capability `json:"subcommands"`
	ParentCommand string                      `json:"parent_command"`
}

type riskDocument struct {
	RiskLevel string   `json:"risk_level"`
	Warnings  []string `json:"warnings"`
	Command   string   `json:"command"`
}

type verifyErrorDocument struct {
	Error  string `json:"error"`
	Exists bool   `json:"exists"`
}

// GetCommandAnalysis analyzes the first token of commandPath and narrows the
// result to the subcommand named by the remaining tokens when they resolve.
func (assistant *Assistant) GetCommandAnalysis(ctx context.Context, commandPath string) string {
	return encode(assistant.commandAnalysisDocument(ctx, commandPath))
}

func (assistant *Assistant) commandAnalysisDocument(ctx context.Context, commandPath string) any {
	tokens, tokenizeErr := tokenize(commandPath)
	if tokenizeErr != nil {
		return analysisErrorDocument{Error: "Analysis failed: " + tokenizeErr.Error(), Command: commandPath}
	}
	baseCommand := tokens[0]
	if _, isSystemCommand := assistant.systemCommands[baseCommand]; isSystemCommand {
		return skipDocument{Skip: skipReasonSystemCommand, Reason: baseCommand + " is a common system command"}
	}

	analysis := assistant.lookup(ctx, baseCommand)
	if len(tokens) == 1 {
		return analysis
	}
	if focused, resolved := narrow(analysis, tokens[1:]); resolved {
		return focused
	}
	return analysis
}

// lookup consults the cache before running a fresh analysis.
func (assistant *Assistant) lookup(ctx context.Context, command string) *types.CommandAnalysis {
	if assistant.cache != nil {
		if cached, found := assistant.cache.Get(ctx, command); found {
			assistant.logger.Debug("analysis cache hit", zap.String("command", command))
			return cached
		}
	}
	analysis := assistant.analyzer.Analyze(ctx, command)
	if assistant.cache != nil && analysis.Available {
		if putErr := assistant.cache.Put(command, analysis); putErr != nil {
			assistant.logger.Warn("analysis not cached", zap.String("command", command), zap.Error(putErr))
		}
	}
	return analysis
}

// narrow walks capabilities and their nested subcommands along path.
func narrow(analysis *types.CommandAnalysis, path []string) (subcommandDocument, bool) {
	capabilities := analysis.Capabilities
	parent := analysis.Command
	var capability types.Capability
	for index, name := range path {
		next, found := capabilities[name]
		if !found {
			return subcommandDocument{}, false
		}
		capability = next
		if index < len(path)-1 {
			parent = parent + " " + name
		}
		capabilities = next.Subcommands
	}

	flags := capability.Flags
	if flags == nil {
		flags = types.NewFlatFlags(nil)
	}
	examples := capability.Examples
	if examples == nil {
		examples = []string{}
	}
	subcommands := capability.Subcommands
	if subcommands == nil {
		subcommands = map[string]types.Capability{}
	}
	return subcommandDocument{
		Command:       analysis.Command + " " + strings.Join(path, " "),
		Available:     capability.Available,
		Description:   capability.Description,
		Syntax:        capability.Syntax,
		Flags:         flags,
		Examples:      examples,
		Subcommands:   subcommands,
		ParentCommand: parent,
	}, true
}

// AssessRisk classifies a proposed shell command.
func (assistant *Assistant) AssessRisk(command string) string {
	assessment := risk.Assess(command)
	return encode(riskDocument{
		RiskLevel: assessment.Level.String(),
		Warnings:  assessment.Warnings,
		Command:   assessment.Command,
	})
}

// VerifyCommandExists checks the first token of command against PATH.
func (assistant *Assistant) VerifyCommandExists(command string) string {
	tokens, tokenizeErr := tokenize(command)
	if tokenizeErr != nil {
		return encode(verifyErrorDocument{Error: "Failed to verify command: " + tokenizeErr.Error()})
	}
	return encode(assistant.verifier.Verify(tokens[0]))
}

func tokenize(commandLine string) ([]string, error) {
	tokens, parseErr := shellwords.Parse(commandLine)
	if parseErr != nil {
		return nil, fmt.Errorf("parse %q: %w", commandLine, parseErr)
	}
	if len(tokens) == 0 || tokens[0] == "" {
		return nil, errEmptyCommand
	}
	return tokens, nil
}

func encode(document any) string {
	encoded, err := json.Marshal(document)
	if err != nil {
		fallback, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(fallback)
	}
	return string(encoded)
}
