// Package types defines every cross-package data structure used by the basher CLI.
package types

import (
	"time"
)

const (
	ToolCommandAnalysis = "get_command_analysis"
	ToolAssessRisk      = "assess_basic_risk"
	ToolVerifyCommand   = "verify_command_exists"

	FormatJSON = "json"
	FormatYAML = "yaml"

	// UnknownVersion is the fingerprint reported when nothing identifies a binary.
	UnknownVersion = "unknown"
)

// Framework names the CLI library that generated a help screen.
type Framework string

const (
	FrameworkNone     Framework = ""
	FrameworkCobra    Framework = "cobra"
	FrameworkClick    Framework = "click"
	FrameworkArgparse Framework = "argparse"
	FrameworkClap     Framework = "clap"
)

// SourceMethod records which analysis layer produced a CommandAnalysis.
type SourceMethod string

const (
	SourceHelpFramework SourceMethod = "help_framework"
	SourceHelpParsing   SourceMethod = "help_parsing"
	SourceUnknown       SourceMethod = "unknown"
)

// CommandAnalysis is the cached structural description of one CLI tool.
type CommandAnalysis struct {
	Command      string                `json:"command"`
	Available    bool                  `json:"available"`
	Version      string                `json:"version"`
	Framework    Framework             `json:"framework,omitempty"`
	Capabilities map[string]Capability `json:"capabilities"`
	Subcommands  []string              `json:"subcommands"`
	Examples     []string              `json:"examples"`
	SourceMethod SourceMethod          `json:"source_method"`
	CachedAt     *time.Time            `json:"cached_at,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// NewCommandAnalysis returns an empty record with non-nil collections.
func NewCommandAnalysis(command string) *CommandAnalysis {
	return &CommandAnalysis{
		Command:      command,
		Version:      UnknownVersion,
		Capabilities: map[string]Capability{},
		Subcommands:  []string{},
		Examples:     []string{},
		SourceMethod: SourceUnknown,
	}
}

// NotFoundAnalysis describes a command whose executable is not on PATH.
func NotFoundAnalysis(command string) *CommandAnalysis {
	analysis := NewCommandAnalysis(command)
	analysis.Available = false
	analysis.Error = "Command '" + command + "' not found"
	return analysis
}

// Capability describes one subcommand. Stub capabilities only carry Available and Description.
type Capability struct {
	Available   bool                  `json:"available"`
	Description string                `json:"description"`
	Syntax      string                `json:"syntax,omitempty"`
	Flags       *Flags                `json:"flags,omitempty"`
	Examples    []string              `json:"examples,omitempty"`
	Subcommands map[string]Capability `json:"subcommands,omitempty"`
	Completions []string              `json:"completions,omitempty"`
}

// StubCapability builds the degraded record used when a subcommand cannot be parsed.
func StubCapability(description string) Capability {
	return Capability{Available: true, Description: description}
}

// IsStub reports whether the capability carries nothing beyond its description.
func (capability Capability) IsStub() bool {
	return capability.Syntax == "" &&
		capability.Flags == nil &&
		len(capability.Examples) == 0 &&
		len(capability.Subcommands) == 0 &&
		len(capability.Completions) == 0
}
