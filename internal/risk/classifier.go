// Package risk classifies proposed shell commands by how much damage they can do.
package risk

import (
	"regexp"
)

// Level is the assessed risk of a command.
type Level int

const (
	// Low commands have no notable side effects.
	Low Level = iota
	// Medium commands escalate privileges or reach the network.
	Medium
	// High commands touch production environments.
	High
	// Critical commands can destroy data or disable the host.
	Critical
)

const (
	WarningDestructive = "Potentially destructive command"
	WarningPrivileged  = "Requires elevated privileges"
	WarningNetwork     = "Network operation"
	WarningProduction  = "Production environment operation"
)

// String returns the upper-case label used in tool output.
func (level Level) String() string {
	switch level {
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// destructivePatterns are checked first; one match is enough.
var destructivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\brm\s+.*-rf`),
	regexp.MustCompile(`(?i)\bdd\s+.*of=/dev/`),
	regexp.MustCompile(`(?i)\bmkfs\.`),
	regexp.MustCompile(`(?i)\bformat\s`),
	regexp.MustCompile(`(?i)\bfdisk\s`),
	regexp.MustCompile(`(?i)\biptables\s+.*-F`),
	regexp.MustCompile(`:\(\)\s*\{`),
	regexp.MustCompile(`>\s*/dev/sd`),
	regexp.MustCompile(`(?i)\b(curl|wget)\b.*\|\s*(sh|bash|zsh)\b`),
}

var (
	privilegePattern  = regexp.MustCompile(`\bsudo\b|\bsu\b|\bdoas\b`)
	networkPattern    = regexp.MustCompile(`\bcurl\b|\bwget\b|\bssh\b|\bscp\b|\bnc\b`)
	productionPattern = regexp.MustCompile(`(?i)\bprod(uction)?\b`)
)

// Assessment is the outcome of classifying one command.
type Assessment struct {
	Level    Level
	Warnings []string
	Command  string
}

// Assess classifies command. A destructive match wins; privilege and network
// checks raise LOW to MEDIUM; a production mention raises only LOW to HIGH.
// Every matching check contributes its warning.
func Assess(command string) Assessment {
	assessment := Assessment{Level: Low, Warnings: []string{}, Command: command}

	for _, pattern := range destructivePatterns {
		if pattern.MatchString(command) {
			assessment.Level = Critical
			assessment.Warnings = append(assessment.Warnings, WarningDestructive)
			break
		}
	}
	if privilegePattern.MatchString(command) {
		assessment.raise(Medium)
		assessment.Warnings = append(assessment.Warnings, WarningPrivileged)
	}
	if networkPattern.MatchString(command) {
		assessment.raise(Medium)
		assessment.Warnings = append(assessment.Warnings, WarningNetwork)
	}
	if productionPattern.MatchString(command) {
		assessment.raise(High)
		assessment.Warnings = append(assessment.Warnings, WarningProduction)
	}
	return assessment
}

func (assessment *Assessment) raise(level Level) {
	if assessment.Level == Low {
		assessment.Level = level
	}
}
