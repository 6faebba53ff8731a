package analyzer

import (
	"regexp"

	"github.com/temirov/basher/internal/types"
)

const minimumFrameworkScore = 2

type frameworkSignature struct {
	framework types.Framework
	patterns  []*regexp.Regexp
}

// frameworkSignatures are evaluated in declaration order; ties keep the earlier entry.
var frameworkSignatures = []frameworkSignature{
	{
		framework: types.FrameworkCobra,
		patterns: compileInsensitive(
			`Use\s+"[^"]+"\s+for\s+more\s+information\s+about\s+a\s+command`,
			`Available\s+Commands:`,
			`Global\s+Flags:`,
			`Additional\s+help\s+topics:`,
		),
	},
	{
		framework: types.FrameworkClick,
		patterns: compileInsensitive(
			`Usage:\s+[^\s]+\s+\[OPTIONS\]`,
			`Options:`,
			`Commands:`,
			`Show\s+this\s+message\s+and\s+exit`,
		),
	},
	{
		framework: types.FrameworkArgparse,
		patterns: compileInsensitive(
			`usage:\s+[^\s]+`,
			`positional\s+arguments:`,
			`optional\s+arguments:`,
			`show\s+this\s+help\s+message\s+and\s+exit`,
		),
	},
	{
		framework: types.FrameworkClap,
		patterns: compileInsensitive(
			`USAGE:`,
			`FLAGS:`,
			`OPTIONS:`,
			`SUBCOMMANDS:`,
		),
	},
}

func compileInsensitive(expressions ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(expressions))
	for _, expression := range expressions {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+expression))
	}
	return compiled
}

// DetectFramework scores help text against each framework signature.
func DetectFramework(helpText string) types.Framework {
	if helpText == "" {
		return types.FrameworkNone
	}
	bestFramework := types.FrameworkNone
	bestScore := 0
	for _, signature := range frameworkSignatures {
		score := 0
		for _, pattern := range signature.patterns {
			if pattern.MatchString(helpText) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestFramework = signature.framework
		}
	}
	if bestScore < minimumFrameworkScore {
		return types.FrameworkNone
	}
	return bestFramework
}
