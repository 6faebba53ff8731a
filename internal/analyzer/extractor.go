package analyzer

import (
	"regexp"
	"strings"
)

var (
	commandsHeaderPattern = regexp.MustCompile(`(?i)(?:available\s+)?commands?\s*:`)
	subcommandNamePattern = regexp.MustCompile(`^\s+([a-zA-Z0-9_-]+)`)
	helperSubcommands     = map[string]struct{}{"help": {}, "version": {}}
)

// ExtractSubcommands returns up to ten subcommand names listed under a commands header.
func ExtractSubcommands(helpText string) []string {
	subcommands := []string{}
	seen := map[string]struct{}{}
	inCommandsSection := false
	for _, line := range strings.Split(helpText, "\n") {
		stripped := strings.TrimSpace(line)
		if commandsHeaderPattern.MatchString(stripped) {
			inCommandsSection = true
			continue
		}
		if !inCommandsSection {
			continue
		}
		if stripped == "" || strings.Contains(strings.ToLower(stripped), "flags") {
			inCommandsSection = false
			continue
		}
		if !strings.HasPrefix(line, " ") {
			continue
		}
		match := subcommandNamePattern.FindStringSubmatch(line)
		if len(match) < 2 {
			continue
		}
		name := match[1]
		if _, helper := helperSubcommands[strings.ToLower(name)]; helper {
			continue
		}
		if _, duplicate := seen[name]; duplicate {
			continue
		}
		seen[name] = struct{}{}
		subcommands = append(subcommands, name)
	}
	if len(subcommands) > maximumSubcommands {
		subcommands = subcommands[:maximumSubcommands]
	}
	return subcommands
}
