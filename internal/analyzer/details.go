package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/basher/internal/types"
)

const (
	descriptionScanLines = 10
	usagePrefix          = "Usage:"
	requiredMarker       = "required"
)

var (
	flagsHeaderPattern    = regexp.MustCompile(`(?i)(flags|options):`)
	examplesHeaderPattern = regexp.MustCompile(`(?i)examples?:`)
	flagTokenPattern      = regexp.MustCompile(`^\s+(--?[a-zA-Z0-9][a-zA-Z0-9-]*)`)
)

// helpSections holds the raw pieces pulled out of one help screen.
type helpSections struct {
	description  string
	syntax       string
	flagLines    []string
	exampleLines []string
}

// scanHelpSections walks help text once. exampleFilter decides which example lines are kept.
func scanHelpSections(helpText, fullCommand string, exampleFilter func(string) bool) helpSections {
	lines := strings.Split(helpText, "\n")
	sections := helpSections{}

	for index, line := range lines {
		if index >= descriptionScanLines {
			break
		}
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, usagePrefix) || strings.HasPrefix(stripped, fullCommand) {
			continue
		}
		sections.description = stripped
		break
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, usagePrefix) && strings.Contains(stripped, fullCommand) {
			sections.syntax = strings.TrimSpace(strings.TrimPrefix(stripped, usagePrefix))
			break
		}
	}

	inFlags := false
	inExamples := false
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if flagsHeaderPattern.MatchString(stripped) {
			inFlags = true
			inExamples = false
			continue
		}
		if inFlags {
			if stripped == "" || (!strings.HasPrefix(line, " ") && strings.Contains(line, ":")) {
				inFlags = false
			} else {
				sections.flagLines = append(sections.flagLines, line)
				continue
			}
		}
		if examplesHeaderPattern.MatchString(stripped) {
			inExamples = true
			continue
		}
		if inExamples && stripped != "" && exampleFilter(stripped) {
			sections.exampleLines = append(sections.exampleLines, stripped)
		}
	}
	return sections
}

// ParseFirstLevel extracts description, syntax, flat flags and examples for a subcommand.
func ParseFirstLevel(helpText string, path []string) types.Capability {
	fullCommand := strings.Join(path, " ")
	firstToken := path[0]
	sections := scanHelpSections(helpText, fullCommand, func(line string) bool {
		return strings.Contains(line, firstToken)
	})

	flagTokens := []string{}
	for _, line := range sections.flagLines {
		if match := flagTokenPattern.FindStringSubmatch(line); len(match) > 1 {
			flagTokens = append(flagTokens, match[1])
		}
	}

	return types.Capability{
		Available:   true,
		Description: sections.description,
		Syntax:      sections.syntax,
		Flags:       types.NewFlatFlags(flagTokens),
		Examples:    sections.exampleLines,
	}
}

// ParseNested extracts the second-level record with required and optional flags.
func ParseNested(helpText string, path []string) types.Capability {
	fullCommand := strings.Join(path, " ")
	sections := scanHelpSections(helpText, fullCommand, func(line string) bool {
		return strings.Contains(line, fullCommand)
	})

	required := []string{}
	optional := []string{}
	for _, line := range sections.flagLines {
		match := flagTokenPattern.FindStringSubmatchIndex(line)
		if match == nil {
			continue
		}
		flag := line[match[2]:match[3]]
		remainder := strings.ToLower(line[match[1]:])
		if strings.Contains(remainder, requiredMarker) {
			required = append(required, flag)
			continue
		}
		optional = append(optional, flag)
	}

	return types.Capability{
		Available:   true,
		Description: sections.description,
		Syntax:      sections.syntax,
		Flags:       types.NewPartitionedFlags(required, optional),
		Examples:    sections.exampleLines,
	}
}

// DetailParser parses first-level subcommands and descends one more level.
type DetailParser struct {
	fetcher     *HelpFetcher
	nestedLimit int
	logger      *zap.Logger
}

// NewDetailParser constructs a DetailParser.
func NewDetailParser(fetcher *HelpFetcher, nestedLimit int, logger *zap.Logger) *DetailParser {
	if nestedLimit <= 0 {
		nestedLimit = defaultNestedLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailParser{fetcher: fetcher, nestedLimit: nestedLimit, logger: logger}
}

// Parse returns the first-level record for path with up to nestedLimit nested records.
func (parser *DetailParser) Parse(ctx context.Context, helpText string, path []string) types.Capability {
	capability := ParseFirstLevel(helpText, path)

	nestedNames := ExtractSubcommands(helpText)
	if len(nestedNames) > parser.nestedLimit {
		nestedNames = nestedNames[:parser.nestedLimit]
	}
	if len(nestedNames) == 0 {
		return capability
	}

	capability.Subcommands = make(map[string]types.Capability, len(nestedNames))
	for _, name := range nestedNames {
		capability.Subcommands[name] = parser.parseNestedSubcommand(ctx, path, name)
	}
	return capability
}

func (parser *DetailParser) parseNestedSubcommand(ctx context.Context, parentPath []string, name string) (capability types.Capability) {
	stub := types.StubCapability(name + " command")
	defer func() {
		if recovered := recover(); recovered != nil {
			parser.logger.Debug("nested parse panicked", zap.String("subcommand", name), zap.String("panic", fmt.Sprint(recovered)))
			capability = stub
		}
	}()

	nestedPath := append(append([]string{}, parentPath...), name)
	help := parser.fetcher.Fetch(ctx, nestedPath)
	if help.Value == "" {
		parser.logger.Debug("nested help unavailable", zap.Strings("path", nestedPath), zap.String("reason", help.Reason))
		return stub
	}
	return ParseNested(help.Value, nestedPath)
}
