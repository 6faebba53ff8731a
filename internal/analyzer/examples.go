package analyzer

import (
	"github.com/temirov/basher/internal/types"
)

// frameworkExamples seeds example invocations from the detected framework's conventions.
func frameworkExamples(framework types.Framework, command string, subcommands []string) []string {
	selected := subcommands
	if len(selected) > frameworkExampleLimit {
		selected = selected[:frameworkExampleLimit]
	}
	examples := []string{}
	switch framework {
	case types.FrameworkCobra:
		for _, subcommand := range selected {
			examples = append(examples, command+" "+subcommand+" --help")
		}
	case types.FrameworkClick:
		for _, subcommand := range selected {
			examples = append(examples, command+" "+subcommand)
		}
	}
	return examples
}
