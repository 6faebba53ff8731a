package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleTypeName       = "bool"
	toggleTrueLiteral    = "true"
	toggleAcceptedValues = "true, false, yes, no, on, off, 1, 0"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

func parseToggleLiteral(input string) (bool, bool) {
	parsed, known := toggleLiterals[strings.ToLower(strings.TrimSpace(input))]
	return parsed, known
}

// toggleValue is a boolean flag that also accepts yes/no and on/off spellings.
type toggleValue struct {
	target *bool
	name   string
}

func (value *toggleValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		*value.target = true
		return nil
	}
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf("invalid boolean value %q for --%s; accepted values: %s", input, value.name, toggleAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return toggleTypeName
}

// registerBooleanFlag adds a toggle that may be given bare, with =value, or followed by a literal.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&toggleValue{target: target, name: name}, name, usage)
	if registered := flagSet.Lookup(name); registered != nil {
		registered.DefValue = strconv.FormatBool(defaultValue)
		registered.NoOptDefVal = toggleTrueLiteral
	}
}

// normalizeBooleanFlagArguments joins "--flag yes" into "--flag=yes" for every toggle in the command tree.
// Other values after a toggle stay positional, so "risk --copy 'rm -rf /'" keeps its command line.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	toggles := map[string]struct{}{}
	collectToggleNames(command, toggles)
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		name, isLongFlag := strings.CutPrefix(current, "--")
		_, isToggle := toggles[name]
		if isLongFlag && isToggle && index+1 < len(arguments) {
			if _, known := parseToggleLiteral(arguments[index+1]); known {
				normalized = append(normalized, current+"="+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func collectToggleNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == toggleTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectToggleNames(child, target)
	}
}
