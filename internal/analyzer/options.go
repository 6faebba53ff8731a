// Package analyzer introspects installed CLI tools through their help output.
package analyzer

import (
	"time"
)

const (
	defaultHelpTimeout       = 8 * time.Second
	defaultCompletionTimeout = 3 * time.Second
	defaultFanOut            = 8
	defaultNestedLimit       = 5
	defaultCompletionLimit   = 3
	frameworkExampleLimit    = 3
	maximumSubcommands       = 10
)

// Options tunes time budgets and fan-out widths.
type Options struct {
	HelpTimeout       time.Duration
	CompletionTimeout time.Duration
	FanOut            int
	NestedLimit       int
	CompletionLimit   int
}

// DefaultOptions returns the standard budgets.
func DefaultOptions() Options {
	return Options{
		HelpTimeout:       defaultHelpTimeout,
		CompletionTimeout: defaultCompletionTimeout,
		FanOut:            defaultFanOut,
		NestedLimit:       defaultNestedLimit,
		CompletionLimit:   defaultCompletionLimit,
	}
}

// normalized replaces unset or invalid values with defaults.
func (options Options) normalized() Options {
	defaults := DefaultOptions()
	if options.HelpTimeout <= 0 {
		options.HelpTimeout = defaults.HelpTimeout
	}
	if options.CompletionTimeout <= 0 {
		options.CompletionTimeout = defaults.CompletionTimeout
	}
	if options.FanOut <= 0 {
		options.FanOut = defaults.FanOut
	}
	if options.NestedLimit <= 0 {
		options.NestedLimit = defaults.NestedLimit
	}
	if options.CompletionLimit <= 0 {
		options.CompletionLimit = defaults.CompletionLimit
	}
	return options
}
