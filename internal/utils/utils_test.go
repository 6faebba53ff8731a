package utils_test

import (
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/temirov/basher/internal/utils"
)

func TestDeduplicateStrings(testingInstance *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil", input: nil, expected: []string{}},
		{name: "keeps order", input: []string{"kubectl", "helm", "kubectl"}, expected: []string{"kubectl", "helm"}},
		{name: "drops empty", input: []string{"", "terraform", ""}, expected: []string{"terraform"}},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			result := utils.DeduplicateStrings(testCase.input)
			if len(result) != len(testCase.expected) {
				testingInstance.Fatalf("expected %v, got %v", testCase.expected, result)
			}
			for index := range result {
				if result[index] != testCase.expected[index] {
					testingInstance.Fatalf("expected %v, got %v", testCase.expected, result)
				}
			}
		})
	}
}

func TestFormatCachedAt(testingInstance *testing.T) {
	zero := time.Time{}
	stamp := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	testCases := []struct {
		name     string
		input    *time.Time
		expected string
	}{
		{name: "nil", input: nil, expected: ""},
		{name: "zero", input: &zero, expected: ""},
		{name: "local minutes", input: &stamp, expected: "2026-03-01 09:30"},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			if formatted := utils.FormatCachedAt(testCase.input); formatted != testCase.expected {
				testingInstance.Fatalf("expected %q, got %q", testCase.expected, formatted)
			}
		})
	}
}

func TestNewApplicationLogger(testingInstance *testing.T) {
	for _, debug := range []bool{false, true} {
		logger, err := utils.NewApplicationLogger(debug)
		if err != nil {
			testingInstance.Fatalf("NewApplicationLogger(%v) error: %v", debug, err)
		}
		if logger.Core().Enabled(zapcore.DebugLevel) != debug {
			testingInstance.Fatalf("debug level enabled=%v, expected %v", logger.Core().Enabled(zapcore.DebugLevel), debug)
		}
	}
}
