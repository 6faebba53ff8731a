package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/temirov/basher/internal/assistant"
	"github.com/temirov/basher/internal/services/mcp"
	"github.com/temirov/basher/internal/tokenizer"
	"github.com/temirov/basher/internal/types"
)

const (
	commandAnalysisToolDescription = "Analyze an installed command line tool and return its subcommands, flags and examples. Pass a command name, optionally followed by subcommands to narrow the result."
	assessRiskToolDescription      = "Classify a proposed shell command as LOW, MEDIUM, HIGH or CRITICAL and list the reasons."
	verifyCommandToolDescription   = "Check whether a command is installed and suggest alternatives or install commands when it is not."
	tokenWarningFormat             = "token count unavailable: %v"
)

var errCommandRequired = errors.New("command is required")

type toolRequest struct {
	Command string `json:"command"`
}

// assistantTools lists the tools served over HTTP and stdio. Counter may be nil.
func assistantTools(helper *assistant.Assistant, counter tokenizer.Counter) []mcp.Tool {
	return []mcp.Tool{
		{
			Capability: mcp.Capability{Name: types.ToolCommandAnalysis, Description: commandAnalysisToolDescription},
			Executor:   toolExecutor(types.ToolCommandAnalysis, helper.GetCommandAnalysis, counter),
		},
		{
			Capability: mcp.Capability{Name: types.ToolAssessRisk, Description: assessRiskToolDescription},
			Executor: toolExecutor(types.ToolAssessRisk, func(_ context.Context, command string) string {
				return helper.AssessRisk(command)
			}, counter),
		},
		{
			Capability: mcp.Capability{Name: types.ToolVerifyCommand, Description: verifyCommandToolDescription},
			Executor: toolExecutor(types.ToolVerifyCommand, func(_ context.Context, command string) string {
				return helper.VerifyCommandExists(command)
			}, counter),
		},
	}
}

func toolCapabilities(tools []mcp.Tool) []mcp.Capability {
	capabilities := make([]mcp.Capability, 0, len(tools))
	for _, tool := range tools {
		capabilities = append(capabilities, tool.Capability)
	}
	return capabilities
}

func toolExecutors(tools []mcp.Tool) map[string]mcp.CommandExecutor {
	executors := make(map[string]mcp.CommandExecutor, len(tools))
	for _, tool := range tools {
		executors[tool.Capability.Name] = tool.Executor
	}
	return executors
}

func toolExecutor(name string, run func(context.Context, string) string, counter tokenizer.Counter) mcp.CommandExecutor {
	return mcp.CommandExecutorFunc(func(ctx context.Context, request mcp.CommandRequest) (mcp.CommandResponse, error) {
		command, decodeErr := decodeToolRequest(request.Payload)
		if decodeErr != nil {
			return mcp.CommandResponse{}, mcp.NewCommandExecutionError(http.StatusBadRequest, fmt.Errorf("decode %s request: %w", name, decodeErr))
		}
		document := run(ctx, command)
		response := mcp.CommandResponse{Output: document, Format: types.FormatJSON}
		if counter != nil {
			if count, countErr := counter.CountString(document); countErr == nil {
				response.Tokens = &count
			} else {
				response.Warnings = append(response.Warnings, fmt.Sprintf(tokenWarningFormat, countErr))
			}
		}
		return response, nil
	})
}

func decodeToolRequest(payload json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return "", errCommandRequired
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	var request toolRequest
	if err := decoder.Decode(&request); err != nil {
		return "", err
	}
	if _, trailingErr := decoder.Token(); !errors.Is(trailingErr, io.EOF) {
		return "", errors.New("unexpected data after request object")
	}
	command := strings.TrimSpace(request.Command)
	if command == "" {
		return "", errCommandRequired
	}
	return command, nil
}
