package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	// CommandArgument is the single string argument every tool accepts.
	CommandArgument = "command"

	commandArgumentDescription = "Command line or command name to inspect"
)

// Tool pairs a capability with the executor that serves it.
type Tool struct {
	Capability Capability
	Executor   CommandExecutor
}

// StdioConfig defines the identity and tools of the stdio server.
type StdioConfig struct {
	Name    string
	Version string
	Tools   []Tool
	Logger  *zap.Logger
}

// NewToolServer registers tools on a Model Context Protocol server.
func NewToolServer(config StdioConfig) *mcpserver.MCPServer {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	toolServer := mcpserver.NewMCPServer(
		config.Name,
		config.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	for _, tool := range config.Tools {
		definition := mcpgo.NewTool(
			tool.Capability.Name,
			mcpgo.WithDescription(tool.Capability.Description),
			mcpgo.WithString(CommandArgument, mcpgo.Required(), mcpgo.Description(commandArgumentDescription)),
		)
		toolServer.AddTool(definition, toolHandler(tool, logger))
	}
	return toolServer
}

func toolHandler(tool Tool, logger *zap.Logger) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		command, argumentErr := request.RequireString(CommandArgument)
		if argumentErr != nil {
			return mcpgo.NewToolResultError(argumentErr.Error()), nil
		}
		payload, encodeErr := json.Marshal(map[string]string{CommandArgument: command})
		if encodeErr != nil {
			return nil, fmt.Errorf("encode %s arguments: %w", tool.Capability.Name, encodeErr)
		}
		response, executeErr := tool.Executor.Execute(ctx, CommandRequest{Payload: payload})
		if executeErr != nil {
			logger.Debug("tool call failed", zap.String("tool", tool.Capability.Name), zap.Error(executeErr))
			return mcpgo.NewToolResultError(executeErr.Error()), nil
		}
		return mcpgo.NewToolResultText(response.Output), nil
	}
}

// ServeStdio answers protocol messages on reader and writer until ctx is canceled or input ends.
func ServeStdio(ctx context.Context, config StdioConfig, reader io.Reader, writer io.Writer) error {
	stdioServer := mcpserver.NewStdioServer(NewToolServer(config))
	if err := stdioServer.Listen(ctx, reader, writer); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve stdio tools: %w", err)
	}
	return nil
}
