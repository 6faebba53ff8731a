package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/basher/internal/config"
	"github.com/temirov/basher/internal/services/mcp"
	"github.com/temirov/basher/internal/tokenizer"
	"github.com/temirov/basher/internal/utils"
)

const (
	serveUse              = "serve"
	serveShortDescription = "serve the assistant tools over HTTP or stdio"
	serveLongDescription  = `Serve get_command_analysis, assess_basic_risk and verify_command_exists.
By default an HTTP server answers GET /capabilities and POST /commands/<tool> with {"command": "..."}.
With --stdio the tools are exposed through the Model Context Protocol on stdin and stdout.`
	stdioFlagName          = "stdio"
	stdioFlagDescription   = "speak the Model Context Protocol on stdin and stdout"
	addressFlagName        = "address"
	addressFlagDescription = "listen address for the HTTP server"
	defaultServerAddress   = "127.0.0.1:8765"
	serverListeningFormat  = "Tool server listening on %s\n"
)

// createServeCommand returns the serve subcommand.
func createServeCommand(activeSession *session) *cobra.Command {
	var useStdio bool
	var address string

	serveCommand := &cobra.Command{
		Use:   serveUse,
		Short: serveShortDescription,
		Long:  serveLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if err := activeSession.load(); err != nil {
				return err
			}
			if !command.Flags().Changed(addressFlagName) && activeSession.configuration.Server.Address != "" {
				address = activeSession.configuration.Server.Address
			}
			if useStdio {
				return activeSession.serveStdio(command.Context())
			}
			return activeSession.startToolServer(command.Context(), address, activeSession.dependencies.stdout)
		},
	}
	registerBooleanFlag(serveCommand.Flags(), &useStdio, stdioFlagName, false, stdioFlagDescription)
	serveCommand.Flags().StringVar(&address, addressFlagName, defaultServerAddress, addressFlagDescription)
	return serveCommand
}

// serverTokenCounter returns a counter when output.tokens.enabled is set.
func (session *session) serverTokenCounter() tokenizer.Counter {
	tokens := session.configuration.Output.Tokens
	if !config.BoolOr(tokens.Enabled, false) {
		return nil
	}
	counter, _, err := tokenizer.NewCounter(tokens.Model)
	if err != nil {
		session.logger.Warn("token counting unavailable", zap.Error(err))
		return nil
	}
	return counter
}

func (session *session) startToolServer(ctx context.Context, address string, writer io.Writer) error {
	tools := assistantTools(session.helper, session.serverTokenCounter())
	server := mcp.NewServer(mcp.Config{
		Address:      address,
		Capabilities: toolCapabilities(tools),
		Executors:    toolExecutors(tools),
		Logger:       session.logger,
	})
	return server.Run(ctx, func(boundAddress string) {
		fmt.Fprintf(writer, serverListeningFormat, boundAddress)
	})
}

func (session *session) serveStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, mcp.StdioConfig{
		Name:    applicationName,
		Version: utils.GetApplicationVersion(),
		Tools:   assistantTools(session.helper, nil),
		Logger:  session.logger,
	}, session.dependencies.stdin, session.dependencies.stdout)
}
