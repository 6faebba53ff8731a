// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/temirov/basher/internal/output"
	"github.com/temirov/basher/internal/utils"
)

const (
	configFlagName       = "config"
	debugFlagName        = "debug"
	formatFlagName       = "format"
	copyFlagName         = "copy"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	noProgressFlagName   = "no-progress"
	versionFlagName      = "version"
	versionTemplate      = "basher version: %s\n"
	applicationName      = "basher"
	rootUse              = "basher"
	rootShortDescription = "basher command line interface"
	rootLongDescription  = `basher inspects installed command line tools so an assistant can compose correct shell commands.
It discovers subcommands, flags and examples from help output, caches the result per tool version,
classifies proposed commands by risk, and serves the same tools over HTTP or the Model Context Protocol.
Use --format to select json or yaml output and --version to print the application version.`
	versionFlagDescription    = "display application version"
	configFlagDescription     = "configuration file to use instead of ./" + utils.LocalConfigFileName
	debugFlagDescription      = "log degraded analysis stages"
	formatFlagDescription     = "output format (json or yaml)"
	copyFlagDescription       = "copy output to the clipboard"
	tokensFlagDescription     = "report the token count of the output"
	modelFlagDescription      = "tokenizer model to use for token counting"
	noProgressFlagDescription = "do not show the progress spinner"

	analyzeUse              = "analyze <command> [subcommand...]"
	analyzeAlias            = "a"
	analyzeShortDescription = "introspect a command line tool (" + analyzeAlias + ")"
	analyzeLongDescription  = `Analyze a command line tool through its help output.
Subcommand arguments narrow the result to that subcommand when it is known.
Common system utilities are skipped.`
	analyzeUsageExample = `  # Analyze kubectl and print YAML
  basher analyze kubectl --format yaml

  # Focus on a single subcommand
  basher analyze git remote`
	analyzingMessageFormat = "Analyzing %s"

	riskUse              = "risk <command line>"
	riskAlias            = "r"
	riskShortDescription = "assess the risk of a shell command (" + riskAlias + ")"
	riskLongDescription  = `Classify a proposed shell command as LOW, MEDIUM, HIGH or CRITICAL.
Quote the command line so its flags are not read by basher.`
	riskUsageExample = `  basher risk "sudo systemctl restart nginx"`

	verifyUse              = "verify <command>"
	verifyAlias            = "v"
	verifyShortDescription = "check that a command is installed (" + verifyAlias + ")"
	verifyUsageExample     = `  basher verify nvim`
)

// Execute runs the basher application.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return executeArguments(ctx, defaultDependencies(), os.Args[1:])
}

func executeArguments(ctx context.Context, deps dependencies, arguments []string) error {
	rootCommand, activeSession := createRootCommand(deps)
	defer activeSession.close()
	normalized := normalizeBooleanFlagArguments(rootCommand, arguments)
	rootCommand.SetArgs(normalized)
	rootCommand.SetOut(deps.stdout)
	rootCommand.SetErr(deps.stderr)
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) (*cobra.Command, *session) {
	options := &rootOptions{}
	activeSession := newSession(deps, options)

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.showVersion {
				fmt.Fprintf(deps.stdout, versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &options.debug, debugFlagName, false, debugFlagDescription)
	rootCommand.AddCommand(
		createAnalyzeCommand(activeSession),
		createRiskCommand(activeSession),
		createVerifyCommand(activeSession),
		createCacheCommand(activeSession),
		createServeCommand(activeSession),
		createInitCommand(activeSession),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand, activeSession
}

// createAnalyzeCommand returns the analyze subcommand.
func createAnalyzeCommand(activeSession *session) *cobra.Command {
	var flags outputOptions

	analyzeCommand := &cobra.Command{
		Use:     analyzeUse,
		Aliases: []string{analyzeAlias},
		Short:   analyzeShortDescription,
		Long:    analyzeLongDescription,
		Example: analyzeUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if err := activeSession.load(); err != nil {
				return err
			}
			resolved, resolveErr := flags.resolve(command, activeSession.configuration.Output)
			if resolveErr != nil {
				return resolveErr
			}
			document := activeSession.withProgress(resolved, fmt.Sprintf(analyzingMessageFormat, arguments[0]), func() string {
				return activeSession.helper.GetCommandAnalysis(command.Context(), strings.Join(arguments, " "))
			})
			return activeSession.emit(document, resolved)
		},
	}
	addOutputFlags(analyzeCommand, &flags)
	registerBooleanFlag(analyzeCommand.Flags(), &flags.noProgress, noProgressFlagName, false, noProgressFlagDescription)
	return analyzeCommand
}

// createRiskCommand returns the risk subcommand.
func createRiskCommand(activeSession *session) *cobra.Command {
	var flags outputOptions

	riskCommand := &cobra.Command{
		Use:     riskUse,
		Aliases: []string{riskAlias},
		Short:   riskShortDescription,
		Long:    riskLongDescription,
		Example: riskUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if err := activeSession.load(); err != nil {
				return err
			}
			resolved, resolveErr := flags.resolve(command, activeSession.configuration.Output)
			if resolveErr != nil {
				return resolveErr
			}
			return activeSession.emit(activeSession.helper.AssessRisk(strings.Join(arguments, " ")), resolved)
		},
	}
	addOutputFlags(riskCommand, &flags)
	return riskCommand
}

// createVerifyCommand returns the verify subcommand.
func createVerifyCommand(activeSession *session) *cobra.Command {
	var flags outputOptions

	verifyCommand := &cobra.Command{
		Use:     verifyUse,
		Aliases: []string{verifyAlias},
		Short:   verifyShortDescription,
		Example: verifyUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if err := activeSession.load(); err != nil {
				return err
			}
			resolved, resolveErr := flags.resolve(command, activeSession.configuration.Output)
			if resolveErr != nil {
				return resolveErr
			}
			return activeSession.emit(activeSession.helper.VerifyCommandExists(strings.Join(arguments, " ")), resolved)
		},
	}
	addOutputFlags(verifyCommand, &flags)
	return verifyCommand
}

// withProgress runs produce behind a spinner unless progress is disabled or stderr is not available.
func (session *session) withProgress(options outputOptions, message string, produce func() string) string {
	if options.noProgress || session.dependencies.progressFile == nil {
		return produce()
	}
	progress := output.NewProgress(session.dependencies.progressFile, message)
	progress.Start()
	defer progress.Stop()
	return produce()
}
