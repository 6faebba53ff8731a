package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/basher/internal/config"
)

const (
	initUse                  = "init"
	initShortDescription     = "write a default configuration file"
	initLongDescription      = "Write the default configuration to ./.basher.yaml, or to ~/.basher/config.yaml with --global."
	globalFlagName           = "global"
	globalFlagDescription    = "write the per-user configuration instead of the project file"
	forceFlagName            = "force"
	forceFlagDescription     = "overwrite an existing configuration file"
	initWrittenMessageFormat = "Configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(activeSession *session) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: activeSession.dependencies.workingDirectory,
			})
			if err != nil {
				return err
			}
			_, writeErr := fmt.Fprintf(activeSession.dependencies.stdout, initWrittenMessageFormat, path)
			return writeErr
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
