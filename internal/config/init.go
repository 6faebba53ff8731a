package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/basher/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `analysis:
  help_timeout: 8s
  version_timeout: 2s
  completion_timeout: 3s
  fan_out: 8
  nested_limit: 5
  completion_limit: 3
cache:
  directory: ""
  disabled: false
system_commands:
  extra: []
output:
  format: json
  clipboard: false
  tokens:
    enabled: false
    model: gpt-4o
server:
  address: 127.0.0.1:8765
`
)

// ErrConfigurationExists reports that init would overwrite a file without Force.
var ErrConfigurationExists = errors.New("configuration file already exists")

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// ConfigurationPath returns the file init writes for target. The global
// directory is not created here.
func ConfigurationPath(target InitTarget, workingDirectory string) (string, error) {
	switch target {
	case "", InitTargetLocal:
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}
}

// InitializeConfiguration writes the default configuration for options.Target
// and returns its path. An existing file is replaced only with Force.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, pathErr := ConfigurationPath(options.Target, options.WorkingDirectory)
	if pathErr != nil {
		return "", pathErr
	}
	if err := os.MkdirAll(filepath.Dir(destinationPath), 0o700); err != nil {
		return "", fmt.Errorf("create configuration directory for %s: %w", destinationPath, err)
	}

	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !options.Force {
		openFlags |= os.O_EXCL
	}
	file, openErr := os.OpenFile(destinationPath, openFlags, 0o600)
	if errors.Is(openErr, os.ErrExist) {
		return "", fmt.Errorf("%w at %s", ErrConfigurationExists, destinationPath)
	}
	if openErr != nil {
		return "", fmt.Errorf("open configuration %s: %w", destinationPath, openErr)
	}
	if _, writeErr := file.WriteString(defaultConfigurationTemplate); writeErr != nil {
		_ = file.Close()
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, writeErr)
	}
	if closeErr := file.Close(); closeErr != nil {
		return "", fmt.Errorf("close configuration %s: %w", destinationPath, closeErr)
	}
	return destinationPath, nil
}
