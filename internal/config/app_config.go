package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/basher/internal/utils"
)

const homeDirectoryPrefix = "~" + string(filepath.Separator)

// ErrInvalidDuration is returned when a timeout key cannot be parsed.
var ErrInvalidDuration = errors.New("invalid duration")

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the settings shared by all commands.
type ApplicationConfiguration struct {
	Analysis       AnalysisConfiguration      `mapstructure:"analysis"`
	Cache          CacheConfiguration         `mapstructure:"cache"`
	SystemCommands SystemCommandConfiguration `mapstructure:"system_commands"`
	Output         OutputConfiguration        `mapstructure:"output"`
	Server         ServerConfiguration        `mapstructure:"server"`
}

// AnalysisConfiguration bounds subprocess probing. Timeouts use Go duration syntax.
type AnalysisConfiguration struct {
	HelpTimeout       string `mapstructure:"help_timeout"`
	VersionTimeout    string `mapstructure:"version_timeout"`
	CompletionTimeout string `mapstructure:"completion_timeout"`
	FanOut            *int   `mapstructure:"fan_out"`
	NestedLimit       *int   `mapstructure:"nested_limit"`
	CompletionLimit   *int   `mapstructure:"completion_limit"`
}

// CacheConfiguration locates or disables the analysis cache.
type CacheConfiguration struct {
	Directory string `mapstructure:"directory"`
	Disabled  *bool  `mapstructure:"disabled"`
}

// SystemCommandConfiguration extends the built-in skip list.
type SystemCommandConfiguration struct {
	Extra []string `mapstructure:"extra"`
}

// OutputConfiguration controls rendering defaults.
type OutputConfiguration struct {
	Format    string             `mapstructure:"format"`
	Clipboard *bool              `mapstructure:"clipboard"`
	Tokens    TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// ServerConfiguration configures the HTTP tool server.
type ServerConfiguration struct {
	Address string `mapstructure:"address"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	if validateErr := merged.Analysis.validate(); validateErr != nil {
		return ApplicationConfiguration{}, validateErr
	}
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Extra system commands accumulate across files.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Analysis = result.Analysis.merge(override.Analysis)
	result.Cache = result.Cache.merge(override.Cache)
	result.SystemCommands.Extra = utils.DeduplicateStrings(append(append([]string{}, config.SystemCommands.Extra...), override.SystemCommands.Extra...))
	result.Output = result.Output.merge(override.Output)
	if override.Server.Address != "" {
		result.Server.Address = override.Server.Address
	}
	return result
}

func (config AnalysisConfiguration) merge(override AnalysisConfiguration) AnalysisConfiguration {
	result := config
	if override.HelpTimeout != "" {
		result.HelpTimeout = override.HelpTimeout
	}
	if override.VersionTimeout != "" {
		result.VersionTimeout = override.VersionTimeout
	}
	if override.CompletionTimeout != "" {
		result.CompletionTimeout = override.CompletionTimeout
	}
	if override.FanOut != nil {
		result.FanOut = cloneInt(override.FanOut)
	}
	if override.NestedLimit != nil {
		result.NestedLimit = cloneInt(override.NestedLimit)
	}
	if override.CompletionLimit != nil {
		result.CompletionLimit = cloneInt(override.CompletionLimit)
	}
	return result
}

func (config AnalysisConfiguration) validate() error {
	for key, value := range map[string]string{
		"analysis.help_timeout":       config.HelpTimeout,
		"analysis.version_timeout":    config.VersionTimeout,
		"analysis.completion_timeout": config.CompletionTimeout,
	} {
		if value == "" {
			continue
		}
		if duration, err := time.ParseDuration(value); err != nil || duration <= 0 {
			return fmt.Errorf("%s %q: %w", key, value, ErrInvalidDuration)
		}
	}
	return nil
}

func (config CacheConfiguration) merge(override CacheConfiguration) CacheConfiguration {
	result := config
	if override.Directory != "" {
		result.Directory = override.Directory
	}
	if override.Disabled != nil {
		result.Disabled = cloneBool(override.Disabled)
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// DurationOr parses a validated duration value, returning fallback when unset.
func DurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// IntOr dereferences value, returning fallback when unset.
func IntOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

// BoolOr dereferences value, returning fallback when unset.
func BoolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// ResolveCacheDirectory expands a leading ~ in the configured directory.
func (config CacheConfiguration) ResolveCacheDirectory() (string, error) {
	directory := config.Directory
	if !strings.HasPrefix(directory, homeDirectoryPrefix) {
		return directory, nil
	}
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for cache: %w", err)
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(directory, homeDirectoryPrefix)), nil
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
