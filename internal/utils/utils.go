// Package utils contains general helpers shared by the basher commands.
package utils

const (
	// GlobalConfigDirectoryName is the per-user directory holding configuration and cache.
	GlobalConfigDirectoryName = ".basher"
	// ConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the project-level configuration file.
	LocalConfigFileName = ".basher.yaml"

	// LoggerInitializationFailedMessageFormat wraps logger construction failures.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "basher failed"
)

// DeduplicateStrings removes duplicate and empty values while preserving order.
// The first occurrence of each value is kept.
func DeduplicateStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
