package prepare

import (
	"strings"

	"github.com/temirov/hookx/internal/msgfile"
)

const (
	configurationPlaceholderKeyConstant  = "placeholder"
	configurationBackupSuffixKeyConstant = "backup_suffix"
)

// CommandConfiguration captures configuration values for commit message preparation.
type CommandConfiguration struct {
	PlaceholderToken string `mapstructure:"placeholder"`
	BackupSuffix     string `mapstructure:"backup_suffix"`
}

// DefaultCommandConfiguration provides baseline configuration values for preparation.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		PlaceholderToken: msgfile.DefaultPlaceholderToken,
		BackupSuffix:     msgfile.DefaultBackupSuffix,
	}
}

// DefaultConfigurationValues exposes preparation defaults keyed for configuration loading.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationPlaceholderKeyConstant:  defaults.PlaceholderToken,
		rootKey + "." + configurationBackupSuffixKeyConstant: defaults.BackupSuffix,
	}
}

// sanitize trims configuration values and restores defaults for empty fields.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.PlaceholderToken = strings.TrimSpace(configuration.PlaceholderToken)
	if len(sanitized.PlaceholderToken) == 0 {
		sanitized.PlaceholderToken = msgfile.DefaultPlaceholderToken
	}

	sanitized.BackupSuffix = strings.TrimSpace(configuration.BackupSuffix)
	if len(sanitized.BackupSuffix) == 0 {
		sanitized.BackupSuffix = msgfile.DefaultBackupSuffix
	}

	return sanitized
}
