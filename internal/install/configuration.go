package install

import (
	"strings"

	"github.com/temirov/hookx/internal/msgfile"
)

// Baseline installation values applied when neither configuration files nor
// flags override them.
const (
	DefaultExecutableNameConstant = "hookx"
	DefaultTemplatePathConstant   = ".gitmessage"
)

const (
	configurationExecutableKeyConstant   = "executable"
	configurationTemplateKeyConstant     = "template_path"
	configurationPlaceholderKeyConstant  = "placeholder"
	configurationSkipTemplateKeyConstant = "skip_template"
)

// CommandConfiguration captures configuration values for hook installation.
type CommandConfiguration struct {
	ExecutablePath   string `mapstructure:"executable"`
	TemplatePath     string `mapstructure:"template_path"`
	PlaceholderToken string `mapstructure:"placeholder"`
	SkipTemplate     bool   `mapstructure:"skip_template"`
}

// DefaultCommandConfiguration provides baseline configuration values for installation.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ExecutablePath:   "",
		TemplatePath:     DefaultTemplatePathConstant,
		PlaceholderToken: msgfile.DefaultPlaceholderToken,
		SkipTemplate:     false,
	}
}

// DefaultConfigurationValues exposes installation defaults keyed for configuration loading.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationExecutableKeyConstant:   defaults.ExecutablePath,
		rootKey + "." + configurationTemplateKeyConstant:     defaults.TemplatePath,
		rootKey + "." + configurationPlaceholderKeyConstant:  defaults.PlaceholderToken,
		rootKey + "." + configurationSkipTemplateKeyConstant: defaults.SkipTemplate,
	}
}

// sanitize trims configuration values and restores defaults for empty fields.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.ExecutablePath = strings.TrimSpace(configuration.ExecutablePath)

	sanitized.TemplatePath = strings.TrimSpace(configuration.TemplatePath)
	if len(sanitized.TemplatePath) == 0 {
		sanitized.TemplatePath = DefaultTemplatePathConstant
	}

	sanitized.PlaceholderToken = strings.TrimSpace(configuration.PlaceholderToken)
	if len(sanitized.PlaceholderToken) == 0 {
		sanitized.PlaceholderToken = msgfile.DefaultPlaceholderToken
	}

	return sanitized
}
