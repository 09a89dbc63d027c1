package lintgate

import "strings"

// Baseline gate values applied when neither configuration files nor flags
// override them.
const (
	DefaultLinterNameConstant    = "ruff"
	DefaultSuccessMarkerConstant = "All checks passed!"
)

// DefaultLinterArguments returns the arguments passed to the linter before the
// staged file paths.
func DefaultLinterArguments() []string {
	return []string{"check", "--force-exclude", "--config", "pyproject.toml"}
}

// DefaultFileExtensions returns the staged file extensions subject to linting.
func DefaultFileExtensions() []string {
	return []string{".py"}
}

const (
	configurationLinterKeyConstant        = "linter"
	configurationLinterArgsKeyConstant    = "linter_args"
	configurationExtensionsKeyConstant    = "extensions"
	configurationSuccessMarkerKeyConstant = "success_marker"
)

// CommandConfiguration captures configuration values for the pre-commit gate.
type CommandConfiguration struct {
	LinterName      string   `mapstructure:"linter"`
	LinterArguments []string `mapstructure:"linter_args"`
	FileExtensions  []string `mapstructure:"extensions"`
	SuccessMarker   string   `mapstructure:"success_marker"`
}

// DefaultCommandConfiguration provides baseline configuration values for the gate.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		LinterName:      DefaultLinterNameConstant,
		LinterArguments: DefaultLinterArguments(),
		FileExtensions:  DefaultFileExtensions(),
		SuccessMarker:   DefaultSuccessMarkerConstant,
	}
}

// DefaultConfigurationValues exposes gate defaults keyed for configuration loading.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationLinterKeyConstant:        defaults.LinterName,
		rootKey + "." + configurationLinterArgsKeyConstant:    defaults.LinterArguments,
		rootKey + "." + configurationExtensionsKeyConstant:    defaults.FileExtensions,
		rootKey + "." + configurationSuccessMarkerKeyConstant: defaults.SuccessMarker,
	}
}

// sanitize trims configuration values and restores defaults for empty fields.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.LinterName = strings.TrimSpace(configuration.LinterName)
	if len(sanitized.LinterName) == 0 {
		sanitized.LinterName = DefaultLinterNameConstant
	}

	sanitized.LinterArguments = sanitizeList(configuration.LinterArguments)
	if len(sanitized.LinterArguments) == 0 {
		sanitized.LinterArguments = DefaultLinterArguments()
	}

	sanitized.FileExtensions = sanitizeExtensions(configuration.FileExtensions)
	if len(sanitized.FileExtensions) == 0 {
		sanitized.FileExtensions = DefaultFileExtensions()
	}

	if len(strings.TrimSpace(configuration.SuccessMarker)) == 0 {
		sanitized.SuccessMarker = DefaultSuccessMarkerConstant
	}

	return sanitized
}

func sanitizeList(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}

func sanitizeExtensions(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		sanitized = append(sanitized, strings.ToLower(trimmed))
	}
	return sanitized
}
