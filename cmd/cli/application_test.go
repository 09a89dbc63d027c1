package cli_test

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/hookx/cmd/cli"
	"github.com/temirov/hookx/internal/install"
	"github.com/temirov/hookx/internal/lintgate"
	"github.com/temirov/hookx/internal/prepare"
)

const (
	expectedLinterNameConstant    = "ruff"
	expectedSuccessMarkerConstant = "All checks passed!"
	expectedPlaceholderConstant   = "{branch}"
	expectedTemplatePathConstant  = ".gitmessage"
	lintConfigurationKeyConstant  = "tools.lint"
	prepareConfigurationKey       = "tools.prepare"
	installConfigurationKey       = "tools.install"
)

func decodeEmbeddedConfiguration(testingInstance testing.TB) *viper.Viper {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testingInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	return viperInstance
}

func decodeConfigurationSection(testingInstance testing.TB, options map[string]any, target any) {
	testingInstance.Helper()

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: target})
	require.NoError(testingInstance, decoderError)
	require.NoError(testingInstance, decoder.Decode(options))
}

func TestEmbeddedDefaultConfigurationUnmarshals(testInstance *testing.T) {
	viperInstance := decodeEmbeddedConfiguration(testInstance)

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, expectedLinterNameConstant, configuration.Tools.Lint.LinterName)
	require.Equal(testInstance, expectedPlaceholderConstant, configuration.Tools.Prepare.PlaceholderToken)
	require.Equal(testInstance, expectedTemplatePathConstant, configuration.Tools.Install.TemplatePath)
}

func TestEmbeddedDefaultsProvideCommandConfigurations(testInstance *testing.T) {
	viperInstance := decodeEmbeddedConfiguration(testInstance)

	testInstance.Run("LintDefaults", func(subtest *testing.T) {
		var configuration lintgate.CommandConfiguration
		decodeConfigurationSection(subtest, viperInstance.GetStringMap(lintConfigurationKeyConstant), &configuration)

		require.Equal(subtest, expectedLinterNameConstant, configuration.LinterName)
		require.Equal(subtest, []string{"check", "--force-exclude", "--config", "pyproject.toml"}, configuration.LinterArguments)
		require.Equal(subtest, []string{".py"}, configuration.FileExtensions)
		require.Equal(subtest, expectedSuccessMarkerConstant, configuration.SuccessMarker)
	})

	testInstance.Run("PrepareDefaults", func(subtest *testing.T) {
		var configuration prepare.CommandConfiguration
		decodeConfigurationSection(subtest, viperInstance.GetStringMap(prepareConfigurationKey), &configuration)

		require.Equal(subtest, expectedPlaceholderConstant, configuration.PlaceholderToken)
		require.Equal(subtest, ".bak", configuration.BackupSuffix)
	})

	testInstance.Run("InstallDefaults", func(subtest *testing.T) {
		var configuration install.CommandConfiguration
		decodeConfigurationSection(subtest, viperInstance.GetStringMap(installConfigurationKey), &configuration)

		require.Equal(subtest, expectedTemplatePathConstant, configuration.TemplatePath)
		require.Equal(subtest, expectedPlaceholderConstant, configuration.PlaceholderToken)
		require.False(subtest, configuration.SkipTemplate)
		require.Empty(subtest, configuration.ExecutablePath)
	})
}

func TestEmbeddedDefaultsMatchPackageDefaults(testInstance *testing.T) {
	viperInstance := decodeEmbeddedConfiguration(testInstance)

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))

	require.Equal(testInstance, lintgate.DefaultCommandConfiguration(), configuration.Tools.Lint)
	require.Equal(testInstance, prepare.DefaultCommandConfiguration(), configuration.Tools.Prepare)
	require.Equal(testInstance, install.DefaultCommandConfiguration(), configuration.Tools.Install)
}
