package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hookx/internal/utils"
)

const (
	testEnvironmentPrefixConstant                  = "TESTHOOKX"
	testCommonSectionKeyConstant                   = "common"
	testLogLevelKeyConstant                        = testCommonSectionKeyConstant + ".log_level"
	testLogLevelEnvironmentNameConstant            = testEnvironmentPrefixConstant + "_COMMON_LOG_LEVEL"
	testDefaultLogLevelConstant                    = "info"
	testOverriddenLogLevelConstant                 = "error"
	testFileLogLevelConstant                       = "warn"
	testEmbeddedLogLevelConstant                   = "debug"
	testConfigFileNameConstant                     = "config.yaml"
	testConfigContentTemplateConstant              = "common:\n  log_level: %s\n"
	testConfigurationNameConstant                  = "config"
	testConfigurationTypeConstant                  = "yaml"
	testCaseDefaultsMessageConstant                = "defaults_are_applied"
	testCaseEmbeddedMessageConstant                = "embedded_configuration_merges"
	testCaseFileMessageConstant                    = "config_file_overrides_embedded"
	testCaseEnvironmentMessageConstant             = "environment_overrides_file"
	configurationLoaderSubtestNameTemplateConstant = "%d_%s"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedLogLevel    string
		fileLogLevel        string
		environmentLogLevel string
		expectedLogLevel    string
	}{
		{
			name:             testCaseDefaultsMessageConstant,
			expectedLogLevel: testDefaultLogLevelConstant,
		},
		{
			name:             testCaseEmbeddedMessageConstant,
			embeddedLogLevel: testEmbeddedLogLevelConstant,
			expectedLogLevel: testEmbeddedLogLevelConstant,
		},
		{
			name:             testCaseFileMessageConstant,
			embeddedLogLevel: testEmbeddedLogLevelConstant,
			fileLogLevel:     testFileLogLevelConstant,
			expectedLogLevel: testFileLogLevelConstant,
		},
		{
			name:                testCaseEnvironmentMessageConstant,
			fileLogLevel:        testFileLogLevelConstant,
			environmentLogLevel: testOverriddenLogLevelConstant,
			expectedLogLevel:    testOverriddenLogLevelConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			temporaryDirectory := testInstance.TempDir()

			configurationFilePath := ""
			if len(testCase.fileLogLevel) > 0 {
				configurationFilePath = filepath.Join(temporaryDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileLogLevel)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o644))
			}

			if len(testCase.environmentLogLevel) > 0 {
				testInstance.Setenv(testLogLevelEnvironmentNameConstant, testCase.environmentLogLevel)
			}

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{temporaryDirectory},
			)

			if len(testCase.embeddedLogLevel) > 0 {
				embeddedContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.embeddedLogLevel)
				configurationLoader.SetEmbeddedConfiguration([]byte(embeddedContent), testConfigurationTypeConstant)
			}

			defaultValues := map[string]any{
				testLogLevelKeyConstant: testDefaultLogLevelConstant,
			}

			var loadedFixture configurationFixture
			loadedMetadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedFixture)
			require.NoError(testInstance, loadError)

			require.Equal(testInstance, testCase.expectedLogLevel, loadedFixture.Common.LogLevel)

			if len(configurationFilePath) > 0 {
				require.Equal(testInstance, configurationFilePath, loadedMetadata.ConfigFileUsed)
			}
		})
	}
}

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, available := accessor.ConfigurationFilePath(nil)
	require.False(testInstance, available)

	updatedContext := accessor.WithConfigurationFilePath(nil, testConfigFileNameConstant)
	storedPath, available := accessor.ConfigurationFilePath(updatedContext)
	require.True(testInstance, available)
	require.Equal(testInstance, testConfigFileNameConstant, storedPath)
}
