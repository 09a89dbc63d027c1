package lintgate

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hookx/internal/execshell"
	"github.com/temirov/hookx/internal/gitrepo"
	"github.com/temirov/hookx/internal/ui"
	"github.com/temirov/hookx/internal/utils"
)

const (
	commandUseConstant                    = "pre-commit"
	commandShortDescriptionConstant       = "Reject commits whose staged files fail the configured linter"
	commandLongDescriptionConstant        = "pre-commit lints the staged files matching the configured extensions and rejects the commit when the linter reports findings."
	commandExecutionErrorTemplateConstant = "pre-commit gate failed: %w"
	flagLinterNameConstant                = "linter"
	flagLinterDescriptionConstant         = "Lint tool invoked against staged files"
	flagExtensionsNameConstant            = "extensions"
	flagExtensionsDescriptionConstant     = "Staged file extensions subject to linting"
	logMessageConfigurationFileConstant   = "gate configuration loaded"
	logFieldConfigurationFileConstant     = "config_file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies configuration defaults for the gate command.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the Cobra command for the pre-commit gate.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Repository                   RepositoryReader
	LinterExecutor               LinterExecutor
	OutputWriter                 io.Writer
	WorkingDirectory             string
}

// Build constructs the pre-commit command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := builder.resolveConfiguration()
	command.Flags().String(flagLinterNameConstant, defaults.LinterName, flagLinterDescriptionConstant)
	command.Flags().StringSlice(flagExtensionsNameConstant, defaults.FileExtensions, flagExtensionsDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(flagLinterNameConstant) {
		configuration.LinterName, _ = command.Flags().GetString(flagLinterNameConstant)
	}
	if command.Flags().Changed(flagExtensionsNameConstant) {
		configuration.FileExtensions, _ = command.Flags().GetStringSlice(flagExtensionsNameConstant)
	}

	logger := builder.resolveLogger()
	if configurationFilePath, available := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); available {
		logger.Debug(logMessageConfigurationFileConstant, zap.String(logFieldConfigurationFileConstant, configurationFilePath))
	}

	repository, linterExecutor, dependenciesError := builder.resolveDependencies(logger)
	if dependenciesError != nil {
		return dependenciesError
	}

	service, serviceError := NewService(logger, repository, linterExecutor, builder.OutputWriter)
	if serviceError != nil {
		return serviceError
	}

	gateOptions := GateOptions{
		WorkingDirectory: builder.WorkingDirectory,
		Configuration:    configuration,
	}

	gateError := service.Run(command.Context(), gateOptions)
	if gateError != nil {
		if errors.Is(gateError, ErrLintFindings) {
			return gateError
		}
		return fmt.Errorf(commandExecutionErrorTemplateConstant, gateError)
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveDependencies(logger *zap.Logger) (RepositoryReader, LinterExecutor, error) {
	repository := builder.Repository
	linterExecutor := builder.LinterExecutor
	if repository != nil && linterExecutor != nil {
		return repository, linterExecutor, nil
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, nil, creationError
	}
	if humanReadableLogging {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	if repository == nil {
		repositoryManager, managerError := gitrepo.NewRepositoryManager(logger, shellExecutor)
		if managerError != nil {
			return nil, nil, managerError
		}
		repository = repositoryManager
	}
	if linterExecutor == nil {
		linterExecutor = shellExecutor
	}

	return repository, linterExecutor, nil
}
