package prepare

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hookx/internal/execshell"
	"github.com/temirov/hookx/internal/gitrepo"
	"github.com/temirov/hookx/internal/ui"
	"github.com/temirov/hookx/internal/utils"
)

const (
	commandUseConstant                    = "prepare-commit-msg <message-file> [source] [sha]"
	commandShortDescriptionConstant       = "Substitute the branch issue key into the commit message file"
	commandLongDescriptionConstant        = "prepare-commit-msg replaces the issue key placeholder in the commit message file with the key extracted from the current branch name."
	commandExecutionErrorTemplateConstant = "commit message preparation failed: %w"
	minimumPositionalArgumentsConstant    = 1
	maximumPositionalArgumentsConstant    = 3
	logMessageConfigurationFileConstant   = "preparation configuration loaded"
	logFieldConfigurationFileConstant     = "config_file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies configuration defaults for the preparation command.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the Cobra command for commit message preparation.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Repository                   BranchReader
	WorkingDirectory             string
}

// Build constructs the prepare-commit-msg command. Git invokes the hook with
// the message file path plus optional source and commit arguments; only the
// file path participates in preparation.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.RangeArgs(minimumPositionalArgumentsConstant, maximumPositionalArgumentsConstant),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	logger := builder.resolveLogger()
	if configurationFilePath, available := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); available {
		logger.Debug(logMessageConfigurationFileConstant, zap.String(logFieldConfigurationFileConstant, configurationFilePath))
	}

	repository, repositoryError := builder.resolveRepository(logger)
	if repositoryError != nil {
		return repositoryError
	}

	service, serviceError := NewService(logger, repository)
	if serviceError != nil {
		return serviceError
	}

	preparationOptions := PreparationOptions{
		MessageFilePath:  arguments[0],
		WorkingDirectory: builder.WorkingDirectory,
		Configuration:    configuration,
	}

	preparationError := service.Prepare(command.Context(), preparationOptions)
	if preparationError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, preparationError)
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

func (builder *CommandBuilder) resolveRepository(logger *zap.Logger) (BranchReader, error) {
	if builder.Repository != nil {
		return builder.Repository, nil
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	if humanReadableLogging {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	return gitrepo.NewRepositoryManager(logger, shellExecutor)
}
