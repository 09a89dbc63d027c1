package install

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hookx/internal/execshell"
	"github.com/temirov/hookx/internal/gitrepo"
	"github.com/temirov/hookx/internal/ui"
)

const (
	installCommandUseConstant               = "install"
	installCommandShortConstant             = "Install the managed git hooks and commit template"
	installCommandLongConstant              = "install writes the pre-commit and prepare-commit-msg hooks into the repository, backing up any existing hooks, and registers the commit message template."
	installExecutionErrorTemplateConstant   = "hook installation failed: %w"
	uninstallCommandUseConstant             = "uninstall"
	uninstallCommandShortConstant           = "Remove the managed git hooks and restore backups"
	uninstallCommandLongConstant            = "uninstall removes the managed hooks, restores any hooks backed up during installation, and unsets the commit template configuration."
	uninstallExecutionErrorTemplateConstant = "hook removal failed: %w"
	flagExecutableNameConstant              = "executable"
	flagExecutableDescriptionConstant       = "Path written into hook scripts; defaults to the running binary"
	flagTemplatePathNameConstant            = "template"
	flagTemplatePathDescriptionConstant     = "Commit message template path relative to the repository root"
	flagSkipTemplateNameConstant            = "skip-template"
	flagSkipTemplateDescriptionConstant     = "Install hooks without registering a commit template"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies configuration defaults for installation commands.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console logging is active.
type HumanReadableLoggingProvider func() bool

// InstallCommandBuilder assembles the Cobra command that installs the hooks.
type InstallCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Repository                   RepositoryManager
	WorkingDirectory             string
}

// Build constructs the install command.
func (builder *InstallCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   installCommandUseConstant,
		Short: installCommandShortConstant,
		Long:  installCommandLongConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := resolveConfiguration(builder.ConfigurationProvider)
	command.Flags().String(flagExecutableNameConstant, defaults.ExecutablePath, flagExecutableDescriptionConstant)
	command.Flags().String(flagTemplatePathNameConstant, defaults.TemplatePath, flagTemplatePathDescriptionConstant)
	command.Flags().Bool(flagSkipTemplateNameConstant, defaults.SkipTemplate, flagSkipTemplateDescriptionConstant)

	return command, nil
}

func (builder *InstallCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	if command.Flags().Changed(flagExecutableNameConstant) {
		configuration.ExecutablePath, _ = command.Flags().GetString(flagExecutableNameConstant)
	}
	if command.Flags().Changed(flagTemplatePathNameConstant) {
		configuration.TemplatePath, _ = command.Flags().GetString(flagTemplatePathNameConstant)
	}
	if command.Flags().Changed(flagSkipTemplateNameConstant) {
		configuration.SkipTemplate, _ = command.Flags().GetBool(flagSkipTemplateNameConstant)
	}

	logger := resolveLogger(builder.LoggerProvider)
	service, serviceError := resolveService(logger, builder.Repository, resolveHumanReadableLogging(builder.HumanReadableLoggingProvider))
	if serviceError != nil {
		return serviceError
	}

	installationOptions := InstallationOptions{
		WorkingDirectory: builder.WorkingDirectory,
		Configuration:    configuration,
	}

	if installError := service.Install(command.Context(), installationOptions); installError != nil {
		return fmt.Errorf(installExecutionErrorTemplateConstant, installError)
	}
	return nil
}

// UninstallCommandBuilder assembles the Cobra command that removes the hooks.
type UninstallCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Repository                   RepositoryManager
	WorkingDirectory             string
}

// Build constructs the uninstall command.
func (builder *UninstallCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   uninstallCommandUseConstant,
		Short: uninstallCommandShortConstant,
		Long:  uninstallCommandLongConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *UninstallCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)

	logger := resolveLogger(builder.LoggerProvider)
	service, serviceError := resolveService(logger, builder.Repository, resolveHumanReadableLogging(builder.HumanReadableLoggingProvider))
	if serviceError != nil {
		return serviceError
	}

	installationOptions := InstallationOptions{
		WorkingDirectory: builder.WorkingDirectory,
		Configuration:    configuration,
	}

	if removalError := service.Uninstall(command.Context(), installationOptions); removalError != nil {
		return fmt.Errorf(uninstallExecutionErrorTemplateConstant, removalError)
	}
	return nil
}

func resolveConfiguration(provider ConfigurationProvider) CommandConfiguration {
	if provider == nil {
		return DefaultCommandConfiguration()
	}
	return provider().sanitize()
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}

	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func resolveHumanReadableLogging(provider HumanReadableLoggingProvider) bool {
	if provider == nil {
		return false
	}
	return provider()
}

func resolveService(logger *zap.Logger, repository RepositoryManager, humanReadableLogging bool) (*Service, error) {
	if repository == nil {
		commandRunner := execshell.NewOSCommandRunner()
		shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
		if creationError != nil {
			return nil, creationError
		}
		if humanReadableLogging {
			shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
		}

		repositoryManager, managerError := gitrepo.NewRepositoryManager(logger, shellExecutor)
		if managerError != nil {
			return nil, managerError
		}
		repository = repositoryManager
	}

	return NewService(logger, repository)
}
