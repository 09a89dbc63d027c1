package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/hookx/internal/execshell"
)

// ManagedMarkerConstant identifies hook scripts owned by this tool.
const ManagedMarkerConstant = "Managed by hookx"

// BackupSuffixConstant is appended to foreign hooks before they are replaced.
const BackupSuffixConstant = ".bak"

const (
	loggerRequiredMessageConstant     = "hook installation requires a configured logger"
	repositoryRequiredMessageConstant = "hook installation requires a configured repository manager"

	preCommitHookNameConstant        = "pre-commit"
	prepareCommitMessageHookConstant = "prepare-commit-msg"

	commitTemplateConfigurationKeyConstant = "commit.template"
	templateContentTemplateConstant        = "%s: \n"

	hookScriptTemplateConstant          = "#!/bin/sh\n# %s; do not edit.\n%s\n"
	blockingInvocationTemplateConstant  = "exec \"%s\" %s \"$@\""
	advisoryInvocationTemplateConstant  = "\"%s\" %s \"$@\" || true"
	hookWriteErrorTemplateConstant      = "writing hook %s: %w"
	hookBackupErrorTemplateConstant     = "backing up hook %s: %w"
	hookRemovalErrorTemplateConstant    = "removing hook %s: %w"
	hookRestoreErrorTemplateConstant    = "restoring hook backup %s: %w"
	hooksDirectoryErrorTemplateConstant = "preparing hooks directory %s: %w"
	templateWriteErrorTemplateConstant  = "writing commit template %s: %w"
	executableResolutionErrorConstant   = "resolving hook executable path: %w"
	hookScriptFileModeConstant          = 0o755
	templateFileModeConstant            = 0o644
	hooksDirectoryModeConstant          = 0o755

	logMessageHookInstalledConstant   = "hook installed"
	logMessageHookBackedUpConstant    = "existing hook backed up"
	logMessageHookRemovedConstant     = "hook removed"
	logMessageHookRestoredConstant    = "hook backup restored"
	logMessageTemplateWrittenConstant = "commit template written"
	logMessageTemplateKeptConstant    = "existing commit template kept"
	logFieldHookNameConstant          = "hook"
	logFieldHookPathConstant          = "path"
	logFieldTemplatePathConstant      = "template_path"
)

// Sentinel errors reported during installer construction.
var (
	ErrLoggerNotConfigured     = errors.New(loggerRequiredMessageConstant)
	ErrRepositoryNotConfigured = errors.New(repositoryRequiredMessageConstant)
)

// RepositoryManager exposes the repository operations the installer depends on.
type RepositoryManager interface {
	TopLevelDirectory(executionContext context.Context, workingDirectory string) (string, error)
	HooksDirectory(executionContext context.Context, workingDirectory string) (string, error)
	SetLocalConfiguration(executionContext context.Context, workingDirectory string, configurationKey string, configurationValue string) error
	UnsetLocalConfiguration(executionContext context.Context, workingDirectory string, configurationKey string) error
}

// InstallationOptions parameterizes installation and removal runs.
type InstallationOptions struct {
	WorkingDirectory string
	Configuration    CommandConfiguration
}

type hookDefinition struct {
	name       string
	invocation string
}

// Service installs and removes the managed git hooks.
type Service struct {
	logger     *zap.Logger
	repository RepositoryManager
}

// NewService validates dependencies and constructs an installer Service.
func NewService(logger *zap.Logger, repository RepositoryManager) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if repository == nil {
		return nil, ErrRepositoryNotConfigured
	}

	return &Service{logger: logger, repository: repository}, nil
}

// Install writes the managed hook scripts into the repository hooks
// directory, backs up any foreign hooks it replaces, and registers the commit
// message template. Repeated runs refresh the managed scripts in place.
func (service *Service) Install(executionContext context.Context, options InstallationOptions) error {
	configuration := options.Configuration.sanitize()

	repositoryRoot, rootError := service.repository.TopLevelDirectory(executionContext, options.WorkingDirectory)
	if rootError != nil {
		return rootError
	}

	hooksDirectory, hooksError := service.repository.HooksDirectory(executionContext, options.WorkingDirectory)
	if hooksError != nil {
		return hooksError
	}
	if directoryError := os.MkdirAll(hooksDirectory, hooksDirectoryModeConstant); directoryError != nil {
		return fmt.Errorf(hooksDirectoryErrorTemplateConstant, hooksDirectory, directoryError)
	}

	executablePath, executableError := resolveExecutablePath(configuration.ExecutablePath)
	if executableError != nil {
		return executableError
	}

	for _, definition := range hookDefinitions(executablePath) {
		if installError := service.installHook(hooksDirectory, definition); installError != nil {
			return installError
		}
	}

	if configuration.SkipTemplate {
		return nil
	}
	return service.installTemplate(executionContext, repositoryRoot, configuration.TemplatePath, configuration.PlaceholderToken)
}

// Uninstall removes the managed hook scripts, restores any backups taken
// during installation, and unsets the commit template configuration. Foreign
// hooks are left untouched.
func (service *Service) Uninstall(executionContext context.Context, options InstallationOptions) error {
	hooksDirectory, hooksError := service.repository.HooksDirectory(executionContext, options.WorkingDirectory)
	if hooksError != nil {
		return hooksError
	}

	for _, definition := range hookDefinitions(DefaultExecutableNameConstant) {
		if removalError := service.removeHook(hooksDirectory, definition.name); removalError != nil {
			return removalError
		}
	}

	unsetError := service.repository.UnsetLocalConfiguration(executionContext, options.WorkingDirectory, commitTemplateConfigurationKeyConstant)
	if unsetError != nil {
		var failedError execshell.CommandFailedError
		if !errors.As(unsetError, &failedError) {
			return unsetError
		}
	}

	return nil
}

func hookDefinitions(executablePath string) []hookDefinition {
	return []hookDefinition{
		{
			name:       preCommitHookNameConstant,
			invocation: fmt.Sprintf(blockingInvocationTemplateConstant, executablePath, preCommitHookNameConstant),
		},
		{
			name:       prepareCommitMessageHookConstant,
			invocation: fmt.Sprintf(advisoryInvocationTemplateConstant, executablePath, prepareCommitMessageHookConstant),
		},
	}
}

func resolveExecutablePath(configuredPath string) (string, error) {
	if len(configuredPath) > 0 {
		return configuredPath, nil
	}

	executablePath, executableError := os.Executable()
	if executableError != nil {
		return "", fmt.Errorf(executableResolutionErrorConstant, executableError)
	}
	return executablePath, nil
}

func (service *Service) installHook(hooksDirectory string, definition hookDefinition) error {
	hookPath := filepath.Join(hooksDirectory, definition.name)

	existingContent, readError := os.ReadFile(hookPath)
	if readError == nil && !strings.Contains(string(existingContent), ManagedMarkerConstant) {
		backupPath := hookPath + BackupSuffixConstant
		if backupError := os.Rename(hookPath, backupPath); backupError != nil {
			return fmt.Errorf(hookBackupErrorTemplateConstant, hookPath, backupError)
		}
		service.logger.Info(logMessageHookBackedUpConstant,
			zap.String(logFieldHookNameConstant, definition.name),
			zap.String(logFieldHookPathConstant, backupPath))
	}

	hookScript := fmt.Sprintf(hookScriptTemplateConstant, ManagedMarkerConstant, definition.invocation)
	if writeError := os.WriteFile(hookPath, []byte(hookScript), hookScriptFileModeConstant); writeError != nil {
		return fmt.Errorf(hookWriteErrorTemplateConstant, hookPath, writeError)
	}

	service.logger.Info(logMessageHookInstalledConstant,
		zap.String(logFieldHookNameConstant, definition.name),
		zap.String(logFieldHookPathConstant, hookPath))
	return nil
}

func (service *Service) removeHook(hooksDirectory string, hookName string) error {
	hookPath := filepath.Join(hooksDirectory, hookName)

	existingContent, readError := os.ReadFile(hookPath)
	if readError != nil || !strings.Contains(string(existingContent), ManagedMarkerConstant) {
		return nil
	}

	if removalError := os.Remove(hookPath); removalError != nil {
		return fmt.Errorf(hookRemovalErrorTemplateConstant, hookPath, removalError)
	}
	service.logger.Info(logMessageHookRemovedConstant,
		zap.String(logFieldHookNameConstant, hookName),
		zap.String(logFieldHookPathConstant, hookPath))

	backupPath := hookPath + BackupSuffixConstant
	if _, statError := os.Stat(backupPath); statError == nil {
		if restoreError := os.Rename(backupPath, hookPath); restoreError != nil {
			return fmt.Errorf(hookRestoreErrorTemplateConstant, backupPath, restoreError)
		}
		service.logger.Info(logMessageHookRestoredConstant,
			zap.String(logFieldHookNameConstant, hookName),
			zap.String(logFieldHookPathConstant, hookPath))
	}

	return nil
}

func (service *Service) installTemplate(executionContext context.Context, repositoryRoot string, templatePath string, placeholderToken string) error {
	absoluteTemplatePath := templatePath
	if !filepath.IsAbs(absoluteTemplatePath) {
		absoluteTemplatePath = filepath.Join(repositoryRoot, templatePath)
	}

	if _, statError := os.Stat(absoluteTemplatePath); statError == nil {
		service.logger.Info(logMessageTemplateKeptConstant, zap.String(logFieldTemplatePathConstant, absoluteTemplatePath))
	} else {
		templateContent := fmt.Sprintf(templateContentTemplateConstant, placeholderToken)
		if writeError := os.WriteFile(absoluteTemplatePath, []byte(templateContent), templateFileModeConstant); writeError != nil {
			return fmt.Errorf(templateWriteErrorTemplateConstant, absoluteTemplatePath, writeError)
		}
		service.logger.Info(logMessageTemplateWrittenConstant, zap.String(logFieldTemplatePathConstant, absoluteTemplatePath))
	}

	return service.repository.SetLocalConfiguration(executionContext, repositoryRoot, commitTemplateConfigurationKeyConstant, templatePath)
}
