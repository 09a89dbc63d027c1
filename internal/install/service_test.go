package install_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/hookx/internal/execshell"
	"github.com/temirov/hookx/internal/install"
	"github.com/temirov/hookx/internal/msgfile"
)

const (
	configuredExecutablePathConstant = "/usr/local/bin/hookx"
	foreignHookContentConstant       = "#!/bin/sh\necho legacy hook\n"
)

type configurationCall struct {
	key   string
	value string
}

type stubRepositoryManager struct {
	topLevelDirectory string
	hooksDirectory    string
	unsetError        error
	setCalls          []configurationCall
	unsetCalls        []string
}

func (repository *stubRepositoryManager) TopLevelDirectory(executionContext context.Context, workingDirectory string) (string, error) {
	return repository.topLevelDirectory, nil
}

func (repository *stubRepositoryManager) HooksDirectory(executionContext context.Context, workingDirectory string) (string, error) {
	return repository.hooksDirectory, nil
}

func (repository *stubRepositoryManager) SetLocalConfiguration(executionContext context.Context, workingDirectory string, configurationKey string, configurationValue string) error {
	repository.setCalls = append(repository.setCalls, configurationCall{key: configurationKey, value: configurationValue})
	return nil
}

func (repository *stubRepositoryManager) UnsetLocalConfiguration(executionContext context.Context, workingDirectory string, configurationKey string) error {
	repository.unsetCalls = append(repository.unsetCalls, configurationKey)
	return repository.unsetError
}

func newRepositoryFixture(testInstance *testing.T) *stubRepositoryManager {
	testInstance.Helper()
	repositoryRoot := testInstance.TempDir()
	hooksDirectory := filepath.Join(repositoryRoot, ".git", "hooks")
	require.NoError(testInstance, os.MkdirAll(hooksDirectory, 0o755))
	return &stubRepositoryManager{topLevelDirectory: repositoryRoot, hooksDirectory: hooksDirectory}
}

func installationOptions() install.InstallationOptions {
	configuration := install.DefaultCommandConfiguration()
	configuration.ExecutablePath = configuredExecutablePathConstant
	return install.InstallationOptions{Configuration: configuration}
}

func readHook(testInstance *testing.T, hooksDirectory string, hookName string) string {
	testInstance.Helper()
	content, readError := os.ReadFile(filepath.Join(hooksDirectory, hookName))
	require.NoError(testInstance, readError)
	return string(content)
}

func TestServiceInitializationValidation(testInstance *testing.T) {
	service, creationError := install.NewService(nil, &stubRepositoryManager{})
	require.Nil(testInstance, service)
	require.ErrorIs(testInstance, creationError, install.ErrLoggerNotConfigured)

	service, creationError = install.NewService(zap.NewNop(), nil)
	require.Nil(testInstance, service)
	require.ErrorIs(testInstance, creationError, install.ErrRepositoryNotConfigured)
}

func TestServiceInstallWritesManagedHooks(testInstance *testing.T) {
	repository := newRepositoryFixture(testInstance)
	service, creationError := install.NewService(zap.NewNop(), repository)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Install(context.Background(), installationOptions()))

	preCommitContent := readHook(testInstance, repository.hooksDirectory, "pre-commit")
	require.Contains(testInstance, preCommitContent, install.ManagedMarkerConstant)
	require.Contains(testInstance, preCommitContent, "exec \""+configuredExecutablePathConstant+"\" pre-commit \"$@\"")

	prepareContent := readHook(testInstance, repository.hooksDirectory, "prepare-commit-msg")
	require.Contains(testInstance, prepareContent, install.ManagedMarkerConstant)
	require.Contains(testInstance, prepareContent, "prepare-commit-msg \"$@\" || true")

	hookInformation, statError := os.Stat(filepath.Join(repository.hooksDirectory, "pre-commit"))
	require.NoError(testInstance, statError)
	require.Equal(testInstance, os.FileMode(0o755), hookInformation.Mode().Perm())

	templateContent, templateError := os.ReadFile(filepath.Join(repository.topLevelDirectory, install.DefaultTemplatePathConstant))
	require.NoError(testInstance, templateError)
	require.Contains(testInstance, string(templateContent), "{branch}")

	require.Equal(testInstance, []configurationCall{{key: "commit.template", value: install.DefaultTemplatePathConstant}}, repository.setCalls)
}

func TestServiceInstallWritesConfiguredPlaceholderIntoTemplate(testInstance *testing.T) {
	repository := newRepositoryFixture(testInstance)
	options := installationOptions()
	options.Configuration.PlaceholderToken = "%ISSUE%"

	service, creationError := install.NewService(zap.NewNop(), repository)
	require.NoError(testInstance, creationError)
	require.NoError(testInstance, service.Install(context.Background(), options))

	templatePath := filepath.Join(repository.topLevelDirectory, install.DefaultTemplatePathConstant)
	templateContent, templateError := os.ReadFile(templatePath)
	require.NoError(testInstance, templateError)
	require.Contains(testInstance, string(templateContent), "%ISSUE%")
	require.NotContains(testInstance, string(templateContent), msgfile.DefaultPlaceholderToken)

	substitution := msgfile.NewSubstitution("%ISSUE%", "")
	require.NoError(testInstance, substitution.Apply(templatePath, "BIBLO-1234"))

	preparedContent, preparedError := os.ReadFile(templatePath)
	require.NoError(testInstance, preparedError)
	require.Contains(testInstance, string(preparedContent), "BIBLO-1234")
	require.NotContains(testInstance, string(preparedContent), "%ISSUE%")
}

func TestServiceInstallBacksUpForeignHooks(testInstance *testing.T) {
	repository := newRepositoryFixture(testInstance)
	foreignHookPath := filepath.Join(repository.hooksDirectory, "pre-commit")
	require.NoError(testInstance, os.WriteFile(foreignHookPath, []byte(foreignHookContentConstant), 0o755))

	service, creationError := install.NewService(zap.NewNop(), repository)
	require.NoError(testInstance, creationError)
	require.NoError(testInstance, service.Install(context.Background(), installationOptions()))

	backupContent, backupError := os.ReadFile(foreignHookPath + install.BackupSuffixConstant)
	require.NoError(testInstance, backupError)
	require.Equal(testInstance, foreignHookContentConstant, string(backupContent))
	require.Contains(testInstance, readHook(testInstance, repository.hooksDirectory, "pre-commit"), install.ManagedMarkerConstant)
}

func TestServiceInstallIsIdempotent(testInstance *testing.T) {
	repository := newRepositoryFixture(testInstance)
	service, creationError := install.NewService(zap.NewNop(), repository)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Install(context.Background(), installationOptions()))
	firstContent := readHook(testInstance, repository.hooksDirectory, "pre-commit")

	require.NoError(testInstance, service.Install(context.Background(), installationOptions()))
	require.Equal(testInstance, firstContent, readHook(testInstance, repository.hooksDirectory, "pre-commit"))
	require.NoFileExists(testInstance, filepath.Join(repository.hooksDirectory, "pre-commit"+install.BackupSuffixConstant))
}

func TestServiceInstallKeepsExistingTemplate(testInstance *testing.T) {
	repository := newRepositoryFixture(testInstance)
	templatePath := filepath.Join(repository.topLevelDirectory, install.DefaultTemplatePathConstant)
	existingTemplateContent := "{branch} custom template\n"
	require.NoError(testInstance, os.WriteFile(templatePath, []byte(existingTemplateContent), 0o644))

	service, creationError := install.NewService(zap.NewNop(), repository)
	require.NoError(testInstance, creationError)
	require.NoError(testInstance, service.Install(context.Background(), installationOptions()))

	templateContent, templateError := os.ReadFile(templatePath)
	require.NoError(testInstance, templateError)
	require.Equal(testInstance, existingTemplateContent, string(templateContent))
}

func TestServiceInstallSkipsTemplateWhenConfigured(testInstance *testing.T) {
	repository := newRepositoryFixture(testInstance)
	options := installationOptions()
	options.Configuration.SkipTemplate = true

	service, creationError := install.NewService(zap.NewNop(), repository)
	require.NoError(testInstance, creationError)
	require.NoError(testInstance, service.Install(context.Background(), options))

	require.NoFileExists(testInstance, filepath.Join(repository.topLevelDirectory, install.DefaultTemplatePathConstant))
	require.Empty(testInstance, repository.setCalls)
}

func TestServiceUninstall(testInstance *testing.T) {
	repository := newRepositoryFixture(testInstance)
	service, creationError := install.NewService(zap.NewNop(), repository)
	require.NoError(testInstance, creationError)

	foreignHookPath := filepath.Join(repository.hooksDirectory, "pre-commit")
	require.NoError(testInstance, os.WriteFile(foreignHookPath, []byte(foreignHookContentConstant), 0o755))
	require.NoError(testInstance, service.Install(context.Background(), installationOptions()))

	require.NoError(testInstance, service.Uninstall(context.Background(), installationOptions()))

	restoredContent := readHook(testInstance, repository.hooksDirectory, "pre-commit")
	require.Equal(testInstance, foreignHookContentConstant, restoredContent)
	require.NoFileExists(testInstance, filepath.Join(repository.hooksDirectory, "prepare-commit-msg"))
	require.Equal(testInstance, []string{"commit.template"}, repository.unsetCalls)
}

func TestServiceUninstallLeavesForeignHooks(testInstance *testing.T) {
	repository := newRepositoryFixture(testInstance)
	foreignHookPath := filepath.Join(repository.hooksDirectory, "pre-commit")
	require.NoError(testInstance, os.WriteFile(foreignHookPath, []byte(foreignHookContentConstant), 0o755))

	service, creationError := install.NewService(zap.NewNop(), repository)
	require.NoError(testInstance, creationError)
	require.NoError(testInstance, service.Uninstall(context.Background(), installationOptions()))

	require.Equal(testInstance, foreignHookContentConstant, readHook(testInstance, repository.hooksDirectory, "pre-commit"))
}

func TestServiceUninstallToleratesMissingConfigurationKey(testInstance *testing.T) {
	repository := newRepositoryFixture(testInstance)
	repository.unsetError = execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 5}}

	service, creationError := install.NewService(zap.NewNop(), repository)
	require.NoError(testInstance, creationError)
	require.NoError(testInstance, service.Uninstall(context.Background(), installationOptions()))
}
