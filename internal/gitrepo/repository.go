package gitrepo

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/hookx/internal/execshell"
)

const (
	gitRevParseSubcommandConstant           = "rev-parse"
	gitAbbrevRefFlagConstant                = "--abbrev-ref"
	gitHeadReferenceConstant                = "HEAD"
	gitShowTopLevelFlagConstant             = "--show-toplevel"
	gitPathFlagConstant                     = "--git-path"
	gitHooksPathNameConstant                = "hooks"
	gitDiffSubcommandConstant               = "diff"
	gitCachedFlagConstant                   = "--cached"
	gitNameOnlyFlagConstant                 = "--name-only"
	gitDiffFilterFlagConstant               = "--diff-filter=ACM"
	gitConfigSubcommandConstant             = "config"
	gitConfigUnsetFlagConstant              = "--unset"
	executorNotConfiguredMessageConstant    = "repository manager requires a git executor"
	stagedFileListSeparatorConstant         = "\n"
	configurationKeyRequiredMessageConstant = "configuration key must not be empty"
)

// Sentinel errors reported by the repository manager.
var (
	ErrExecutorNotConfigured    = errors.New(executorNotConfiguredMessageConstant)
	ErrConfigurationKeyRequired = errors.New(configurationKeyRequiredMessageConstant)
)

// GitExecutor runs git commands and reports their results.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager surfaces repository facts required by hook commands.
type RepositoryManager struct {
	logger      *zap.Logger
	gitExecutor GitExecutor
}

// NewRepositoryManager validates dependencies and constructs a RepositoryManager.
func NewRepositoryManager(logger *zap.Logger, gitExecutor GitExecutor) (*RepositoryManager, error) {
	if gitExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryManager{logger: logger, gitExecutor: gitExecutor}, nil
}

// CurrentBranch reports the checked-out branch name; a detached HEAD yields an empty branch name.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, workingDirectory string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: workingDirectory,
	}

	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", executionError
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if branchName == gitHeadReferenceConstant {
		return "", nil
	}

	return branchName, nil
}

// TopLevelDirectory resolves the absolute path of the repository root.
func (manager *RepositoryManager) TopLevelDirectory(executionContext context.Context, workingDirectory string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitShowTopLevelFlagConstant},
		WorkingDirectory: workingDirectory,
	}

	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// HooksDirectory resolves the absolute path of the repository hooks directory.
func (manager *RepositoryManager) HooksDirectory(executionContext context.Context, workingDirectory string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitPathFlagConstant, gitHooksPathNameConstant},
		WorkingDirectory: workingDirectory,
	}

	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", executionError
	}

	hooksPath := strings.TrimSpace(executionResult.StandardOutput)
	if filepath.IsAbs(hooksPath) {
		return hooksPath, nil
	}

	topLevelDirectory, topLevelError := manager.TopLevelDirectory(executionContext, workingDirectory)
	if topLevelError != nil {
		return "", topLevelError
	}

	return filepath.Join(topLevelDirectory, hooksPath), nil
}

// StagedFiles lists repository-relative paths staged for the next commit.
func (manager *RepositoryManager) StagedFiles(executionContext context.Context, workingDirectory string) ([]string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitDiffSubcommandConstant, gitCachedFlagConstant, gitNameOnlyFlagConstant, gitDiffFilterFlagConstant},
		WorkingDirectory: workingDirectory,
	}

	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return nil, executionError
	}

	stagedFiles := []string{}
	for _, candidate := range strings.Split(executionResult.StandardOutput, stagedFileListSeparatorConstant) {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		stagedFiles = append(stagedFiles, trimmedCandidate)
	}

	return stagedFiles, nil
}

// SetLocalConfiguration writes a key/value pair into the repository-local git configuration.
func (manager *RepositoryManager) SetLocalConfiguration(executionContext context.Context, workingDirectory string, configurationKey string, configurationValue string) error {
	trimmedKey := strings.TrimSpace(configurationKey)
	if len(trimmedKey) == 0 {
		return ErrConfigurationKeyRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitConfigSubcommandConstant, trimmedKey, configurationValue},
		WorkingDirectory: workingDirectory,
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

// UnsetLocalConfiguration removes a key from the repository-local git configuration.
func (manager *RepositoryManager) UnsetLocalConfiguration(executionContext context.Context, workingDirectory string, configurationKey string) error {
	trimmedKey := strings.TrimSpace(configurationKey)
	if len(trimmedKey) == 0 {
		return ErrConfigurationKeyRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitConfigSubcommandConstant, gitConfigUnsetFlagConstant, trimmedKey},
		WorkingDirectory: workingDirectory,
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	return executionError
}
