package prepare

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/hookx/internal/issue"
	"github.com/temirov/hookx/internal/msgfile"
)

const (
	loggerRequiredMessageConstant     = "commit message preparation requires a configured logger"
	repositoryRequiredMessageConstant = "commit message preparation requires a configured branch reader"
	logMessageKeyAppliedConstant      = "issue key applied to commit message"
	logMessageKeyAbsentConstant       = "branch carries no issue key; placeholder removed"
	logFieldBranchConstant            = "branch"
	logFieldIssueKeyConstant          = "issue_key"
	logFieldMessagePathConstant       = "message_path"
)

// Sentinel errors reported during preparation.
var (
	ErrLoggerNotConfigured     = errors.New(loggerRequiredMessageConstant)
	ErrRepositoryNotConfigured = errors.New(repositoryRequiredMessageConstant)
)

// BranchReader reports the currently checked out branch.
type BranchReader interface {
	CurrentBranch(executionContext context.Context, workingDirectory string) (string, error)
}

// PreparationOptions parameterizes a single preparation run.
type PreparationOptions struct {
	MessageFilePath  string
	WorkingDirectory string
	Configuration    CommandConfiguration
}

// Service substitutes branch issue keys into commit message files.
type Service struct {
	logger     *zap.Logger
	repository BranchReader
}

// NewService validates dependencies and constructs a preparation Service.
func NewService(logger *zap.Logger, repository BranchReader) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if repository == nil {
		return nil, ErrRepositoryNotConfigured
	}

	return &Service{logger: logger, repository: repository}, nil
}

// Prepare resolves the current branch, extracts its issue key, and rewrites
// the commit message file. Branches without an issue key clear the
// placeholder so no marker leaks into the final message.
func (service *Service) Prepare(executionContext context.Context, options PreparationOptions) error {
	configuration := options.Configuration.sanitize()

	branchName, branchError := service.repository.CurrentBranch(executionContext, options.WorkingDirectory)
	if branchError != nil {
		return branchError
	}

	issueKey, keyFound := issue.ExtractKey(branchName)

	substitution := msgfile.NewSubstitution(configuration.PlaceholderToken, configuration.BackupSuffix)
	if applyError := substitution.Apply(options.MessageFilePath, issueKey); applyError != nil {
		return applyError
	}

	if keyFound {
		service.logger.Info(logMessageKeyAppliedConstant,
			zap.String(logFieldBranchConstant, branchName),
			zap.String(logFieldIssueKeyConstant, issueKey),
			zap.String(logFieldMessagePathConstant, options.MessageFilePath))
		return nil
	}

	service.logger.Info(logMessageKeyAbsentConstant,
		zap.String(logFieldBranchConstant, branchName),
		zap.String(logFieldMessagePathConstant, options.MessageFilePath))
	return nil
}
