package lintgate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/temirov/hookx/internal/execshell"
)

const (
	loggerRequiredMessageConstant     = "lint gate requires a configured logger"
	repositoryRequiredMessageConstant = "lint gate requires a configured repository reader"
	executorRequiredMessageConstant   = "lint gate requires a configured linter executor"
	lintFindingsMessageConstant       = "lint findings block the commit"
	gateSkippedTemplateConstant       = "No staged files require %s; commit allowed\n"
	gatePassedTemplateConstant        = "%s reported no findings; commit allowed\n"
	gateRejectedBannerConstant        = "COMMIT REJECTED: resolve the lint findings above and stage the fixes\n"
	logMessageGateSkippedConstant     = "no staged files matched the lint gate"
	logMessageGatePassedConstant      = "lint gate passed"
	logMessageGateRejectedConstant    = "lint gate rejected the commit"
	logFieldLinterConstant            = "linter"
	logFieldCandidateCountConstant    = "candidate_count"
)

// Sentinel errors reported by the gate.
var (
	ErrLoggerNotConfigured     = errors.New(loggerRequiredMessageConstant)
	ErrRepositoryNotConfigured = errors.New(repositoryRequiredMessageConstant)
	ErrExecutorNotConfigured   = errors.New(executorRequiredMessageConstant)
	ErrLintFindings            = errors.New(lintFindingsMessageConstant)
)

// RepositoryReader exposes the repository queries the gate depends on.
type RepositoryReader interface {
	TopLevelDirectory(executionContext context.Context, workingDirectory string) (string, error)
	StagedFiles(executionContext context.Context, workingDirectory string) ([]string, error)
}

// LinterExecutor runs the configured lint tool.
type LinterExecutor interface {
	ExecuteLinter(executionContext context.Context, linterName string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GateOptions parameterizes a single gate run.
type GateOptions struct {
	WorkingDirectory string
	Configuration    CommandConfiguration
}

// Service evaluates staged files against the configured linter.
type Service struct {
	logger         *zap.Logger
	repository     RepositoryReader
	linterExecutor LinterExecutor
	outputWriter   io.Writer
	passStyle      *color.Color
	failureStyle   *color.Color
}

// NewService validates dependencies and constructs a gate Service. A nil
// output writer falls back to standard output.
func NewService(logger *zap.Logger, repository RepositoryReader, linterExecutor LinterExecutor, outputWriter io.Writer) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if repository == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if linterExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if outputWriter == nil {
		outputWriter = os.Stdout
	}

	return &Service{
		logger:         logger,
		repository:     repository,
		linterExecutor: linterExecutor,
		outputWriter:   outputWriter,
		passStyle:      color.New(color.FgGreen),
		failureStyle:   color.New(color.FgRed, color.Bold),
	}, nil
}

// Run inspects the staged files and invokes the linter when any match the
// configured extensions. It returns ErrLintFindings when the linter reports
// findings so callers can exit non-zero without extra diagnostics.
func (service *Service) Run(executionContext context.Context, options GateOptions) error {
	configuration := options.Configuration.sanitize()

	repositoryRoot, rootError := service.repository.TopLevelDirectory(executionContext, options.WorkingDirectory)
	if rootError != nil {
		return rootError
	}

	policy, policyFound, policyError := LoadPolicy(repositoryRoot)
	if policyError != nil {
		return policyError
	}
	if policyFound {
		configuration = policy.apply(configuration).sanitize()
	}

	stagedFiles, stagedError := service.repository.StagedFiles(executionContext, repositoryRoot)
	if stagedError != nil {
		return stagedError
	}

	lintCandidates := filterByExtension(stagedFiles, configuration.FileExtensions)
	if len(lintCandidates) == 0 {
		service.logger.Info(logMessageGateSkippedConstant, zap.String(logFieldLinterConstant, configuration.LinterName))
		service.passStyle.Fprintf(service.outputWriter, gateSkippedTemplateConstant, configuration.LinterName)
		return nil
	}

	linterArguments := append(append([]string{}, configuration.LinterArguments...), lintCandidates...)
	executionResult, executionError := service.linterExecutor.ExecuteLinter(executionContext, configuration.LinterName, execshell.CommandDetails{
		Arguments:        linterArguments,
		WorkingDirectory: repositoryRoot,
	})

	linterOutput := executionResult.CombinedOutput()
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if !errors.As(executionError, &failedError) {
			return executionError
		}
		linterOutput = failedError.Result.CombinedOutput()
	}

	if strings.Contains(linterOutput, configuration.SuccessMarker) {
		service.logger.Info(logMessageGatePassedConstant,
			zap.String(logFieldLinterConstant, configuration.LinterName),
			zap.Int(logFieldCandidateCountConstant, len(lintCandidates)))
		service.passStyle.Fprintf(service.outputWriter, gatePassedTemplateConstant, configuration.LinterName)
		return nil
	}

	service.logger.Warn(logMessageGateRejectedConstant,
		zap.String(logFieldLinterConstant, configuration.LinterName),
		zap.Int(logFieldCandidateCountConstant, len(lintCandidates)))
	fmt.Fprint(service.outputWriter, linterOutput)
	service.failureStyle.Fprint(service.outputWriter, gateRejectedBannerConstant)
	return ErrLintFindings
}

func filterByExtension(stagedFiles []string, fileExtensions []string) []string {
	candidates := make([]string, 0, len(stagedFiles))
	for _, stagedFile := range stagedFiles {
		extension := strings.ToLower(filepath.Ext(stagedFile))
		for _, allowedExtension := range fileExtensions {
			if extension == allowedExtension {
				candidates = append(candidates, stagedFile)
				break
			}
		}
	}
	return candidates
}
