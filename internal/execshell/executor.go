package execshell

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor requires a configured logger"
	commandRunnerNotConfiguredMessageConstant = "shell executor requires a configured command runner"
	commandNameMissingMessageConstant         = "shell command requires a command name"
	logFieldCommandNameConstant               = "command_name"
	logFieldCommandArgumentsConstant          = "command_arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
)

// CommandName identifies the executable invoked by a shell command.
type CommandName string

// Supported executables.
const (
	CommandGit CommandName = "git"
)

// CommandDetails captures the arguments and execution environment for a shell command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand couples an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult describes the observable outcome of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CombinedOutput concatenates standard output and standard error in arrival order.
func (result ExecutionResult) CombinedOutput() string {
	var builder strings.Builder
	builder.WriteString(result.StandardOutput)
	builder.WriteString(result.StandardError)
	return builder.String()
}

// CommandRunner executes shell commands and reports their results.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// Sentinel errors reported during executor construction.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	ErrCommandNameMissing         = errors.New(commandNameMissingMessageConstant)
)

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including its exit code and standard error.
func (failedError CommandFailedError) Error() string {
	return CommandMessageFormatter{}.BuildFailureMessage(failedError.Command, failedError.Result)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return CommandMessageFormatter{}.BuildExecutionFailureMessage(executionError.Command, executionError.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As inspection.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor runs shell commands with structured logging and observer notifications.
type ShellExecutor struct {
	logger               *zap.Logger
	commandRunner        CommandRunner
	messageFormatter     CommandMessageFormatter
	commandEventObserver CommandEventObserver
	humanReadableLogging bool
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, humanReadableLogging ...bool) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	humanReadable := false
	if len(humanReadableLogging) > 0 {
		humanReadable = humanReadableLogging[0]
	}

	return &ShellExecutor{
		logger:               logger,
		commandRunner:        commandRunner,
		messageFormatter:     CommandMessageFormatter{},
		commandEventObserver: noopCommandEventObserver{},
		humanReadableLogging: humanReadable,
	}, nil
}

// SetCommandEventObserver registers an observer for command lifecycle events.
func (executor *ShellExecutor) SetCommandEventObserver(observer CommandEventObserver) {
	if executor == nil {
		return
	}
	if observer == nil {
		executor.commandEventObserver = noopCommandEventObserver{}
		return
	}
	executor.commandEventObserver = observer
}

// ExecuteGit runs a git command with the supplied details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteLinter runs the configured lint tool with the supplied details.
func (executor *ShellExecutor) ExecuteLinter(executionContext context.Context, linterName string, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandName(strings.TrimSpace(linterName)), Details: details})
}

// Execute runs the provided command, logging lifecycle events and translating failures into typed errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(strings.TrimSpace(string(command.Name))) == 0 {
		return ExecutionResult{}, ErrCommandNameMissing
	}

	executor.commandEventObserver.CommandStarted(command)
	executor.logger.Info(executor.messageFormatter.BuildStartedMessage(command), executor.structuredCommandFields(command)...)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.commandEventObserver.CommandExecutionFailed(command, runError)
		executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, runError), executor.structuredCommandFields(command)...)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	if executionResult.ExitCode != 0 {
		executor.commandEventObserver.CommandCompleted(command, executionResult)
		executor.logger.Warn(executor.messageFormatter.BuildFailureMessage(command, executionResult), executor.structuredResultFields(command, executionResult)...)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.commandEventObserver.CommandCompleted(command, executionResult)
	executor.logger.Info(executor.messageFormatter.BuildSuccessMessage(command, executionResult), executor.structuredResultFields(command, executionResult)...)

	return executionResult, nil
}

func (executor *ShellExecutor) structuredCommandFields(command ShellCommand) []zap.Field {
	if executor.humanReadableLogging {
		return nil
	}
	return []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}
}

func (executor *ShellExecutor) structuredResultFields(command ShellCommand, result ExecutionResult) []zap.Field {
	if executor.humanReadableLogging {
		return nil
	}
	return append(executor.structuredCommandFields(command), zap.Int(logFieldExitCodeConstant, result.ExitCode))
}
