package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitAbbrevRefFlagConstant          = "--abbrev-ref"
	gitShowTopLevelFlagConstant       = "--show-toplevel"
	gitPathFlagConstant               = "--git-path"
	gitHeadReferenceConstant          = "HEAD"
	gitDiffSubcommandNameConstant     = "diff"
	gitCachedFlagConstant             = "--cached"
	gitConfigSubcommandNameConstant   = "config"
	gitConfigUnsetFlagConstant        = "--unset"
)

const (
	gitCurrentBranchStartTemplateConstant            = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant          = "Current branch in %s is %s"
	gitCurrentBranchDetachedSuccessTemplateConstant  = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant          = "Failed to identify current branch in %s (exit code %d%s)"
	gitCurrentBranchExecutionFailureTemplateConstant = "Unable to identify current branch in %s: %s"
	gitTopLevelStartTemplateConstant                 = "Resolving repository root in %s"
	gitTopLevelSuccessTemplateConstant               = "Repository root in %s is %s"
	gitTopLevelFailureTemplateConstant               = "Failed to resolve repository root in %s (exit code %d%s)"
	gitTopLevelExecutionFailureTemplateConstant      = "Unable to resolve repository root in %s: %s"
	gitPathStartTemplateConstant                     = "Locating %s path in %s"
	gitPathSuccessTemplateConstant                   = "%s path in %s is %s"
	gitPathFailureTemplateConstant                   = "Failed to locate %s path in %s (exit code %d%s)"
	gitPathExecutionFailureTemplateConstant          = "Unable to locate %s path in %s: %s"
	gitStagedFilesStartTemplateConstant              = "Listing staged files in %s"
	gitStagedFilesSuccessTemplateConstant            = "Listed staged files in %s"
	gitStagedFilesFailureTemplateConstant            = "Failed to list staged files in %s (exit code %d%s)"
	gitStagedFilesExecutionFailureTemplateConstant   = "Unable to list staged files in %s: %s"
	gitConfigSetStartTemplateConstant                = "Setting local configuration %s in %s"
	gitConfigSetSuccessTemplateConstant              = "Set local configuration %s in %s"
	gitConfigSetFailureTemplateConstant              = "Failed to set local configuration %s in %s (exit code %d%s)"
	gitConfigSetExecutionFailureTemplateConstant     = "Unable to set local configuration %s in %s: %s"
	gitConfigUnsetStartTemplateConstant              = "Removing local configuration %s in %s"
	gitConfigUnsetSuccessTemplateConstant            = "Removed local configuration %s in %s"
	gitConfigUnsetFailureTemplateConstant            = "Failed to remove local configuration %s in %s (exit code %d%s)"
	gitConfigUnsetExecutionFailureTemplateConstant   = "Unable to remove local configuration %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit {
		return formatter.describeGitMessage(command, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitDiffSubcommandNameConstant:
		return formatter.describeGitDiffMessage(command, result, failure, stage)
	case gitConfigSubcommandNameConstant:
		return formatter.describeGitConfigMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitAbbrevRefFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			trimmed := strings.TrimSpace(result.StandardOutput)
			if strings.EqualFold(trimmed, gitHeadReferenceConstant) || len(trimmed) == 0 {
				return fmt.Sprintf(gitCurrentBranchDetachedSuccessTemplateConstant, workingDirectory)
			}
			return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, trimmed)
		case messageStageFailure:
			return fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCurrentBranchExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	if containsArgument(arguments, gitShowTopLevelFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitTopLevelStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitTopLevelSuccessTemplateConstant, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.StandardOutput)))
		case messageStageFailure:
			return fmt.Sprintf(gitTopLevelFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitTopLevelExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	if containsArgument(arguments, gitPathFlagConstant) {
		pathName := formatter.ensureValue(formatter.argumentAfterFlag(arguments, gitPathFlagConstant))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitPathStartTemplateConstant, pathName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitPathSuccessTemplateConstant, pathName, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.StandardOutput)))
		case messageStageFailure:
			return fmt.Sprintf(gitPathFailureTemplateConstant, pathName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitPathExecutionFailureTemplateConstant, pathName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitDiffMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if !containsArgument(command.Details.Arguments, gitCachedFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitStagedFilesStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitStagedFilesSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitStagedFilesFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitStagedFilesExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitConfigMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	configurationKey := formatter.ensureValue(formatter.extractConfigurationKey(arguments))

	if containsArgument(arguments, gitConfigUnsetFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitConfigUnsetStartTemplateConstant, configurationKey, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitConfigUnsetSuccessTemplateConstant, configurationKey, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitConfigUnsetFailureTemplateConstant, configurationKey, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitConfigUnsetExecutionFailureTemplateConstant, configurationKey, workingDirectory, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitConfigSetStartTemplateConstant, configurationKey, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitConfigSetSuccessTemplateConstant, configurationKey, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitConfigSetFailureTemplateConstant, configurationKey, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitConfigSetExecutionFailureTemplateConstant, configurationKey, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAfterFlag(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractConfigurationKey(arguments []string) string {
	for _, argument := range arguments[1:] {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
