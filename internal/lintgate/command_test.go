package lintgate_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/hookx/internal/execshell"
	"github.com/temirov/hookx/internal/lintgate"
	"github.com/temirov/hookx/internal/utils"
)

func TestCommandBuilderBuildMetadata(testInstance *testing.T) {
	builder := &lintgate.CommandBuilder{}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "pre-commit", command.Use)

	linterFlag := command.Flags().Lookup("linter")
	require.NotNil(testInstance, linterFlag)
	require.Equal(testInstance, "ruff", linterFlag.DefValue)

	require.NotNil(testInstance, command.Flags().Lookup("extensions"))
}

func TestCommandRunUsesFlagOverrides(testInstance *testing.T) {
	color.NoColor = true

	repository := &stubRepository{topLevelDirectory: testInstance.TempDir(), stagedFiles: []string{"query.sql"}}
	executor := &stubLinterExecutor{result: execshell.ExecutionResult{StandardOutput: cleanLinterOutputConstant}}

	builder := &lintgate.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		Repository:     repository,
		LinterExecutor: executor,
		OutputWriter:   &bytes.Buffer{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetContext(context.Background())
	command.SetArgs([]string{"--linter", "sqlfluff", "--extensions", ".sql"})

	require.NoError(testInstance, command.Execute())
	require.True(testInstance, executor.invoked)
	require.Equal(testInstance, "sqlfluff", executor.recordedLinter)
}

func TestCommandRunLogsConfigurationFile(testInstance *testing.T) {
	color.NoColor = true

	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	repository := &stubRepository{topLevelDirectory: testInstance.TempDir()}
	executor := &stubLinterExecutor{}

	builder := &lintgate.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.New(observedCore) },
		Repository:     repository,
		LinterExecutor: executor,
		OutputWriter:   &bytes.Buffer{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	accessor := utils.NewCommandContextAccessor()
	command.SetContext(accessor.WithConfigurationFilePath(context.Background(), "/workspace/config.yaml"))
	command.SetArgs([]string{})

	require.NoError(testInstance, command.Execute())

	loggedEntries := observedLogs.FilterMessage("gate configuration loaded").All()
	require.Len(testInstance, loggedEntries, 1)
	require.Equal(testInstance, "/workspace/config.yaml", loggedEntries[0].ContextMap()["config_file"])
}

func TestCommandRunReportsLintFindings(testInstance *testing.T) {
	color.NoColor = true

	repository := &stubRepository{topLevelDirectory: testInstance.TempDir(), stagedFiles: []string{"main.py"}}
	executor := &stubLinterExecutor{
		executionError: execshell.CommandFailedError{
			Result: execshell.ExecutionResult{StandardOutput: findingsLinterOutputConstant, ExitCode: 1},
		},
	}
	outputBuffer := &bytes.Buffer{}

	builder := &lintgate.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		Repository:     repository,
		LinterExecutor: executor,
		OutputWriter:   outputBuffer,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetContext(context.Background())
	command.SetArgs([]string{})
	command.SilenceErrors = true
	command.SilenceUsage = true

	executionError := command.Execute()
	require.ErrorIs(testInstance, executionError, lintgate.ErrLintFindings)
	require.Contains(testInstance, outputBuffer.String(), findingsLinterOutputConstant)
}
