package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	gitCommandNameConstant                = "git"
	loggerNotConfiguredMessageConstant    = "shell executor logger not configured"
	commandRunnerNotConfiguredMessage     = "shell executor command runner not configured"
	commandFailedErrorTemplateConstant    = "%s exited with code %d"
	commandFailedOutputTemplateConstant   = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant = "%s could not be executed: %v"
	commandLabelSeparatorConstant         = " "
	outputLineSeparatorConstant           = "\n"
	logFieldCommandConstant               = "command"
	logFieldArgumentsConstant             = "arguments"
	logFieldWorkingDirectoryConstant      = "working_directory"
	logFieldRepositoryConstant            = "repository"
	logFieldExitCodeConstant              = "exit_code"
	logFieldStandardErrorConstant         = "standard_error"
	carriageReturnConstant                = "\r"
)

// CommandName identifies an executable invoked by the shell executor.
type CommandName string

// CommandGit runs the git executable.
const CommandGit CommandName = CommandName(gitCommandNameConstant)

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessage)

// CommandDetails describes the arguments and environment of a single invocation.
// RepositoryPath names the repository the command acts on in command events; it
// does not change where the command runs.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	RepositoryPath       string
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// Label renders the command the way an operator would type it.
func (command ShellCommand) Label() string {
	labelParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(labelParts, commandLabelSeparatorConstant)
}

// ExecutionResult captures the observable results of a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// OutputLines splits standard output into lines without trailing line terminators.
func (result ExecutionResult) OutputLines() []string {
	trimmedOutput := strings.TrimRight(result.StandardOutput, outputLineSeparatorConstant)
	if len(trimmedOutput) == 0 {
		return nil
	}
	rawLines := strings.Split(trimmedOutput, outputLineSeparatorConstant)
	lines := make([]string, 0, len(rawLines))
	for _, rawLine := range rawLines {
		lines = append(lines, strings.TrimSuffix(rawLine, carriageReturnConstant))
	}
	return lines
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran and exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command and its exit code, followed by its standard
// error and standard output. git rebase reports conflicts on standard output.
func (failure CommandFailedError) Error() string {
	capturedOutput := make([]string, 0, 2)
	for _, stream := range []string{failure.Result.StandardError, failure.Result.StandardOutput} {
		if trimmedStream := strings.TrimSpace(stream); len(trimmedStream) > 0 {
			capturedOutput = append(capturedOutput, trimmedStream)
		}
	}
	if len(capturedOutput) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.Label(), failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedOutputTemplateConstant, failure.Command.Label(), failure.Result.ExitCode, strings.Join(capturedOutput, outputLineSeparatorConstant))
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.Label(), failure.Cause)
}

// Unwrap exposes the underlying runner error.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs commands through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observer  CommandEventObserver
	formatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor that records command events in structured logs.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, nil)
}

// NewShellExecutorWithObserver constructs a ShellExecutor that forwards command events to observer
// instead of the structured logger. A nil observer selects structured logging.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	executor := &ShellExecutor{logger: logger, runner: runner, formatter: CommandMessageFormatter{}}
	if observer == nil {
		observer = structuredCommandEventLogger{logger: logger, formatter: executor.formatter}
	}
	executor.observer = observer
	return executor, nil
}

// Execute runs the supplied command and converts non-zero exits into CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

type structuredCommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandMessageFormatter
}

func (eventLogger structuredCommandEventLogger) CommandStarted(command ShellCommand) {
	eventLogger.logger.Debug(
		eventLogger.formatter.BuildStartedMessage(command),
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
		zap.String(logFieldRepositoryConstant, command.Details.RepositoryPath),
	)
}

func (eventLogger structuredCommandEventLogger) CommandCompleted(command ShellCommand, result ExecutionResult) {
	if result.ExitCode == 0 {
		eventLogger.logger.Debug(
			eventLogger.formatter.BuildSuccessMessage(command, result),
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.String(logFieldRepositoryConstant, command.Details.RepositoryPath),
			zap.Int(logFieldExitCodeConstant, result.ExitCode),
		)
		return
	}
	eventLogger.logger.Info(
		eventLogger.formatter.BuildFailureMessage(command, result),
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.String(logFieldRepositoryConstant, command.Details.RepositoryPath),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldStandardErrorConstant, strings.TrimSpace(result.StandardError)),
	)
}

func (eventLogger structuredCommandEventLogger) CommandExecutionFailed(command ShellCommand, failure error) {
	eventLogger.logger.Info(
		eventLogger.formatter.BuildExecutionFailureMessage(command, failure),
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.String(logFieldRepositoryConstant, command.Details.RepositoryPath),
		zap.Error(failure),
	)
}
