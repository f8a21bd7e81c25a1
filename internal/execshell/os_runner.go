package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
	"time"
)

const environmentAssignmentSeparatorConstant = "="

// CancellationWaitDelay bounds how long Run waits for an interrupted command
// and any process still holding its output pipes.
const CancellationWaitDelay = 2 * time.Second

// OSCommandRunner executes commands as child processes of the current process.
// Commands without a working directory inherit the process working directory.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the supplied command and waits for it to exit. Cancelling
// executionContext sends the command an interrupt; the process is killed once
// CancellationWaitDelay elapses.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	executable.Dir = command.Details.WorkingDirectory
	executable.Cancel = func() error {
		return executable.Process.Signal(os.Interrupt)
	}
	executable.WaitDelay = CancellationWaitDelay

	if len(command.Details.EnvironmentVariables) > 0 {
		executable.Env = append(executable.Environ(), formatEnvironmentAssignments(command.Details.EnvironmentVariables)...)
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	exitCode := 0
	if runError := executable.Run(); runError != nil {
		var exitError *exec.ExitError
		if !errors.As(runError, &exitError) {
			return ExecutionResult{}, runError
		}
		exitCode = exitError.ExitCode()
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       exitCode,
	}, nil
}

func formatEnvironmentAssignments(environmentVariables map[string]string) []string {
	environmentKeys := make([]string, 0, len(environmentVariables))
	for environmentKey := range environmentVariables {
		environmentKeys = append(environmentKeys, environmentKey)
	}
	sort.Strings(environmentKeys)

	assignments := make([]string, 0, len(environmentKeys))
	for _, environmentKey := range environmentKeys {
		assignments = append(assignments, environmentKey+environmentAssignmentSeparatorConstant+environmentVariables[environmentKey])
	}
	return assignments
}
