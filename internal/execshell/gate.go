package execshell

import (
	"context"
	"errors"
)

const gitExecutorNotConfiguredMessageConstant = "gated executor requires a git executor"

// ErrGitExecutorNotConfigured indicates the gated executor was constructed without a delegate.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessageConstant)

// GitCommandExecutor runs git commands.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error)
}

// ExecutionMode selects how mutating commands are carried out.
type ExecutionMode struct {
	DryRun bool
	Echo   bool
}

// AnnouncesCommands reports whether commands are written to diagnostic output before running.
func (mode ExecutionMode) AnnouncesCommands() bool {
	return mode.DryRun || mode.Echo
}

// GatedExecutor applies an ExecutionMode to git commands issued through it.
// In dry-run mode commands are announced and skipped, in echo mode they are
// announced and executed, and otherwise they run silently.
type GatedExecutor struct {
	delegate  GitCommandExecutor
	mode      ExecutionMode
	announcer CommandAnnouncer
}

// NewGatedExecutor wraps delegate with the provided mode. A nil announcer discards announcements.
func NewGatedExecutor(delegate GitCommandExecutor, mode ExecutionMode, announcer CommandAnnouncer) (*GatedExecutor, error) {
	if delegate == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &GatedExecutor{delegate: delegate, mode: mode, announcer: announcer}, nil
}

// Mode returns the execution mode applied by the executor.
func (executor *GatedExecutor) Mode() ExecutionMode {
	return executor.mode
}

// ExecuteGit announces and runs the git command according to the execution mode.
// Skipped commands report an empty successful result.
func (executor *GatedExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	if executor.mode.AnnouncesCommands() && executor.announcer != nil {
		executor.announcer.AnnounceCommand(ShellCommand{Name: CommandGit, Details: details})
	}
	if executor.mode.DryRun {
		return ExecutionResult{}, nil
	}
	return executor.delegate.ExecuteGit(executionContext, details)
}
