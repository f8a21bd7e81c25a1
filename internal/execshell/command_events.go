package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that the command exited and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that prevented an exit status from being collected.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// CommandAnnouncer receives commands that are announced before execution in echo or dry-run mode.
type CommandAnnouncer interface {
	AnnounceCommand(command ShellCommand)
}
