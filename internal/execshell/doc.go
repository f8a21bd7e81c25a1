// Package execshell runs external tools on behalf of treesync.
//
// ShellExecutor wraps a CommandRunner with lifecycle logging and typed errors,
// OSCommandRunner is the os/exec backed runner, and GatedExecutor applies the
// dry-run and echo execution modes to mutating git commands.
package execshell
