// Package update brings repositories up to date with their upstream.
//
// A repository is either a plain git clone, updated with fetch followed by
// rebase, or a git-svn bridge, recognised by the svn entry inside its metadata
// directory and updated with fetch followed by a local svn rebase. Service runs
// the strategy for the detected flavor inside the repository directory and
// aborts on the first failing command.
package update
