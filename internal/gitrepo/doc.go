// Package gitrepo contains helpers for interrogating Git repositories.
//
// It exposes RepositoryManager, which answers read-only questions such as the
// checked-out branch of the repository in the current working directory.
// Queries never mutate repository state and therefore run in every execution
// mode, dry-run included.
package gitrepo
