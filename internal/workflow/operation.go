package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/treesync/internal/repos/shared"
)

// OperationType identifies supported workflow operations.
type OperationType string

// Supported workflow operations.
const (
	OperationTypeValidateBranches   OperationType = OperationType("validate-branches")
	OperationTypeUpdateRepositories OperationType = OperationType("update-repositories")
)

// Operation coordinates a single workflow step across repositories.
type Operation interface {
	Name() string
	Execute(executionContext context.Context, environment *Environment, state *State) error
}

// RepositoryValidator checks a repository before any repository is updated.
type RepositoryValidator interface {
	Validate(executionContext context.Context, repository shared.RepositoryRoot) error
}

// RepositoryUpdater brings a repository up to date with its upstream.
type RepositoryUpdater interface {
	Update(executionContext context.Context, repository shared.RepositoryRoot) error
}

// Environment exposes shared dependencies for workflow operations.
type Environment struct {
	Validator RepositoryValidator
	Updater   RepositoryUpdater
	Logger    *zap.Logger
	DryRun    bool
}

// State carries the repositories discovered for the run, deepest first.
type State struct {
	StartDirectory string
	Repositories   []shared.RepositoryRoot
}

// DefaultOperations returns the synchronization sequence: every repository is
// validated before any repository is updated.
func DefaultOperations() []Operation {
	return []Operation{&ValidateBranchesOperation{}, &UpdateRepositoriesOperation{}}
}
