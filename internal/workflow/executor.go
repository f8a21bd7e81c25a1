package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/treesync/internal/branches/verify"
	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/gitrepo"
	"github.com/temirov/treesync/internal/repos/shared"
	"github.com/temirov/treesync/internal/repos/update"
	"github.com/temirov/treesync/internal/repos/workdir"
)

const (
	workflowExecutionErrorTemplateConstant = "workflow operation %s failed: %w"
	workflowExecutorDependenciesMessage    = "workflow executor requires repository discovery, git, and filesystem dependencies"
	workflowRepositoryLoadErrorTemplate    = "failed to discover repositories: %w"
	workflowServiceSetupErrorTemplate      = "failed to prepare repository services: %w"
	repositoriesDiscoveredLogMessage       = "repositories discovered"
	logFieldRepositoryCountConstant        = "repository_count"
	logFieldStartDirectoryConstant         = "start_directory"
	currentDirectoryConstant               = "."
)

// ErrDependenciesNotConfigured indicates the executor lacks a required collaborator.
var ErrDependenciesNotConfigured = errors.New(workflowExecutorDependenciesMessage)

// DiagnosticAnnouncer receives the commands and directory changes announced in echo or dry-run mode.
type DiagnosticAnnouncer interface {
	execshell.CommandAnnouncer
	workdir.DirectoryChangeAnnouncer
}

// Dependencies configures shared collaborators for workflow execution.
type Dependencies struct {
	Logger               *zap.Logger
	RepositoryDiscoverer shared.RepositoryDiscoverer
	GitExecutor          shared.GitExecutor
	FileSystem           shared.FileSystem
	Diagnostics          DiagnosticAnnouncer
}

// Executor coordinates workflow operation execution.
type Executor struct {
	operations   []Operation
	dependencies Dependencies
}

// NewExecutor constructs an Executor instance.
func NewExecutor(operations []Operation, dependencies Dependencies) *Executor {
	return &Executor{operations: append([]Operation{}, operations...), dependencies: dependencies}
}

// Execute discovers the repositories below startDirectory and runs every operation over them in order.
func (executor *Executor) Execute(executionContext context.Context, startDirectory string, configuration RunConfiguration) error {
	if executor.dependencies.RepositoryDiscoverer == nil || executor.dependencies.GitExecutor == nil || executor.dependencies.FileSystem == nil {
		return ErrDependenciesNotConfigured
	}

	logger := executor.dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedStartDirectory := strings.TrimSpace(startDirectory)
	if len(trimmedStartDirectory) == 0 {
		trimmedStartDirectory = currentDirectoryConstant
	}

	repositories, discoveryError := executor.dependencies.RepositoryDiscoverer.DiscoverNested(trimmedStartDirectory)
	if discoveryError != nil {
		return fmt.Errorf(workflowRepositoryLoadErrorTemplate, discoveryError)
	}
	logger.Debug(
		repositoriesDiscoveredLogMessage,
		zap.String(logFieldStartDirectoryConstant, trimmedStartDirectory),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
	)

	environment, environmentError := executor.buildEnvironment(logger, configuration)
	if environmentError != nil {
		return fmt.Errorf(workflowServiceSetupErrorTemplate, environmentError)
	}

	state := &State{StartDirectory: trimmedStartDirectory, Repositories: repositories}
	for operationIndex := range executor.operations {
		operation := executor.operations[operationIndex]
		if operation == nil {
			continue
		}
		if executeError := operation.Execute(executionContext, environment, state); executeError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), executeError)
		}
	}

	return nil
}

func (executor *Executor) buildEnvironment(logger *zap.Logger, configuration RunConfiguration) (*Environment, error) {
	executionMode := configuration.ExecutionMode()

	var commandAnnouncer execshell.CommandAnnouncer
	var directoryAnnouncer workdir.DirectoryChangeAnnouncer
	if executionMode.AnnouncesCommands() && executor.dependencies.Diagnostics != nil {
		commandAnnouncer = executor.dependencies.Diagnostics
		directoryAnnouncer = executor.dependencies.Diagnostics
	}

	directoryScope, scopeError := workdir.NewScope(executor.dependencies.FileSystem, directoryAnnouncer, logger)
	if scopeError != nil {
		return nil, scopeError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor.dependencies.GitExecutor)
	if managerError != nil {
		return nil, managerError
	}

	validator, validatorError := verify.NewService(
		verify.Dependencies{BranchReader: repositoryManager, DirectoryScope: directoryScope},
		configuration.ResolvedIntegrationBranch(),
	)
	if validatorError != nil {
		return nil, validatorError
	}

	gatedExecutor, gateError := execshell.NewGatedExecutor(executor.dependencies.GitExecutor, executionMode, commandAnnouncer)
	if gateError != nil {
		return nil, gateError
	}

	updater, updaterError := update.NewService(update.Dependencies{
		GitExecutor:    gatedExecutor,
		FileSystem:     executor.dependencies.FileSystem,
		DirectoryScope: directoryScope,
		Logger:         logger,
	})
	if updaterError != nil {
		return nil, updaterError
	}

	return &Environment{
		Validator: validator,
		Updater:   updater,
		Logger:    logger,
		DryRun:    executionMode.DryRun,
	}, nil
}
