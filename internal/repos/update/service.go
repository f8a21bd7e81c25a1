package update

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/repos/shared"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	fileSystemMissingMessageConstant            = "filesystem not configured"
	directoryScopeMissingMessageConstant        = "directory scope not configured"
	commandErrorTemplateConstant                = "update of %s (%s) failed running %s: %v"
	flavorErrorTemplateConstant                 = "unable to determine flavor of %s: %w"
	flavorDetectedLogMessageConstant            = "repository flavor detected"
	logFieldRepositoryConstant                  = "repository"
	logFieldFlavorConstant                      = "flavor"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrDirectoryScopeNotConfigured indicates the directory scope dependency was missing.
var ErrDirectoryScopeNotConfigured = errors.New(directoryScopeMissingMessageConstant)

// CommandError reports the first command that failed while updating a repository.
type CommandError struct {
	RepositoryPath string
	Flavor         Flavor
	Command        string
	Cause          error
}

// Error names the repository, its flavor, and the failing command.
func (commandError CommandError) Error() string {
	return fmt.Sprintf(commandErrorTemplateConstant, commandError.RepositoryPath, commandError.Flavor, commandError.Command, commandError.Cause)
}

// Unwrap exposes the execution failure.
func (commandError CommandError) Unwrap() error {
	return commandError.Cause
}

// Dependencies enumerates the collaborators required for repository updates.
type Dependencies struct {
	GitExecutor    shared.GitExecutor
	FileSystem     shared.FileSystem
	DirectoryScope shared.DirectoryScope
	Logger         *zap.Logger
}

// Service updates repositories according to their flavor.
type Service struct {
	executor       shared.GitExecutor
	fileSystem     shared.FileSystem
	directoryScope shared.DirectoryScope
	logger         *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.DirectoryScope == nil {
		return nil, ErrDirectoryScopeNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		executor:       dependencies.GitExecutor,
		fileSystem:     dependencies.FileSystem,
		directoryScope: dependencies.DirectoryScope,
		logger:         logger,
	}, nil
}

// Update enters the repository, detects its flavor, and runs the matching strategy.
func (service *Service) Update(executionContext context.Context, repository shared.RepositoryRoot) error {
	return service.directoryScope.Within(repository.Path(), func() error {
		flavor, flavorError := DetectFlavor(service.fileSystem)
		if flavorError != nil {
			return fmt.Errorf(flavorErrorTemplateConstant, repository.Path(), flavorError)
		}
		service.logger.Debug(
			flavorDetectedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repository.Path()),
			zap.String(logFieldFlavorConstant, string(flavor)),
		)

		strategy, strategyError := StrategyFor(flavor)
		if strategyError != nil {
			return strategyError
		}

		for _, details := range strategy.Commands() {
			if executionError := service.executeGit(executionContext, repository, details); executionError != nil {
				return CommandError{
					RepositoryPath: repository.Path(),
					Flavor:         flavor,
					Command:        execshell.ShellCommand{Name: execshell.CommandGit, Details: details}.Label(),
					Cause:          executionError,
				}
			}
		}
		return nil
	})
}

func (service *Service) executeGit(executionContext context.Context, repository shared.RepositoryRoot, details execshell.CommandDetails) error {
	details.RepositoryPath = repository.Path()
	if details.EnvironmentVariables == nil {
		details.EnvironmentVariables = map[string]string{}
	}
	details.EnvironmentVariables[gitTerminalPromptEnvironmentNameConstant] = gitTerminalPromptEnvironmentDisableConstant
	_, executionError := service.executor.ExecuteGit(executionContext, details)
	return executionError
}
