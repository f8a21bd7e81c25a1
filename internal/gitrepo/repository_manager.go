package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/repos/shared"
)

const (
	gitRevParseSubcommandConstant      = "rev-parse"
	gitAbbreviatedReferenceFlag        = "--abbrev-ref"
	gitHeadReferenceConstant           = "HEAD"
	executorMissingMessageConstant     = "repository manager requires a git executor"
	currentBranchErrorTemplateConstant = "unable to determine current branch of %s: %w"
	emptyBranchMessageConstant         = "git reported no branch name"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without a git executor.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrEmptyBranchName indicates git answered the branch query with no output.
var ErrEmptyBranchName = errors.New(emptyBranchMessageConstant)

// RepositoryManager runs read-only git queries.
type RepositoryManager struct {
	executor shared.GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around executor.
func NewRepositoryManager(executor shared.GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// GetCurrentBranch reports the branch checked out in the current working
// directory. repositoryPath names the repository in errors; callers are expected
// to have entered the repository directory already.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, currentBranchCommandDetails(repositoryPath))
	if executionError != nil {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, repositoryPath, executionError)
	}

	outputLines := executionResult.OutputLines()
	if len(outputLines) == 0 {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, repositoryPath, ErrEmptyBranchName)
	}

	branchName := strings.TrimSpace(outputLines[0])
	if len(branchName) == 0 {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, repositoryPath, ErrEmptyBranchName)
	}
	return branchName, nil
}

func currentBranchCommandDetails(repositoryPath string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:      []string{gitRevParseSubcommandConstant, gitAbbreviatedReferenceFlag, gitHeadReferenceConstant},
		RepositoryPath: repositoryPath,
	}
}
