// Package verify confirms that repositories have the integration branch checked out.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/treesync/internal/repos/shared"
)

const (
	branchReaderMissingMessageConstant   = "branch reader not configured"
	directoryScopeMissingMessageConstant = "directory scope not configured"
	branchMismatchErrorTemplateConstant  = "repository at %s not on %s branch (on '%s' instead)"
	branchQueryErrorTemplateConstant     = "branch check failed for %s: %w"
)

// ErrBranchReaderNotConfigured indicates the service was constructed without a branch reader.
var ErrBranchReaderNotConfigured = errors.New(branchReaderMissingMessageConstant)

// ErrDirectoryScopeNotConfigured indicates the service was constructed without a directory scope.
var ErrDirectoryScopeNotConfigured = errors.New(directoryScopeMissingMessageConstant)

// BranchMismatchError reports a repository whose checked-out branch differs from the integration branch.
type BranchMismatchError struct {
	RepositoryPath string
	ExpectedBranch string
	ActualBranch   string
}

// Error names the repository and both branches.
func (mismatch BranchMismatchError) Error() string {
	return fmt.Sprintf(branchMismatchErrorTemplateConstant, mismatch.RepositoryPath, mismatch.ExpectedBranch, mismatch.ActualBranch)
}

// Dependencies enumerates the collaborators required for branch verification.
type Dependencies struct {
	BranchReader   shared.BranchReader
	DirectoryScope shared.DirectoryScope
}

// Service checks the current branch of repositories.
type Service struct {
	branchReader      shared.BranchReader
	directoryScope    shared.DirectoryScope
	integrationBranch string
}

// NewService constructs a Service expecting integrationBranch. An empty branch selects master.
func NewService(dependencies Dependencies, integrationBranch string) (*Service, error) {
	if dependencies.BranchReader == nil {
		return nil, ErrBranchReaderNotConfigured
	}
	if dependencies.DirectoryScope == nil {
		return nil, ErrDirectoryScopeNotConfigured
	}

	trimmedIntegrationBranch := strings.TrimSpace(integrationBranch)
	if len(trimmedIntegrationBranch) == 0 {
		trimmedIntegrationBranch = shared.DefaultIntegrationBranchConstant
	}

	return &Service{
		branchReader:      dependencies.BranchReader,
		directoryScope:    dependencies.DirectoryScope,
		integrationBranch: trimmedIntegrationBranch,
	}, nil
}

// IntegrationBranch returns the branch repositories must have checked out.
func (service *Service) IntegrationBranch() string {
	return service.integrationBranch
}

// Validate enters the repository and returns BranchMismatchError unless it is on the integration branch.
func (service *Service) Validate(executionContext context.Context, repository shared.RepositoryRoot) error {
	return service.directoryScope.Within(repository.Path(), func() error {
		currentBranch, branchError := service.branchReader.GetCurrentBranch(executionContext, repository.Path())
		if branchError != nil {
			return fmt.Errorf(branchQueryErrorTemplateConstant, repository.Path(), branchError)
		}
		if currentBranch != service.integrationBranch {
			return BranchMismatchError{
				RepositoryPath: repository.Path(),
				ExpectedBranch: service.integrationBranch,
				ActualBranch:   currentBranch,
			}
		}
		return nil
	})
}
