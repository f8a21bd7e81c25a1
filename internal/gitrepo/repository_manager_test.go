package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/gitrepo"
)

const (
	repositoryPathConstant = "llvm/tools/clang"
	masterBranchConstant   = "master"
)

type recordingGitExecutor struct {
	result   execshell.ExecutionResult
	err      error
	recorded []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	return executor.result, executor.err
}

func TestGetCurrentBranch(testFramework *testing.T) {
	executionFailure := errors.New("git missing")

	testCases := []struct {
		name           string
		result         execshell.ExecutionResult
		executionError error
		expectedBranch string
		expectedError  error
	}{
		{
			name:           "branch_reported",
			result:         execshell.ExecutionResult{StandardOutput: "master\n"},
			expectedBranch: masterBranchConstant,
		},
		{
			name:           "first_line_used",
			result:         execshell.ExecutionResult{StandardOutput: "feature-x\r\nwarning: ignored\n"},
			expectedBranch: "feature-x",
		},
		{
			name:          "empty_output",
			result:        execshell.ExecutionResult{StandardOutput: "\n"},
			expectedError: gitrepo.ErrEmptyBranchName,
		},
		{
			name:           "execution_failure",
			executionError: executionFailure,
			expectedError:  executionFailure,
		},
	}

	for _, testCase := range testCases {
		testFramework.Run(testCase.name, func(testFramework *testing.T) {
			executor := &recordingGitExecutor{result: testCase.result, err: testCase.executionError}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testFramework, creationError)

			branch, branchError := manager.GetCurrentBranch(context.Background(), repositoryPathConstant)

			require.Len(testFramework, executor.recorded, 1)
			require.Equal(testFramework, []string{"rev-parse", "--abbrev-ref", "HEAD"}, executor.recorded[0].Arguments)
			require.Empty(testFramework, executor.recorded[0].WorkingDirectory)
			require.Equal(testFramework, repositoryPathConstant, executor.recorded[0].RepositoryPath)

			if testCase.expectedError != nil {
				require.ErrorIs(testFramework, branchError, testCase.expectedError)
				require.Contains(testFramework, branchError.Error(), repositoryPathConstant)
				return
			}
			require.NoError(testFramework, branchError)
			require.Equal(testFramework, testCase.expectedBranch, branch)
		})
	}
}

func TestNewRepositoryManagerRequiresExecutor(testFramework *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(testFramework, creationError, gitrepo.ErrGitExecutorNotConfigured)
	require.Nil(testFramework, manager)
}
