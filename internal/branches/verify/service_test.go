package verify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treesync/internal/branches/verify"
	"github.com/temirov/treesync/internal/repos/shared"
)

const (
	topLevelMetadataPathConstant = ".git"
	nestedMetadataPathConstant   = "nested/.git"
	nestedRepositoryPathConstant = "nested"
	masterBranchConstant         = "master"
	featureBranchConstant        = "feature-x"
)

type recordingDirectoryScope struct {
	current string
	entered []string
	exited  []string
}

func (scope *recordingDirectoryScope) Within(directory string, action func() error) error {
	scope.entered = append(scope.entered, directory)
	scope.current = directory
	defer func() {
		scope.exited = append(scope.exited, directory)
		scope.current = ""
	}()
	return action()
}

type scopedBranchReader struct {
	scope    *recordingDirectoryScope
	branches map[string]string
	err      error
	queried  []string
}

func (reader *scopedBranchReader) GetCurrentBranch(_ context.Context, repositoryPath string) (string, error) {
	reader.queried = append(reader.queried, reader.scope.current)
	if reader.err != nil {
		return "", reader.err
	}
	return reader.branches[repositoryPath], nil
}

func mustRepositoryRoot(testFramework *testing.T, metadataPath string) shared.RepositoryRoot {
	testFramework.Helper()
	repository, repositoryError := shared.NewRepositoryRoot(metadataPath)
	require.NoError(testFramework, repositoryError)
	return repository
}

func TestValidate(testFramework *testing.T) {
	queryFailure := errors.New("rev-parse failed")

	testCases := []struct {
		name              string
		metadataPath      string
		integrationBranch string
		branches          map[string]string
		readerError       error
		expectedMismatch  *verify.BranchMismatchError
		expectedError     error
	}{
		{
			name:         "top_level_on_master",
			metadataPath: topLevelMetadataPathConstant,
			branches:     map[string]string{".": masterBranchConstant},
		},
		{
			name:         "top_level_on_feature_branch",
			metadataPath: topLevelMetadataPathConstant,
			branches:     map[string]string{".": featureBranchConstant},
			expectedMismatch: &verify.BranchMismatchError{
				RepositoryPath: ".",
				ExpectedBranch: masterBranchConstant,
				ActualBranch:   featureBranchConstant,
			},
		},
		{
			name:         "comparison_is_case_sensitive",
			metadataPath: nestedMetadataPathConstant,
			branches:     map[string]string{nestedRepositoryPathConstant: "Master"},
			expectedMismatch: &verify.BranchMismatchError{
				RepositoryPath: nestedRepositoryPathConstant,
				ExpectedBranch: masterBranchConstant,
				ActualBranch:   "Master",
			},
		},
		{
			name:              "configured_integration_branch",
			metadataPath:      nestedMetadataPathConstant,
			integrationBranch: "main",
			branches:          map[string]string{nestedRepositoryPathConstant: "main"},
		},
		{
			name:          "branch_query_failure",
			metadataPath:  nestedMetadataPathConstant,
			readerError:   queryFailure,
			expectedError: queryFailure,
		},
	}

	for _, testCase := range testCases {
		testFramework.Run(testCase.name, func(testFramework *testing.T) {
			scope := &recordingDirectoryScope{}
			reader := &scopedBranchReader{scope: scope, branches: testCase.branches, err: testCase.readerError}
			service, creationError := verify.NewService(verify.Dependencies{BranchReader: reader, DirectoryScope: scope}, testCase.integrationBranch)
			require.NoError(testFramework, creationError)

			repository := mustRepositoryRoot(testFramework, testCase.metadataPath)
			validationError := service.Validate(context.Background(), repository)

			require.Equal(testFramework, []string{repository.Path()}, scope.entered)
			require.Equal(testFramework, []string{repository.Path()}, scope.exited)
			require.Equal(testFramework, []string{repository.Path()}, reader.queried)

			switch {
			case testCase.expectedMismatch != nil:
				var mismatch verify.BranchMismatchError
				require.ErrorAs(testFramework, validationError, &mismatch)
				require.Equal(testFramework, *testCase.expectedMismatch, mismatch)
				require.Contains(testFramework, validationError.Error(), testCase.expectedMismatch.ActualBranch)
			case testCase.expectedError != nil:
				require.ErrorIs(testFramework, validationError, testCase.expectedError)
			default:
				require.NoError(testFramework, validationError)
			}
		})
	}
}

func TestNewServiceValidatesDependencies(testFramework *testing.T) {
	scope := &recordingDirectoryScope{}

	testCases := []struct {
		name          string
		dependencies  verify.Dependencies
		expectedError error
	}{
		{
			name:          "missing_branch_reader",
			dependencies:  verify.Dependencies{DirectoryScope: scope},
			expectedError: verify.ErrBranchReaderNotConfigured,
		},
		{
			name:          "missing_directory_scope",
			dependencies:  verify.Dependencies{BranchReader: &scopedBranchReader{scope: scope}},
			expectedError: verify.ErrDirectoryScopeNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testFramework.Run(testCase.name, func(testFramework *testing.T) {
			service, creationError := verify.NewService(testCase.dependencies, masterBranchConstant)
			require.ErrorIs(testFramework, creationError, testCase.expectedError)
			require.Nil(testFramework, service)
		})
	}
}

func TestNewServiceDefaultsIntegrationBranch(testFramework *testing.T) {
	scope := &recordingDirectoryScope{}
	service, creationError := verify.NewService(verify.Dependencies{BranchReader: &scopedBranchReader{scope: scope}, DirectoryScope: scope}, "  ")
	require.NoError(testFramework, creationError)
	require.Equal(testFramework, shared.DefaultIntegrationBranchConstant, service.IntegrationBranch())
}
