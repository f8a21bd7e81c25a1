package workdir_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/treesync/internal/repos/filesystem"
	"github.com/temirov/treesync/internal/repos/workdir"
)

const (
	testOriginalDirectoryConstant   = "/work/top"
	testRepositoryDirectoryConstant = "vendor/zlib"
)

type recordingFileSystem struct {
	currentDirectory string
	chdirCalls       []string
	failingTargets   map[string]error
}

func (fileSystem *recordingFileSystem) Stat(string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func (fileSystem *recordingFileSystem) Getwd() (string, error) {
	return fileSystem.currentDirectory, nil
}

func (fileSystem *recordingFileSystem) Chdir(directory string) error {
	fileSystem.chdirCalls = append(fileSystem.chdirCalls, directory)
	if failure, failing := fileSystem.failingTargets[directory]; failing {
		return failure
	}
	fileSystem.currentDirectory = directory
	return nil
}

type recordingAnnouncer struct {
	directories []string
}

func (announcer *recordingAnnouncer) AnnounceDirectoryChange(directory string) {
	announcer.directories = append(announcer.directories, directory)
}

func TestScopeRestoresDirectory(testInstance *testing.T) {
	actionFailure := errors.New("rebase failed")
	restoreFailure := errors.New("original directory removed")

	testCases := []struct {
		name               string
		actionError        error
		failingTargets     map[string]error
		expectedError      error
		expectActionCalled bool
		expectedChdirCalls []string
	}{
		{
			name:               "success",
			expectActionCalled: true,
			expectedChdirCalls: []string{testRepositoryDirectoryConstant, testOriginalDirectoryConstant},
		},
		{
			name:               "action_failure",
			actionError:        actionFailure,
			expectedError:      actionFailure,
			expectActionCalled: true,
			expectedChdirCalls: []string{testRepositoryDirectoryConstant, testOriginalDirectoryConstant},
		},
		{
			name:               "enter_failure",
			failingTargets:     map[string]error{testRepositoryDirectoryConstant: fs.ErrPermission},
			expectedError:      fs.ErrPermission,
			expectedChdirCalls: []string{testRepositoryDirectoryConstant},
		},
		{
			name:               "restore_failure",
			failingTargets:     map[string]error{testOriginalDirectoryConstant: restoreFailure},
			expectedError:      restoreFailure,
			expectActionCalled: true,
			expectedChdirCalls: []string{testRepositoryDirectoryConstant, testOriginalDirectoryConstant},
		},
		{
			name:               "action_failure_wins_over_restore_failure",
			actionError:        actionFailure,
			failingTargets:     map[string]error{testOriginalDirectoryConstant: restoreFailure},
			expectedError:      actionFailure,
			expectActionCalled: true,
			expectedChdirCalls: []string{testRepositoryDirectoryConstant, testOriginalDirectoryConstant},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fileSystem := &recordingFileSystem{currentDirectory: testOriginalDirectoryConstant, failingTargets: testCase.failingTargets}
			announcer := &recordingAnnouncer{}

			scope, creationError := workdir.NewScope(fileSystem, announcer, zap.NewNop())
			require.NoError(testInstance, creationError)

			actionCalled := false
			scopeError := scope.Within(testRepositoryDirectoryConstant, func() error {
				actionCalled = true
				require.Equal(testInstance, testRepositoryDirectoryConstant, fileSystem.currentDirectory)
				return testCase.actionError
			})

			if testCase.expectedError == nil {
				require.NoError(testInstance, scopeError)
			} else {
				require.ErrorIs(testInstance, scopeError, testCase.expectedError)
			}
			require.Equal(testInstance, testCase.expectActionCalled, actionCalled)
			require.Equal(testInstance, testCase.expectedChdirCalls, fileSystem.chdirCalls)
			require.Equal(testInstance, []string{testRepositoryDirectoryConstant}, announcer.directories)
		})
	}
}

func TestScopeChangesProcessWorkingDirectory(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	nestedDirectory := filepath.Join(temporaryDirectory, "nested")
	require.NoError(testInstance, os.MkdirAll(nestedDirectory, 0o755))
	testInstance.Chdir(temporaryDirectory)

	originalDirectory, getwdError := os.Getwd()
	require.NoError(testInstance, getwdError)

	scope, creationError := workdir.NewScope(filesystem.OSFileSystem{}, nil, nil)
	require.NoError(testInstance, creationError)

	scopeError := scope.Within("nested", func() error {
		currentDirectory, currentDirectoryError := os.Getwd()
		require.NoError(testInstance, currentDirectoryError)
		require.Equal(testInstance, filepath.Join(originalDirectory, "nested"), currentDirectory)
		return nil
	})
	require.NoError(testInstance, scopeError)

	restoredDirectory, restoredDirectoryError := os.Getwd()
	require.NoError(testInstance, restoredDirectoryError)
	require.Equal(testInstance, originalDirectory, restoredDirectory)
}

func TestNewScopeRequiresFileSystem(testInstance *testing.T) {
	scope, creationError := workdir.NewScope(nil, nil, nil)
	require.ErrorIs(testInstance, creationError, workdir.ErrFileSystemNotConfigured)
	require.Nil(testInstance, scope)
}
