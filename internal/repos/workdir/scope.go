// Package workdir scopes changes of the process working directory.
package workdir

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/treesync/internal/repos/shared"
)

const (
	fileSystemMissingMessageConstant  = "directory scope requires a filesystem"
	currentDirectoryErrorTemplate     = "unable to determine working directory: %w"
	enterDirectoryErrorTemplate       = "chdir %s failed: %w"
	restoreDirectoryErrorTemplate     = "unable to restore working directory %s: %w"
	enteringDirectoryLogMessage       = "entering repository directory"
	restoredDirectoryLogMessage       = "restored working directory"
	logFieldDirectoryConstant         = "directory"
	logFieldOriginalDirectoryConstant = "original_directory"
)

// ErrFileSystemNotConfigured indicates the scope was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// DirectoryChangeAnnouncer is notified when the scope enters a directory.
type DirectoryChangeAnnouncer interface {
	AnnounceDirectoryChange(directory string)
}

// Scope implements shared.DirectoryScope on top of a shared.FileSystem.
type Scope struct {
	fileSystem shared.FileSystem
	announcer  DirectoryChangeAnnouncer
	logger     *zap.Logger
}

// NewScope constructs a Scope. A nil announcer keeps directory changes silent.
func NewScope(fileSystem shared.FileSystem, announcer DirectoryChangeAnnouncer, logger *zap.Logger) (*Scope, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scope{fileSystem: fileSystem, announcer: announcer, logger: logger}, nil
}

// Within changes into directory, runs action, and changes back to the original
// working directory on every return path. When both action and the restore fail
// the action error is returned.
func (scope *Scope) Within(directory string, action func() error) (resultError error) {
	originalDirectory, getwdError := scope.fileSystem.Getwd()
	if getwdError != nil {
		return fmt.Errorf(currentDirectoryErrorTemplate, getwdError)
	}

	if scope.announcer != nil {
		scope.announcer.AnnounceDirectoryChange(directory)
	}
	scope.logger.Debug(enteringDirectoryLogMessage, zap.String(logFieldDirectoryConstant, directory))

	if chdirError := scope.fileSystem.Chdir(directory); chdirError != nil {
		return fmt.Errorf(enterDirectoryErrorTemplate, directory, chdirError)
	}

	defer func() {
		restoreError := scope.fileSystem.Chdir(originalDirectory)
		if restoreError != nil && resultError == nil {
			resultError = fmt.Errorf(restoreDirectoryErrorTemplate, originalDirectory, restoreError)
			return
		}
		scope.logger.Debug(restoredDirectoryLogMessage, zap.String(logFieldOriginalDirectoryConstant, originalDirectory))
	}()

	return action()
}
