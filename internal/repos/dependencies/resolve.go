// Package dependencies supplies default collaborators for repository commands.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/treesync/internal/execshell"
	"github.com/temirov/treesync/internal/repos/discovery"
	"github.com/temirov/treesync/internal/repos/filesystem"
	"github.com/temirov/treesync/internal/repos/shared"
	"github.com/temirov/treesync/internal/ui"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveRepositoryDiscoverer returns the provided discoverer or a walker over fileSystem.
func ResolveRepositoryDiscoverer(existing shared.RepositoryDiscoverer, fileSystem shared.FileSystem) (shared.RepositoryDiscoverer, error) {
	if existing != nil {
		return existing, nil
	}
	return discovery.NewNestedRepositoryDiscoverer(ResolveFileSystem(fileSystem))
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging renders command events as console messages instead of structured fields.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	var observer execshell.CommandEventObserver
	if humanReadableLogging {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}

	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
