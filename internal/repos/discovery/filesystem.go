package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"

	"github.com/temirov/treesync/internal/repos/shared"
)

const (
	notRepositoryRootMessageConstant = "not run from inside a repository: no .git found in current directory"
	repositoryRootCheckErrorTemplate = "unable to inspect %s: %w"
	repositorySearchErrorTemplate    = "repository search failed: %w"
	repositoryRootParseErrorTemplate = "unable to interpret repository metadata at %s: %w"
	fileSystemMissingMessageConstant = "repository discoverer requires a filesystem"
)

// ErrNotRepositoryRoot indicates the start directory does not contain repository metadata.
var ErrNotRepositoryRoot = errors.New(notRepositoryRootMessageConstant)

// ErrFileSystemNotConfigured indicates the discoverer was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// WalkFunction walks a directory tree the way filepath.WalkDir does.
type WalkFunction func(root string, walkFunction fs.WalkDirFunc) error

// NestedRepositoryDiscoverer locates every repository root at or below a start directory.
type NestedRepositoryDiscoverer struct {
	fileSystem shared.FileSystem
	walk       WalkFunction
}

// NewNestedRepositoryDiscoverer constructs a discoverer backed by filepath.WalkDir.
func NewNestedRepositoryDiscoverer(fileSystem shared.FileSystem) (*NestedRepositoryDiscoverer, error) {
	return NewNestedRepositoryDiscovererWithWalker(fileSystem, filepath.WalkDir)
}

// NewNestedRepositoryDiscovererWithWalker constructs a discoverer that traverses with walk.
func NewNestedRepositoryDiscovererWithWalker(fileSystem shared.FileSystem, walk WalkFunction) (*NestedRepositoryDiscoverer, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if walk == nil {
		walk = filepath.WalkDir
	}
	return &NestedRepositoryDiscoverer{fileSystem: fileSystem, walk: walk}, nil
}

// DiscoverNested returns every repository root below startDirectory, the start
// directory included. Roots are ordered deepest first so nested repositories
// precede the repositories containing them and the start directory comes last.
// Paths are relative to startDirectory.
func (discoverer *NestedRepositoryDiscoverer) DiscoverNested(startDirectory string) ([]shared.RepositoryRoot, error) {
	topLevelMetadataPath := filepath.Join(startDirectory, shared.MetadataDirectoryNameConstant)
	if _, statError := discoverer.fileSystem.Stat(topLevelMetadataPath); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil, ErrNotRepositoryRoot
		}
		return nil, fmt.Errorf(repositoryRootCheckErrorTemplate, topLevelMetadataPath, statError)
	}

	var metadataPaths []string
	walkError := discoverer.walk(startDirectory, func(path string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if directoryEntry.Name() != shared.MetadataDirectoryNameConstant {
			return nil
		}

		relativePath, relativeError := filepath.Rel(startDirectory, path)
		if relativeError != nil {
			return relativeError
		}
		metadataPaths = append(metadataPaths, relativePath)

		if directoryEntry.IsDir() {
			return fs.SkipDir
		}
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(repositorySearchErrorTemplate, walkError)
	}

	slices.Reverse(metadataPaths)

	repositories := make([]shared.RepositoryRoot, 0, len(metadataPaths))
	for _, metadataPath := range metadataPaths {
		repository, repositoryError := shared.NewRepositoryRoot(metadataPath)
		if repositoryError != nil {
			return nil, fmt.Errorf(repositoryRootParseErrorTemplate, metadataPath, repositoryError)
		}
		repositories = append(repositories, repository)
	}

	sort.SliceStable(repositories, func(leftIndex int, rightIndex int) bool {
		return repositories[leftIndex].Depth() > repositories[rightIndex].Depth()
	})

	return repositories, nil
}
