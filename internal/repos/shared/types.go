package shared

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/treesync/internal/execshell"
)

const (
	// MetadataDirectoryNameConstant names the git metadata entry that marks a repository root.
	MetadataDirectoryNameConstant = ".git"
	// BridgeMarkerNameConstant names the entry inside the metadata directory that marks a git-svn mirror.
	BridgeMarkerNameConstant = "svn"
	// DefaultIntegrationBranchConstant is the branch every repository must have checked out.
	DefaultIntegrationBranchConstant = "master"

	metadataPathEmptyMessageConstant    = "repository metadata path must not be empty"
	metadataPathInvalidTemplateConstant = "repository metadata path %q must end in %s"
	metadataPathControlMessageConstant  = "repository metadata path must not contain line breaks"
	currentDirectoryPathConstant        = "."
)

// ErrMetadataPathEmpty indicates an empty metadata path was supplied.
var ErrMetadataPathEmpty = errors.New(metadataPathEmptyMessageConstant)

// RepositoryRoot identifies one repository found below the start directory.
type RepositoryRoot struct {
	path         string
	metadataPath string
}

// NewRepositoryRoot builds a RepositoryRoot from the path of its metadata entry.
func NewRepositoryRoot(metadataPath string) (RepositoryRoot, error) {
	trimmedMetadataPath := strings.TrimSpace(metadataPath)
	if len(trimmedMetadataPath) == 0 {
		return RepositoryRoot{}, ErrMetadataPathEmpty
	}
	if strings.ContainsAny(trimmedMetadataPath, "\r\n") {
		return RepositoryRoot{}, errors.New(metadataPathControlMessageConstant)
	}

	cleanedMetadataPath := filepath.Clean(trimmedMetadataPath)
	if filepath.Base(cleanedMetadataPath) != MetadataDirectoryNameConstant {
		return RepositoryRoot{}, fmt.Errorf(metadataPathInvalidTemplateConstant, trimmedMetadataPath, MetadataDirectoryNameConstant)
	}

	return RepositoryRoot{path: filepath.Dir(cleanedMetadataPath), metadataPath: cleanedMetadataPath}, nil
}

// Path returns the repository directory.
func (root RepositoryRoot) Path() string {
	return root.path
}

// MetadataPath returns the path of the metadata entry.
func (root RepositoryRoot) MetadataPath() string {
	return root.metadataPath
}

// Depth counts the path segments between the start directory and the repository directory.
func (root RepositoryRoot) Depth() int {
	if root.path == currentDirectoryPathConstant || len(root.path) == 0 {
		return 0
	}
	return len(strings.Split(filepath.ToSlash(root.path), "/"))
}

// String returns the repository directory.
func (root RepositoryRoot) String() string {
	return root.path
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FileSystem exposes the filesystem operations required by repository services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Getwd() (string, error)
	Chdir(directory string) error
}

// DirectoryScope runs actions with the process working directory set to a repository.
type DirectoryScope interface {
	Within(directory string, action func() error) error
}

// BranchReader reports the checked-out branch of the repository in the working directory.
type BranchReader interface {
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
}

// RepositoryDiscoverer locates the repository roots nested below a start directory.
type RepositoryDiscoverer interface {
	DiscoverNested(startDirectory string) ([]RepositoryRoot, error)
}
