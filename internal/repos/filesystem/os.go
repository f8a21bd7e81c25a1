package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem implements shared.FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata without following a trailing symbolic link.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// Getwd returns the process working directory.
func (OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// Chdir changes the process working directory.
func (OSFileSystem) Chdir(directory string) error {
	return os.Chdir(directory)
}
