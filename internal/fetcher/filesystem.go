package fetcher

import (
	"io"
	"os"
)

// FileSystem abstracts the filesystem operations a fetch performs.
type FileSystem interface {
	MkdirAll(path string, perm os.FileMode) error
	Create(path string) (io.WriteCloser, error)
}

// OSFileSystem implements FileSystem using the local OS.
type OSFileSystem struct{}

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Create truncates any existing file at path.
func (OSFileSystem) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}
