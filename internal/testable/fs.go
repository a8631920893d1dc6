// Package testable holds the file system seam used wherever plaintes writes
// export artifacts. Production code goes through DefaultFS; tests swap in a
// MockFileSystem to simulate unwritable directories or full disks.
package testable

import (
	"os"
	"path/filepath"
)

// FileSystem is the subset of file operations needed to place an artifact:
// resolve the target path, check it, create parents and write the bytes.
type FileSystem interface {
	Abs(path string) (string, error)
	EvalSymlinks(path string) (string, error)
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// OsFileSystem writes to the real disk.
type OsFileSystem struct{}

func (OsFileSystem) Abs(path string) (string, error) { return filepath.Abs(path) }

func (OsFileSystem) EvalSymlinks(path string) (string, error) { return filepath.EvalSymlinks(path) }

func (OsFileSystem) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

func (OsFileSystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (OsFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm) //nolint:gosec // callers resolve and sanitize the path
}

// DefaultFS is the FileSystem used unless a test injects another.
var DefaultFS FileSystem = OsFileSystem{}
