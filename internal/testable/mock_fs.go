package testable

import (
	"os"
	"sync"
)

// MockFileSystem overrides selected operations and passes the rest through
// to OsFileSystem. Every write, successful or not, is recorded.
type MockFileSystem struct {
	AbsFn          func(path string) (string, error)
	EvalSymlinksFn func(path string) (string, error)
	StatFn         func(name string) (os.FileInfo, error)
	MkdirAllFn     func(path string, perm os.FileMode) error
	WriteFileFn    func(name string, data []byte, perm os.FileMode) error

	mu     sync.Mutex
	writes []Write
}

// Write is one recorded WriteFile call.
type Write struct {
	Name string
	Size int
	Perm os.FileMode
}

var _ FileSystem = (*MockFileSystem)(nil)

func (m *MockFileSystem) Abs(path string) (string, error) {
	if m.AbsFn != nil {
		return m.AbsFn(path)
	}
	return OsFileSystem{}.Abs(path)
}

func (m *MockFileSystem) EvalSymlinks(path string) (string, error) {
	if m.EvalSymlinksFn != nil {
		return m.EvalSymlinksFn(path)
	}
	return OsFileSystem{}.EvalSymlinks(path)
}

func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatFn != nil {
		return m.StatFn(name)
	}
	return OsFileSystem{}.Stat(name)
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if m.MkdirAllFn != nil {
		return m.MkdirAllFn(path, perm)
	}
	return OsFileSystem{}.MkdirAll(path, perm)
}

func (m *MockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	m.writes = append(m.writes, Write{Name: name, Size: len(data), Perm: perm})
	m.mu.Unlock()
	if m.WriteFileFn != nil {
		return m.WriteFileFn(name, data, perm)
	}
	return OsFileSystem{}.WriteFile(name, data, perm)
}

// Writes returns the recorded WriteFile calls in order.
func (m *MockFileSystem) Writes() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Write(nil), m.writes...)
}
