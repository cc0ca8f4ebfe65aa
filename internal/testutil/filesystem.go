package testutil

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"photocat/internal/catalog"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content    []byte
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// MockFilesystemManager is an in-memory filesystem for testing the catalog
// core without touching disk. File timestamps are settable so staleness
// logic can be exercised deterministically.
type MockFilesystemManager struct {
	files map[string]*MockFile
	dirs  map[string]bool
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files: make(map[string]*MockFile),
		dirs:  make(map[string]bool),
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.dirs[path] = true
}

// AddFile adds a file to the mock filesystem. The containing directory is
// registered implicitly.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	now := time.Now()
	m.files[path] = &MockFile{
		Content:    content,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	m.dirs[filepath.Dir(path)] = true
}

// SetFileTimes overrides the timestamps of an existing file.
func (m *MockFilesystemManager) SetFileTimes(path string, created, modified time.Time) {
	if f, ok := m.files[path]; ok {
		f.CreatedAt = created
		f.ModifiedAt = modified
	}
}

// RemoveFile deletes a file from the mock filesystem.
func (m *MockFilesystemManager) RemoveFile(path string) {
	delete(m.files, path)
}

// RemoveDirectory deletes a directory and everything under it.
func (m *MockFilesystemManager) RemoveDirectory(path string) {
	prefix := path + string(filepath.Separator)
	delete(m.dirs, path)
	for p := range m.dirs {
		if strings.HasPrefix(p, prefix) {
			delete(m.dirs, p)
		}
	}
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
}

func (m *MockFilesystemManager) FileNames(dir string) ([]string, error) {
	if !m.dirs[dir] {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}
	var names []string
	for path := range m.files {
		if filepath.Dir(path) == dir {
			names = append(names, filepath.Base(path))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockFilesystemManager) Subdirectories(dir string, includeHidden bool) ([]string, error) {
	if !m.dirs[dir] {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}
	var subdirs []string
	for path := range m.dirs {
		if filepath.Dir(path) != dir || path == dir {
			continue
		}
		if !includeHidden && strings.HasPrefix(filepath.Base(path), ".") {
			continue
		}
		subdirs = append(subdirs, path)
	}
	sort.Strings(subdirs)
	return subdirs, nil
}

func (m *MockFilesystemManager) ReadFile(path string) ([]byte, error) {
	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return f.Content, nil
}

func (m *MockFilesystemManager) FileExists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *MockFilesystemManager) FolderExists(path string) bool {
	return m.dirs[path]
}

func (m *MockFilesystemManager) FileTimes(path string) (catalog.FileTimes, error) {
	f, ok := m.files[path]
	if !ok {
		return catalog.FileTimes{}, fmt.Errorf("file not found: %s", path)
	}
	return catalog.FileTimes{CreatedAt: f.CreatedAt, ModifiedAt: f.ModifiedAt}, nil
}

func (m *MockFilesystemManager) DeleteFile(path string) error {
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(m.files, path)
	return nil
}

// Compile-time check
var _ catalog.FilesystemManager = (*MockFilesystemManager)(nil)
