// Package fs provides the real-filesystem implementation of the catalog's
// filesystem gateway.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"photocat/internal/catalog"
)

// OSFilesystemManager performs actual filesystem operations using the os
// package.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// FileNames returns the names of regular files directly inside dir, sorted
// lexically.
func (m *OSFilesystemManager) FileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Subdirectories returns the absolute paths of the immediate subdirectories
// of dir, sorted lexically. Hidden (dot) directories are skipped unless
// includeHidden is set.
func (m *OSFilesystemManager) Subdirectories(dir string, includeHidden bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !includeHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dirs = append(dirs, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ReadFile returns the full content of the file at path.
func (m *OSFilesystemManager) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// FileExists reports whether path exists and is a regular file.
func (m *OSFilesystemManager) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FolderExists reports whether path exists and is a directory.
func (m *OSFilesystemManager) FolderExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileTimes returns the live creation and modification times of path.
// On filesystems without a birth time the status-change time stands in for
// creation time.
func (m *OSFilesystemManager) FileTimes(path string) (catalog.FileTimes, error) {
	info, err := os.Stat(path)
	if err != nil {
		return catalog.FileTimes{}, fmt.Errorf("stat %s: %w", path, err)
	}

	times := catalog.FileTimes{
		CreatedAt:  info.ModTime(),
		ModifiedAt: info.ModTime(),
	}
	if created, ok := creationTime(info); ok {
		times.CreatedAt = created
	}
	return times, nil
}

// DeleteFile removes the file at path from disk.
func (m *OSFilesystemManager) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// Compile-time check that OSFilesystemManager implements catalog.FilesystemManager
var _ catalog.FilesystemManager = (*OSFilesystemManager)(nil)
