package thumbstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"photocat/internal/catalog"
)

// FileSystemStore is a filesystem-based implementation of the
// ThumbnailStore interface. Blobs live in one subdirectory per folder:
//
//	<root>/
//	  <folderID>/
//	    <fileName>    (encoded thumbnail bytes)
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a thumbnail store rooted at the given path.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail store root: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

func (s *FileSystemStore) blobPath(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Put stores thumbnail bytes for a folder/file-name pair using an atomic
// write (temp file + rename). Storing the same pair twice overwrites.
func (s *FileSystemStore) Put(folderID, fileName string, data []byte) error {
	destPath := s.blobPath(catalog.BlobKey(folderID, fileName))
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Get retrieves thumbnail bytes for a folder/file-name pair.
func (s *FileSystemStore) Get(folderID, fileName string) ([]byte, error) {
	data, err := os.ReadFile(s.blobPath(catalog.BlobKey(folderID, fileName)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("thumbnail not found: %s/%s", folderID, fileName)
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

// Contains reports whether a blob exists for the pair.
func (s *FileSystemStore) Contains(folderID, fileName string) (bool, error) {
	_, err := os.Stat(s.blobPath(catalog.BlobKey(folderID, fileName)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob: %w", err)
	}
	return true, nil
}

// List returns the keys of every stored blob.
func (s *FileSystemStore) List() ([]string, error) {
	dirs, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read store root: %w", err)
	}

	var keys []string
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(s.root, dir.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read blob directory %s: %w", dir.Name(), err)
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".tmp-") {
				continue
			}
			keys = append(keys, dir.Name()+"/"+entry.Name())
		}
	}
	return keys, nil
}

// Delete removes a single blob by key. The folder directory is left in
// place even when it becomes empty; DeleteFolder clears it.
func (s *FileSystemStore) Delete(key string) error {
	if err := os.Remove(s.blobPath(key)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("thumbnail not found: %s", key)
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// DeleteFolder removes every blob belonging to a folder.
func (s *FileSystemStore) DeleteFolder(folderID string) error {
	if folderID == "" {
		return fmt.Errorf("folder id must not be empty")
	}
	if err := os.RemoveAll(filepath.Join(s.root, folderID)); err != nil {
		return fmt.Errorf("failed to delete blob directory: %w", err)
	}
	return nil
}

// Compile-time check that FileSystemStore implements catalog.ThumbnailStore
var _ catalog.ThumbnailStore = (*FileSystemStore)(nil)
