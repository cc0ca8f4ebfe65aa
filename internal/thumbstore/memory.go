package thumbstore

import (
	"fmt"
	"strings"
	"sync"

	"photocat/internal/catalog"
)

// MemoryStore is an in-memory implementation of the ThumbnailStore
// interface, useful for testing. It is safe for concurrent use.
type MemoryStore struct {
	blobs map[string][]byte // BlobKey -> encoded thumbnail
	mu    sync.RWMutex
}

// NewMemoryStore creates a new in-memory thumbnail store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Put stores thumbnail bytes for a folder/file-name pair. Storing the same
// pair twice overwrites.
func (m *MemoryStore) Put(folderID, fileName string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	m.blobs[catalog.BlobKey(folderID, fileName)] = buf
	return nil
}

// Get retrieves thumbnail bytes for a folder/file-name pair.
func (m *MemoryStore) Get(folderID, fileName string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[catalog.BlobKey(folderID, fileName)]
	if !ok {
		return nil, fmt.Errorf("thumbnail not found: %s/%s", folderID, fileName)
	}
	return data, nil
}

// Contains reports whether a blob exists for the pair.
func (m *MemoryStore) Contains(folderID, fileName string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.blobs[catalog.BlobKey(folderID, fileName)]
	return ok, nil
}

// List returns the keys of every stored blob.
func (m *MemoryStore) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.blobs))
	for key := range m.blobs {
		keys = append(keys, key)
	}
	return keys, nil
}

// Delete removes a single blob by key. Deleting a missing blob is an error
// so sweeps can log it, but it leaves the store unchanged.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[key]; !ok {
		return fmt.Errorf("thumbnail not found: %s", key)
	}
	delete(m.blobs, key)
	return nil
}

// DeleteFolder removes every blob belonging to a folder.
func (m *MemoryStore) DeleteFolder(folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := folderID + "/"
	for key := range m.blobs {
		if strings.HasPrefix(key, prefix) {
			delete(m.blobs, key)
		}
	}
	return nil
}

// Compile-time check that MemoryStore implements catalog.ThumbnailStore
var _ catalog.ThumbnailStore = (*MemoryStore)(nil)
