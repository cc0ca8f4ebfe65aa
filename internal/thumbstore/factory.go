package thumbstore

import (
	"fmt"

	"photocat/internal/catalog"
	"photocat/internal/config"
)

// NewStoreFromConfig creates a ThumbnailStore implementation based on the
// thumbnail store config type.
func NewStoreFromConfig(cfg config.ThumbnailStoreConfig) (catalog.ThumbnailStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem thumbnail store requires fs_root to be set")
		}
		return NewFileSystemStore(cfg.FSRoot)
	case "s3":
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown thumbnail store type: %s", cfg.Type)
	}
}
