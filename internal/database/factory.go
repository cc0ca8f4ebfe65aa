package database

import (
	"fmt"
	"os"
	"path/filepath"

	"photocat/internal/catalog"
	"photocat/internal/config"
)

// NewCatalogFromConfig creates a catalog.Database based on the database
// config type and migrates it to the latest schema.
func NewCatalogFromConfig(cfg config.DatabaseConfig) (catalog.Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return open(filepath.Join(cfg.DataDir, "catalog.db"))
	case "memory":
		return open(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func open(path string) (catalog.Database, error) {
	db, err := NewSQLiteCatalog(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating catalog: %w", err)
	}
	return db, nil
}
