package testutil

import (
	"testing"

	"photocat/internal/database"
)

// NewTestCatalog creates a migrated in-memory catalog database. It is
// closed automatically when the test finishes.
func NewTestCatalog(t *testing.T) *database.SQLiteCatalog {
	t.Helper()

	db, err := database.NewSQLiteCatalog(":memory:")
	if err != nil {
		t.Fatalf("opening test catalog: %v", err)
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		t.Fatalf("migrating test catalog: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
