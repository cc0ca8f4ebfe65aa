package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"photocat/internal/catalog"
	"photocat/internal/database/migrations"
	"photocat/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const assetColumns = `a.id, a.folder_id, f.path, a.file_name, a.file_size,
	a.pixel_width, a.pixel_height, a.thumbnail_width, a.thumbnail_height,
	a.rotation, a.hash, a.thumbnail_created_at, a.file_created_at, a.file_modified_at`

// SQLiteCatalog implements the catalog.Database interface using SQLite.
// Each method is one statement or one transaction, so every gateway call is
// atomic; SQLite's single-writer model serializes concurrent mutations.
type SQLiteCatalog struct {
	db   *sql.DB
	path string
}

// NewSQLiteCatalog opens a SQLite-backed catalog.
// path can be a file path or ":memory:" for an in-memory catalog.
func NewSQLiteCatalog(path string) (*SQLiteCatalog, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteCatalog{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a raw configured handle.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Foreign keys are OFF by default in SQLite.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Folder operations

func (s *SQLiteCatalog) FolderExists(path string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM folders WHERE path = ?`, path).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking folder existence: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteCatalog) FolderByPath(path string) (*model.Folder, error) {
	folder := &model.Folder{}
	err := s.db.QueryRow(
		`SELECT id, path, created_at FROM folders WHERE path = ?`, path,
	).Scan(&folder.ID, &folder.Path, &folder.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding folder by path: %w", err)
	}
	return folder, nil
}

func (s *SQLiteCatalog) AddFolder(path string) (*model.Folder, error) {
	if path == "" {
		return nil, errors.New("folder path must not be empty")
	}
	folder := &model.Folder{
		ID:        uuid.New().String(),
		Path:      path,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec(
		`INSERT INTO folders (id, path, created_at) VALUES (?, ?, ?)`,
		folder.ID, folder.Path, folder.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting folder: %w", err)
	}
	return folder, nil
}

func (s *SQLiteCatalog) DeleteFolder(folder *model.Folder) error {
	if folder == nil {
		return errors.New("folder must not be nil")
	}
	res, err := s.db.Exec(`DELETE FROM folders WHERE id = ?`, folder.ID)
	if err != nil {
		return fmt.Errorf("deleting folder: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("folder not catalogued: %s", folder.Path)
	}
	return nil
}

func (s *SQLiteCatalog) ListFolders() ([]*model.Folder, error) {
	rows, err := s.db.Query(`SELECT id, path, created_at FROM folders ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	defer rows.Close()

	var folders []*model.Folder
	for rows.Next() {
		folder := &model.Folder{}
		if err := rows.Scan(&folder.ID, &folder.Path, &folder.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning folder: %w", err)
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

// Asset operations

func (s *SQLiteCatalog) AssetsByFolder(folderID string) ([]*model.Asset, error) {
	return s.queryAssets(
		`SELECT `+assetColumns+` FROM assets a
		 JOIN folders f ON f.id = a.folder_id
		 WHERE a.folder_id = ? ORDER BY a.file_name`, folderID)
}

func (s *SQLiteCatalog) ListAssets() ([]*model.Asset, error) {
	return s.queryAssets(
		`SELECT ` + assetColumns + ` FROM assets a
		 JOIN folders f ON f.id = a.folder_id
		 ORDER BY f.path, a.file_name`)
}

func (s *SQLiteCatalog) IsAssetCatalogued(folderID, fileName string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM assets WHERE folder_id = ? AND file_name = ?`,
		folderID, fileName,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking asset existence: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteCatalog) AddAsset(asset *model.Asset) error {
	if asset == nil {
		return errors.New("asset must not be nil")
	}
	if asset.FolderID == "" || asset.FileName == "" {
		return errors.New("asset must carry a folder id and file name")
	}
	_, err := s.db.Exec(
		`INSERT INTO assets (id, folder_id, file_name, file_size,
			pixel_width, pixel_height, thumbnail_width, thumbnail_height,
			rotation, hash, thumbnail_created_at, file_created_at, file_modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.ID, asset.FolderID, asset.FileName, asset.FileSize,
		asset.PixelWidth, asset.PixelHeight, asset.ThumbnailWidth, asset.ThumbnailHeight,
		int(asset.Rotation), asset.Hash, asset.ThumbnailCreatedAt,
		asset.FileCreatedAt, asset.FileModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting asset: %w", err)
	}
	return nil
}

func (s *SQLiteCatalog) DeleteAsset(folderID, fileName string) error {
	_, err := s.db.Exec(
		`DELETE FROM assets WHERE folder_id = ? AND file_name = ?`,
		folderID, fileName,
	)
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	return nil
}

func (s *SQLiteCatalog) queryAssets(query string, args ...any) ([]*model.Asset, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	var assets []*model.Asset
	for rows.Next() {
		asset := &model.Asset{}
		var rotation int
		err := rows.Scan(
			&asset.ID, &asset.FolderID, &asset.FolderPath, &asset.FileName, &asset.FileSize,
			&asset.PixelWidth, &asset.PixelHeight, &asset.ThumbnailWidth, &asset.ThumbnailHeight,
			&rotation, &asset.Hash, &asset.ThumbnailCreatedAt,
			&asset.FileCreatedAt, &asset.FileModifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		asset.Rotation = model.Rotation(rotation)
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteCatalog) Path() string {
	return s.path
}

// CheckMigrations verifies the catalog schema is up to date.
func (s *SQLiteCatalog) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// MigrateUp brings the catalog schema to the latest version.
func (s *SQLiteCatalog) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// Close closes the database connection.
func (s *SQLiteCatalog) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteCatalog implements catalog.Database
var _ catalog.Database = (*SQLiteCatalog)(nil)
