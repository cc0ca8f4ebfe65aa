package catalog

import (
	"time"

	"photocat/internal/model"
)

// Database provides an interface for catalog metadata storage.
// Implementations must serialize mutating operations: each call is one
// atomic unit, so "check folder exists, else add it" composed by the engine
// never observes a half-applied write from another call.
type Database interface {
	// Folder operations

	// FolderExists reports whether a folder with an exact path match is catalogued.
	FolderExists(path string) (bool, error)

	// FolderByPath returns the folder with an exact path match, or nil.
	FolderByPath(path string) (*model.Folder, error)

	// AddFolder catalogues a new folder.
	AddFolder(path string) (*model.Folder, error)

	// DeleteFolder removes a folder from the catalog.
	// The folder must have no remaining assets.
	DeleteFolder(folder *model.Folder) error

	// ListFolders returns every catalogued folder.
	ListFolders() ([]*model.Folder, error)

	// Asset operations

	// AssetsByFolder returns the catalogued assets owned by a folder.
	AssetsByFolder(folderID string) ([]*model.Asset, error)

	// ListAssets returns every catalogued asset with FolderPath populated.
	ListAssets() ([]*model.Asset, error)

	// IsAssetCatalogued reports whether an asset record exists for the
	// folder/file-name pair.
	IsAssetCatalogued(folderID, fileName string) (bool, error)

	// AddAsset catalogues a new asset.
	AddAsset(asset *model.Asset) error

	// DeleteAsset removes an asset record by folder and file name.
	DeleteAsset(folderID, fileName string) error

	// Close closes the underlying store.
	Close() error
}

// ThumbnailStore is the binary side-store for derived thumbnail bytes.
// Blobs are keyed by folder ID and file name; a missing blob is tolerated
// by readers because it can be re-derived by recreating the asset.
type ThumbnailStore interface {
	// Put stores thumbnail bytes for a folder/file-name pair.
	// Storing the same key twice overwrites; the operation is idempotent.
	Put(folderID, fileName string, data []byte) error

	// Get retrieves thumbnail bytes for a folder/file-name pair.
	Get(folderID, fileName string) ([]byte, error)

	// Contains reports whether a blob exists for the pair.
	Contains(folderID, fileName string) (bool, error)

	// List returns the keys of every stored blob (see BlobKey).
	List() ([]string, error)

	// Delete removes a single blob by key.
	Delete(key string) error

	// DeleteFolder removes every blob belonging to a folder.
	DeleteFolder(folderID string) error
}

// BlobKey builds the store key for a folder/file-name pair. Folder IDs are
// stable UUIDs, so keys survive folder renames on disk only via the usual
// delete-and-recreate cycle.
func BlobKey(folderID, fileName string) string {
	return folderID + "/" + fileName
}

// FileTimes carries the live creation and modification timestamps of a file.
type FileTimes struct {
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// FilesystemManager abstracts the on-disk side of reconciliation so the
// engine can be tested against an in-memory filesystem.
type FilesystemManager interface {
	// FileNames returns the names (not paths) of regular files directly
	// inside dir, in lexical order.
	FileNames(dir string) ([]string, error)

	// Subdirectories returns the absolute paths of the immediate
	// subdirectories of dir. Hidden (dot) directories are skipped unless
	// includeHidden is set.
	Subdirectories(dir string, includeHidden bool) ([]string, error)

	// ReadFile returns the full content of the file at path.
	ReadFile(path string) ([]byte, error)

	// FileExists reports whether path exists and is a regular file.
	FileExists(path string) bool

	// FolderExists reports whether path exists and is a directory.
	FolderExists(path string) bool

	// FileTimes returns the live creation and modification times of path.
	FileTimes(path string) (FileTimes, error)

	// DeleteFile removes the file at path from disk.
	DeleteFile(path string) error
}

// RefreshFileTimestamps overwrites the asset's file timestamps from the live
// filesystem.
func RefreshFileTimestamps(fsmgr FilesystemManager, asset *model.Asset) error {
	times, err := fsmgr.FileTimes(asset.FullPath())
	if err != nil {
		return err
	}
	asset.FileCreatedAt = times.CreatedAt
	asset.FileModifiedAt = times.ModifiedAt
	return nil
}
