package catalog

import (
	"errors"
	"fmt"
	"path/filepath"

	"photocat/internal/imaging"
	"photocat/internal/model"
)

// AssetFactory builds complete asset records from files on disk: it reads
// the bytes, derives rotation from EXIF, decodes and thumbnails the image,
// hashes the original content, and persists the record plus blob.
type AssetFactory struct {
	db     Database
	thumbs ThumbnailStore
	fsmgr  FilesystemManager
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

func NewAssetFactory(db Database, thumbs ThumbnailStore, fsmgr FilesystemManager, logger Logger, clock Clock, idgen IDGenerator) *AssetFactory {
	return &AssetFactory{
		db:     db,
		thumbs: thumbs,
		fsmgr:  fsmgr,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
	}
}

// CreateAsset catalogues the file at folderPath/fileName and returns the new
// asset. If the pair is already catalogued this is a no-op returning
// (nil, nil): no duplicate record, no second hash computation.
//
// Write ordering: the thumbnail blob is stored first, the asset record
// second. If the record write fails, the worst outcome is an orphaned blob,
// which the reconciliation sweep removes later.
func (f *AssetFactory) CreateAsset(folderPath, fileName string) (*model.Asset, error) {
	if folderPath == "" {
		return nil, errors.New("folder path must not be empty")
	}
	if fileName == "" {
		return nil, errors.New("file name must not be empty")
	}

	folder, err := f.resolveFolder(folderPath)
	if err != nil {
		return nil, err
	}

	catalogued, err := f.db.IsAssetCatalogued(folder.ID, fileName)
	if err != nil {
		return nil, fmt.Errorf("checking catalog for %s: %w", fileName, err)
	}
	if catalogued {
		return nil, nil
	}

	fullPath := filepath.Join(folderPath, fileName)
	data, err := f.fsmgr.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fullPath, err)
	}

	rotation := imaging.RotationFromOrientation(imaging.ReadOrientation(data))

	img, err := imaging.Decode(data, rotation)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", fullPath, err)
	}
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	thumbWidth, thumbHeight := imaging.ThumbnailSize(width, height)
	thumbBytes, err := imaging.Encode(imaging.Thumbnail(img, thumbWidth, thumbHeight), fileName)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail for %s: %w", fullPath, err)
	}

	times, err := f.fsmgr.FileTimes(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file times for %s: %w", fullPath, err)
	}

	asset := &model.Asset{
		ID:                 f.idgen.New(),
		FolderID:           folder.ID,
		FolderPath:         folder.Path,
		FileName:           fileName,
		FileSize:           int64(len(data)),
		PixelWidth:         width,
		PixelHeight:        height,
		ThumbnailWidth:     thumbWidth,
		ThumbnailHeight:    thumbHeight,
		Rotation:           rotation,
		Hash:               CalculateHash(data),
		ThumbnailCreatedAt: f.clock.Now(),
		FileCreatedAt:      times.CreatedAt,
		FileModifiedAt:     times.ModifiedAt,
	}

	if err := f.thumbs.Put(folder.ID, fileName, thumbBytes); err != nil {
		return nil, fmt.Errorf("storing thumbnail for %s: %w", fullPath, err)
	}
	if err := f.db.AddAsset(asset); err != nil {
		return nil, fmt.Errorf("cataloguing %s: %w", fullPath, err)
	}

	f.logger.Debug("asset created",
		"file", fullPath,
		"size", asset.FileSize,
		"thumbnail", fmt.Sprintf("%dx%d", thumbWidth, thumbHeight))
	return asset, nil
}

// resolveFolder returns the catalogued folder for path, creating the record
// if this is the first time the folder is observed.
func (f *AssetFactory) resolveFolder(path string) (*model.Folder, error) {
	folder, err := f.db.FolderByPath(path)
	if err != nil {
		return nil, fmt.Errorf("looking up folder %s: %w", path, err)
	}
	if folder != nil {
		return folder, nil
	}
	folder, err = f.db.AddFolder(path)
	if err != nil {
		return nil, fmt.Errorf("cataloguing folder %s: %w", path, err)
	}
	return folder, nil
}
