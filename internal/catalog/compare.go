package catalog

import (
	"path/filepath"
	"strings"

	"photocat/internal/model"
)

// supportedExtensions is the allow-list for cataloguing new files. It is
// consulted only for the "new" classification: an already-catalogued file
// keeps being tracked even if its extension would no longer qualify.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jfif": true,
	".png":  true,
	".gif":  true,
}

// IsSupportedImage reports whether fileName has a catalogable image
// extension (case-insensitive).
func IsSupportedImage(fileName string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(fileName))]
}

// Comparison classifies a folder's on-disk listing against its catalogued
// assets. A file name appears in at most one of the three sets.
type Comparison struct {
	New     []string
	Updated []string
	Deleted []string
}

// DirectoryComparer computes per-folder change sets. Staleness checks read
// live file timestamps through the filesystem gateway at comparison time.
type DirectoryComparer struct {
	fsmgr  FilesystemManager
	logger Logger
}

func NewDirectoryComparer(fsmgr FilesystemManager, logger Logger) *DirectoryComparer {
	return &DirectoryComparer{fsmgr: fsmgr, logger: logger}
}

// Compare classifies onDisk (file names directly inside folderPath) against
// catalogued (the folder's asset records).
//
// A rename shows up as one deletion plus one creation; there is no rename
// detection.
func (c *DirectoryComparer) Compare(folderPath string, onDisk []string, catalogued []*model.Asset) Comparison {
	known := make(map[string]*model.Asset, len(catalogued))
	for _, asset := range catalogued {
		known[asset.FileName] = asset
	}

	present := make(map[string]bool, len(onDisk))
	var result Comparison

	for _, name := range onDisk {
		present[name] = true
		asset, ok := known[name]
		if !ok {
			if IsSupportedImage(name) {
				result.New = append(result.New, name)
			}
			continue
		}
		if c.isStale(folderPath, asset) {
			result.Updated = append(result.Updated, name)
		}
	}

	for _, asset := range catalogued {
		if !present[asset.FileName] {
			result.Deleted = append(result.Deleted, asset.FileName)
		}
	}

	return result
}

// isStale re-reads the file's creation and modification times and compares
// them against the stored thumbnail creation time. A file that cannot be
// statted is treated as unchanged; if it is truly gone the listing already
// classified it as deleted.
func (c *DirectoryComparer) isStale(folderPath string, asset *model.Asset) bool {
	times, err := c.fsmgr.FileTimes(filepath.Join(folderPath, asset.FileName))
	if err != nil {
		c.logger.Warn("reading file times", "file", asset.FileName, "error", err)
		return false
	}
	return times.CreatedAt.After(asset.ThumbnailCreatedAt) ||
		times.ModifiedAt.After(asset.ThumbnailCreatedAt)
}
