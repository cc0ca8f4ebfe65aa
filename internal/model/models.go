package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Rotation is the image rotation derived from the EXIF orientation tag.
// Orientations with a horizontal-flip component are collapsed to the
// nearest non-flipped rotation; mirroring is not modeled.
type Rotation int

const (
	RotateNone Rotation = 0
	Rotate90   Rotation = 90
	Rotate180  Rotation = 180
	Rotate270  Rotation = 270
)

func (r Rotation) String() string {
	switch r {
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	default:
		return "0"
	}
}

// Folder represents a catalogued directory on the local host.
// There is no explicit parent pointer; "is parent of" is a path-prefix
// relationship (see IsParentOf).
type Folder struct {
	ID        string // UUID
	Path      string // Absolute path on host
	CreatedAt time.Time
}

// IsParentOf reports whether other sits directly or transitively under f.
func (f *Folder) IsParentOf(other *Folder) bool {
	if f == nil || other == nil || f.Path == other.Path {
		return false
	}
	prefix := f.Path
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(other.Path, prefix)
}

// Asset represents a catalogued image file.
//
// FileCreatedAt and FileModifiedAt are read from the live filesystem when
// staleness must be checked; the stored values are a convenience copy, not
// authoritative.
type Asset struct {
	ID                 string // UUID
	FolderID           string // Foreign key to Folder
	FolderPath         string // Denormalized owning folder path (populated on read)
	FileName           string
	FileSize           int64
	PixelWidth         int // Source dimensions after rotation is applied
	PixelHeight        int
	ThumbnailWidth     int
	ThumbnailHeight    int
	Rotation           Rotation
	Hash               string // SHA-512 of the original file bytes, lowercase hex
	ThumbnailCreatedAt time.Time
	FileCreatedAt      time.Time
	FileModifiedAt     time.Time
}

// FullPath returns the absolute path of the asset's backing file.
func (a *Asset) FullPath() string {
	return filepath.Join(a.FolderPath, a.FileName)
}

// IsStale reports whether the backing file changed after the thumbnail was
// derived. Callers must refresh FileCreatedAt/FileModifiedAt from disk first.
func (a *Asset) IsStale() bool {
	return a.FileCreatedAt.After(a.ThumbnailCreatedAt) ||
		a.FileModifiedAt.After(a.ThumbnailCreatedAt)
}
