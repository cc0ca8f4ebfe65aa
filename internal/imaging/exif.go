package imaging

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"

	"photocat/internal/model"
)

// ReadOrientation extracts the EXIF orientation code (1-8) from raw image
// bytes. Missing or unreadable EXIF data yields 1 (upright), never an error:
// most PNGs and plenty of JPEGs simply carry no EXIF segment.
func ReadOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	code, err := tag.Int(0)
	if err != nil || code < 1 || code > 8 {
		return 1
	}
	return code
}

// RotationFromOrientation maps an EXIF orientation code to a rotation.
// Codes with a horizontal-flip component (2, 4, 5, 7) collapse to the
// nearest non-flipped rotation; mirrored rendering is not supported, so
// flipped variants come out unmirrored but correctly rotated.
func RotationFromOrientation(code int) model.Rotation {
	switch code {
	case 3, 4:
		return model.Rotate180
	case 5, 6:
		return model.Rotate90
	case 7, 8:
		return model.Rotate270
	default:
		return model.RotateNone
	}
}
