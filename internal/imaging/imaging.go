// Package imaging holds the pure image primitives behind asset creation:
// decoding with EXIF-derived rotation applied, bounded thumbnail sizing,
// and re-encoding to the thumbnail wire format.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"photocat/internal/model"

	_ "image/gif" // register GIF decoding
)

// Thumbnail bounding box. Landscape images are fixed to the maximum width,
// everything else to the maximum height.
const (
	MaxThumbnailWidth  = 200
	MaxThumbnailHeight = 150
)

const jpegQuality = 85

// Decode decodes raw image bytes and applies the given rotation, so the
// returned image carries the true post-rotation pixel dimensions.
func Decode(data []byte, rotation model.Rotation) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return rotate(img, rotation), nil
}

// ThumbnailSize computes thumbnail dimensions for a source of w x h,
// preserving aspect ratio inside the bounding box. Fractional results round
// half to even: 1920x1080 lands on 200x112, not 200x113.
func ThumbnailSize(w, h int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w > h {
		scale := float64(MaxThumbnailWidth) / float64(w)
		return MaxThumbnailWidth, int(math.RoundToEven(float64(h) * scale))
	}
	scale := float64(MaxThumbnailHeight) / float64(h)
	return int(math.RoundToEven(float64(w) * scale)), MaxThumbnailHeight
}

// Thumbnail scales src to w x h.
func Thumbnail(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// Encode re-encodes img for storage. PNG sources keep PNG encoding; every
// other supported extension (jpg, jpeg, jfif, gif) becomes JPEG.
func Encode(img image.Image, sourceFileName string) ([]byte, error) {
	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(sourceFileName), ".png") {
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding png thumbnail: %w", err)
		}
	} else {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encoding jpeg thumbnail: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// rotate returns src rotated clockwise by the given rotation.
func rotate(src image.Image, rotation model.Rotation) image.Image {
	if rotation == model.RotateNone {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	switch rotation {
	case model.Rotate90:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(h-1-y, x, src.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	case model.Rotate180:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(w-1-x, h-1-y, src.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	case model.Rotate270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(y, w-1-x, src.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	default:
		return src
	}
	return dst
}
