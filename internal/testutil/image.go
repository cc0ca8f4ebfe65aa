package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// testImage builds a small gradient so encoders have non-uniform input.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 255 / (w + h)),
				A: 255,
			})
		}
	}
	return img
}

// JPEGBytes returns an encoded JPEG of the given dimensions.
func JPEGBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(w, h), nil); err != nil {
		t.Fatalf("encoding test jpeg: %v", err)
	}
	return buf.Bytes()
}

// PNGBytes returns an encoded PNG of the given dimensions.
func PNGBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

// JPEGWithOrientation returns a JPEG of the given dimensions carrying an
// EXIF APP1 segment whose only tag is the orientation code (1-8).
func JPEGWithOrientation(t *testing.T, w, h int, orientation uint16) []byte {
	t.Helper()

	base := JPEGBytes(t, w, h)

	// Minimal little-endian TIFF block: header, one IFD with a single
	// SHORT orientation entry, zero next-IFD offset.
	tiff := &bytes.Buffer{}
	tiff.WriteString("II")
	binary.Write(tiff, binary.LittleEndian, uint16(42))
	binary.Write(tiff, binary.LittleEndian, uint32(8)) // IFD0 offset

	binary.Write(tiff, binary.LittleEndian, uint16(1))      // entry count
	binary.Write(tiff, binary.LittleEndian, uint16(0x0112)) // orientation tag
	binary.Write(tiff, binary.LittleEndian, uint16(3))      // type SHORT
	binary.Write(tiff, binary.LittleEndian, uint32(1))      // value count
	binary.Write(tiff, binary.LittleEndian, orientation)
	binary.Write(tiff, binary.LittleEndian, uint16(0)) // value padding
	binary.Write(tiff, binary.LittleEndian, uint32(0)) // next IFD offset

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	app1 := &bytes.Buffer{}
	app1.Write([]byte{0xFF, 0xE1})
	binary.Write(app1, binary.BigEndian, uint16(len(payload)+2))
	app1.Write(payload)

	// Splice the APP1 segment in right after the SOI marker.
	out := make([]byte, 0, len(base)+app1.Len())
	out = append(out, base[:2]...)
	out = append(out, app1.Bytes()...)
	out = append(out, base[2:]...)
	return out
}
