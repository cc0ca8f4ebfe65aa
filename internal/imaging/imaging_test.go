package imaging_test

import (
	"bytes"
	"image/color"
	"testing"

	"photocat/internal/imaging"
	"photocat/internal/model"
	"photocat/internal/testutil"
)

func TestThumbnailSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"full hd lands on 200x112", 1920, 1080, 200, 112},
		{"portrait full hd lands on 84x150", 1080, 1920, 84, 150},
		{"square pins to max height", 500, 500, 150, 150},
		{"landscape 4x3", 1600, 1200, 200, 150},
		{"exact thumbnail size passes through", 200, 100, 200, 100},
		{"small images scale up", 10, 10, 150, 150},
		{"degenerate width", 0, 100, 0, 0},
		{"degenerate height", 100, -1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := imaging.ThumbnailSize(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ThumbnailSize(%d, %d) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("decodes without rotation", func(t *testing.T) {
		img, err := imaging.Decode(testutil.JPEGBytes(t, 40, 30), model.RotateNone)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		b := img.Bounds()
		if b.Dx() != 40 || b.Dy() != 30 {
			t.Errorf("bounds = %dx%d, want 40x30", b.Dx(), b.Dy())
		}
	})

	t.Run("quarter turns swap dimensions", func(t *testing.T) {
		for _, rotation := range []model.Rotation{model.Rotate90, model.Rotate270} {
			img, err := imaging.Decode(testutil.PNGBytes(t, 40, 30), rotation)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			b := img.Bounds()
			if b.Dx() != 30 || b.Dy() != 40 {
				t.Errorf("rotation %v: bounds = %dx%d, want 30x40", rotation, b.Dx(), b.Dy())
			}
		}
	})

	t.Run("half turn keeps dimensions", func(t *testing.T) {
		img, err := imaging.Decode(testutil.PNGBytes(t, 40, 30), model.Rotate180)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		b := img.Bounds()
		if b.Dx() != 40 || b.Dy() != 30 {
			t.Errorf("bounds = %dx%d, want 40x30", b.Dx(), b.Dy())
		}
	})

	t.Run("clockwise quarter turn moves the origin to the top right", func(t *testing.T) {
		// The test gradient is darkest at the origin; PNG keeps it exact.
		img, err := imaging.Decode(testutil.PNGBytes(t, 4, 2), model.Rotate90)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		got := color.RGBAModel.Convert(img.At(1, 0)).(color.RGBA)
		if got.R != 0 || got.G != 0 || got.B != 0 {
			t.Errorf("top-right pixel = %+v, want the origin pixel (black)", got)
		}
	})

	t.Run("rejects corrupt bytes", func(t *testing.T) {
		if _, err := imaging.Decode([]byte("not an image"), model.RotateNone); err == nil {
			t.Error("Decode() accepted corrupt bytes")
		}
	})
}

func TestEncode(t *testing.T) {
	img, err := imaging.Decode(testutil.PNGBytes(t, 20, 20), model.RotateNone)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	t.Run("png sources stay png", func(t *testing.T) {
		for _, name := range []string{"shot.png", "SHOT.PNG", "x.PnG"} {
			data, err := imaging.Encode(img, name)
			if err != nil {
				t.Fatalf("Encode(%q) error = %v", name, err)
			}
			if !bytes.HasPrefix(data, []byte("\x89PNG")) {
				t.Errorf("Encode(%q) did not produce png", name)
			}
		}
	})

	t.Run("everything else becomes jpeg", func(t *testing.T) {
		for _, name := range []string{"a.jpg", "b.jpeg", "c.jfif", "d.gif", "e.png.bak"} {
			data, err := imaging.Encode(img, name)
			if err != nil {
				t.Fatalf("Encode(%q) error = %v", name, err)
			}
			if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
				t.Errorf("Encode(%q) did not produce jpeg", name)
			}
		}
	})
}

func TestThumbnail(t *testing.T) {
	img, err := imaging.Decode(testutil.JPEGBytes(t, 400, 300), model.RotateNone)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	thumb := imaging.Thumbnail(img, 200, 150)
	b := thumb.Bounds()
	if b.Dx() != 200 || b.Dy() != 150 {
		t.Errorf("thumbnail bounds = %dx%d, want 200x150", b.Dx(), b.Dy())
	}
}
