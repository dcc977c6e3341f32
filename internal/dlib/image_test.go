package dlib

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/phantomcv/phantom/internal/faces"
)

func TestUpsampleScale(t *testing.T) {
	tests := []struct {
		upsample int
		want     int
	}{
		{0, 1},
		{1, 2},
		{2, 4},
		{3, 8},
		{-1, 1},
	}
	for _, tt := range tests {
		if got := upsampleScale(tt.upsample); got != tt.want {
			t.Errorf("upsampleScale(%d) = %d, want %d", tt.upsample, got, tt.want)
		}
	}
}

func TestDownscaleBox(t *testing.T) {
	b := faces.Box{Left: 100, Top: 200, Right: 300, Bottom: 400}

	if got := downscaleBox(b, 1); got != b {
		t.Errorf("scale 1 should be identity, got %+v", got)
	}
	got := downscaleBox(b, 2)
	want := faces.Box{Left: 50, Top: 100, Right: 150, Bottom: 200}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCropRegionClampsToBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	// A box near the corner: the margin would extend past the image.
	loc := faces.Box{Left: 0, Top: 0, Right: 40, Bottom: 40}

	crop, origin := cropRegion(img, loc, 0.25)
	if origin.X != 0 || origin.Y != 0 {
		t.Errorf("origin = %v, want (0,0)", origin)
	}
	// 40px box with 25% margin extends to 50 on the far side only.
	if crop.Bounds().Dx() != 50 || crop.Bounds().Dy() != 50 {
		t.Errorf("crop size = %v, want 50x50", crop.Bounds().Size())
	}
}

func TestCropRegionOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	loc := faces.Box{Left: 80, Top: 80, Right: 120, Bottom: 120}

	crop, origin := cropRegion(img, loc, 0.25)
	want := image.Pt(70, 70) // 40px box, 10px margin on each side
	if origin != want {
		t.Errorf("origin = %v, want %v", origin, want)
	}
	if crop.Bounds().Dx() != 60 || crop.Bounds().Dy() != 60 {
		t.Errorf("crop size = %v, want 60x60", crop.Bounds().Size())
	}
}

func TestEncodeJPEGRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	data, err := encodeJPEG(img)
	if err != nil {
		t.Fatalf("encodeJPEG failed: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid JPEG: %v", err)
	}
	if decoded.Bounds().Dx() != 32 || decoded.Bounds().Dy() != 24 {
		t.Errorf("decoded size = %v", decoded.Bounds().Size())
	}
}
