package dlib

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	"github.com/phantomcv/phantom/internal/faces"
)

// jpegQuality is used when handing pixels to go-face, which only accepts
// JPEG-encoded input.
const jpegQuality = 95

// cropMargin widens a face box before cropping so the models see enough
// context around the face.
const cropMargin = 0.25

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding image for dlib: %w", err)
	}
	return buf.Bytes(), nil
}

// cropRegion copies the face region plus margin into a fresh image and
// returns it together with the origin of the crop in source coordinates.
func cropRegion(img image.Image, loc faces.Box, margin float64) (*image.RGBA, image.Point) {
	r := loc.Rect()
	mx := int(float64(r.Dx()) * margin)
	my := int(float64(r.Dy()) * margin)
	r = image.Rect(r.Min.X-mx, r.Min.Y-my, r.Max.X+mx, r.Max.Y+my).Intersect(img.Bounds())

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst, r.Min
}

// downscaleBox maps a box detected on an upsampled image back to the
// original coordinates.
func downscaleBox(b faces.Box, scale int) faces.Box {
	if scale <= 1 {
		return b
	}
	return faces.Box{
		Left:   b.Left / scale,
		Top:    b.Top / scale,
		Right:  b.Right / scale,
		Bottom: b.Bottom / scale,
	}
}

// upsampleScale converts a number of doubling passes to a linear factor.
func upsampleScale(upsample int) int {
	scale := 1
	for i := 0; i < upsample; i++ {
		scale *= 2
	}
	return scale
}
