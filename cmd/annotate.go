package cmd

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/phantomcv/phantom/internal/faces"
)

// drawHLine draws a horizontal line on the image.
func drawHLine(dst *image.RGBA, x1, x2, y int, c color.RGBA) {
	bounds := dst.Bounds()
	if y < 0 || y >= bounds.Dy() {
		return
	}
	for x := x1; x <= x2; x++ {
		if x >= 0 && x < bounds.Dx() {
			dst.Set(x, y, c)
		}
	}
}

// drawVLine draws a vertical line on the image.
func drawVLine(dst *image.RGBA, y1, y2, x int, c color.RGBA) {
	bounds := dst.Bounds()
	if x < 0 || x >= bounds.Dx() {
		return
	}
	for y := y1; y <= y2; y++ {
		if y >= 0 && y < bounds.Dy() {
			dst.Set(x, y, c)
		}
	}
}

// drawFaceBox draws a red rectangle around a face location.
func drawFaceBox(dst *image.RGBA, box faces.Box, lineWidth, padding int) {
	x1 := box.Left - padding
	y1 := box.Top - padding
	x2 := box.Right + padding
	y2 := box.Bottom + padding
	red := color.RGBA{255, 0, 0, 255}

	for w := range lineWidth {
		drawHLine(dst, x1, x2, y1+w, red)
		drawHLine(dst, x1, x2, y2-w, red)
		drawVLine(dst, y1, y2, x1+w, red)
		drawVLine(dst, y1, y2, x2-w, red)
	}
}

// cloneRGBA copies an image into a mutable RGBA canvas.
func cloneRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)
	return dst
}
