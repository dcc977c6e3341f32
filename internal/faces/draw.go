package faces

import (
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawPolyline connects consecutive points with straight lines.
func drawPolyline(dst *image.RGBA, points []image.Point, c color.RGBA, thick int) {
	for i := 1; i < len(points); i++ {
		drawLine(dst, points[i-1], points[i], c, thick)
	}
}

// drawLine rasterizes a line segment between two points. Thickness is
// applied by stamping a disc at each step.
func drawLine(dst *image.RGBA, a, b image.Point, c color.RGBA, thick int) {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx - dy

	x, y := a.X, a.Y
	for {
		if thick > 1 {
			drawDisc(dst, image.Pt(x, y), thick/2, c)
		} else {
			setPixel(dst, x, y, c)
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// drawDisc fills a circle of the given radius centered at pt.
func drawDisc(dst *image.RGBA, pt image.Point, radius int, c color.RGBA) {
	if radius < 1 {
		radius = 1
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				setPixel(dst, pt.X+dx, pt.Y+dy, c)
			}
		}
	}
}

// drawIndexLabels writes the index of each point next to it.
func drawIndexLabels(dst *image.RGBA, points []image.Point, c color.RGBA) {
	face := basicfont.Face7x13
	for i, pt := range points {
		drawer := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.P(pt.X+2, pt.Y-2),
		}
		drawer.DrawString(strconv.Itoa(i))
	}
}

func setPixel(dst *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
