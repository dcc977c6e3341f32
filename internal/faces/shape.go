package faces

import (
	"fmt"
	"image"
	"image/color"
)

// ShapeModel selects a facial landmark variant.
type ShapeModel int

const (
	// FivePoint is the fast 5-point variant (eye corners and nose tip).
	FivePoint ShapeModel = iota
	// SixtyEightPoint is the full 68-point variant covering jawline,
	// eyebrows, nose, eyes and lips.
	SixtyEightPoint
)

// PointCount returns the number of landmark points the variant produces.
func (m ShapeModel) PointCount() int {
	if m == FivePoint {
		return 5
	}
	return 68
}

// PredictorKey returns the registry key of the variant's landmark model.
func (m ShapeModel) PredictorKey() string {
	if m == FivePoint {
		return KeyShapePredictor5
	}
	return KeyShapePredictor68
}

func (m ShapeModel) String() string {
	if m == FivePoint {
		return "5p"
	}
	return "68p"
}

// Anatomical region names. The five point variant exposes only the eye and
// nose regions; the 68-point variant exposes all of them.
const (
	RegionJawline      = "jawline"
	RegionEyebrowRight = "eyebrow_right"
	RegionEyebrowLeft  = "eyebrow_left"
	RegionNoseBridge   = "nose_bridge"
	RegionNoseTip      = "nose_tip"
	RegionEyeRight     = "eye_right"
	RegionEyeLeft      = "eye_left"
	RegionLipsTop      = "lips_top"
	RegionLipsBottom   = "lips_bottom"
	RegionNose         = "nose"
)

// Shape is an ordered set of facial landmark points partitioned into named
// anatomical regions. Shapes are immutable after construction.
type Shape interface {
	// Model reports which landmark variant produced the shape.
	Model() ShapeModel
	// Points returns the ordered landmark points.
	Points() []image.Point
	// Regions returns the full region partition.
	Regions() map[string][]image.Point
	// Region returns the points of one named region, or nil if the variant
	// does not define it.
	Region(name string) []image.Point
	// DrawLines renders the shape onto dst with region-specific connectivity.
	DrawLines(dst *image.RGBA, c color.RGBA, thick int)
	// DrawPoints renders a filled circle at each landmark point.
	DrawPoints(dst *image.RGBA, c color.RGBA, thick int)
	// DrawNumbers labels each landmark point with its index.
	DrawNumbers(dst *image.RGBA, c color.RGBA)
}

// NewShape builds the Shape variant matching model from an ordered point
// sequence. The point count must match the variant.
func NewShape(model ShapeModel, points []image.Point) (Shape, error) {
	if model == FivePoint {
		return NewFivePointShape(points)
	}
	return NewSixtyEightPointShape(points)
}

// FivePointShape is the 5-point landmark variant.
type FivePointShape struct {
	points  []image.Point
	regions map[string][]image.Point
}

// NewFivePointShape builds a 5-point shape from an ordered point sequence.
func NewFivePointShape(points []image.Point) (*FivePointShape, error) {
	if len(points) != 5 {
		return nil, fmt.Errorf("5-point shape needs 5 points, got %d", len(points))
	}
	p := append([]image.Point(nil), points...)
	return &FivePointShape{
		points: p,
		regions: map[string][]image.Point{
			RegionEyeLeft:  p[0:2],
			RegionEyeRight: p[2:4],
			RegionNose:     p[4:5],
		},
	}, nil
}

// Model returns FivePoint.
func (s *FivePointShape) Model() ShapeModel { return FivePoint }

// Points returns the ordered landmark points.
func (s *FivePointShape) Points() []image.Point { return s.points }

// Regions returns the region partition.
func (s *FivePointShape) Regions() map[string][]image.Point { return s.regions }

// Region returns the points of one named region.
func (s *FivePointShape) Region(name string) []image.Point { return s.regions[name] }

// DrawLines draws a single polyline from the left eye through the nose to the
// right eye.
func (s *FivePointShape) DrawLines(dst *image.RGBA, c color.RGBA, thick int) {
	path := make([]image.Point, 0, 5)
	path = append(path, s.regions[RegionEyeLeft]...)
	path = append(path, s.regions[RegionNose]...)
	path = append(path, reversePoints(s.regions[RegionEyeRight])...)
	drawPolyline(dst, path, c, thick)
}

// DrawPoints draws a filled circle at each landmark point.
func (s *FivePointShape) DrawPoints(dst *image.RGBA, c color.RGBA, thick int) {
	for _, pt := range s.points {
		drawDisc(dst, pt, thick, c)
	}
}

// DrawNumbers labels each landmark point with its index.
func (s *FivePointShape) DrawNumbers(dst *image.RGBA, c color.RGBA) {
	drawIndexLabels(dst, s.points, c)
}

// SixtyEightPointShape is the 68-point landmark variant.
type SixtyEightPointShape struct {
	points  []image.Point
	regions map[string][]image.Point
}

// NewSixtyEightPointShape builds a 68-point shape from an ordered point
// sequence. The lips regions splice the outer and inner lip contours so each
// forms a closed outline when drawn.
func NewSixtyEightPointShape(points []image.Point) (*SixtyEightPointShape, error) {
	if len(points) != 68 {
		return nil, fmt.Errorf("68-point shape needs 68 points, got %d", len(points))
	}
	p := append([]image.Point(nil), points...)

	lipsTop := make([]image.Point, 0, 12)
	lipsTop = append(lipsTop, p[48:55]...)
	lipsTop = append(lipsTop, p[64], p[63], p[62], p[61], p[60])

	lipsBottom := make([]image.Point, 0, 12)
	lipsBottom = append(lipsBottom, p[54:60]...)
	lipsBottom = append(lipsBottom, p[48], p[60])
	lipsBottom = append(lipsBottom, p[67], p[66], p[65], p[64])

	return &SixtyEightPointShape{
		points: p,
		regions: map[string][]image.Point{
			RegionJawline:      p[0:17],
			RegionEyebrowRight: p[17:22],
			RegionEyebrowLeft:  p[22:27],
			RegionNoseBridge:   p[27:31],
			RegionNoseTip:      p[31:36],
			RegionEyeRight:     p[36:42],
			RegionEyeLeft:      p[42:48],
			RegionLipsTop:      lipsTop,
			RegionLipsBottom:   lipsBottom,
		},
	}, nil
}

// Model returns SixtyEightPoint.
func (s *SixtyEightPointShape) Model() ShapeModel { return SixtyEightPoint }

// Points returns the ordered landmark points.
func (s *SixtyEightPointShape) Points() []image.Point { return s.points }

// Regions returns the region partition.
func (s *SixtyEightPointShape) Regions() map[string][]image.Point { return s.regions }

// Region returns the points of one named region.
func (s *SixtyEightPointShape) Region(name string) []image.Point { return s.regions[name] }

// DrawLines draws a polyline through every region.
func (s *SixtyEightPointShape) DrawLines(dst *image.RGBA, c color.RGBA, thick int) {
	for _, region := range s.regions {
		drawPolyline(dst, region, c, thick)
	}
}

// DrawPoints draws a filled circle at each landmark point.
func (s *SixtyEightPointShape) DrawPoints(dst *image.RGBA, c color.RGBA, thick int) {
	for _, pt := range s.points {
		drawDisc(dst, pt, thick, c)
	}
}

// DrawNumbers labels each landmark point with its index.
func (s *SixtyEightPointShape) DrawNumbers(dst *image.RGBA, c color.RGBA) {
	drawIndexLabels(dst, s.points, c)
}

func reversePoints(points []image.Point) []image.Point {
	out := make([]image.Point, len(points))
	for i, pt := range points {
		out[len(points)-1-i] = pt
	}
	return out
}
