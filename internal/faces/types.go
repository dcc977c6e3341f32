// Package faces wraps pretrained face detection, landmarking and encoding
// models behind a small pipeline API. The models themselves are external
// binaries resolved through a lazy registry; this package supplies the
// argument plumbing and the data containers around them.
package faces

import "image"

// EncodingDim is the dimensionality of a face identity descriptor.
const EncodingDim = 128

// Encoding is a 128-dimensional face descriptor. Encodings of the same person
// sit close together under Euclidean distance; see Compare.
type Encoding [EncodingDim]float32

// Box is a face bounding box in pixel coordinates.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// BoxFromRect converts a stdlib rectangle to a Box.
func BoxFromRect(r image.Rectangle) Box {
	return Box{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}

// Rect converts the box to a stdlib rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

// Width returns the width of the box in pixels.
func (b Box) Width() int { return b.Right - b.Left }

// Height returns the height of the box in pixels.
func (b Box) Height() int { return b.Bottom - b.Top }
