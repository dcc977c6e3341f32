package faces

import "image"

// Face gathers everything known about a single detected face: its identity
// encoding, the pixels it was found in, where it came from, its landmark
// shape and its location within the source image. Every field is optional;
// Tags is a free-form mapping owned by the caller.
type Face struct {
	Encoding *Encoding
	Image    image.Image
	Origin   string
	Landmark Shape
	Location *Box
	Tags     map[string]any
}

// NewFace returns an empty face with an initialized tag map.
func NewFace() *Face {
	return &Face{Tags: make(map[string]any)}
}
