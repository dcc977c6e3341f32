// Package atlas maintains a persisted collection of face encodings with
// density-based grouping, so faces of the same person can be matched across
// images.
package atlas

import (
	"github.com/google/uuid"

	"github.com/phantomcv/phantom/internal/faces"
)

// Default clustering parameters: the maximum encoding distance between
// neighbors and the minimum number of faces that form a group.
const (
	DefaultEpsilon   = 0.475
	DefaultMinPoints = 2
)

// Element is a single face-encoding record.
type Element struct {
	ID       string            `json:"id"`
	Origin   string            `json:"origin,omitempty"`
	Encoding faces.Encoding    `json:"encoding"`
	Location *faces.Box        `json:"location,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// NewElement creates an element with a fresh ID.
func NewElement(origin string, enc faces.Encoding) Element {
	return Element{ID: uuid.NewString(), Origin: origin, Encoding: enc}
}

// Atlas is a collection of face encodings with clustering state and a
// file-system path it persists to. Grouped is true exactly when Groups is
// non-nil, i.e. after a successful Group call that has not been invalidated.
type Atlas struct {
	Elements  []Element
	Clusters  map[int][]int
	Groups    [][]int
	Grouped   bool
	Path      string
	Epsilon   float64
	MinPoints int
}

// New creates an atlas over the given elements, persisting to path.
func New(elements []Element, path string) *Atlas {
	return &Atlas{
		Elements:  elements,
		Clusters:  make(map[int][]int),
		Path:      path,
		Epsilon:   DefaultEpsilon,
		MinPoints: DefaultMinPoints,
	}
}

// Add appends an element and invalidates any previous grouping.
func (a *Atlas) Add(e Element) {
	a.Elements = append(a.Elements, e)
	a.Clusters = make(map[int][]int)
	a.Groups = nil
	a.Grouped = false
}

// Len returns the number of elements.
func (a *Atlas) Len() int { return len(a.Elements) }
