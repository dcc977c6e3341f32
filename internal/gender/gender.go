// Package gender scores face encodings with a linear gender model. The model
// was trained to output 1 for female and -1 for male faces; scores close to
// zero are uncertain.
package gender

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/phantomcv/phantom/internal/faces"
	"github.com/phantomcv/phantom/internal/registry"
)

// modelVersion is the supported schema version of the model file.
const modelVersion = 1

var (
	// ErrIncompatibleModel is returned when the model file does not match
	// the expected schema.
	ErrIncompatibleModel = errors.New("incompatible gender model file")
	// ErrDimensionMismatch is returned when an encoding's dimensionality
	// does not match the model's weight vector.
	ErrDimensionMismatch = errors.New("encoding dimension mismatch")
)

type model struct {
	Version int       `json:"version"`
	Dim     int       `json:"dim"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Scorer applies a linear model to face encodings.
type Scorer struct {
	model model
}

// Load reads a gender model from a JSON file.
func Load(path string) (*Scorer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gender model: %w", err)
	}
	var m model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleModel, err)
	}
	if m.Version != modelVersion {
		return nil, fmt.Errorf("%w: schema version %d, want %d", ErrIncompatibleModel, m.Version, modelVersion)
	}
	if m.Dim <= 0 || len(m.Weights) != m.Dim {
		return nil, fmt.Errorf("%w: %d weights for dimension %d", ErrIncompatibleModel, len(m.Weights), m.Dim)
	}
	return &Scorer{model: m}, nil
}

// Score returns the raw gender score for an encoding.
func (s *Scorer) Score(enc faces.Encoding) (float64, error) {
	if s.model.Dim != len(enc) {
		return 0, fmt.Errorf("%w: encoding has %d dimensions, model expects %d",
			ErrDimensionMismatch, len(enc), s.model.Dim)
	}
	score := s.model.Bias
	for i, w := range s.model.Weights {
		score += w * float64(enc[i])
	}
	return score, nil
}

// Register registers a lazily loaded scorer under the gender model key. The
// model file path comes from configuration so deployments can pick the
// variant matching their encoder build.
func Register(store *registry.Store, path string) {
	store.Register(faces.KeyGenderModel, func() (any, error) {
		return Load(path)
	})
}
