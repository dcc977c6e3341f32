package faces

import (
	"fmt"
	"image"

	"github.com/phantomcv/phantom/internal/registry"
)

// DefaultUpsample is the number of doubling passes applied before detection
// when the caller does not ask for more.
const DefaultUpsample = 1

// DefaultJitter is the number of randomized re-encoding passes used by
// Encode when the caller does not ask for more.
const DefaultJitter = 1

// Pipeline orchestrates the detection, landmarking and encoding models. The
// models are resolved lazily from the injected registry, so constructing a
// pipeline is cheap and each model file is only loaded on first use.
type Pipeline struct {
	models *registry.Store
}

// NewPipeline creates a pipeline over the given model store.
func NewPipeline(models *registry.Store) *Pipeline {
	return &Pipeline{models: models}
}

// Detect locates faces using the frontal detector. It returns one bounding
// box per face in the detector's native order; an image without faces yields
// an empty slice. Upsample is the number of doubling passes applied before
// detection.
func (p *Pipeline) Detect(img image.Image, upsample int) ([]Box, error) {
	return p.detectWith(KeyFaceDetector, img, upsample)
}

// DetectCNN locates faces using the CNN detector. Slower than Detect but more
// robust to non-frontal poses.
func (p *Pipeline) DetectCNN(img image.Image, upsample int) ([]Box, error) {
	return p.detectWith(KeyFaceDetectorCNN, img, upsample)
}

func (p *Pipeline) detectWith(key string, img image.Image, upsample int) ([]Box, error) {
	detector, err := registry.Resolve[Detector](p.models, key)
	if err != nil {
		return nil, err
	}
	boxes, err := detector.Detect(img, upsample)
	if err != nil {
		return nil, err
	}
	if boxes == nil {
		boxes = []Box{}
	}
	return boxes, nil
}

// Landmark produces one Shape per face location, in the same order as the
// locations. A nil locations slice triggers detection with the given
// upsample; an empty slice returns an empty result without touching any
// model.
func (p *Pipeline) Landmark(img image.Image, locations []Box, model ShapeModel, upsample int) ([]Shape, error) {
	if locations == nil {
		detected, err := p.Detect(img, upsample)
		if err != nil {
			return nil, err
		}
		locations = detected
	}
	if len(locations) == 0 {
		return []Shape{}, nil
	}

	predictor, err := registry.Resolve[ShapePredictor](p.models, model.PredictorKey())
	if err != nil {
		return nil, err
	}
	shapes := make([]Shape, 0, len(locations))
	for _, loc := range locations {
		points, err := predictor.Predict(img, loc)
		if err != nil {
			return nil, fmt.Errorf("landmarking face at %+v: %w", loc, err)
		}
		shape, err := NewShape(model, points)
		if err != nil {
			return nil, fmt.Errorf("landmarking face at %+v: %w", loc, err)
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// Encode computes one identity encoding per face location, in the same order
// as the locations. A nil locations slice triggers detection with the given
// upsample, matching Landmark; an empty slice returns an empty result without
// touching any model. Jitter is the number of randomized re-encoding passes
// averaged into each result.
func (p *Pipeline) Encode(img image.Image, locations []Box, model ShapeModel, jitter, upsample int) ([]Encoding, error) {
	if locations == nil {
		detected, err := p.Detect(img, upsample)
		if err != nil {
			return nil, err
		}
		locations = detected
	}
	if len(locations) == 0 {
		return []Encoding{}, nil
	}

	encoder, err := registry.Resolve[Encoder](p.models, KeyFaceEncoder)
	if err != nil {
		return nil, err
	}
	encodings := make([]Encoding, 0, len(locations))
	for _, loc := range locations {
		enc, err := encoder.Encode(img, loc, model, jitter)
		if err != nil {
			return nil, fmt.Errorf("encoding face at %+v: %w", loc, err)
		}
		encodings = append(encodings, enc)
	}
	return encodings, nil
}

// Describe runs the full pipeline on an image and returns one populated Face
// per detection: location, landmark shape and encoding, with Origin recording
// where the image came from.
func (p *Pipeline) Describe(img image.Image, origin string, model ShapeModel, jitter, upsample int) ([]*Face, error) {
	locations, err := p.Detect(img, upsample)
	if err != nil {
		return nil, err
	}
	shapes, err := p.Landmark(img, locations, model, upsample)
	if err != nil {
		return nil, err
	}
	encodings, err := p.Encode(img, locations, model, jitter, upsample)
	if err != nil {
		return nil, err
	}

	result := make([]*Face, 0, len(locations))
	for i := range locations {
		face := NewFace()
		face.Image = img
		face.Origin = origin
		face.Location = &locations[i]
		face.Landmark = shapes[i]
		face.Encoding = &encodings[i]
		result = append(result, face)
	}
	return result, nil
}

// EstimateGender feeds an encoding through the gender model and returns the
// raw score. See InterpretGender for the calibration convention.
func (p *Pipeline) EstimateGender(enc Encoding) (float64, error) {
	scorer, err := registry.Resolve[GenderScorer](p.models, KeyGenderModel)
	if err != nil {
		return 0, err
	}
	return scorer.Score(enc)
}
