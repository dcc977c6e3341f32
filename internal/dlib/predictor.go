package dlib

import (
	"fmt"
	"image"
	"sync"

	goface "github.com/Kagami/go-face"

	"github.com/phantomcv/phantom/internal/faces"
)

// Predictor regresses landmark points for a face at a known location. The
// number of points depends on the regressor placed in its models directory.
type Predictor struct {
	mu  sync.Mutex
	rec *goface.Recognizer
}

// OpenPredictor loads the landmark regressor from dir.
func OpenPredictor(dir string) (*Predictor, error) {
	rec, err := goface.NewRecognizer(dir)
	if err != nil {
		return nil, fmt.Errorf("opening landmark models in %s: %w", dir, err)
	}
	return &Predictor{rec: rec}, nil
}

// Close releases the underlying dlib handle.
func (p *Predictor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rec.Close()
}

// Predict runs the regressor over the face at loc and returns its landmark
// points in source image coordinates. The region is cropped with a margin
// and re-detected inside the crop, since dlib's predictor wants the box the
// detector would report. A region without a recognizable face yields
// ErrNoFace.
func (p *Predictor) Predict(img image.Image, loc faces.Box) ([]image.Point, error) {
	crop, origin := cropRegion(img, loc, cropMargin)
	data, err := encodeJPEG(crop)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.rec.RecognizeSingle(data)
	if err != nil {
		return nil, fmt.Errorf("dlib landmarking: %w", err)
	}
	if f == nil {
		return nil, ErrNoFace
	}

	points := make([]image.Point, len(f.Shapes))
	for i, pt := range f.Shapes {
		points[i] = pt.Add(origin)
	}
	return points, nil
}
