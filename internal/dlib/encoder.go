package dlib

import (
	"fmt"
	"image"
	"sync"

	goface "github.com/Kagami/go-face"

	"github.com/phantomcv/phantom/internal/faces"
)

// Encoder computes ResNet face descriptors. It keeps one recognizer per
// landmark variant because dlib aligns the face with the predictor bundled
// in the models directory before encoding; recognizers are opened on first
// use of their variant.
type Encoder struct {
	mu   sync.Mutex
	dirs map[faces.ShapeModel]string
	recs map[faces.ShapeModel]*goface.Recognizer
}

// NewEncoder creates an encoder over per-variant model directories. The
// directories are not touched until a variant is first used.
func NewEncoder(dirs map[faces.ShapeModel]string) *Encoder {
	return &Encoder{
		dirs: dirs,
		recs: make(map[faces.ShapeModel]*goface.Recognizer),
	}
}

// Close releases every opened dlib handle.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for model, rec := range e.recs {
		rec.Close()
		delete(e.recs, model)
	}
}

func (e *Encoder) recognizer(model faces.ShapeModel) (*goface.Recognizer, error) {
	if rec, ok := e.recs[model]; ok {
		return rec, nil
	}
	dir, ok := e.dirs[model]
	if !ok {
		return nil, fmt.Errorf("no encoder models configured for the %s variant", model)
	}
	rec, err := goface.NewRecognizer(dir)
	if err != nil {
		return nil, fmt.Errorf("opening encoder models in %s: %w", dir, err)
	}
	e.recs[model] = rec
	return rec, nil
}

// Encode computes the 128-dimensional descriptor of the face at loc. Jitter
// is the number of randomized re-encoding passes dlib averages into the
// result. A region without a recognizable face yields ErrNoFace.
func (e *Encoder) Encode(img image.Image, loc faces.Box, model faces.ShapeModel, jitter int) (faces.Encoding, error) {
	crop, _ := cropRegion(img, loc, cropMargin)
	data, err := encodeJPEG(crop)
	if err != nil {
		return faces.Encoding{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	rec, err := e.recognizer(model)
	if err != nil {
		return faces.Encoding{}, err
	}
	if jitter < 1 {
		jitter = 1
	}
	rec.SetJittering(jitter)

	f, err := rec.RecognizeSingle(data)
	if err != nil {
		return faces.Encoding{}, fmt.Errorf("dlib encoding: %w", err)
	}
	if f == nil {
		return faces.Encoding{}, ErrNoFace
	}
	return faces.Encoding(f.Descriptor), nil
}
