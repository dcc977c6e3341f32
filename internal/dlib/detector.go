package dlib

import (
	"fmt"
	"image"
	"sync"

	goface "github.com/Kagami/go-face"
	"github.com/nfnt/resize"

	"github.com/phantomcv/phantom/internal/faces"
)

// Detector wraps go-face's detection path. With cnn set it uses the MMOD
// CNN detector instead of the frontal HOG one.
type Detector struct {
	mu  sync.Mutex // go-face handles are not safe for concurrent use
	rec *goface.Recognizer
	cnn bool
}

// OpenDetector loads the detector models from dir.
func OpenDetector(dir string, cnn bool) (*Detector, error) {
	rec, err := goface.NewRecognizer(dir)
	if err != nil {
		return nil, fmt.Errorf("opening dlib models in %s: %w", dir, err)
	}
	return &Detector{rec: rec, cnn: cnn}, nil
}

// Close releases the underlying dlib handle.
func (d *Detector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rec.Close()
}

// Detect locates faces and returns their bounding boxes in the original
// image coordinates, in the detector's native order. Each upsample pass
// doubles the image before detection to surface smaller faces.
func (d *Detector) Detect(img image.Image, upsample int) ([]faces.Box, error) {
	scale := upsampleScale(upsample)
	work := img
	if scale > 1 {
		bounds := img.Bounds()
		work = resize.Resize(uint(bounds.Dx()*scale), 0, img, resize.Bilinear)
	}

	data, err := encodeJPEG(work)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	var found []goface.Face
	if d.cnn {
		found, err = d.rec.RecognizeCNN(data)
	} else {
		found, err = d.rec.Recognize(data)
	}
	if err != nil {
		return nil, fmt.Errorf("dlib detection: %w", err)
	}

	boxes := make([]faces.Box, 0, len(found))
	for _, f := range found {
		boxes = append(boxes, downscaleBox(faces.BoxFromRect(f.Rectangle), scale))
	}
	return boxes, nil
}
