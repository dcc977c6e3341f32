// Package dlib adapts the go-face bindings (dlib's frontal HOG detector, MMOD
// CNN detector, shape predictors and ResNet face encoder) to the model
// interfaces consumed by the pipeline.
//
// go-face loads its models by fixed file names inside a models directory:
// shape_predictor_5_face_landmarks.dat, dlib_face_recognition_resnet_model_v1.dat
// and mmod_human_face_detector.dat. A different landmark regressor (such as
// the 68-point one) is used by placing it in its own directory under the
// predictor file name, so every variant here is configured as a directory.
package dlib

import (
	"errors"

	"github.com/phantomcv/phantom/internal/faces"
	"github.com/phantomcv/phantom/internal/registry"
)

// ErrNoFace is returned when a predictor or encoder is given a region the
// underlying model cannot find a face in.
var ErrNoFace = errors.New("no face found in region")

// ModelPaths configures where the dlib model directories live.
type ModelPaths struct {
	// Dir holds the detector, the 5-point predictor and the ResNet encoder.
	Dir string
	// Shape68Dir holds the 68-point landmark regressor under go-face's
	// predictor file name.
	Shape68Dir string
}

// RegisterModels registers lazily constructed dlib handles for every model
// key except the gender model, which has its own package.
func RegisterModels(store *registry.Store, paths ModelPaths) {
	store.Register(faces.KeyFaceDetector, func() (any, error) {
		return OpenDetector(paths.Dir, false)
	})
	store.Register(faces.KeyFaceDetectorCNN, func() (any, error) {
		return OpenDetector(paths.Dir, true)
	})
	store.Register(faces.KeyShapePredictor5, func() (any, error) {
		return OpenPredictor(paths.Dir)
	})
	store.Register(faces.KeyShapePredictor68, func() (any, error) {
		return OpenPredictor(paths.Shape68Dir)
	})
	store.Register(faces.KeyFaceEncoder, func() (any, error) {
		return NewEncoder(map[faces.ShapeModel]string{
			faces.FivePoint:       paths.Dir,
			faces.SixtyEightPoint: paths.Shape68Dir,
		}), nil
	})
}
