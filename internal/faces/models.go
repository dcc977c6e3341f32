package faces

import "image"

// Registry keys for the pretrained models the pipeline resolves lazily.
const (
	KeyFaceDetector     = "face_detector"
	KeyFaceDetectorCNN  = "face_detector_cnn"
	KeyFaceEncoder      = "face_encoder"
	KeyGenderModel      = "gender_model"
	KeyShapePredictor5  = "shape_predictor_5p"
	KeyShapePredictor68 = "shape_predictor_68p"
)

// Detector locates faces in an image. Upsample is the number of doubling
// passes applied before detection; higher values find smaller faces at the
// cost of latency.
type Detector interface {
	Detect(img image.Image, upsample int) ([]Box, error)
}

// ShapePredictor regresses facial landmark points inside a face box. The
// number of points returned depends on the model behind the predictor.
type ShapePredictor interface {
	Predict(img image.Image, loc Box) ([]image.Point, error)
}

// Encoder computes a 128-dimensional identity descriptor for the face inside
// loc. Model selects the landmark variant used to align the face before
// encoding. Jitter is the number of randomized re-encoding passes averaged
// into the result.
type Encoder interface {
	Encode(img image.Image, loc Box, model ShapeModel, jitter int) (Encoding, error)
}

// GenderScorer maps an encoding to a scalar gender score. See EstimateGender
// for the calibration convention.
type GenderScorer interface {
	Score(enc Encoding) (float64, error)
}
