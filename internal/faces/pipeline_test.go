package faces

import (
	"errors"
	"image"
	"testing"

	"github.com/phantomcv/phantom/internal/registry"
)

// stubDetector returns preset boxes and records the upsample it was called
// with.
type stubDetector struct {
	boxes        []Box
	err          error
	calls        int
	lastUpsample int
}

func (d *stubDetector) Detect(img image.Image, upsample int) ([]Box, error) {
	d.calls++
	d.lastUpsample = upsample
	return d.boxes, d.err
}

// stubPredictor derives each point from the box origin so tests can verify
// order preservation.
type stubPredictor struct {
	model ShapeModel
	calls int
}

func (p *stubPredictor) Predict(img image.Image, loc Box) ([]image.Point, error) {
	p.calls++
	points := make([]image.Point, p.model.PointCount())
	for i := range points {
		points[i] = image.Pt(loc.Left+i, loc.Top+i)
	}
	return points, nil
}

type stubEncoder struct {
	calls      int
	lastModel  ShapeModel
	lastJitter int
}

func (e *stubEncoder) Encode(img image.Image, loc Box, model ShapeModel, jitter int) (Encoding, error) {
	e.calls++
	e.lastModel = model
	e.lastJitter = jitter
	var enc Encoding
	enc[0] = float32(loc.Left)
	return enc, nil
}

type stubScorer struct{ score float64 }

func (s *stubScorer) Score(enc Encoding) (float64, error) { return s.score, nil }

func registerStub(store *registry.Store, key string, value any) {
	store.Register(key, func() (any, error) { return value, nil })
}

// registerPoisoned registers a factory that fails the test if it is ever
// materialized.
func registerPoisoned(t *testing.T, store *registry.Store, key string) {
	t.Helper()
	store.Register(key, func() (any, error) {
		t.Errorf("model %q was loaded but should not have been", key)
		return nil, errors.New("poisoned")
	})
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 640, 480))
}

func TestDetectEmptyImage(t *testing.T) {
	store := registry.New()
	registerStub(store, KeyFaceDetector, &stubDetector{boxes: nil})
	pipeline := NewPipeline(store)

	boxes, err := pipeline.Detect(testImage(), 1)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if boxes == nil || len(boxes) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", boxes)
	}
}

func TestDetectCNNUsesOwnModel(t *testing.T) {
	store := registry.New()
	hog := &stubDetector{boxes: []Box{{0, 0, 10, 10}}}
	cnn := &stubDetector{boxes: []Box{{5, 5, 20, 20}, {30, 30, 50, 50}}}
	registerStub(store, KeyFaceDetector, hog)
	registerStub(store, KeyFaceDetectorCNN, cnn)
	pipeline := NewPipeline(store)

	boxes, err := pipeline.DetectCNN(testImage(), 2)
	if err != nil {
		t.Fatalf("DetectCNN failed: %v", err)
	}
	if len(boxes) != 2 {
		t.Errorf("got %d boxes, want 2", len(boxes))
	}
	if hog.calls != 0 {
		t.Error("frontal detector was invoked by DetectCNN")
	}
	if cnn.lastUpsample != 2 {
		t.Errorf("upsample = %d, want 2", cnn.lastUpsample)
	}
}

func TestLandmarkPreservesOrder(t *testing.T) {
	store := registry.New()
	predictor := &stubPredictor{model: SixtyEightPoint}
	registerStub(store, KeyShapePredictor68, predictor)
	pipeline := NewPipeline(store)

	locations := []Box{
		{Left: 100, Top: 10, Right: 150, Bottom: 60},
		{Left: 300, Top: 20, Right: 360, Bottom: 80},
		{Left: 500, Top: 30, Right: 560, Bottom: 90},
	}
	shapes, err := pipeline.Landmark(testImage(), locations, SixtyEightPoint, 1)
	if err != nil {
		t.Fatalf("Landmark failed: %v", err)
	}
	if len(shapes) != len(locations) {
		t.Fatalf("got %d shapes, want %d", len(shapes), len(locations))
	}
	for i, shape := range shapes {
		first := shape.Points()[0]
		if first.X != locations[i].Left || first.Y != locations[i].Top {
			t.Errorf("shape %d does not correspond to location %d: %v", i, i, first)
		}
	}
}

func TestLandmarkDetectsWhenLocationsNil(t *testing.T) {
	store := registry.New()
	detector := &stubDetector{boxes: []Box{{10, 10, 50, 50}}}
	registerStub(store, KeyFaceDetector, detector)
	registerStub(store, KeyShapePredictor5, &stubPredictor{model: FivePoint})
	pipeline := NewPipeline(store)

	shapes, err := pipeline.Landmark(testImage(), nil, FivePoint, 3)
	if err != nil {
		t.Fatalf("Landmark failed: %v", err)
	}
	if detector.calls != 1 {
		t.Errorf("detector called %d times, want 1", detector.calls)
	}
	if detector.lastUpsample != 3 {
		t.Errorf("upsample = %d, want 3", detector.lastUpsample)
	}
	if len(shapes) != 1 {
		t.Errorf("got %d shapes, want 1", len(shapes))
	}
}

func TestLandmarkEmptyLocationsSkipsModels(t *testing.T) {
	store := registry.New()
	registerPoisoned(t, store, KeyFaceDetector)
	registerPoisoned(t, store, KeyShapePredictor68)
	pipeline := NewPipeline(store)

	shapes, err := pipeline.Landmark(testImage(), []Box{}, SixtyEightPoint, 1)
	if err != nil {
		t.Fatalf("Landmark failed: %v", err)
	}
	if len(shapes) != 0 {
		t.Errorf("got %d shapes, want 0", len(shapes))
	}
}

func TestEncodePreservesOrder(t *testing.T) {
	store := registry.New()
	encoder := &stubEncoder{}
	registerStub(store, KeyFaceEncoder, encoder)
	pipeline := NewPipeline(store)

	locations := []Box{
		{Left: 11, Top: 0, Right: 50, Bottom: 50},
		{Left: 22, Top: 0, Right: 90, Bottom: 50},
	}
	encodings, err := pipeline.Encode(testImage(), locations, SixtyEightPoint, 4, 1)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(encodings) != 2 {
		t.Fatalf("got %d encodings, want 2", len(encodings))
	}
	if encodings[0][0] != 11 || encodings[1][0] != 22 {
		t.Error("encodings out of order")
	}
	if encoder.lastJitter != 4 {
		t.Errorf("jitter = %d, want 4", encoder.lastJitter)
	}
	if encoder.lastModel != SixtyEightPoint {
		t.Errorf("model = %v, want SixtyEightPoint", encoder.lastModel)
	}
}

func TestEncodeForwardsUpsampleToDetect(t *testing.T) {
	store := registry.New()
	detector := &stubDetector{boxes: []Box{{10, 10, 50, 50}}}
	registerStub(store, KeyFaceDetector, detector)
	registerStub(store, KeyFaceEncoder, &stubEncoder{})
	pipeline := NewPipeline(store)

	if _, err := pipeline.Encode(testImage(), nil, FivePoint, 1, 2); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if detector.lastUpsample != 2 {
		t.Errorf("upsample = %d, want 2", detector.lastUpsample)
	}
}

func TestEncodeEmptyLocationsSkipsModels(t *testing.T) {
	store := registry.New()
	registerPoisoned(t, store, KeyFaceDetector)
	registerPoisoned(t, store, KeyFaceEncoder)
	pipeline := NewPipeline(store)

	encodings, err := pipeline.Encode(testImage(), []Box{}, SixtyEightPoint, 1, 1)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(encodings) != 0 {
		t.Errorf("got %d encodings, want 0", len(encodings))
	}
}

func TestDescribePopulatesFaces(t *testing.T) {
	store := registry.New()
	detector := &stubDetector{boxes: []Box{
		{Left: 10, Top: 10, Right: 50, Bottom: 50},
		{Left: 100, Top: 20, Right: 160, Bottom: 80},
	}}
	registerStub(store, KeyFaceDetector, detector)
	registerStub(store, KeyShapePredictor5, &stubPredictor{model: FivePoint})
	registerStub(store, KeyFaceEncoder, &stubEncoder{})
	pipeline := NewPipeline(store)

	result, err := pipeline.Describe(testImage(), "photo.jpg", FivePoint, 1, 1)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("got %d faces, want 2", len(result))
	}
	if detector.calls != 1 {
		t.Errorf("detector called %d times, want 1", detector.calls)
	}
	for i, face := range result {
		if face.Origin != "photo.jpg" {
			t.Errorf("face %d origin = %q", i, face.Origin)
		}
		if face.Location == nil || *face.Location != detector.boxes[i] {
			t.Errorf("face %d location = %v, want %v", i, face.Location, detector.boxes[i])
		}
		if face.Landmark == nil || face.Landmark.Model() != FivePoint {
			t.Errorf("face %d has no 5-point landmark", i)
		}
		if face.Encoding == nil || face.Encoding[0] != float32(detector.boxes[i].Left) {
			t.Errorf("face %d encoding does not match its location", i)
		}
		if face.Tags == nil {
			t.Errorf("face %d tag map not initialized", i)
		}
	}
}

func TestEstimateGender(t *testing.T) {
	store := registry.New()
	registerStub(store, KeyGenderModel, &stubScorer{score: -0.8})
	pipeline := NewPipeline(store)

	score, err := pipeline.EstimateGender(Encoding{})
	if err != nil {
		t.Fatalf("EstimateGender failed: %v", err)
	}
	if score != -0.8 {
		t.Errorf("score = %v, want -0.8", score)
	}
}

func TestPipelineUnregisteredModel(t *testing.T) {
	pipeline := NewPipeline(registry.New())
	if _, err := pipeline.Detect(testImage(), 1); !errors.Is(err, registry.ErrNotRegistered) {
		t.Errorf("got %v, want ErrNotRegistered", err)
	}
}
