package gender

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/phantomcv/phantom/internal/faces"
	"github.com/phantomcv/phantom/internal/registry"
)

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gender_model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// tinyModel weights only the first two encoding dimensions.
func tinyModel(t *testing.T) string {
	weights := "[1.0, -0.5"
	for i := 2; i < 128; i++ {
		weights += ", 0"
	}
	weights += "]"
	return writeModel(t, `{"version": 1, "dim": 128, "weights": `+weights+`, "bias": 0.25}`)
}

func TestScore(t *testing.T) {
	scorer, err := Load(tinyModel(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var enc faces.Encoding
	enc[0] = 2
	enc[1] = 1

	score, err := scorer.Score(enc)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	want := 2*1.0 + 1*-0.5 + 0.25
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", score, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestLoadRejectsBadModels(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"corrupt json", `{"version": 1, "dim":`},
		{"wrong version", `{"version": 2, "dim": 1, "weights": [1], "bias": 0}`},
		{"weight count mismatch", `{"version": 1, "dim": 128, "weights": [1, 2], "bias": 0}`},
		{"zero dim", `{"version": 1, "dim": 0, "weights": [], "bias": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeModel(t, tt.content))
			if !errors.Is(err, ErrIncompatibleModel) {
				t.Errorf("got %v, want ErrIncompatibleModel", err)
			}
		})
	}
}

func TestScoreDimensionMismatch(t *testing.T) {
	path := writeModel(t, `{"version": 1, "dim": 64, "weights": `+zeros(64)+`, "bias": 0}`)
	scorer, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := scorer.Score(faces.Encoding{}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestRegister(t *testing.T) {
	store := registry.New()
	Register(store, tinyModel(t))

	scorer, err := registry.Resolve[faces.GenderScorer](store, faces.KeyGenderModel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := scorer.Score(faces.Encoding{}); err != nil {
		t.Errorf("Score failed: %v", err)
	}
}

func zeros(n int) string {
	s := "[0"
	for i := 1; i < n; i++ {
		s += ", 0"
	}
	return s + "]"
}
