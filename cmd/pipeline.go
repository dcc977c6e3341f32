package cmd

import (
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/phantomcv/phantom/internal/config"
	"github.com/phantomcv/phantom/internal/dlib"
	"github.com/phantomcv/phantom/internal/faces"
	"github.com/phantomcv/phantom/internal/gender"
	"github.com/phantomcv/phantom/internal/registry"
)

// loadPipeline wires the model registry from configuration. Every model is
// lazy, so nothing touches the disk until a command resolves one.
func loadPipeline() (*faces.Pipeline, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	store := registry.New()
	dlib.RegisterModels(store, dlib.ModelPaths{
		Dir:        cfg.Models.Dir,
		Shape68Dir: cfg.Models.Shape68Dir,
	})
	gender.Register(store, cfg.Models.GenderModel)

	return faces.NewPipeline(store), cfg, nil
}

// openImage decodes a JPEG or PNG image file.
func openImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from a CLI argument
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// saveJPEG writes an image to path as JPEG.
func saveJPEG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path comes from a CLI argument
	if err != nil {
		return fmt.Errorf("create file failed: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("encode failed: %w", err)
	}
	return nil
}

// parseShapeModel maps the --model flag value to a landmark variant.
func parseShapeModel(s string) (faces.ShapeModel, error) {
	switch s {
	case "5p":
		return faces.FivePoint, nil
	case "68p":
		return faces.SixtyEightPoint, nil
	default:
		return 0, fmt.Errorf("unknown landmark model %q (use 5p or 68p)", s)
	}
}

// flagOrDefault returns the flag value, falling back to the configured
// default when the flag was left at its -1 sentinel.
func flagOrDefault(flag, def int) int {
	if flag < 0 {
		return def
	}
	return flag
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
