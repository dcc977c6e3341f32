package cmd

import (
	"fmt"
	"image"
	"image/color"

	"github.com/phantomcv/phantom/internal/faces"
	"github.com/spf13/cobra"
)

var landmarksCmd = &cobra.Command{
	Use:   "landmarks <image>",
	Short: "Extract facial landmarks from an image",
	Long: `Extract facial landmark points for every face in an image.

Two landmark models are available: the fast 5-point model (eye corners
and nose tip) and the full 68-point model (jawline, eyebrows, nose,
eyes and lips).

Examples:
  # Extract 68-point landmarks and print the regions as JSON
  phantom landmarks photo.jpg --json

  # Use the 5-point model
  phantom landmarks photo.jpg --model 5p --json

  # Save a copy with the landmark outlines drawn in
  phantom landmarks photo.jpg --output outlines.jpg

  # Draw numbered points instead of outlines
  phantom landmarks photo.jpg --output points.jpg --points --numbers`,
	Args: cobra.ExactArgs(1),
	RunE: runLandmarks,
}

func init() {
	rootCmd.AddCommand(landmarksCmd)

	landmarksCmd.Flags().String("model", "68p", "Landmark model: 5p or 68p")
	landmarksCmd.Flags().Int("upsample", -1, "Upsampling passes before detection (-1 = configured default)")
	landmarksCmd.Flags().Bool("json", false, "Output as JSON")
	landmarksCmd.Flags().String("output", "", "Save a copy with landmarks drawn to this path")
	landmarksCmd.Flags().Bool("points", false, "Draw landmark points instead of region outlines")
	landmarksCmd.Flags().Bool("numbers", false, "Label each landmark point with its index")
}

// LandmarkFace represents one face in the landmarks JSON output.
type LandmarkFace struct {
	Points  []image.Point            `json:"points"`
	Regions map[string][]image.Point `json:"regions"`
}

// LandmarksOutput represents the JSON output of the landmarks command.
type LandmarksOutput struct {
	File  string         `json:"file"`
	Model string         `json:"model"`
	Count int            `json:"count"`
	Faces []LandmarkFace `json:"faces"`
}

func runLandmarks(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	outputPath := mustGetString(cmd, "output")
	drawPoints := mustGetBool(cmd, "points")
	drawNumbers := mustGetBool(cmd, "numbers")

	model, err := parseShapeModel(mustGetString(cmd, "model"))
	if err != nil {
		return err
	}

	pipeline, cfg, err := loadPipeline()
	if err != nil {
		return err
	}
	upsample := flagOrDefault(mustGetInt(cmd, "upsample"), cfg.Pipeline.Upsample)

	img, err := openImage(args[0])
	if err != nil {
		return err
	}

	shapes, err := pipeline.Landmark(img, nil, model, upsample)
	if err != nil {
		return fmt.Errorf("extracting landmarks: %w", err)
	}

	if outputPath != "" {
		dst := cloneRGBA(img)
		green := color.RGBA{0, 255, 0, 255}
		for _, shape := range shapes {
			if drawPoints {
				shape.DrawPoints(dst, green, 2)
			} else {
				shape.DrawLines(dst, green, 1)
			}
			if drawNumbers {
				shape.DrawNumbers(dst, green)
			}
		}
		if err := saveJPEG(outputPath, dst); err != nil {
			return err
		}
	}

	if jsonOutput {
		out := LandmarksOutput{
			File:  args[0],
			Model: model.String(),
			Count: len(shapes),
			Faces: make([]LandmarkFace, 0, len(shapes)),
		}
		for _, shape := range shapes {
			out.Faces = append(out.Faces, LandmarkFace{
				Points:  shape.Points(),
				Regions: shape.Regions(),
			})
		}
		return outputJSON(out)
	}

	if len(shapes) == 0 {
		fmt.Printf("No faces found in %s\n", args[0])
		return nil
	}

	fmt.Printf("Found %d faces in %s (%s landmarks)\n", len(shapes), args[0], model)
	if outputPath != "" {
		fmt.Printf("Annotated copy saved to %s\n", outputPath)
	}
	return nil
}
