package cmd

import (
	"fmt"

	"github.com/phantomcv/phantom/internal/faces"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <image-a> <image-b>",
	Short: "Compare the faces in two images",
	Long: `Compare the face in one image against the face in another. Each image
must contain exactly one face. Prints the Euclidean distance between the
two encodings and whether they are close enough to be the same person.

Examples:
  # Compare two portraits
  phantom compare alice1.jpg alice2.jpg

  # Stricter matching
  phantom compare alice1.jpg bob.jpg --tolerance 0.5`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().Float64("tolerance", faces.MatchTolerance, "Maximum distance to count as the same person")
	compareCmd.Flags().String("model", "5p", "Landmark model used for alignment: 5p or 68p")
	compareCmd.Flags().Int("jitter", -1, "Jitter passes per face (-1 = configured default)")
	compareCmd.Flags().Bool("json", false, "Output as JSON")
}

// CompareOutput represents the JSON output of the compare command.
type CompareOutput struct {
	Distance  float64 `json:"distance"`
	Match     bool    `json:"match"`
	Tolerance float64 `json:"tolerance"`
}

// encodeSingleFace encodes an image that must contain exactly one face.
func encodeSingleFace(pipeline *faces.Pipeline, path string, model faces.ShapeModel, jitter, upsample int) (faces.Encoding, error) {
	img, err := openImage(path)
	if err != nil {
		return faces.Encoding{}, err
	}
	encodings, err := pipeline.Encode(img, nil, model, jitter, upsample)
	if err != nil {
		return faces.Encoding{}, fmt.Errorf("encoding %s: %w", path, err)
	}
	if len(encodings) != 1 {
		return faces.Encoding{}, fmt.Errorf("expected exactly one face in %s, found %d", path, len(encodings))
	}
	return encodings[0], nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	tolerance := mustGetFloat64(cmd, "tolerance")

	model, err := parseShapeModel(mustGetString(cmd, "model"))
	if err != nil {
		return err
	}

	pipeline, cfg, err := loadPipeline()
	if err != nil {
		return err
	}
	jitter := flagOrDefault(mustGetInt(cmd, "jitter"), cfg.Pipeline.Jitter)

	encA, err := encodeSingleFace(pipeline, args[0], model, jitter, cfg.Pipeline.Upsample)
	if err != nil {
		return err
	}
	encB, err := encodeSingleFace(pipeline, args[1], model, jitter, cfg.Pipeline.Upsample)
	if err != nil {
		return err
	}

	distance := faces.Compare(encA, encB)
	match := distance <= tolerance

	if jsonOutput {
		return outputJSON(CompareOutput{Distance: distance, Match: match, Tolerance: tolerance})
	}

	fmt.Printf("Distance: %.4f\n", distance)
	if match {
		fmt.Printf("Same person: yes (tolerance %.2f)\n", tolerance)
	} else {
		fmt.Printf("Same person: no (tolerance %.2f)\n", tolerance)
	}
	return nil
}
