package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/phantomcv/phantom/internal/faces"
	"github.com/spf13/cobra"
)

var genderCmd = &cobra.Command{
	Use:   "gender <image>",
	Short: "Estimate the gender of every face in an image",
	Long: `Estimate the gender of every face in an image from its face encoding.

The raw score is printed alongside a label: scores at or above 0.3 read
as female, at or below -0.3 as male, and anything in between is reported
as uncertain. Treat the output as a rough statistical estimate.

Examples:
  phantom gender photo.jpg
  phantom gender photo.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGender,
}

func init() {
	rootCmd.AddCommand(genderCmd)

	genderCmd.Flags().Int("upsample", -1, "Upsampling passes before detection (-1 = configured default)")
	genderCmd.Flags().Bool("json", false, "Output as JSON")
}

// GenderFace represents one face in the gender JSON output.
type GenderFace struct {
	Location faces.Box `json:"location"`
	Score    float64   `json:"score"`
	Label    string    `json:"label"`
}

// GenderOutput represents the JSON output of the gender command.
type GenderOutput struct {
	File  string       `json:"file"`
	Count int          `json:"count"`
	Faces []GenderFace `json:"faces"`
}

func runGender(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	pipeline, cfg, err := loadPipeline()
	if err != nil {
		return err
	}
	upsample := flagOrDefault(mustGetInt(cmd, "upsample"), cfg.Pipeline.Upsample)

	img, err := openImage(args[0])
	if err != nil {
		return err
	}

	boxes, err := pipeline.Detect(img, upsample)
	if err != nil {
		return fmt.Errorf("detecting faces: %w", err)
	}
	encodings, err := pipeline.Encode(img, boxes, faces.FivePoint, cfg.Pipeline.Jitter, upsample)
	if err != nil {
		return fmt.Errorf("encoding faces: %w", err)
	}

	out := GenderOutput{File: args[0], Count: len(encodings), Faces: make([]GenderFace, 0, len(encodings))}
	for i, enc := range encodings {
		score, err := pipeline.EstimateGender(enc)
		if err != nil {
			return fmt.Errorf("estimating gender: %w", err)
		}
		out.Faces = append(out.Faces, GenderFace{
			Location: boxes[i],
			Score:    score,
			Label:    faces.InterpretGender(score),
		})
	}

	if jsonOutput {
		return outputJSON(out)
	}

	if out.Count == 0 {
		fmt.Printf("No faces found in %s\n", args[0])
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tLOCATION\tSCORE\tLABEL")
	for i, face := range out.Faces {
		fmt.Fprintf(w, "%d\t(%d,%d)-(%d,%d)\t%.3f\t%s\n",
			i, face.Location.Left, face.Location.Top, face.Location.Right, face.Location.Bottom,
			face.Score, face.Label)
	}
	w.Flush()
	return nil
}
