package cmd

import (
	"fmt"
	"os"

	"github.com/phantomcv/phantom/internal/atlas"
	"github.com/phantomcv/phantom/internal/faces"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <image>...",
	Short: "Compute face encodings for one or more images",
	Long: `Compute a 128-dimensional face encoding for every face found in the
given images. Encodings of the same person land close together, so they
can be compared with 'phantom compare' or clustered with 'phantom atlas'.

Examples:
  # Encode every face in one image and print the vectors
  phantom encode photo.jpg --json

  # Encode a batch of images into an atlas file
  phantom encode vacation/*.jpg --atlas faces.json

  # More jitter passes for higher quality encodings
  phantom encode photo.jpg --jitter 10 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().String("model", "5p", "Landmark model used for alignment: 5p or 68p")
	encodeCmd.Flags().Int("jitter", -1, "Jitter passes per face (-1 = configured default)")
	encodeCmd.Flags().Int("upsample", -1, "Upsampling passes before detection (-1 = configured default)")
	encodeCmd.Flags().Bool("json", false, "Output as JSON")
	encodeCmd.Flags().String("atlas", "", "Append the encodings to this atlas file")
}

// EncodedFile represents one image in the encode JSON output.
type EncodedFile struct {
	File      string           `json:"file"`
	Count     int              `json:"count"`
	Encodings []faces.Encoding `json:"encodings"`
}

// EncodeOutput represents the JSON output of the encode command.
type EncodeOutput struct {
	Files      []EncodedFile `json:"files"`
	TotalFaces int           `json:"total_faces"`
}

// newEncodeProgressBar creates a progress bar for batch encoding, or nil for
// a single image or JSON output.
func newEncodeProgressBar(count int, jsonOutput bool) *progressbar.ProgressBar {
	if count < 2 || jsonOutput {
		return nil
	}
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription("Encoding faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}

// loadOrCreateAtlas loads an existing atlas file or starts an empty one.
func loadOrCreateAtlas(path string) (*atlas.Atlas, error) {
	at := atlas.New(nil, path)
	if _, err := os.Stat(path); err == nil {
		if err := at.Load(); err != nil {
			return nil, err
		}
	}
	return at, nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	atlasPath := mustGetString(cmd, "atlas")

	model, err := parseShapeModel(mustGetString(cmd, "model"))
	if err != nil {
		return err
	}

	pipeline, cfg, err := loadPipeline()
	if err != nil {
		return err
	}
	jitter := flagOrDefault(mustGetInt(cmd, "jitter"), cfg.Pipeline.Jitter)
	upsample := flagOrDefault(mustGetInt(cmd, "upsample"), cfg.Pipeline.Upsample)

	var at *atlas.Atlas
	if atlasPath != "" {
		if at, err = loadOrCreateAtlas(atlasPath); err != nil {
			return err
		}
	}

	bar := newEncodeProgressBar(len(args), jsonOutput)
	out := EncodeOutput{Files: make([]EncodedFile, 0, len(args))}

	for _, path := range args {
		img, err := openImage(path)
		if err != nil {
			return err
		}
		encodings, err := pipeline.Encode(img, nil, model, jitter, upsample)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}

		out.Files = append(out.Files, EncodedFile{File: path, Count: len(encodings), Encodings: encodings})
		out.TotalFaces += len(encodings)

		if at != nil {
			for _, enc := range encodings {
				at.Add(atlas.NewElement(path, enc))
			}
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		fmt.Println()
	}

	if at != nil {
		if err := at.Save(); err != nil {
			return err
		}
	}

	if jsonOutput {
		return outputJSON(out)
	}

	for _, file := range out.Files {
		fmt.Printf("%s: %d faces\n", file.File, file.Count)
	}
	if at != nil {
		fmt.Printf("\nAtlas %s now holds %d encodings\n", atlasPath, at.Len())
	}
	return nil
}
