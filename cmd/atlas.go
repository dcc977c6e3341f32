package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/phantomcv/phantom/internal/atlas"
	"github.com/spf13/cobra"
)

var atlasCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Manage face encoding atlases",
	Long: `An atlas is a JSON file of face encodings, typically built with
'phantom encode --atlas'. The atlas subcommands cluster its encodings
into groups of the same person and inspect the result.`,
}

var atlasGroupCmd = &cobra.Command{
	Use:   "group <atlas-file>",
	Short: "Cluster the atlas encodings into per-person groups",
	Long: `Cluster the encodings of an atlas with density-based clustering, so
every group holds the faces of one person. Encodings without enough
close neighbors stay ungrouped (noise). The grouping is written back
to the atlas file.

Examples:
  phantom atlas group faces.json

  # Stricter grouping (smaller distance between members)
  phantom atlas group faces.json --epsilon 0.4`,
	Args: cobra.ExactArgs(1),
	RunE: runAtlasGroup,
}

var atlasInfoCmd = &cobra.Command{
	Use:   "info <atlas-file>",
	Short: "Show the contents of an atlas file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAtlasInfo,
}

func init() {
	rootCmd.AddCommand(atlasCmd)
	atlasCmd.AddCommand(atlasGroupCmd)
	atlasCmd.AddCommand(atlasInfoCmd)

	atlasGroupCmd.Flags().Float64("epsilon", atlas.DefaultEpsilon, "Maximum encoding distance between group neighbors")
	atlasGroupCmd.Flags().Int("min-points", atlas.DefaultMinPoints, "Minimum faces that form a group")
	atlasGroupCmd.Flags().Bool("json", false, "Output as JSON")

	atlasInfoCmd.Flags().Bool("json", false, "Output as JSON")
}

// AtlasGroupOutput represents the JSON output of the atlas group command.
type AtlasGroupOutput struct {
	File     string  `json:"file"`
	Elements int     `json:"elements"`
	Groups   [][]int `json:"groups"`
	Noise    int     `json:"noise"`
}

// AtlasInfoOutput represents the JSON output of the atlas info command.
type AtlasInfoOutput struct {
	File      string  `json:"file"`
	Elements  int     `json:"elements"`
	Grouped   bool    `json:"grouped"`
	Groups    [][]int `json:"groups,omitempty"`
	Epsilon   float64 `json:"epsilon"`
	MinPoints int     `json:"min_points"`
}

// countNoise counts elements that belong to no group.
func countNoise(a *atlas.Atlas) int {
	grouped := 0
	for _, group := range a.Groups {
		grouped += len(group)
	}
	return a.Len() - grouped
}

func runAtlasGroup(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	at := atlas.New(nil, args[0])
	if err := at.Load(); err != nil {
		return err
	}
	at.Epsilon = mustGetFloat64(cmd, "epsilon")
	at.MinPoints = mustGetInt(cmd, "min-points")

	if err := at.Group(); err != nil {
		return fmt.Errorf("grouping atlas: %w", err)
	}
	if err := at.Save(); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(AtlasGroupOutput{
			File:     args[0],
			Elements: at.Len(),
			Groups:   at.Groups,
			Noise:    countNoise(at),
		})
	}

	fmt.Printf("Grouped %d encodings into %d groups (%d noise)\n", at.Len(), len(at.Groups), countNoise(at))
	for i, group := range at.Groups {
		fmt.Printf("  Group %d: %d faces\n", i, len(group))
	}
	return nil
}

func runAtlasInfo(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	at := atlas.New(nil, args[0])
	if err := at.Load(); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(AtlasInfoOutput{
			File:      args[0],
			Elements:  at.Len(),
			Grouped:   at.Grouped,
			Groups:    at.Groups,
			Epsilon:   at.Epsilon,
			MinPoints: at.MinPoints,
		})
	}

	fmt.Printf("Atlas: %s\n", args[0])
	fmt.Printf("  Encodings:  %d\n", at.Len())
	fmt.Printf("  Epsilon:    %.3f\n", at.Epsilon)
	fmt.Printf("  Min points: %d\n", at.MinPoints)
	if !at.Grouped {
		fmt.Printf("  Grouped:    no (run 'phantom atlas group')\n")
		return nil
	}
	fmt.Printf("  Groups:     %d (%d noise)\n", len(at.Groups), countNoise(at))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, group := range at.Groups {
		origins := make(map[string]bool)
		for _, idx := range group {
			if idx >= 0 && idx < at.Len() && at.Elements[idx].Origin != "" {
				origins[at.Elements[idx].Origin] = true
			}
		}
		fmt.Fprintf(w, "  Group %d\t%d faces\t%d images\n", i, len(group), len(origins))
	}
	w.Flush()
	return nil
}
