package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "phantom",
	Short: "A CLI tool for face detection, landmarks and recognition",
	Long: `Phantom is a CLI application around dlib's pretrained face models.
It detects faces in images, extracts facial landmarks, computes
128-dimensional face encodings and compares or clusters those encodings
to find the same person across photos.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
