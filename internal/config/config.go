// Package config resolves model locations and pipeline defaults from an
// optional models.yaml file and environment variables. Environment variables
// win over the file; the file wins over built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultModelsFile is consulted when PHANTOM_MODELS_FILE is not set. A
// missing file is not an error.
const DefaultModelsFile = "models.yaml"

// Config carries everything needed to wire the model registry.
type Config struct {
	Models   ModelsConfig   `yaml:"models"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// ModelsConfig locates the pretrained model files on disk.
type ModelsConfig struct {
	// Dir holds the detector, 5-point predictor and encoder models.
	Dir string `yaml:"dir"`
	// Shape68Dir holds the 68-point landmark regressor.
	Shape68Dir string `yaml:"shape_68_dir"`
	// GenderModel is the path of the gender model file. Which variant to
	// deploy is an operator decision, so it is plain configuration here.
	GenderModel string `yaml:"gender_model"`
}

// PipelineConfig carries default knobs for detection and encoding.
type PipelineConfig struct {
	Upsample int `yaml:"upsample"`
	Jitter   int `yaml:"jitter"`
}

// Load builds the configuration from defaults, the optional models file and
// the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Models: ModelsConfig{
			Dir:         "models",
			Shape68Dir:  "models/68p",
			GenderModel: "models/phantom_gender_model_v1.json",
		},
		Pipeline: PipelineConfig{
			Upsample: 1,
			Jitter:   1,
		},
	}

	path := os.Getenv("PHANTOM_MODELS_FILE")
	required := path != ""
	if path == "" {
		path = DefaultModelsFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
		// The default file is optional.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	envString("PHANTOM_MODELS_DIR", &cfg.Models.Dir)
	envString("PHANTOM_SHAPE_68_DIR", &cfg.Models.Shape68Dir)
	envString("PHANTOM_GENDER_MODEL", &cfg.Models.GenderModel)
	envInt("PHANTOM_UPSAMPLE", &cfg.Pipeline.Upsample)
	envInt("PHANTOM_JITTER", &cfg.Pipeline.Jitter)
	return cfg, nil
}

func envString(key string, value *string) {
	if v := os.Getenv(key); v != "" {
		*value = v
	}
}

// envInt overwrites value with a positive integer from the environment and
// ignores anything unset or invalid.
func envInt(key string, value *int) {
	s := os.Getenv(key)
	if s == "" {
		return
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		*value = n
	}
}
