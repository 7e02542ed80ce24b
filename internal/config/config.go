package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"vertex-mask/internal/dataset"
	"vertex-mask/internal/imageio"
)

// Defaults matching the dataset layout.
const (
	DefaultInputDir  = "./aeroplane"
	DefaultOutputDir = "mask"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	InputDir  string   `json:"input_dir" toml:"input_dir"`
	OutputDir string   `json:"output_dir" toml:"output_dir"`
	Manifest  string   `json:"manifest" toml:"manifest"`
	ImageExts []string `json:"image_exts" toml:"image_exts"`

	// Annotation
	FaceIndexBase int `json:"face_index_base" toml:"face_index_base"`

	// Output settings
	OverlayFormat     string  `json:"overlay_format" toml:"overlay_format"`
	PreviewWidth      int     `json:"preview_width" toml:"preview_width"`
	MinComponentRatio float64 `json:"min_component_ratio" toml:"min_component_ratio"`

	LogLevel string `json:"log_level" toml:"log_level"`
}

// Load reads a JSON or TOML (by .toml extension) config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir  string
	OutputDir string
	Overlay   string
	Manifest  string
	Verbose   bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Overlay != "" {
		c.OverlayFormat = flags.Overlay
	}
	if flags.Manifest != "" {
		c.Manifest = flags.Manifest
	}
	if flags.Verbose {
		c.LogLevel = "debug"
	}

	if c.InputDir == "" {
		c.InputDir = DefaultInputDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if len(c.ImageExts) == 0 {
		c.ImageExts = dataset.DefaultImageExts
	}
	if c.OverlayFormat == "" {
		c.OverlayFormat = string(imageio.PNG)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks value ranges after Resolve.
func (c *Config) Validate() error {
	if _, err := imageio.ParseFormat(c.OverlayFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.FaceIndexBase < 0 {
		return fmt.Errorf("config: face_index_base %d is negative", c.FaceIndexBase)
	}
	if c.PreviewWidth < 0 {
		return fmt.Errorf("config: preview_width %d is negative", c.PreviewWidth)
	}
	if c.MinComponentRatio < 0 || c.MinComponentRatio >= 1 {
		return fmt.Errorf("config: min_component_ratio %v outside [0,1)", c.MinComponentRatio)
	}
	for _, ext := range c.ImageExts {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("config: image extension %q must start with a dot", ext)
		}
	}
	return nil
}
