package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"input_dir": "data/car",
		"overlay_format": "webp",
		"face_index_base": 1,
		"image_exts": [".JPEG", ".png"]
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputDir != "data/car" || cfg.OverlayFormat != "webp" || cfg.FaceIndexBase != 1 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.ImageExts) != 2 {
		t.Errorf("image_exts = %v", cfg.ImageExts)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
input_dir = "data/bus"
output_dir = "out"
preview_width = 320
min_component_ratio = 0.02
log_level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputDir != "data/bus" || cfg.OutputDir != "out" || cfg.PreviewWidth != 320 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.MinComponentRatio != 0.02 || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := Load(writeFile(t, "bad.json", "{")); err == nil {
		t.Error("bad JSON accepted")
	}
	if _, err := Load(writeFile(t, "bad.toml", "input_dir = ")); err == nil {
		t.Error("bad TOML accepted")
	}
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})
	if cfg.InputDir != DefaultInputDir || cfg.OutputDir != DefaultOutputDir {
		t.Errorf("paths = %s, %s", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.OverlayFormat != "png" || cfg.LogLevel != "info" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.ImageExts) != 1 || cfg.ImageExts[0] != ".JPEG" {
		t.Errorf("image_exts = %v", cfg.ImageExts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{InputDir: "from-file", OverlayFormat: "png", LogLevel: "warn"}
	cfg.Resolve(Flags{InputDir: "from-flag", Overlay: "webp", Manifest: "m.json", Verbose: true})
	if cfg.InputDir != "from-flag" || cfg.OverlayFormat != "webp" || cfg.Manifest != "m.json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %s", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"format", func(c *Config) { c.OverlayFormat = "gif" }},
		{"index base", func(c *Config) { c.FaceIndexBase = -1 }},
		{"preview", func(c *Config) { c.PreviewWidth = -5 }},
		{"ratio", func(c *Config) { c.MinComponentRatio = 1 }},
		{"ext", func(c *Config) { c.ImageExts = []string{"JPEG"} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.Resolve(Flags{})
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted bad config")
			}
		})
	}
}
