package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds all configurable viewer and export settings.
type Config struct {
	// Paths
	OutputDir  string `json:"output_dir"`
	ParamsFile string `json:"params_file"`

	// Window / render settings
	Width       int `json:"width"`
	Height      int `json:"height"`
	Supersample int `json:"supersample"`
	SplatSize   int `json:"splat_size"`
	Workers     int `json:"workers"`

	Background [3]uint8 `json:"background"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir  string
	ParamsFile string
	Width      int
	Height     int
	Workers    int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.ParamsFile != "" {
		c.ParamsFile = flags.ParamsFile
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.OutputDir == "" {
		c.OutputDir = "captures"
	}
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.SplatSize <= 0 {
		c.SplatSize = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Background == ([3]uint8{}) {
		c.Background = [3]uint8{16, 16, 20}
	}
}
