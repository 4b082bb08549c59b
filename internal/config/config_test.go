package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"output_dir": "out", "width": 1920, "supersample": 3}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Resolve(Flags{})

	if cfg.OutputDir != "out" || cfg.Width != 1920 || cfg.Supersample != 3 {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Height != 720 || cfg.SplatSize != 2 || cfg.Workers <= 0 {
		t.Errorf("defaults not filled: %+v", cfg)
	}
	if cfg.Background == ([3]uint8{}) {
		t.Error("background default not filled")
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	cfg := Config{OutputDir: "from-file", Width: 800}
	cfg.Resolve(Flags{OutputDir: "from-flag", Width: 1024, Workers: 3})
	if cfg.OutputDir != "from-flag" || cfg.Width != 1024 || cfg.Workers != 3 {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed file")
	}
}
