package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"stereo-splat-viewer/internal/config"
	"stereo-splat-viewer/internal/params"
	"stereo-splat-viewer/internal/viewer"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	paramsFile := flag.String("params", "", "Parameter document to restore and save to")
	width := flag.Int("width", 0, "Window width (default: 1280)")
	height := flag.Int("height", 0, "Window height (default: 720)")
	outputDir := flag.String("output", "", "Capture output directory (default: captures)")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		OutputDir:  *outputDir,
		ParamsFile: *paramsFile,
		Width:      *width,
		Height:     *height,
	})

	app := viewer.New(cfg)

	if cfg.ParamsFile != "" {
		if doc, err := params.Load(cfg.ParamsFile); err == nil {
			app.ApplyDocument(doc)
		} else if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: params load: %v\n", err)
		}
	}

	if flag.NArg() > 0 {
		// All positional paths are layers of one scene.
		app.Load(flag.Args()...)
	}

	ebiten.SetWindowTitle("Stereo Splat Viewer")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
