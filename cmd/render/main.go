package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/capture"
	"stereo-splat-viewer/internal/config"
	"stereo-splat-viewer/internal/params"
	"stereo-splat-viewer/internal/ply"
	"stereo-splat-viewer/internal/splat"
	"stereo-splat-viewer/internal/stereo"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	paramsFile := flag.String("params", "", "Parameter document to apply")
	outputDir := flag.String("output", "", "Output directory (default: captures)")
	width := flag.Int("width", 0, "Frame width (default: 1280)")
	height := flag.Int("height", 0, "Frame height (default: 720)")
	frames := flag.Int("frames", 0, "Turntable frame count (0 = single still)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: render [flags] scene.ply [layer2.ply ...]")
		os.Exit(1)
	}

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
		Workers:    *workers,
	})

	// Load all layers and merge into one cloud.
	var clouds []*splat.Cloud
	var firstPayload []byte
	for i, path := range flag.Args() {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			os.Exit(1)
		}
		c, err := splat.Decode(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", path, err)
			os.Exit(1)
		}
		clouds = append(clouds, c)
		if i == 0 {
			firstPayload = raw
		}
	}
	cloud := clouds[0]
	if len(clouds) > 1 {
		cloud = splat.Merge(clouds...)
	}
	center, radius := cloud.Bounds()
	fmt.Printf("Scene: %d points, radius %.3f\n", len(cloud.Points), radius)

	// Seed fov from embedded intrinsics when present.
	fov := 60.0
	if meta := ply.ExtractMetadata(firstPayload); meta != nil {
		if f, ok := meta.FovDeg(); ok {
			fov = f
			fmt.Printf("Metadata fov: %.1f°\n", fov)
		}
	}

	ctrl := camera.NewController(camera.PlaceForBounds(center, radius, fov))
	stereoParams := stereo.DefaultParams()
	var resolver stereo.Resolver

	if cfg.ParamsFile != "" {
		doc, err := params.Load(cfg.ParamsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading params: %v\n", err)
			os.Exit(1)
		}
		doc.Apply(ctrl, &stereoParams, &resolver)
	}

	still := capture.Options{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		SplatSize:   cfg.SplatSize,
		Background:  cfg.Background,
	}

	os.MkdirAll(cfg.OutputDir, 0755)
	start := time.Now()

	if *frames <= 0 {
		convergence := resolver.Point(ctrl.Cam.Target)
		img, err := capture.Still(cloud, ctrl.Cam, stereoParams, convergence, still)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
			os.Exit(1)
		}
		outPath := filepath.Join(cfg.OutputDir, "still.webp")
		if err := capture.WriteWebP(outPath, img); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s in %.1fs\n", outPath, time.Since(start).Seconds())
		return
	}

	fmt.Printf("Turntable: %d frames, Workers: %d\n", *frames, cfg.Workers)
	fmt.Println("------------------------------------------------------------")

	results := capture.Turntable(capture.TurntableConfig{
		Frames:    *frames,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		Still:     still,
	}, cloud, ctrl.Cam, stereoParams, &resolver)

	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			fmt.Fprintf(os.Stderr, "  frame %d: %s\n", r.Frame, r.Error)
		}
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Rendered: %d/%d in %.1fs\n", success, len(results), time.Since(start).Seconds())
	if failed > 0 {
		os.Exit(1)
	}
}
