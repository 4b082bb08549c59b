package capture

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/mathutil"
	"stereo-splat-viewer/internal/splat"
	"stereo-splat-viewer/internal/stereo"
)

// TurntableConfig holds shared resources for a sequence export.
type TurntableConfig struct {
	Frames    int
	OutputDir string
	Workers   int
	Still     Options
}

// Result holds the outcome of exporting one frame.
type Result struct {
	Frame   int
	Path    string
	Success bool
	Error   string
}

// Turntable renders one full orbit around the current target as numbered
// WebP frames, using a worker pool. The camera state passed in is never
// mutated; each frame derives its own pose.
func Turntable(cfg TurntableConfig, cloud *splat.Cloud, base camera.Camera, p stereo.Params, r *stereo.Resolver) []Result {
	total := cfg.Frames
	if total <= 0 {
		return nil
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				n := processed.Load()
				if n > 0 {
					elapsed := time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", n, total, float64(n)/elapsed)
				}
			}
		}
	}()

	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = exportFrame(cfg, cloud, base, p, r, idx)
				processed.Add(1)
			}
		}()
	}

	for i := 0; i < total; i++ {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func exportFrame(cfg TurntableConfig, cloud *splat.Cloud, base camera.Camera, p stereo.Params, r *stereo.Resolver, idx int) Result {
	yaw := 2 * math.Pi * float64(idx) / float64(cfg.Frames)
	cam := base
	off := base.Position.Sub(base.Target)
	cam.Position = base.Target.Add(mathutil.RotY(yaw).MulVec3(off))

	convergence := base.Target
	if r != nil {
		convergence = r.Point(base.Target)
	}

	img, err := Still(cloud, cam, p, convergence, cfg.Still)
	if err != nil {
		return Result{Frame: idx, Error: err.Error()}
	}

	outPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("frame_%04d.webp", idx))
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return Result{Frame: idx, Error: err.Error()}
	}
	if err := WriteWebP(outPath, img); err != nil {
		return Result{Frame: idx, Error: err.Error()}
	}

	return Result{Frame: idx, Path: outPath, Success: true}
}
