package capture

import (
	"fmt"
	"image"
	"os"

	"github.com/HugoSmits86/nativewebp"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/mathutil"
	"stereo-splat-viewer/internal/raster"
	"stereo-splat-viewer/internal/splat"
	"stereo-splat-viewer/internal/stereo"
)

// Options control a single still capture.
type Options struct {
	Width       int
	Height      int
	Supersample int
	SplatSize   int
	Background  [3]uint8
}

// Still renders one composited mono/SBS frame at the requested resolution.
// Synthesis re-runs at the capture size, so viewport splits and per-eye
// aspect match the output even when it differs from the live viewport.
func Still(cloud *splat.Cloud, cam camera.Camera, p stereo.Params, convergence mathutil.Vec3, opts Options) (*image.NRGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("capture: invalid size %dx%d", opts.Width, opts.Height)
	}
	p.Sanitize()

	views, n := stereo.Synthesize(cam, opts.Width, opts.Height, p, convergence)
	img := raster.RenderFrame(cloud, views, n, raster.Options{
		Width:       opts.Width,
		Height:      opts.Height,
		Supersample: opts.Supersample,
		Background:  opts.Background,
		SplatSize:   opts.SplatSize,
	})
	if opts.Supersample > 1 {
		img = Downsample(img, opts.Width, opts.Height)
	}
	return img, nil
}

// WriteWebP encodes a captured frame to a WebP file. Encode failures come
// back to the caller; they never disturb the render loop.
func WriteWebP(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("capture: WebP encode %s: %w", path, err)
	}
	return nil
}
