package raster

import (
	"image"

	"stereo-splat-viewer/internal/splat"
	"stereo-splat-viewer/internal/stereo"
)

// Options control one composited frame.
type Options struct {
	Width       int
	Height      int
	Supersample int   // ≥1; the caller downsamples afterwards
	Background  [3]uint8
	SplatSize   int // splat edge in output pixels before supersampling
}

// RenderFrame rasterizes the synthesized views (mono or SBS pair) into a
// single NRGBA image. Each view draws only inside its own viewport slice,
// so the split widths always sum to the full frame.
func RenderFrame(cloud *splat.Cloud, views [2]stereo.View, n int, opts Options) *image.NRGBA {
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	size := opts.SplatSize
	if size < 1 {
		size = 2
	}

	w := opts.Width * ss
	h := opts.Height * ss
	fb := NewFrameBuffer(w, h)
	fb.Fill(opts.Background[0], opts.Background[1], opts.Background[2])

	for i := 0; i < n; i++ {
		vp := image.Rect(
			views[i].Viewport.Min.X*ss,
			views[i].Viewport.Min.Y*ss,
			views[i].Viewport.Max.X*ss,
			views[i].Viewport.Max.Y*ss,
		)
		DrawSplats(fb, cloud, views[i].Cam, vp, size*ss)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, fb.Color)
	return img
}
