package stereo

import (
	"image"
	"math"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/mathutil"
)

// View is one eye camera with the viewport slice it renders into. Value
// type: the per-frame left/right pair lives on the stack.
type View struct {
	Cam      camera.Camera
	Viewport image.Rectangle
	Aspect   float64
}

// Synthesize derives the per-frame eye views from one source camera. Pure
// function of its inputs and total for finite, non-negative numerics:
// no step here can fail.
//
// Mono mode returns the unmodified camera at the full viewport. SBS mode
// applies compression, the comfort-lock scale, the zero floor and the
// pixel-disparity clamp to the baseline, then offsets both eyes along the
// camera right axis and toes them in onto the convergence point.
func Synthesize(cam camera.Camera, width, height int, p Params, convergence mathutil.Vec3) (views [2]View, n int) {
	if p.Mode != ModeSBS {
		views[0] = View{
			Cam:      cam,
			Viewport: image.Rect(0, 0, width, height),
			Aspect:   aspect(width, height),
		}
		return views, 1
	}

	baseline := p.Baseline * p.Compression

	if p.ComfortLock && p.ComfortBase > 0 {
		ratio := cam.Distance() / p.ComfortBase
		strength := mathutil.Clamp(p.ComfortStrength, 0, 2)
		baseline *= 1 + (ratio-1)*strength
	}

	if baseline < 0 {
		baseline = 0
	}

	halfW := width / 2
	if p.ClampPx > 0 {
		// Disparity at the convergence distance must stay under ClampPx
		// on screen. Skipped (not an error) when the focal or distance
		// degenerates.
		f := (float64(halfW) / 2) / math.Tan(mathutil.Deg2Rad(cam.FovDeg)/2)
		z := cam.Position.Distance(convergence)
		if z > 0 && f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f) {
			maxBaseline := p.ClampPx * z / f
			if baseline > maxBaseline {
				baseline = maxBaseline
			}
		}
	}

	offset := cam.Right().Scale(baseline / 2)

	left := cam
	left.Position = cam.Position.Sub(offset)
	left.Target = convergence

	right := cam
	right.Position = cam.Position.Add(offset)
	right.Target = convergence

	// Left eye gets floor(width/2) columns, right the remainder; each
	// aspect uses its own column count over the full height.
	views[0] = View{
		Cam:      left,
		Viewport: image.Rect(0, 0, halfW, height),
		Aspect:   aspect(halfW, height),
	}
	views[1] = View{
		Cam:      right,
		Viewport: image.Rect(halfW, 0, width, height),
		Aspect:   aspect(width-halfW, height),
	}
	return views, 2
}

func aspect(w, h int) float64 {
	if h <= 0 {
		return 1
	}
	return float64(w) / float64(h)
}
