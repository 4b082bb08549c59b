package raster

import (
	"image"
	"math"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/mathutil"
	"stereo-splat-viewer/internal/splat"
)

// defaultGray is the splat color when the cloud carries no color data.
const defaultGray = 200

// DrawSplats projects every point of the cloud through cam and splats it
// into the viewport rectangle of fb with a z test. splatSize is the splat
// edge in framebuffer pixels (≥1).
func DrawSplats(fb *FrameBuffer, cloud *splat.Cloud, cam camera.Camera, viewport image.Rectangle, splatSize int) {
	if cloud == nil || len(cloud.Points) == 0 {
		return
	}
	vw := viewport.Dx()
	vh := viewport.Dy()
	if vw <= 0 || vh <= 0 {
		return
	}
	if splatSize < 1 {
		splatSize = 1
	}

	view := cam.View()
	// Vertical fov; horizontal extent follows the viewport aspect.
	focal := (float64(vh) / 2) / math.Tan(mathutil.Deg2Rad(cam.FovDeg)/2)
	cx := float64(viewport.Min.X) + float64(vw)/2
	cy := float64(viewport.Min.Y) + float64(vh)/2

	near := cam.Near
	if near <= 0 {
		near = 1e-6
	}

	half := splatSize / 2
	for i, p := range cloud.Points {
		t := view.MulPoint(p)
		if t[2] <= near {
			continue
		}
		sx := cx + t[0]*focal/t[2]
		sy := cy - t[1]*focal/t[2]
		x := int(sx + 0.5)
		y := int(sy + 0.5)
		if x < viewport.Min.X-half || x >= viewport.Max.X+half ||
			y < viewport.Min.Y-half || y >= viewport.Max.Y+half {
			continue
		}

		var r, g, b uint8 = defaultGray, defaultGray, defaultGray
		if cloud.Colors != nil {
			r = cloud.Colors[3*i]
			g = cloud.Colors[3*i+1]
			b = cloud.Colors[3*i+2]
		}
		fb.splat(x, y, t[2], splatSize, viewport, r, g, b)
	}
}

// splat writes a size×size block centered on (x, y), clipped to the
// viewport, keeping the nearest depth per pixel.
func (fb *FrameBuffer) splat(x, y int, depth float64, size int, viewport image.Rectangle, r, g, b uint8) {
	x0 := x - size/2
	y0 := y - size/2
	for yy := y0; yy < y0+size; yy++ {
		if yy < viewport.Min.Y || yy >= viewport.Max.Y {
			continue
		}
		for xx := x0; xx < x0+size; xx++ {
			if xx < viewport.Min.X || xx >= viewport.Max.X {
				continue
			}
			idx := yy*fb.Width + xx
			if depth >= fb.ZBuf[idx] {
				continue
			}
			fb.ZBuf[idx] = depth
			ci := idx * 4
			fb.Color[ci] = r
			fb.Color[ci+1] = g
			fb.Color[ci+2] = b
			fb.Color[ci+3] = 255
		}
	}
}
