package raster

import (
	"image"
	"testing"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/mathutil"
	"stereo-splat-viewer/internal/splat"
	"stereo-splat-viewer/internal/stereo"
)

func testCamera() camera.Camera {
	return camera.Camera{
		Position: mathutil.Vec3{0, 0, 10},
		Target:   mathutil.Vec3{0, 0, 0},
		Up:       mathutil.Vec3{0, 1, 0},
		FovDeg:   60,
		Near:     0.01,
		Far:      100,
	}
}

func redDot(at mathutil.Vec3) *splat.Cloud {
	return &splat.Cloud{
		Points: []mathutil.Vec3{at},
		Colors: []uint8{255, 0, 0},
	}
}

// findColor reports whether (r,g,b) appears anywhere inside rect.
func findColor(img *image.NRGBA, rect image.Rectangle, r, g, b uint8) (int, int, bool) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i] == r && img.Pix[i+1] == g && img.Pix[i+2] == b {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

func TestRenderFrameSize(t *testing.T) {
	cam := testCamera()
	views, n := stereo.Synthesize(cam, 320, 180, stereo.Params{Mode: stereo.ModeMono}, cam.Target)
	img := RenderFrame(nil, views, n, Options{Width: 320, Height: 180, Supersample: 2})
	if got := img.Bounds(); got != image.Rect(0, 0, 640, 360) {
		t.Errorf("bounds = %v, want 640x360", got)
	}
}

func TestBackgroundFill(t *testing.T) {
	cam := testCamera()
	views, n := stereo.Synthesize(cam, 8, 8, stereo.Params{Mode: stereo.ModeMono}, cam.Target)
	img := RenderFrame(nil, views, n, Options{Width: 8, Height: 8, Supersample: 1, Background: [3]uint8{16, 16, 20}})
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 16 || img.Pix[i+1] != 16 || img.Pix[i+2] != 20 || img.Pix[i+3] != 255 {
			t.Fatalf("pixel %d = %v", i/4, img.Pix[i:i+4])
		}
	}
}

// A point at the convergence target must land at the center column of both
// eye viewports: zero on-screen disparity at the zero-parallax plane.
func TestZeroDisparityAtConvergence(t *testing.T) {
	const w, h = 400, 200
	cam := testCamera()
	p := stereo.DefaultParams()
	p.Baseline = 0.5

	views, n := stereo.Synthesize(cam, w, h, p, cam.Target)
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	cloud := redDot(cam.Target)
	img := RenderFrame(cloud, views, n, Options{Width: w, Height: h, Supersample: 1, SplatSize: 1})

	for i := 0; i < 2; i++ {
		vp := views[i].Viewport
		x, y, ok := findColor(img, vp, 255, 0, 0)
		if !ok {
			t.Fatalf("eye %d: splat not drawn", i)
		}
		wantX := vp.Min.X + vp.Dx()/2
		wantY := vp.Min.Y + vp.Dy()/2
		if absInt(x-wantX) > 1 || absInt(y-wantY) > 1 {
			t.Errorf("eye %d: splat at (%d,%d), want viewport center (%d,%d)", i, x, y, wantX, wantY)
		}
	}
}

// Each eye draws only inside its own viewport slice.
func TestSplatsClippedToViewport(t *testing.T) {
	const w, h = 400, 200
	cam := testCamera()
	p := stereo.DefaultParams()

	views, n := stereo.Synthesize(cam, w, h, p, cam.Target)
	cloud := redDot(cam.Target)
	img := RenderFrame(cloud, views, n, Options{Width: w, Height: h, Supersample: 1, SplatSize: 8})

	// The left eye's splat must not reach the right half and vice versa;
	// with the dot at each viewport center only two separated blobs exist.
	leftHits, rightHits := 0, 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i] == 255 && img.Pix[i+1] == 0 {
				if x < w/2 {
					leftHits++
				} else {
					rightHits++
				}
			}
		}
	}
	if leftHits == 0 || rightHits == 0 {
		t.Fatalf("hits = %d/%d, want splats in both halves", leftHits, rightHits)
	}
	if leftHits != rightHits {
		t.Errorf("asymmetric splats: %d left vs %d right", leftHits, rightHits)
	}
}

func TestDepthTestKeepsNearest(t *testing.T) {
	cam := testCamera()
	cloud := &splat.Cloud{
		Points: []mathutil.Vec3{{0, 0, -5}, {0, 0, 0}}, // far first, near second
		Colors: []uint8{0, 0, 255, 255, 0, 0},
	}
	views, n := stereo.Synthesize(cam, 100, 100, stereo.Params{Mode: stereo.ModeMono}, cam.Target)
	img := RenderFrame(cloud, views, n, Options{Width: 100, Height: 100, Supersample: 1, SplatSize: 3})

	i := img.PixOffset(50, 50)
	if img.Pix[i] != 255 || img.Pix[i+2] != 0 {
		t.Errorf("center pixel = %v, want the nearer red splat", img.Pix[i:i+4])
	}
}

func TestPointsBehindCameraCulled(t *testing.T) {
	cam := testCamera()
	cloud := redDot(mathutil.Vec3{0, 0, 20}) // behind the camera at z=10 looking at -z
	views, n := stereo.Synthesize(cam, 64, 64, stereo.Params{Mode: stereo.ModeMono}, cam.Target)
	img := RenderFrame(cloud, views, n, Options{Width: 64, Height: 64, Supersample: 1})
	if _, _, ok := findColor(img, img.Bounds(), 255, 0, 0); ok {
		t.Error("point behind the camera must not be drawn")
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
