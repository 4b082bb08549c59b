package capture

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
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

func testCloud() *splat.Cloud {
	return &splat.Cloud{
		Points: []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Colors: []uint8{255, 0, 0, 0, 255, 0, 0, 0, 255},
	}
}

func TestStillSize(t *testing.T) {
	opts := Options{Width: 320, Height: 180, Supersample: 2, SplatSize: 2}
	img, err := Still(testCloud(), testCamera(), stereo.DefaultParams(), mathutil.Vec3{}, opts)
	if err != nil {
		t.Fatalf("Still: %v", err)
	}
	// Supersampled render comes back down to the requested size.
	if got := img.Bounds(); got != image.Rect(0, 0, 320, 180) {
		t.Errorf("bounds = %v, want 320x180", got)
	}
}

func TestStillInvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 100}, {100, 0}, {-1, -1}} {
		opts := Options{Width: size[0], Height: size[1]}
		if _, err := Still(testCloud(), testCamera(), stereo.DefaultParams(), mathutil.Vec3{}, opts); err == nil {
			t.Errorf("size %dx%d: expected error", size[0], size[1])
		}
	}
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 60))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i] = 200
		src.Pix[i+3] = 255
	}
	dst := Downsample(src, 50, 30)
	if got := dst.Bounds(); got != image.Rect(0, 0, 50, 30) {
		t.Fatalf("bounds = %v, want 50x30", got)
	}
	// A uniform image stays uniform through the filter (within rounding).
	i := dst.PixOffset(25, 15)
	if r := int(dst.Pix[i]); r < 199 || r > 201 || dst.Pix[i+3] != 255 {
		t.Errorf("center pixel = %v, want ~(200,0,0,255)", dst.Pix[i:i+4])
	}

	// Already at or below target: returned unchanged.
	if got := Downsample(dst, 50, 30); got != dst {
		t.Error("no-op downsample should return the input")
	}
}

func TestWriteWebP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	path := filepath.Join(t.TempDir(), "frame.webp")
	if err := WriteWebP(path, img); err != nil {
		t.Fatalf("WriteWebP: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(data) < 12 || !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		t.Errorf("not a WebP container: % x", data[:min(len(data), 12)])
	}
}

func TestTurntable(t *testing.T) {
	dir := t.TempDir()
	cfg := TurntableConfig{
		Frames:    4,
		OutputDir: dir,
		Workers:   2,
		Still:     Options{Width: 64, Height: 64, Supersample: 1, SplatSize: 2},
	}
	var r stereo.Resolver
	results := Turntable(cfg, testCloud(), testCamera(), stereo.DefaultParams(), &r)
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	for _, res := range results {
		if !res.Success {
			t.Errorf("frame %d failed: %s", res.Frame, res.Error)
			continue
		}
		if _, err := os.Stat(res.Path); err != nil {
			t.Errorf("frame %d output missing: %v", res.Frame, err)
		}
	}
	if got := filepath.Base(results[0].Path); got != "frame_0000.webp" {
		t.Errorf("first frame name = %s", got)
	}
}

func TestTurntableNoFrames(t *testing.T) {
	if res := Turntable(TurntableConfig{}, testCloud(), testCamera(), stereo.DefaultParams(), nil); res != nil {
		t.Errorf("expected nil results, got %d", len(res))
	}
}
