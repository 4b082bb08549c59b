// Package viewer hosts the interactive stereo viewer in an Ebitengine
// window. Update and Draw run on one logical thread: gesture handlers
// mutate camera/stereo state between frames and each Draw performs the
// full stereo synthesis synchronously, so no locking is needed. Geometry
// loading is asynchronous and cancelable by supersession.
package viewer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/capture"
	"stereo-splat-viewer/internal/config"
	"stereo-splat-viewer/internal/mathutil"
	"stereo-splat-viewer/internal/params"
	"stereo-splat-viewer/internal/ply"
	"stereo-splat-viewer/internal/raster"
	"stereo-splat-viewer/internal/splat"
	"stereo-splat-viewer/internal/stereo"
)

// App is the Ebitengine game. All fields are owned by the update/draw
// thread except loadCh, which is the single handoff point from loaders.
type App struct {
	cfg config.Config

	ctrl     *camera.Controller
	params   stereo.Params
	resolver stereo.Resolver

	cloud   *splat.Cloud
	gen     int // load generation; stale completions are dropped
	loadCh  chan loadResult
	loading bool
	loadErr string // visible error state; prior scene keeps rendering

	fovEdited bool // user customized fov for the current geometry

	width, height int

	drag dragState

	msg      string
	msgUntil time.Time
}

type loadResult struct {
	gen    int
	cloud  *splat.Cloud
	fovDeg float64
	hasFov bool
	err    error
}

// New creates the viewer with an empty scene and default parameters.
func New(cfg config.Config) *App {
	a := &App{
		cfg:    cfg,
		ctrl:   camera.NewController(camera.PlaceForBounds(mathutil.Vec3{}, 1, 60)),
		params: stereo.DefaultParams(),
		loadCh: make(chan loadResult, 4),
		width:  cfg.Width,
		height: cfg.Height,
	}
	return a
}

// ApplyDocument restores a persisted parameter document onto the live
// state.
func (a *App) ApplyDocument(d params.Document) {
	d.Apply(a.ctrl, &a.params, &a.resolver)
}

// Load starts an asynchronous scene load of one or more PLY layers. A
// newer Load supersedes any in-flight one: only the matching generation is
// applied, so a frame never observes half of an older scene.
func (a *App) Load(paths ...string) {
	a.gen++
	gen := a.gen
	a.loading = true
	go func() {
		res := loadScene(paths)
		res.gen = gen
		a.loadCh <- res
	}()
}

// loadScene reads and decodes every layer, merging them into one cloud.
// Metadata (initial fov hint) comes from the first layer only.
func loadScene(paths []string) loadResult {
	var clouds []*splat.Cloud
	var res loadResult
	for i, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			res.err = fmt.Errorf("viewer: read %s: %w", path, err)
			return res
		}
		c, err := splat.Decode(raw)
		if err != nil {
			res.err = fmt.Errorf("viewer: decode %s: %w", path, err)
			return res
		}
		clouds = append(clouds, c)
		if i == 0 {
			if meta := ply.ExtractMetadata(raw); meta != nil {
				if fov, ok := meta.FovDeg(); ok {
					res.fovDeg = fov
					res.hasFov = true
				}
			}
		}
	}
	if len(clouds) == 1 {
		res.cloud = clouds[0]
	} else {
		res.cloud = splat.Merge(clouds...)
	}
	return res
}

// applyLoad swaps the new geometry reference in. On failure, camera and
// stereo parameters are preserved so the user can retry with another
// scene.
func (a *App) applyLoad(res loadResult) {
	if res.gen != a.gen {
		// Superseded by a newer load.
		return
	}
	a.loading = false
	if res.err != nil {
		a.loadErr = res.err.Error()
		return
	}
	a.loadErr = ""
	a.cloud = res.cloud

	// New geometry reference: drop stale convergence targets and
	// in-flight pick state.
	a.resolver.Reset()
	a.fovEdited = false

	center, radius := res.cloud.Bounds()
	a.ctrl.Cam = camera.PlaceForBounds(center, radius, a.ctrl.Cam.FovDeg)

	// Metadata fov applies once per geometry reference; the user has not
	// edited fov for this reference yet at swap time.
	if res.hasFov && !a.fovEdited {
		a.ctrl.SetFov(res.fovDeg)
	}

	if a.params.ComfortLock || a.params.ComfortBase == 0 {
		a.params.ComfortBase = a.ctrl.Cam.Distance()
	}

	a.notify(fmt.Sprintf("scene loaded: %d points", len(res.cloud.Points)))
}

// Update runs once per tick on the render thread.
func (a *App) Update() error {
	// Drain completed loads first so gestures act on the new scene.
	for {
		select {
		case res := <-a.loadCh:
			a.applyLoad(res)
			continue
		default:
		}
		break
	}

	a.handleKeys()
	a.handleMouse()
	return nil
}

// Draw synthesizes the eye views and rasterizes the composited frame.
func (a *App) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return
	}

	cam := a.ctrl.Cam
	convergence := a.resolver.Point(cam.Target)
	views, n := stereo.Synthesize(cam, w, h, a.params, convergence)

	img := raster.RenderFrame(a.cloud, views, n, raster.Options{
		Width:      w,
		Height:     h,
		Background: a.cfg.Background,
		SplatSize:  a.cfg.SplatSize,
	})
	screen.WritePixels(img.Pix)

	ebitenutil.DebugPrint(screen, a.hud())
}

// Layout tracks the outside size 1:1 so fullscreen gets full resolution.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		a.width = outsideWidth
		a.height = outsideHeight
	}
	return a.width, a.height
}

// CaptureStill renders the current frame off-screen at the requested
// resolution (live size when zero) and writes it as WebP.
func (a *App) CaptureStill(width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		width, height = a.width, a.height
	}
	cam := a.ctrl.Cam
	convergence := a.resolver.Point(cam.Target)
	img, err := capture.Still(a.cloud, cam, a.params, convergence, capture.Options{
		Width:       width,
		Height:      height,
		Supersample: a.cfg.Supersample,
		SplatSize:   a.cfg.SplatSize,
		Background:  a.cfg.Background,
	})
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("viewer: output dir: %w", err)
	}
	path := filepath.Join(a.cfg.OutputDir, time.Now().Format("capture_20060102_150405.webp"))
	if err := capture.WriteWebP(path, img); err != nil {
		return "", err
	}
	return path, nil
}

func (a *App) notify(s string) {
	a.msg = s
	a.msgUntil = time.Now().Add(3 * time.Second)
}

func (a *App) hud() string {
	s := fmt.Sprintf("%s  fov %.1f  baseline %.3f  zp %s",
		a.params.Mode, a.ctrl.Cam.FovDeg, a.params.Baseline, a.resolver.Mode)
	if a.params.ComfortLock {
		s += "  comfort"
	}
	if a.ctrl.FramingLock {
		s += "  framing"
	}
	if a.loading {
		s += "\nloading..."
	}
	if a.loadErr != "" {
		s += "\nload failed: " + a.loadErr
	}
	if a.msg != "" && time.Now().Before(a.msgUntil) {
		s += "\n" + a.msg
	}
	return s
}
