package viewer

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"stereo-splat-viewer/internal/params"
	"stereo-splat-viewer/internal/stereo"
)

// doubleClickWindow is the max delay between clicks that still counts as a
// double click; doubleClickSlopPx the max cursor travel.
const (
	doubleClickWindow = 400 * time.Millisecond
	doubleClickSlopPx = 6
)

type dragState struct {
	active  bool
	fovDrag bool
	panDrag bool
	lastX   int
	lastY   int

	clickAt  time.Time
	clickX   int
	clickY   int
	suppress bool // pick landed; ignore the rest of this press
}

func (a *App) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		// Fullscreen is delegated to the host platform.
		ebiten.SetFullscreen(!ebiten.IsFullscreen())

	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		if a.params.Mode == stereo.ModeSBS {
			a.params.Mode = stereo.ModeMono
		} else {
			a.params.Mode = stereo.ModeSBS
		}

	case inpututil.IsKeyJustPressed(ebiten.KeyZ):
		if a.resolver.Mode == stereo.ZeroParallaxPivot {
			a.resolver.Mode = stereo.ZeroParallaxClick
		} else {
			a.resolver.Mode = stereo.ZeroParallaxPivot
		}
		a.notify("zero-parallax: " + a.resolver.Mode.String())

	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		a.resolver.UseCurrentPivot(a.ctrl.Cam.Target)
		a.notify("convergence set to pivot")

	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		a.params.SetComfortLock(!a.params.ComfortLock, a.ctrl.Cam.Distance())

	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		a.ctrl.FramingLock = !a.ctrl.FramingLock
		a.params.FramingLock = a.ctrl.FramingLock

	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		path, err := a.CaptureStill(0, 0)
		if err != nil {
			a.notify("capture failed: " + err.Error())
		} else {
			a.notify("captured " + path)
		}

	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		if a.cfg.ParamsFile == "" {
			a.notify("no params file configured")
			break
		}
		doc := params.Snapshot(a.ctrl, a.params, &a.resolver)
		if err := params.Save(a.cfg.ParamsFile, doc); err != nil {
			a.notify("save failed: " + err.Error())
		} else {
			a.notify("params saved")
		}
	}

	// Baseline and compression nudges.
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		a.params.Baseline -= 0.005
		a.params.Sanitize()
		a.notify(fmt.Sprintf("baseline %.3f", a.params.Baseline))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		a.params.Baseline += 0.005
		a.notify(fmt.Sprintf("baseline %.3f", a.params.Baseline))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		a.params.Compression -= 0.1
		a.params.Sanitize()
		a.notify(fmt.Sprintf("compression %.1f", a.params.Compression))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		a.params.Compression += 0.1
		a.notify(fmt.Sprintf("compression %.1f", a.params.Compression))
	}
}

func (a *App) handleMouse() {
	x, y := ebiten.CursorPosition()

	if _, wy := ebiten.Wheel(); wy != 0 {
		a.ctrl.Dolly(wy)
	}

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		now := time.Now()
		isDouble := now.Sub(a.drag.clickAt) <= doubleClickWindow &&
			abs(x-a.drag.clickX) <= doubleClickSlopPx &&
			abs(y-a.drag.clickY) <= doubleClickSlopPx
		a.drag.clickAt = now
		a.drag.clickX = x
		a.drag.clickY = y

		if isDouble {
			a.pickAt(x, y)
			a.drag.suppress = true
		} else {
			a.drag.suppress = false
			a.drag.fovDrag = ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyControl)
			a.drag.panDrag = ebiten.IsKeyPressed(ebiten.KeyShift)
			if a.drag.fovDrag {
				a.ctrl.BeginFovAdjust()
			}
		}
		a.drag.active = true
		a.drag.lastX = x
		a.drag.lastY = y
	} else if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		a.drag.active = true
		a.drag.suppress = false
		a.drag.fovDrag = false
		a.drag.panDrag = true
		a.drag.lastX = x
		a.drag.lastY = y
	}

	if a.drag.active && (left || right) && !a.drag.suppress {
		dx := float64(x - a.drag.lastX)
		dy := float64(y - a.drag.lastY)
		switch {
		case a.drag.fovDrag:
			a.ctrl.UpdateFovAdjust(dy)
			a.fovEdited = true
		case a.drag.panDrag:
			a.ctrl.Pan(dx, dy)
		default:
			a.ctrl.Orbit(dx, dy)
		}
	}
	a.drag.lastX = x
	a.drag.lastY = y

	if a.drag.active && !left && !right {
		a.drag.active = false
		if a.drag.fovDrag {
			a.ctrl.EndFovAdjust()
			a.drag.fovDrag = false
		}
		a.drag.panDrag = false
		a.drag.suppress = false
	}
}

// pickAt double-click picks a 3D point: on a hit, both the orbit pivot
// and the convergence point move to it. A miss (or no geometry yet)
// mutates nothing.
func (a *App) pickAt(x, y int) {
	if a.cloud == nil {
		return
	}
	hit, ok := stereo.Pick(a.ctrl.Cam, float64(x), float64(y), a.width, a.height, a.cloud)
	if !ok {
		return
	}
	a.ctrl.Retarget(hit)
	a.resolver.RecordClick(hit)
	a.notify("pivot re-centered")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
