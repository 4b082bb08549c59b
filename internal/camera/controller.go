package camera

import (
	"math"

	"stereo-splat-viewer/internal/mathutil"
)

// fovDragRate maps vertical drag pixels to fov degrees.
const fovDragRate = 0.1

// Controller owns the live camera state and applies orbit, pan, dolly and
// fov-adjust gestures. All mutation happens between frames on the render
// thread; the synthesizer only reads Cam.
type Controller struct {
	Cam Camera

	OrbitEnabled bool
	PanEnabled   bool
	DollyEnabled bool

	// Gesture feel, persisted alongside the stereo parameters.
	OrbitSpeed float64 // radians per pixel
	PanSpeed   float64 // fraction of distance per pixel
	DollySpeed float64 // distance scale per wheel notch
	ZoomFactor float64 // multiplier applied per dolly unit

	// Framing lock: fov drags reposition the camera so apparent object
	// size is preserved.
	FramingLock bool

	fovDragging  bool
	baseDistance float64
	baseFovDeg   float64
	dragDelta    float64
}

// NewController returns a controller with all gestures enabled and default
// sensitivities.
func NewController(cam Camera) *Controller {
	return &Controller{
		Cam:          cam,
		OrbitEnabled: true,
		PanEnabled:   true,
		DollyEnabled: true,
		OrbitSpeed:   0.005,
		PanSpeed:     0.0015,
		DollySpeed:   1,
		ZoomFactor:   0.9,
	}
}

// Orbit rotates the camera around the current target. dx spins around the
// world up axis; dy tilts, clamped short of the poles.
func (ct *Controller) Orbit(dx, dy float64) {
	if !ct.OrbitEnabled {
		return
	}
	off := ct.Cam.Position.Sub(ct.Cam.Target)
	r := off.Len()
	if r < 1e-12 {
		return
	}
	yaw := math.Atan2(off[0], off[2])
	pitch := math.Asin(mathutil.Clamp(off[1]/r, -1, 1))

	yaw -= dx * ct.OrbitSpeed
	pitch += dy * ct.OrbitSpeed
	limit := mathutil.Deg2Rad(89)
	pitch = mathutil.Clamp(pitch, -limit, limit)

	cp := math.Cos(pitch)
	ct.Cam.Position = ct.Cam.Target.Add(mathutil.Vec3{
		r * cp * math.Sin(yaw),
		r * math.Sin(pitch),
		r * cp * math.Cos(yaw),
	})
}

// Pan translates camera and target together in the view plane. Step size
// scales with distance so the feel is resolution independent.
func (ct *Controller) Pan(dx, dy float64) {
	if !ct.PanEnabled {
		return
	}
	dist := ct.Cam.Distance()
	right := ct.Cam.Right()
	up := right.Cross(ct.Cam.Forward())
	step := right.Scale(-dx * dist * ct.PanSpeed).Add(up.Scale(dy * dist * ct.PanSpeed))
	ct.Cam.Position = ct.Cam.Position.Add(step)
	ct.Cam.Target = ct.Cam.Target.Add(step)
}

// Dolly scales camera distance. Positive delta moves in. The distance
// never collapses to zero so the view direction stays defined.
func (ct *Controller) Dolly(delta float64) {
	if !ct.DollyEnabled {
		return
	}
	dist := ct.Cam.Distance()
	factor := math.Pow(ct.ZoomFactor, delta*ct.DollySpeed)
	newDist := dist * factor
	if newDist < 1e-6 {
		newDist = 1e-6
	}
	dir := ct.Cam.Position.Sub(ct.Cam.Target).Normalize()
	ct.Cam.Position = ct.Cam.Target.Add(dir.Scale(newDist))
}

// BeginFovAdjust starts an interactive fov drag, capturing the reference
// distance and fov the framing lock compensates against.
func (ct *Controller) BeginFovAdjust() {
	ct.fovDragging = true
	ct.baseDistance = ct.Cam.Distance()
	ct.baseFovDeg = ct.Cam.FovDeg
	ct.dragDelta = 0
}

// UpdateFovAdjust applies a vertical drag step of dy pixels. The fov moves
// at 0.1°/px inside the gesture range [20, 90]. With the framing lock on,
// the camera is repositioned along its view direction so the object keeps
// its apparent size: newDistance = baseDistance·tan(baseFov/2)/tan(newFov/2).
func (ct *Controller) UpdateFovAdjust(dy float64) {
	if !ct.fovDragging {
		return
	}
	ct.dragDelta += dy
	newFov := mathutil.Clamp(ct.baseFovDeg+ct.dragDelta*fovDragRate, MinFovDeg, MaxGestureFovDeg)
	ct.Cam.FovDeg = newFov

	if !ct.FramingLock {
		return
	}
	newDist := ct.baseDistance * math.Tan(mathutil.Deg2Rad(ct.baseFovDeg)/2) / math.Tan(mathutil.Deg2Rad(newFov)/2)
	dir := ct.Cam.Position.Sub(ct.Cam.Target).Normalize()
	ct.Cam.Position = ct.Cam.Target.Add(dir.Scale(newDist))
}

// EndFovAdjust finishes the drag.
func (ct *Controller) EndFovAdjust() {
	ct.fovDragging = false
}

// SetFov sets the field of view programmatically (imports, metadata
// hints), clamped to the wider [20, 110] range.
func (ct *Controller) SetFov(deg float64) {
	ct.Cam.FovDeg = mathutil.Clamp(deg, MinFovDeg, MaxFovDeg)
}

// Retarget re-centers the orbit pivot, keeping the camera position.
func (ct *Controller) Retarget(p mathutil.Vec3) {
	ct.Cam.Target = p
}
