package camera

import (
	"math"

	"stereo-splat-viewer/internal/mathutil"
)

// Fov bounds. Interactive drags stay inside the narrower gesture range;
// programmatic writes (imports, metadata hints) get the wider one.
const (
	MinFovDeg        = 20
	MaxFovDeg        = 110
	MaxGestureFovDeg = 90
)

// Camera is the full pose + projection state read by the stereo
// synthesizer every frame. Value type so per-frame eye cameras stay on the
// stack.
type Camera struct {
	Position mathutil.Vec3
	Target   mathutil.Vec3
	Up       mathutil.Vec3
	FovDeg   float64
	Near     float64
	Far      float64
}

// Forward returns the unit view direction.
func (c Camera) Forward() mathutil.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right returns the unit camera-right axis.
func (c Camera) Right() mathutil.Vec3 {
	r := c.Forward().Cross(c.Up).Normalize()
	if r.Len() == 0 {
		return mathutil.Vec3{1, 0, 0}
	}
	return r
}

// Distance returns the camera-to-target distance.
func (c Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

// View returns the world→camera transform.
func (c Camera) View() mathutil.Mat4 {
	return mathutil.LookAt(c.Position, c.Target, c.Up)
}

// PlaceForBounds positions the camera so a bounding sphere fills the view
// with a comfortable margin: distance = radius / sin(fov/2) · margin.
func PlaceForBounds(center mathutil.Vec3, radius, fovDeg float64) Camera {
	fov := mathutil.Clamp(fovDeg, MinFovDeg, MaxFovDeg)
	margin := 1.2
	dist := radius / math.Sin(mathutil.Deg2Rad(fov)/2) * margin
	return Camera{
		Position: center.Add(mathutil.Vec3{0, 0, dist}),
		Target:   center,
		Up:       mathutil.Vec3{0, 1, 0},
		FovDeg:   fov,
		Near:     radius * 1e-3,
		Far:      dist + radius*4,
	}
}
