package stereo

import (
	"math"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/mathutil"
)

// Intersecter is the nearest-hit capability the picker consumes. The core
// stays independent of any specific spatial index or point-set layout.
type Intersecter interface {
	NearestHit(origin, dir mathutil.Vec3) (mathutil.Vec3, bool)
}

// PickRay converts a viewport pixel to a world-space ray through the
// camera. FovDeg is treated as the vertical field of view.
func PickRay(cam camera.Camera, px, py float64, width, height int) (origin, dir mathutil.Vec3) {
	ndcX := 2*px/float64(width) - 1
	ndcY := 1 - 2*py/float64(height)
	aspect := float64(width) / float64(height)
	tanHalf := math.Tan(mathutil.Deg2Rad(cam.FovDeg) / 2)

	fwd := cam.Forward()
	right := cam.Right()
	up := right.Cross(fwd)

	dir = fwd.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf)).
		Normalize()
	return cam.Position, dir
}

// Pick casts a pick ray through the given viewport pixel and queries the
// geometry for the nearest hit. A miss returns ok=false and must leave
// all viewer state untouched.
func Pick(cam camera.Camera, px, py float64, width, height int, geom Intersecter) (mathutil.Vec3, bool) {
	if geom == nil || width <= 0 || height <= 0 {
		return mathutil.Vec3{}, false
	}
	origin, dir := PickRay(cam, px, py, width, height)
	return geom.NearestHit(origin, dir)
}
