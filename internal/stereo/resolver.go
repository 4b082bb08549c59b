package stereo

import "stereo-splat-viewer/internal/mathutil"

// Resolver determines the zero-parallax (convergence) point. The orbit
// target and the last-click point are distinct: orbit/pan keep moving the
// former, only picks move the latter.
type Resolver struct {
	Mode ZeroParallaxMode

	clickPoint mathutil.Vec3
	hasClick   bool
}

// Point resolves the convergence point for the current frame. It is
// always defined: click mode without a pick behaves exactly like pivot
// mode.
func (r *Resolver) Point(orbitTarget mathutil.Vec3) mathutil.Vec3 {
	if r.Mode == ZeroParallaxClick && r.hasClick {
		return r.clickPoint
	}
	return orbitTarget
}

// RecordClick stores a picked 3D point as the convergence target.
func (r *Resolver) RecordClick(p mathutil.Vec3) {
	r.clickPoint = p
	r.hasClick = true
}

// UseCurrentPivot copies the orbit target into the last-click point
// without picking ("use current pivot as convergence").
func (r *Resolver) UseCurrentPivot(orbitTarget mathutil.Vec3) {
	r.RecordClick(orbitTarget)
}

// ClickPoint returns the last picked point, if any this scene.
func (r *Resolver) ClickPoint() (mathutil.Vec3, bool) {
	return r.clickPoint, r.hasClick
}

// Reset drops the last-click point. Called when the geometry reference is
// swapped so a stale convergence target never outlives its scene.
func (r *Resolver) Reset() {
	r.clickPoint = mathutil.Vec3{}
	r.hasClick = false
}
