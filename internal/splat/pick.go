package splat

import (
	"math"

	"stereo-splat-viewer/internal/mathutil"
)

// pickConeTan is the half-angle tangent of the acceptance cone around a
// pick ray (~1.15°). Splats are area-less points, so a hit is any point
// whose perpendicular distance from the ray stays inside the cone.
const pickConeTan = 0.02

// NearestHit casts a ray from origin along dir (need not be normalized)
// and returns the nearest point of the cloud inside the acceptance cone.
// ok is false when nothing qualifies; the caller must not mutate any state
// on a miss.
func (c *Cloud) NearestHit(origin, dir mathutil.Vec3) (mathutil.Vec3, bool) {
	d := dir.Normalize()
	if d.Len() == 0 {
		return mathutil.Vec3{}, false
	}

	// Absolute slack so picks work even at point-blank range.
	slack := c.radius * 1e-3

	best := math.Inf(1)
	var hit mathutil.Vec3
	found := false
	for _, p := range c.Points {
		rel := p.Sub(origin)
		t := rel.Dot(d)
		if t <= 0 || t >= best {
			continue
		}
		perp := rel.Sub(d.Scale(t)).Len()
		if perp > t*pickConeTan+slack {
			continue
		}
		best = t
		hit = p
		found = true
	}
	return hit, found
}
