package mathutil

// Mat4 is a 4×4 matrix stored row-major. Used for world→camera view transforms.
type Mat4 [16]float64

// LookAt builds the world→camera transform for a camera at eye looking
// toward target. Camera space: +x right, +y up, +z into the scene, so a
// point in front of the camera has positive z.
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	r := f.Cross(up).Normalize()
	if r.Len() < 1e-12 {
		// Degenerate up vector
		r = Vec3{1, 0, 0}
	}
	u := r.Cross(f)
	return Mat4{
		r[0], r[1], r[2], -r.Dot(eye),
		u[0], u[1], u[2], -u.Dot(eye),
		f[0], f[1], f[2], -f.Dot(eye),
		0, 0, 0, 1,
	}
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}
