package geom

import "math"

// Ray is a half-line from Origin along Dir. Dir is expected to be unit length.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectSphere returns the nearest non-negative distance at which r enters a
// sphere of the given radius centered at the origin. If the ray starts inside
// the sphere, the exit distance is returned.
func IntersectSphere(r Ray, radius float64) (float64, bool) {
	// |o + t·d|² = R², d unit: t² + 2(o·d)t + (o·o - R²) = 0
	b := r.Origin.Dot(r.Dir)
	c := r.Origin.Dot(r.Origin) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectAnnulus intersects r with a flat ring in the local XZ plane (y = 0)
// centered at the origin, between inner and outer radii. Both faces are hit.
func IntersectAnnulus(r Ray, inner, outer float64) (float64, bool) {
	if math.Abs(r.Dir.Y) < 1e-12 {
		return 0, false
	}
	t := -r.Origin.Y / r.Dir.Y
	if t < 0 {
		return 0, false
	}
	p := r.At(t)
	d2 := p.X*p.X + p.Z*p.Z
	if d2 < inner*inner || d2 > outer*outer {
		return 0, false
	}
	return t, true
}
