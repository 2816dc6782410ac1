package scene

import (
	"math"

	"github.com/litescript/ls-orrery/internal/geom"
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position geom.Vec3
	Target   geom.Vec3

	FOV    float64 // Vertical field of view in degrees
	Aspect float64 // Width / height of the render target
	Near   float64
	Far    float64
}

// NewPerspectiveCamera creates a camera looking at the origin.
func NewPerspectiveCamera(fov, aspect, near, far float64) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// SetAspect updates the projection aspect ratio from viewport dimensions.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// basis returns the camera's forward, right and up unit vectors.
func (c *Camera) basis() (forward, right, up geom.Vec3) {
	forward = c.Target.Sub(c.Position).Normalized()
	if forward == geom.Zero {
		forward = geom.V(0, 0, -1)
	}
	worldUp := geom.UnitY
	if math.Abs(forward.Dot(worldUp)) > 0.999999 {
		// Looking straight up or down; any horizontal up works.
		worldUp = geom.V(0, 0, -1)
	}
	right = forward.Cross(worldUp).Normalized()
	up = right.Cross(forward)
	return forward, right, up
}

func (c *Camera) tanHalfFOV() float64 {
	return math.Tan(geom.DegToRad(c.FOV) / 2)
}

// RayThrough returns the world ray from the camera through a point in
// normalized device coordinates (x right, y up, both in [-1, 1]).
func (c *Camera) RayThrough(ndcX, ndcY float64) geom.Ray {
	forward, right, up := c.basis()
	th := c.tanHalfFOV()
	dir := forward.
		Add(right.Scale(ndcX * th * c.Aspect)).
		Add(up.Scale(ndcY * th))
	return geom.Ray{Origin: c.Position, Dir: dir.Normalized()}
}

// Projection is a world point mapped to normalized device coordinates.
type Projection struct {
	X, Y  float64 // NDC, visible range [-1, 1]
	Depth float64 // Distance along the view axis
}

// Projector caches the camera basis for projecting many points.
type Projector struct {
	cam                *Camera
	forward, right, up geom.Vec3
	tanHalf            float64
}

// Projector snapshots the current camera orientation.
func (c *Camera) Projector() Projector {
	f, r, u := c.basis()
	return Projector{cam: c, forward: f, right: r, up: u, tanHalf: c.tanHalfFOV()}
}

// Project maps a world point. ok is false when the point lies outside the
// near/far range; points outside the NDC square are still returned.
func (p Projector) Project(world geom.Vec3) (Projection, bool) {
	v := world.Sub(p.cam.Position)
	z := v.Dot(p.forward)
	if z < p.cam.Near || z > p.cam.Far {
		return Projection{}, false
	}
	return Projection{
		X:     v.Dot(p.right) / (z * p.tanHalf * p.cam.Aspect),
		Y:     v.Dot(p.up) / (z * p.tanHalf),
		Depth: z,
	}, true
}

// Project maps a single world point to NDC.
func (c *Camera) Project(world geom.Vec3) (Projection, bool) {
	return c.Projector().Project(world)
}

// PixelToNDC converts pixel coordinates (origin top-left, sampled at the
// pixel center) in a width × height target to NDC.
func PixelToNDC(px, py float64, width, height int) (float64, float64) {
	x := (px+0.5)/float64(width)*2 - 1
	y := 1 - (py+0.5)/float64(height)*2
	return x, y
}

// NDCToPixel is the inverse of PixelToNDC, returning fractional pixels.
func NDCToPixel(x, y float64, width, height int) (float64, float64) {
	px := (x+1)/2*float64(width) - 0.5
	py := (1-y)/2*float64(height) - 0.5
	return px, py
}
