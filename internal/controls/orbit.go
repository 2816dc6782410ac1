// Package controls implements orbit-style camera input: rotate around the
// camera target, dolly in and out, with optional damping.
package controls

import (
	"math"

	"github.com/litescript/ls-orrery/internal/geom"
	"github.com/litescript/ls-orrery/internal/scene"
)

const minPolar = 1e-6

// Config holds orbit control tuning.
type Config struct {
	EnableDamping bool
	DampingFactor float64 // Fraction of pending motion applied per update
	RotateSpeed   float64 // Radians per input unit
	ZoomStep      float64 // Dolly factor per zoom step (>1)
	MinDistance   float64
	MaxDistance   float64
}

// DefaultConfig returns orbit controls with damping enabled.
func DefaultConfig() Config {
	return Config{
		EnableDamping: true,
		DampingFactor: 0.05,
		RotateSpeed:   0.02,
		ZoomStep:      1.1,
		MinDistance:   2,
		MaxDistance:   900,
	}
}

// Orbit rotates and dollies a camera around its Target.
type Orbit struct {
	cfg     Config
	enabled bool

	dTheta float64 // Pending azimuth change
	dPhi   float64 // Pending polar change
	scale  float64 // Pending dolly factor
}

// NewOrbit creates enabled controls.
func NewOrbit(cfg Config) *Orbit {
	if cfg.DampingFactor <= 0 || cfg.DampingFactor > 1 {
		cfg.DampingFactor = 1
	}
	if cfg.ZoomStep <= 1 {
		cfg.ZoomStep = 1.1
	}
	return &Orbit{cfg: cfg, enabled: true, scale: 1}
}

// Enabled reports whether user input is accepted.
func (o *Orbit) Enabled() bool {
	return o.enabled
}

// SetEnabled toggles input. Disabling drops any pending motion.
func (o *Orbit) SetEnabled(enabled bool) {
	o.enabled = enabled
	if !enabled {
		o.Reset()
	}
}

// Reset drops pending motion.
func (o *Orbit) Reset() {
	o.dTheta, o.dPhi, o.scale = 0, 0, 1
}

// Rotate queues an orbit by input deltas (e.g. cells dragged). Positive dx
// swings the camera left around the target, positive dy tilts it upward.
func (o *Orbit) Rotate(dx, dy float64) {
	if !o.enabled {
		return
	}
	o.dTheta -= dx * o.cfg.RotateSpeed
	o.dPhi -= dy * o.cfg.RotateSpeed
}

// Zoom queues a dolly; positive steps move toward the target.
func (o *Orbit) Zoom(steps int) {
	if !o.enabled || steps == 0 {
		return
	}
	o.scale *= math.Pow(o.cfg.ZoomStep, float64(-steps))
}

// Pending reports whether there is queued motion.
func (o *Orbit) Pending() bool {
	return o.dTheta != 0 || o.dPhi != 0 || o.scale != 1
}

// Update applies queued motion to the camera and reports whether it moved.
// With nothing queued the camera is left untouched.
func (o *Orbit) Update(cam *scene.Camera) bool {
	if !o.enabled || !o.Pending() {
		return false
	}

	offset := cam.Position.Sub(cam.Target)
	radius := offset.Norm()
	if radius == 0 {
		o.Reset()
		return false
	}

	theta := math.Atan2(offset.X, offset.Z)
	phi := math.Acos(geom.Clamp(offset.Y/radius, -1, 1))

	f := 1.0
	if o.cfg.EnableDamping {
		f = o.cfg.DampingFactor
	}

	theta += o.dTheta * f
	phi = geom.Clamp(phi+o.dPhi*f, minPolar, math.Pi-minPolar)
	radius = geom.Clamp(radius*o.scale, o.cfg.MinDistance, o.cfg.MaxDistance)

	sinPhi := math.Sin(phi)
	offset = geom.V(
		radius*sinPhi*math.Sin(theta),
		radius*math.Cos(phi),
		radius*sinPhi*math.Cos(theta),
	)
	cam.Position = cam.Target.Add(offset)

	if o.cfg.EnableDamping {
		o.dTheta *= 1 - f
		o.dPhi *= 1 - f
		if math.Abs(o.dTheta) < 1e-5 {
			o.dTheta = 0
		}
		if math.Abs(o.dPhi) < 1e-5 {
			o.dPhi = 0
		}
	} else {
		o.dTheta, o.dPhi = 0, 0
	}
	// Dolly is applied in full each update, as a single step.
	o.scale = 1

	return true
}
