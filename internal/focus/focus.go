// Package focus implements click-to-focus: picking a body under the cursor,
// easing the camera toward it, showing its overlay, and easing back to the
// resting viewpoint when dismissed.
package focus

import (
	"github.com/litescript/ls-orrery/internal/geom"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/solar"
)

// Phase is the controller state.
type Phase int

const (
	PhaseIdle      Phase = iota // Nothing focused, camera at rest or user-driven
	PhaseFocused                // A body is focused
	PhaseReturning              // Nothing focused, camera easing back to rest
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFocused:
		return "focused"
	case PhaseReturning:
		return "returning"
	default:
		return "unknown"
	}
}

// Controls is the orbit-control input handler toggled by focus changes.
type Controls interface {
	SetEnabled(enabled bool)
}

// Overlay is the info panel state: what it shows and whether it is shown.
type Overlay struct {
	Name        string
	Description string
	Visible     bool
}

// Click is a pointer click in normalized device coordinates.
type Click struct {
	X, Y float64
	// OnOverlay is set when the click landed inside the info panel.
	OnOverlay bool
}

// Config holds camera easing parameters.
type Config struct {
	Smoothing     float64   // Fraction of the remaining distance covered per frame
	Offset        geom.Vec3 // Camera offset from a focused body, per unit of its radius
	RestPosition  geom.Vec3
	RestTarget    geom.Vec3
	StopThreshold float64 // Return animation stops within this distance of rest
}

// DefaultConfig returns the standard viewpoint and easing.
func DefaultConfig() Config {
	return Config{
		Smoothing:     0.05,
		Offset:        geom.V(0, 2, 5),
		RestPosition:  geom.V(0, 31, 116),
		RestTarget:    geom.Zero,
		StopThreshold: 0.1,
	}
}

// Controller owns the focus state and drives the camera every frame.
type Controller struct {
	cfg      Config
	system   *solar.System
	camera   *scene.Camera
	controls Controls
	logger   *logging.Logger

	focused   *solar.Body
	returning bool
	overlay   Overlay
}

// New creates an idle controller. controls may be nil.
func New(cfg Config, system *solar.System, camera *scene.Camera, controls Controls, logger *logging.Logger) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = DefaultConfig().Smoothing
	}
	c := &Controller{
		cfg:      cfg,
		system:   system,
		camera:   camera,
		controls: controls,
		logger:   logger,
	}
	c.setControls(true)
	return c
}

// Focused returns the focused body, or nil.
func (c *Controller) Focused() *solar.Body {
	return c.focused
}

// Phase returns the current state.
func (c *Controller) Phase() Phase {
	switch {
	case c.focused != nil:
		return PhaseFocused
	case c.returning:
		return PhaseReturning
	default:
		return PhaseIdle
	}
}

// Overlay returns the current overlay state.
func (c *Controller) Overlay() Overlay {
	return c.overlay
}

// Config returns the controller configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// HandleClick processes a pointer click. While focused, a click outside the
// overlay dismisses and is never also treated as a pick; a click on the
// overlay does nothing. Otherwise the click is hit-tested and focuses the
// nearest body under the cursor, if any. Reports whether the state changed.
func (c *Controller) HandleClick(click Click) bool {
	if c.focused != nil {
		if click.OnOverlay {
			return false
		}
		c.Dismiss()
		return true
	}
	if click.OnOverlay {
		return false
	}

	body := c.Pick(click.X, click.Y)
	if body == nil {
		c.logger.Debug("click at (%.3f, %.3f) hit nothing", click.X, click.Y)
		return false
	}
	c.Focus(body)
	return true
}

// Pick returns the nearest body along the camera ray through (x, y) in NDC.
// Hits on nodes that are not bodies (rings, decoration) are passed over.
func (c *Controller) Pick(x, y float64) *solar.Body {
	ray := c.camera.RayThrough(x, y)
	for _, hit := range c.system.Scene().Raycast(ray) {
		if body, ok := c.system.BodyForNode(hit.Node.ID()); ok {
			return body
		}
	}
	return nil
}

// Focus selects body, locks orbit controls and shows its overlay.
func (c *Controller) Focus(body *solar.Body) {
	if body == nil || body == c.focused {
		return
	}
	c.focused = body
	c.returning = false
	c.setControls(false)
	c.overlay = Overlay{
		Name:        body.Name,
		Description: c.system.Describe(body.Name),
		Visible:     true,
	}
	c.logger.Info("focused %s", body.Name)
}

// Dismiss clears the focus immediately, hides the overlay, unlocks controls
// and starts the return animation. Does nothing when idle.
func (c *Controller) Dismiss() {
	if c.focused == nil {
		return
	}
	name := c.focused.Name
	c.focused = nil
	c.overlay.Visible = false
	c.setControls(true)
	c.returning = true
	c.logger.Info("dismissed %s", name)
}

// Reset abandons any focus or return animation and places the camera at rest.
func (c *Controller) Reset() {
	c.focused = nil
	c.returning = false
	c.overlay = Overlay{}
	c.setControls(true)
	c.camera.Position = c.cfg.RestPosition
	c.camera.Target = c.cfg.RestTarget
}

// Target returns the camera destination and look target for a body.
func (c *Controller) Target(body *solar.Body) (position, lookAt geom.Vec3) {
	lookAt = body.WorldPosition()
	return lookAt.Add(c.cfg.Offset.Scale(body.VisualRadius)), lookAt
}

// Update eases the camera one frame toward the focused body or back to
// rest. Reports whether the return animation finished on this frame.
func (c *Controller) Update() bool {
	s := c.cfg.Smoothing

	if c.focused != nil {
		pos, look := c.Target(c.focused)
		c.camera.Position = c.camera.Position.Lerp(pos, s)
		c.camera.Target = c.camera.Target.Lerp(look, s)
		return false
	}

	if !c.returning {
		return false
	}

	c.camera.Position = c.camera.Position.Lerp(c.cfg.RestPosition, s)
	c.camera.Target = c.camera.Target.Lerp(c.cfg.RestTarget, s)
	if geom.Distance(c.camera.Position, c.cfg.RestPosition) < c.cfg.StopThreshold {
		c.returning = false
		c.logger.Debug("camera back at rest")
		return true
	}
	return false
}

func (c *Controller) setControls(enabled bool) {
	if c.controls != nil {
		c.controls.SetEnabled(enabled)
	}
}
