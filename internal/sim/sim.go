// Package sim owns the running orrery: the solar system, the camera and the
// controllers that move it, and a log of focus changes. The caller drives it
// one frame at a time with Step.
package sim

import (
	"time"

	"github.com/litescript/ls-orrery/internal/controls"
	"github.com/litescript/ls-orrery/internal/focus"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/solar"
)

// EventType represents the type of focus change.
type EventType string

const (
	EventFocus    EventType = "FOCUS"
	EventDismiss  EventType = "DISMISS"
	EventReturned EventType = "RETURNED"
)

// Event is a focus change recorded by the context.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Frame     uint64    `json:"frame"`
	Body      string    `json:"body,omitempty"`
}

// Config holds configuration for a simulation context.
type Config struct {
	StarCount int
	StarSeed  int64
	MaxEvents int

	FOV  float64 // Vertical, degrees
	Near float64
	Far  float64

	Focus    focus.Config
	Controls controls.Config
}

// DefaultConfig returns the standard scene setup.
func DefaultConfig() Config {
	return Config{
		StarCount: 15000,
		StarSeed:  1,
		MaxEvents: 50,
		FOV:       75,
		Near:      0.1,
		Far:       2000,
		Focus:     focus.DefaultConfig(),
		Controls:  controls.DefaultConfig(),
	}
}

// Context is the explicit simulation state. It is not safe for concurrent
// use; the owner of the frame loop calls into it from one goroutine.
type Context struct {
	system *solar.System
	camera *scene.Camera
	orbit  *controls.Orbit
	focus  *focus.Controller
	stars  scene.Starfield
	logger *logging.Logger

	width, height int
	frame         uint64
	paused        bool

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	now func() time.Time
}

// New builds the scene and places the camera at its resting viewpoint.
func New(cfg Config, descriptions solar.Descriptions, logger *logging.Logger) *Context {
	if logger == nil {
		logger = logging.Discard()
	}
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	if cfg.StarCount < 0 {
		cfg.StarCount = 0
	}

	cam := scene.NewPerspectiveCamera(cfg.FOV, 1, cfg.Near, cfg.Far)
	cam.Position = cfg.Focus.RestPosition
	cam.Target = cfg.Focus.RestTarget

	system := solar.New(descriptions)
	orbit := controls.NewOrbit(cfg.Controls)

	c := &Context{
		system:    system,
		camera:    cam,
		orbit:     orbit,
		focus:     focus.New(cfg.Focus, system, cam, orbit, logger),
		stars:     scene.NewStarfield(cfg.StarCount, scene.StarfieldSpread, cfg.StarSeed),
		logger:    logger,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		now:       time.Now,
	}
	logger.Debug("scene ready: %d bodies, %d stars", len(system.Bodies()), cfg.StarCount)
	return c
}

// Step advances one frame: the scene tick (skipped while paused), then the
// focus animation, then any pending orbit-control motion.
func (c *Context) Step() {
	if !c.paused {
		c.system.Tick()
	}
	if c.focus.Update() {
		c.addEvent(EventReturned, "")
	}
	c.orbit.Update(c.camera)
	c.frame++
}

// Click handles a pointer click at pixel (px, py) of the render target.
// onOverlay marks clicks that landed on the info panel.
// Reports whether the focus state changed.
func (c *Context) Click(px, py float64, onOverlay bool) bool {
	if c.width <= 0 || c.height <= 0 {
		return false
	}
	x, y := scene.PixelToNDC(px, py, c.width, c.height)
	return c.ClickNDC(x, y, onOverlay)
}

// ClickNDC handles a click already expressed in normalized device coordinates.
func (c *Context) ClickNDC(x, y float64, onOverlay bool) bool {
	before := c.focus.Focused()
	changed := c.focus.HandleClick(focus.Click{X: x, Y: y, OnOverlay: onOverlay})
	c.recordTransition(before)
	return changed
}

// Dismiss clears any focus and starts the return to the resting viewpoint.
func (c *Context) Dismiss() {
	before := c.focus.Focused()
	c.focus.Dismiss()
	c.recordTransition(before)
}

// FocusBody focuses a body by name. Reports false for unknown names.
func (c *Context) FocusBody(name string) bool {
	b := c.system.Body(name)
	if b == nil {
		return false
	}
	c.focusBody(b)
	return true
}

// FocusNext focuses the body after the current one in registry order,
// wrapping around. With nothing focused it starts at the sun.
func (c *Context) FocusNext() {
	c.cycle(1)
}

// FocusPrev focuses the body before the current one, wrapping around.
func (c *Context) FocusPrev() {
	c.cycle(-1)
}

func (c *Context) cycle(dir int) {
	bodies := c.system.Bodies()
	n := len(bodies)
	if n == 0 {
		return
	}
	idx := c.system.Index(c.focus.Focused())
	switch {
	case idx < 0 && dir > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = (idx + dir + n) % n
	}
	c.focusBody(bodies[idx])
}

func (c *Context) focusBody(b *solar.Body) {
	before := c.focus.Focused()
	c.focus.Focus(b)
	c.recordTransition(before)
}

func (c *Context) recordTransition(before *solar.Body) {
	after := c.focus.Focused()
	if before == after {
		return
	}
	if before != nil && after == nil {
		c.addEvent(EventDismiss, before.Name)
	}
	if after != nil {
		c.addEvent(EventFocus, after.Name)
	}
}

// Rotate queues an orbit drag. Ignored while a body is focused.
func (c *Context) Rotate(dx, dy float64) {
	c.orbit.Rotate(dx, dy)
}

// Zoom queues a dolly step. Ignored while a body is focused.
func (c *Context) Zoom(steps int) {
	c.orbit.Zoom(steps)
}

// Resize records a new render target size in pixels. Only the camera aspect
// and the stored viewport change; focus state and camera pose are untouched.
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.camera.SetAspect(width, height)
}

// Viewport returns the render target size.
func (c *Context) Viewport() (width, height int) {
	return c.width, c.height
}

// SetPaused stops or resumes the scene tick. The camera keeps animating.
func (c *Context) SetPaused(paused bool) {
	c.paused = paused
}

// Paused reports whether the scene tick is stopped.
func (c *Context) Paused() bool {
	return c.paused
}

// Reset drops any focus and pending input and returns the camera to rest.
// Body angles are kept.
func (c *Context) Reset() {
	c.orbit.Reset()
	c.focus.Reset()
}

// Frame returns how many times Step has run.
func (c *Context) Frame() uint64 {
	return c.frame
}

// System returns the scene model.
func (c *Context) System() *solar.System {
	return c.system
}

// Camera returns the camera. Callers may read it between steps.
func (c *Context) Camera() *scene.Camera {
	return c.camera
}

// Focus returns the focus controller.
func (c *Context) Focus() *focus.Controller {
	return c.focus
}

// Controls returns the orbit controls.
func (c *Context) Controls() *controls.Orbit {
	return c.orbit
}

// Stars returns the background starfield.
func (c *Context) Stars() scene.Starfield {
	return c.stars
}

// addEvent adds an event to the ring buffer.
func (c *Context) addEvent(t EventType, body string) {
	e := Event{Type: t, Timestamp: c.now(), Frame: c.frame, Body: body}
	c.logger.Debug("event %s %s at frame %d", t, body, c.frame)
	if len(c.events) < c.maxEvents {
		c.events = append(c.events, e)
	} else {
		c.events[c.eventWriteAt] = e
		c.eventWriteAt = (c.eventWriteAt + 1) % c.maxEvents
	}
}

// Events returns all retained events in chronological order.
func (c *Context) Events() []Event {
	if len(c.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(c.events) < c.maxEvents {
		result := make([]Event, len(c.events))
		copy(result, c.events)
		return result
	}

	result := make([]Event, c.maxEvents)
	for i := 0; i < c.maxEvents; i++ {
		result[i] = c.events[(c.eventWriteAt+i)%c.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (c *Context) RecentEvents(n int) []Event {
	all := c.Events()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Snapshot is a copy of the state a status display needs.
type Snapshot struct {
	Frame    uint64
	Paused   bool
	Phase    focus.Phase
	Focused  string
	Overlay  focus.Overlay
	Camera   scene.Camera
	Width    int
	Height   int
	Controls bool
}

// Snapshot returns the current state by value.
func (c *Context) Snapshot() Snapshot {
	s := Snapshot{
		Frame:    c.frame,
		Paused:   c.paused,
		Phase:    c.focus.Phase(),
		Overlay:  c.focus.Overlay(),
		Camera:   *c.camera,
		Width:    c.width,
		Height:   c.height,
		Controls: c.orbit.Enabled(),
	}
	if b := c.focus.Focused(); b != nil {
		s.Focused = b.Name
	}
	return s
}
