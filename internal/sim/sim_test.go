package sim

import (
	"math"
	"testing"

	"github.com/litescript/ls-orrery/internal/focus"
	"github.com/litescript/ls-orrery/internal/geom"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/solar"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	desc, err := solar.DefaultDescriptions()
	if err != nil {
		t.Fatalf("DefaultDescriptions: %v", err)
	}
	cfg := DefaultConfig()
	cfg.StarCount = 100
	c := New(cfg, desc, nil)
	c.Resize(800, 600)
	return c
}

// pixelOf returns the render-target pixel at the center of a body.
func pixelOf(t *testing.T, c *Context, name string) (float64, float64) {
	t.Helper()
	proj, ok := c.Camera().Project(c.System().Body(name).WorldPosition())
	if !ok {
		t.Fatalf("%s not visible", name)
	}
	w, h := c.Viewport()
	return scene.NDCToPixel(proj.X, proj.Y, w, h)
}

func TestNewStartsAtRest(t *testing.T) {
	c := newTestContext(t)
	rest := focus.DefaultConfig()

	if c.Camera().Position != rest.RestPosition || c.Camera().Target != rest.RestTarget {
		t.Errorf("camera = %v -> %v", c.Camera().Position, c.Camera().Target)
	}
	if got := len(c.Stars().Points); got != 100 {
		t.Errorf("stars = %d, want 100", got)
	}
	if c.Frame() != 0 || c.Focus().Phase() != focus.PhaseIdle {
		t.Error("new context should be idle at frame 0")
	}
}

func TestStepTicksScene(t *testing.T) {
	c := newTestContext(t)
	for i := 0; i < 100; i++ {
		c.Step()
	}
	if c.Frame() != 100 {
		t.Errorf("frame = %d", c.Frame())
	}
	if got := c.System().Body("Earth").OrbitAngle(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Earth orbit angle = %v, want 1.0", got)
	}
}

func TestPauseStopsTickButNotCamera(t *testing.T) {
	c := newTestContext(t)
	c.SetPaused(true)
	c.FocusBody("Mars")
	start := c.Camera().Position

	for i := 0; i < 10; i++ {
		c.Step()
	}
	if c.System().Ticks() != 0 {
		t.Errorf("ticks = %d while paused", c.System().Ticks())
	}
	if c.Camera().Position == start {
		t.Error("camera should keep easing while paused")
	}
	if c.Frame() != 10 {
		t.Errorf("frame = %d", c.Frame())
	}
}

func TestClickFocusAndDismissEvents(t *testing.T) {
	c := newTestContext(t)

	px, py := pixelOf(t, c, "Saturn")
	if !c.Click(px, py, false) {
		t.Fatal("click on Saturn did not focus")
	}
	snap := c.Snapshot()
	if snap.Focused != "Saturn" || snap.Phase != focus.PhaseFocused {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Overlay.Name != "Saturn" || !snap.Overlay.Visible {
		t.Errorf("overlay = %+v", snap.Overlay)
	}
	if snap.Controls {
		t.Error("controls enabled while focused")
	}

	// Overlay clicks never dismiss.
	c.Click(px, py, true)
	if c.Focus().Focused() == nil {
		t.Fatal("overlay click dismissed")
	}

	c.Click(0, 0, false)
	if c.Focus().Focused() != nil {
		t.Fatal("click outside overlay did not dismiss")
	}

	for i := 0; i < 2000 && c.Focus().Phase() == focus.PhaseReturning; i++ {
		c.Step()
	}

	events := c.Events()
	want := []EventType{EventFocus, EventDismiss, EventReturned}
	if len(events) != len(want) {
		t.Fatalf("events = %+v", events)
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d = %s, want %s", i, e.Type, want[i])
		}
	}
	if events[0].Body != "Saturn" || events[1].Body != "Saturn" {
		t.Errorf("event bodies = %q, %q", events[0].Body, events[1].Body)
	}
}

func TestClickBeforeResizeIgnored(t *testing.T) {
	desc, _ := solar.DefaultDescriptions()
	c := New(DefaultConfig(), desc, nil)
	if c.Click(10, 10, false) {
		t.Error("click without a viewport changed state")
	}
}

func TestResizeChangesOnlyAspect(t *testing.T) {
	c := newTestContext(t)
	c.FocusBody("Jupiter")
	for i := 0; i < 20; i++ {
		c.Step()
	}

	before := c.Snapshot()
	ticks := c.System().Ticks()
	angle := c.System().Body("Jupiter").OrbitAngle()

	c.Resize(1920, 1080)

	after := c.Snapshot()
	if w, h := c.Viewport(); w != 1920 || h != 1080 {
		t.Errorf("viewport = %dx%d", w, h)
	}
	if math.Abs(after.Camera.Aspect-1920.0/1080.0) > 1e-12 {
		t.Errorf("aspect = %v", after.Camera.Aspect)
	}
	if after.Camera.Position != before.Camera.Position || after.Camera.Target != before.Camera.Target {
		t.Error("resize moved the camera")
	}
	if after.Focused != before.Focused || after.Phase != before.Phase || after.Overlay != before.Overlay {
		t.Error("resize changed focus state")
	}
	if c.System().Ticks() != ticks || c.System().Body("Jupiter").OrbitAngle() != angle {
		t.Error("resize advanced the scene")
	}

	c.Resize(0, 100)
	if w, _ := c.Viewport(); w != 1920 {
		t.Error("zero-size resize should be ignored")
	}
}

func TestFocusCycling(t *testing.T) {
	c := newTestContext(t)
	bodies := c.System().Bodies()

	c.FocusNext()
	if got := c.Focus().Focused(); got != bodies[0] {
		t.Fatalf("first FocusNext = %v, want %s", got, bodies[0].Name)
	}
	c.FocusPrev()
	if got := c.Focus().Focused(); got != bodies[len(bodies)-1] {
		t.Errorf("FocusPrev from first = %s, want %s", got.Name, bodies[len(bodies)-1].Name)
	}
	c.FocusNext()
	c.FocusNext()
	if got := c.Focus().Focused(); got != bodies[1] {
		t.Errorf("got %s, want %s", got.Name, bodies[1].Name)
	}

	c.Dismiss()
	c.FocusPrev()
	if got := c.Focus().Focused(); got != bodies[len(bodies)-1] {
		t.Errorf("FocusPrev from idle = %s", got.Name)
	}
}

func TestFocusBodyUnknown(t *testing.T) {
	c := newTestContext(t)
	if c.FocusBody("Vulcan") {
		t.Error("unknown body focused")
	}
	if len(c.Events()) != 0 {
		t.Error("unknown body recorded an event")
	}
}

func TestRotateIgnoredWhileFocused(t *testing.T) {
	c := newTestContext(t)
	c.SetPaused(true)

	c.Rotate(10, 0)
	c.Step()
	if c.Camera().Position == focus.DefaultConfig().RestPosition {
		t.Fatal("rotate had no effect while idle")
	}

	c.Reset()
	c.FocusBody("Sun")
	c.Rotate(50, 50)
	c.Zoom(5)
	if c.Controls().Pending() {
		t.Error("controls accepted input while focused")
	}
}

func TestResetReturnsToRest(t *testing.T) {
	c := newTestContext(t)
	c.FocusBody("Earth")
	for i := 0; i < 30; i++ {
		c.Step()
	}
	c.Reset()

	rest := focus.DefaultConfig()
	if geom.Distance(c.Camera().Position, rest.RestPosition) != 0 {
		t.Errorf("camera at %v", c.Camera().Position)
	}
	if c.Focus().Phase() != focus.PhaseIdle || !c.Controls().Enabled() {
		t.Error("reset should leave the context idle with controls on")
	}
}

func TestEventRingBuffer(t *testing.T) {
	desc, _ := solar.DefaultDescriptions()
	cfg := DefaultConfig()
	cfg.StarCount = 0
	cfg.MaxEvents = 3
	c := New(cfg, desc, nil)

	for i := 0; i < 5; i++ {
		c.FocusNext()
	}
	events := c.Events()
	if len(events) != 3 {
		t.Fatalf("retained %d events, want 3", len(events))
	}
	bodies := c.System().Bodies()
	for i, e := range events {
		if want := bodies[i+2].Name; e.Body != want {
			t.Errorf("event %d body = %s, want %s", i, e.Body, want)
		}
	}

	recent := c.RecentEvents(1)
	if len(recent) != 1 || recent[0].Body != bodies[4].Name {
		t.Errorf("recent = %+v", recent)
	}
}
