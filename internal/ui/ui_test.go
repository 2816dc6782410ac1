package ui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/litescript/ls-orrery/internal/focus"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/solar"
)

func newTestModel(t *testing.T, width, height int) (Model, *sim.Context) {
	t.Helper()
	desc, err := solar.DefaultDescriptions()
	if err != nil {
		t.Fatalf("DefaultDescriptions: %v", err)
	}
	cfg := sim.DefaultConfig()
	cfg.StarCount = 200
	ctx := sim.New(cfg, desc, nil)

	m := New(ctx, DefaultOptions())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(Model), ctx
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

// screenCell returns the terminal cell showing a world point.
func screenCell(t *testing.T, ctx *sim.Context, name string) (int, int) {
	t.Helper()
	proj, ok := ctx.Camera().Project(ctx.System().Body(name).WorldPosition())
	if !ok {
		t.Fatalf("%s not visible", name)
	}
	w, h := ctx.Viewport()
	px, py := scene.NDCToPixel(proj.X, proj.Y, w, h)
	return int(math.Round(px)), int(py/2) + headerHeight
}

func click(x, y int) []tea.Msg {
	return []tea.Msg{
		tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	}
}

func TestWindowSizeResizesViewport(t *testing.T) {
	m, ctx := newTestModel(t, 100, 40)

	rows := 40 - headerHeight - footerHeight - panelHeight
	if m.Orrery().CanvasRows() != rows {
		t.Errorf("canvas rows = %d, want %d", m.Orrery().CanvasRows(), rows)
	}
	if w, h := ctx.Viewport(); w != 100 || h != 2*rows {
		t.Errorf("viewport = %dx%d, want 100x%d", w, h, 2*rows)
	}

	// Resizing keeps focus.
	ctx.FocusBody("Mars")
	m = send(m, tea.WindowSizeMsg{Width: 160, Height: 50})
	if ctx.Focus().Focused() == nil || ctx.Focus().Focused().Name != "Mars" {
		t.Error("resize lost focus")
	}
	if math.Abs(ctx.Camera().Aspect-160.0/float64(2*(50-7))) > 1e-12 {
		t.Errorf("aspect = %v", ctx.Camera().Aspect)
	}
}

func TestViewBeforeReady(t *testing.T) {
	desc, _ := solar.DefaultDescriptions()
	m := New(sim.New(sim.DefaultConfig(), desc, nil), DefaultOptions())
	if m.View() != "Initializing..." {
		t.Errorf("View = %q", m.View())
	}
}

func TestTooSmall(t *testing.T) {
	m, _ := newTestModel(t, 30, 10)
	if !strings.Contains(m.View(), "too small") {
		t.Error("expected too-small message")
	}
	// Clicks on a too-small view are ignored.
	m = send(m, click(5, 3)...)
}

func TestFrameMsgSteps(t *testing.T) {
	m, ctx := newTestModel(t, 80, 30)

	updated, cmd := m.Update(FrameMsg{})
	m = updated.(Model)
	if ctx.Frame() != 1 {
		t.Errorf("frame = %d, want 1", ctx.Frame())
	}
	if cmd == nil {
		t.Error("FrameMsg should schedule the next frame")
	}
	if m.Init() == nil {
		t.Error("Init should start the frame loop")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, 80, 30)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestKeyboardFocusCycle(t *testing.T) {
	m, ctx := newTestModel(t, 80, 30)
	bodies := ctx.System().Bodies()

	m = send(m, key("tab"))
	if ctx.Focus().Focused() != bodies[0] {
		t.Fatalf("tab focused %v, want the sun", ctx.Focus().Focused())
	}
	m = send(m, key("]"), key("]"))
	if ctx.Focus().Focused() != bodies[2] {
		t.Errorf("focused %s, want %s", ctx.Focus().Focused().Name, bodies[2].Name)
	}
	m = send(m, key("["))
	if ctx.Focus().Focused() != bodies[1] {
		t.Errorf("focused %s, want %s", ctx.Focus().Focused().Name, bodies[1].Name)
	}
	m = send(m, key("shift+tab"))
	if ctx.Focus().Focused() != bodies[0] {
		t.Errorf("shift+tab focused %s", ctx.Focus().Focused().Name)
	}

	if !strings.Contains(m.View(), "Sun") {
		t.Error("overlay not shown for focused body")
	}

	m = send(m, key("esc"))
	if ctx.Focus().Phase() != focus.PhaseReturning {
		t.Errorf("esc left phase %v", ctx.Focus().Phase())
	}
}

func TestToggles(t *testing.T) {
	m, ctx := newTestModel(t, 80, 30)

	m = send(m, key("l"))
	if m.Orrery().LabelMode() != render.LabelNone {
		t.Errorf("labels = %v after one press", m.Orrery().LabelMode())
	}
	m = send(m, key("l"))
	if m.Orrery().LabelMode() != render.LabelFocused {
		t.Errorf("labels = %v after two presses", m.Orrery().LabelMode())
	}

	m = send(m, key("t"), key("o"))
	if m.Orrery().ShowStars() || m.Orrery().ShowOrbits() {
		t.Error("t and o should hide stars and orbits")
	}

	m = send(m, key("p"))
	if !ctx.Paused() || !m.Orrery().Paused() {
		t.Error("p should pause")
	}
	m = send(m, FrameMsg{})
	if ctx.System().Ticks() != 0 {
		t.Error("scene ticked while paused")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("footer does not show paused")
	}
}

func TestArrowAndZoomKeys(t *testing.T) {
	m, ctx := newTestModel(t, 80, 30)

	m = send(m, key("left"))
	if !ctx.Controls().Pending() {
		t.Error("arrow key queued no rotation")
	}
	ctx.Controls().Reset()

	m = send(m, key("+"))
	if !ctx.Controls().Pending() {
		t.Error("+ queued no zoom")
	}

	before := ctx.Camera().Position
	m = send(m, FrameMsg{})
	if ctx.Camera().Position == before {
		t.Error("queued input did not move the camera")
	}

	m = send(m, key("r"))
	if ctx.Camera().Position != focus.DefaultConfig().RestPosition {
		t.Error("r should reset the camera")
	}
}

func TestMouseClickFocusesAndDismisses(t *testing.T) {
	m, ctx := newTestModel(t, 200, 80)

	x, y := screenCell(t, ctx, "Sun")
	m = send(m, click(x, y)...)
	if ctx.Focus().Focused() == nil || ctx.Focus().Focused().Name != "Sun" {
		t.Fatalf("click at (%d,%d) did not focus the sun", x, y)
	}
	if !strings.Contains(m.View(), closeLabel) {
		t.Error("overlay close button not rendered")
	}

	// A click inside the panel, away from the close button, is an overlay click.
	panelRow := headerHeight + m.Orrery().CanvasRows() + 2
	m = send(m, click(10, panelRow)...)
	if ctx.Focus().Focused() == nil {
		t.Fatal("panel click dismissed")
	}

	// The close button dismisses.
	closeRow := headerHeight + m.Orrery().CanvasRows() + 1
	m = send(m, click(200-4, closeRow)...)
	if ctx.Focus().Focused() != nil {
		t.Fatal("close button did not dismiss")
	}
	if ctx.Focus().Phase() != focus.PhaseReturning {
		t.Errorf("phase = %v", ctx.Focus().Phase())
	}
}

func TestMouseClickOnCanvasDismisses(t *testing.T) {
	m, ctx := newTestModel(t, 120, 40)
	ctx.FocusBody("Earth")

	m = send(m, click(1, headerHeight+1)...)
	if ctx.Focus().Focused() != nil {
		t.Error("canvas click while focused should dismiss")
	}
}

func TestMouseClickOutsideOrreryDismisses(t *testing.T) {
	tests := []struct {
		name string
		row  int
	}{
		{"header", 0},
		{"footer", 39},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctx := newTestModel(t, 120, 40)
			ctx.FocusBody("Earth")
			m = send(m, click(5, tt.row)...)
			if ctx.Focus().Focused() != nil {
				t.Fatalf("%s click while focused should dismiss", tt.name)
			}
			if ctx.Focus().Phase() != focus.PhaseReturning {
				t.Errorf("phase = %v", ctx.Focus().Phase())
			}
		})
	}

	// Without a focus the header and footer do nothing.
	m, ctx := newTestModel(t, 120, 40)
	send(m, click(5, 0)...)
	if ctx.Focus().Phase() != focus.PhaseIdle {
		t.Errorf("phase = %v", ctx.Focus().Phase())
	}
}

func TestCloseButtonMatchesPanel(t *testing.T) {
	for _, width := range []int{60, 120, 200} {
		m, ctx := newTestModel(t, width, 40)
		ctx.FocusBody("Mars")

		o := m.Orrery()
		lines := strings.Split(o.View(), "\n")
		row := []rune(ansi.Strip(lines[o.CanvasRows()+panelBorder]))
		first, last := o.closeButtonSpan()
		if got := string(row[first : last+1]); got != closeLabel {
			t.Fatalf("width %d: columns %d-%d render %q", width, first, last, got)
		}

		for x := first; x <= last; x++ {
			if !o.onCloseButton(x, o.CanvasRows()+panelBorder) {
				t.Errorf("width %d: column %d not on the close button", width, x)
			}
		}

		closeRow := headerHeight + o.CanvasRows() + panelBorder
		for _, x := range []int{first - 1, last + 1} {
			m = send(m, click(x, closeRow)...)
			if ctx.Focus().Focused() == nil {
				t.Fatalf("width %d: click at column %d dismissed", width, x)
			}
		}
		m = send(m, click(last, closeRow)...)
		if ctx.Focus().Focused() != nil {
			t.Errorf("width %d: close button did not dismiss", width)
		}
	}
}

func TestMouseDragRotates(t *testing.T) {
	m, ctx := newTestModel(t, 120, 40)

	x, y := screenCell(t, ctx, "Sun")
	m = send(m,
		tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: x + 5, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: x + 5, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	)
	if ctx.Focus().Focused() != nil {
		t.Error("drag ending over a body should not focus it")
	}
	if !ctx.Controls().Pending() {
		t.Error("drag queued no rotation")
	}
}

func TestMouseWheelZooms(t *testing.T) {
	m, ctx := newTestModel(t, 120, 40)
	m = send(m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if !ctx.Controls().Pending() {
		t.Error("wheel queued no zoom")
	}
	_ = m
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 10); got != gradientStops[0].Hex() {
		t.Errorf("start = %s", got)
	}
	if got := gradientColor(9, 10); got != gradientStops[len(gradientStops)-1].Hex() {
		t.Errorf("end = %s", got)
	}
	if got := gradientColor(0, 1); got != gradientStops[0].Hex() {
		t.Errorf("single column = %s", got)
	}
}

func TestHUDShowsLastEvent(t *testing.T) {
	m, ctx := newTestModel(t, 120, 40)
	ctx.FocusBody("Venus")
	ctx.Dismiss()
	m = send(m, FrameMsg{})
	if view := m.View(); !strings.Contains(view, "DISMISS Venus") {
		t.Error("HUD does not show the last event")
	}
}
