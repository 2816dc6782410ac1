package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/focus"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
)

// panelHeight is the fixed height of the info panel under the canvas,
// borders included.
const panelHeight = 5

// Panel frame widths, in cells on each side.
const (
	panelBorder  = 1
	panelPadding = 1
	panelInset   = panelBorder + panelPadding
)

const (
	minWidth      = 40
	minCanvasRows = 4

	keyRotateStep = 8.0 // Rotate input units per arrow press
	dragScale     = 3.0 // Rotate input units per cell dragged
	closeLabel    = "[x]"
)

// mouseState tracks a left-button gesture. A press and release without
// motion in between is a click; anything else is a drag.
type mouseState struct {
	pressed      bool
	dragged      bool
	pressX       int
	pressY       int
	lastX, lastY int
}

// OrreryModel renders the scene canvas and the info panel and turns input
// into simulation calls.
type OrreryModel struct {
	sim      *sim.Context
	renderer *render.Renderer
	opts     render.Options

	width      int
	height     int
	canvasRows int

	canvas string
	mouse  mouseState
}

// NewOrreryModel creates the scene view.
func NewOrreryModel(ctx *sim.Context, opts Options) OrreryModel {
	return OrreryModel{
		sim:      ctx,
		renderer: render.NewRenderer(),
		opts: render.Options{
			Stars:  opts.ShowStars,
			Orbits: opts.ShowOrbits,
			Labels: opts.Labels,
		},
	}
}

// SetSize sets the area available to the canvas and panel, in cells.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	m.canvasRows = height - panelHeight
	if m.tooSmall() {
		m.canvas = ""
		return m
	}
	m.sim.Resize(width, 2*m.canvasRows)
	return m.redraw()
}

func (m OrreryModel) tooSmall() bool {
	return m.width < minWidth || m.canvasRows < minCanvasRows
}

// Step advances the simulation one frame and redraws.
func (m OrreryModel) Step() OrreryModel {
	m.sim.Step()
	return m.redraw()
}

func (m OrreryModel) redraw() OrreryModel {
	if m.tooSmall() {
		return m
	}
	opts := m.opts
	if b := m.sim.Focus().Focused(); b != nil {
		opts.Focused = b.Mesh.ID()
	}
	sys := m.sim.System()
	frame := m.renderer.Render(render.Input{
		Scene:  sys.Scene(),
		Camera: m.sim.Camera(),
		Stars:  m.sim.Stars(),
		Orbits: sys.Orbits(),
	}, m.width, 2*m.canvasRows, opts)
	m.canvas = frame.String()
	return m
}

// Update handles keys and mouse input. Mouse rows are relative to the top
// of the canvas.
func (m OrreryModel) Update(msg tea.Msg) (OrreryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m = m.handleKey(msg)
	case tea.MouseMsg:
		m = m.handleMouse(msg)
	}
	return m, nil
}

func (m OrreryModel) handleKey(msg tea.KeyMsg) OrreryModel {
	switch msg.String() {
	case "esc", "x":
		m.sim.Dismiss()
	case "tab", "]":
		m.sim.FocusNext()
	case "shift+tab", "[":
		m.sim.FocusPrev()

	case "left":
		m.sim.Rotate(-keyRotateStep, 0)
	case "right":
		m.sim.Rotate(keyRotateStep, 0)
	case "up":
		m.sim.Rotate(0, keyRotateStep)
	case "down":
		m.sim.Rotate(0, -keyRotateStep)
	case "+", "=":
		m.sim.Zoom(1)
	case "-":
		m.sim.Zoom(-1)

	case "l":
		m.opts.Labels = m.opts.Labels.Next()
	case "t":
		m.opts.Stars = !m.opts.Stars
	case "o":
		m.opts.Orbits = !m.opts.Orbits
	case "p":
		m.sim.SetPaused(!m.sim.Paused())
	case "r":
		m.sim.Reset()
	default:
		return m
	}
	return m.redraw()
}

func (m OrreryModel) handleMouse(msg tea.MouseMsg) OrreryModel {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress {
			m.sim.Zoom(1)
		}
		return m
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress {
			m.sim.Zoom(-1)
		}
		return m
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		m.mouse = mouseState{pressed: true, pressX: msg.X, pressY: msg.Y, lastX: msg.X, lastY: msg.Y}

	case tea.MouseActionMotion:
		if !m.mouse.pressed {
			return m
		}
		dx, dy := msg.X-m.mouse.lastX, msg.Y-m.mouse.lastY
		if dx == 0 && dy == 0 {
			return m
		}
		m.mouse.dragged = true
		m.mouse.lastX, m.mouse.lastY = msg.X, msg.Y
		// Cells are two pixels tall, so vertical drags count double.
		m.sim.Rotate(float64(dx)*dragScale, float64(dy)*dragScale*2)

	case tea.MouseActionRelease:
		if !m.mouse.pressed {
			return m
		}
		gesture := m.mouse
		m.mouse = mouseState{}
		if !gesture.dragged {
			m = m.click(gesture.pressX, gesture.pressY)
		}
	}
	return m
}

// click routes a click at cell (x, y): canvas clicks go to the scene, panel
// clicks are overlay clicks while the overlay is shown. Clicks above or below
// the orrery (header and footer rows) only dismiss a focus.
func (m OrreryModel) click(x, y int) OrreryModel {
	if m.tooSmall() {
		return m
	}
	if y < 0 || y >= m.canvasRows+panelHeight || x < 0 || x >= m.width {
		if m.sim.Focus().Focused() != nil {
			m.sim.Dismiss()
			return m.redraw()
		}
		return m
	}

	if y < m.canvasRows {
		// Sample between the cell's two pixels.
		m.sim.Click(float64(x), float64(2*y)+0.5, false)
		return m.redraw()
	}

	if !m.sim.Focus().Overlay().Visible {
		return m
	}
	if m.onCloseButton(x, y) {
		m.sim.Dismiss()
		return m.redraw()
	}
	m.sim.Click(float64(x), float64(2*y), true)
	return m
}

// closeButtonSpan returns the first and last column of the close button,
// which renderPanel right-aligns in the first content row.
func (m OrreryModel) closeButtonSpan() (first, last int) {
	last = m.width - panelInset - 1
	return last - len(closeLabel) + 1, last
}

// onCloseButton hit-tests the close button.
func (m OrreryModel) onCloseButton(x, y int) bool {
	if y != m.canvasRows+panelBorder {
		return false
	}
	first, last := m.closeButtonSpan()
	return x >= first && x <= last
}

// View renders the canvas and panel.
func (m OrreryModel) View() string {
	if m.tooSmall() {
		return "Terminal too small for orrery view"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.canvas, m.renderPanel())
}

func (m OrreryModel) renderPanel() string {
	contentWidth := m.width - 2*panelInset
	var lines []string

	ov := m.sim.Focus().Overlay()
	if ov.Visible {
		lines = m.overlayLines(ov, contentWidth)
	} else {
		lines = m.hudLines()
	}
	rows := panelHeight - 2*panelBorder
	for len(lines) < rows {
		lines = append(lines, "")
	}
	clip := lipgloss.NewStyle().MaxWidth(contentWidth)
	for i, l := range lines {
		lines[i] = clip.Render(l)
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("60")).
		Padding(0, panelPadding).
		Width(m.width - 2*panelBorder)
	return panel.Render(strings.Join(lines[:rows], "\n"))
}

func (m OrreryModel) overlayLines(ov focus.Overlay, width int) []string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	closeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	title := titleStyle.Render("◆ " + ov.Name)
	gap := width - lipgloss.Width(title) - len(closeLabel)
	if gap < 1 {
		gap = 1
	}
	lines := []string{title + strings.Repeat(" ", gap) + closeStyle.Render(closeLabel)}

	wrapped := lipgloss.NewStyle().Width(width).Render(ov.Description)
	desc := strings.Split(wrapped, "\n")
	if maxDesc := panelHeight - 2*panelBorder - 1; len(desc) > maxDesc {
		desc = desc[:maxDesc]
		last := desc[len(desc)-1]
		desc[len(desc)-1] = strings.TrimRight(last, " ") + "…"
	}
	for _, d := range desc {
		lines = append(lines, textStyle.Render(d))
	}
	return lines
}

func (m OrreryModel) hudLines() []string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	snap := m.sim.Snapshot()

	var b strings.Builder
	b.WriteString(headerStyle.Render("☉ Orrery"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("State:"))
	b.WriteString(valueStyle.Render(snap.Phase.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Frame:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", snap.Frame)))
	line1 := b.String()

	b.Reset()
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(m.opts.Labels.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Stars:"))
	b.WriteString(valueStyle.Render(onOff(m.opts.Stars)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Orbits:"))
	b.WriteString(valueStyle.Render(onOff(m.opts.Orbits)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Camera:"))
	p := snap.Camera.Position
	b.WriteString(valueStyle.Render(fmt.Sprintf("(%.1f, %.1f, %.1f)", p.X, p.Y, p.Z)))
	line2 := b.String()

	line3 := dimStyle.Render("Click a body to focus it.")
	if recent := m.sim.RecentEvents(1); len(recent) > 0 {
		e := recent[0]
		text := string(e.Type)
		if e.Body != "" {
			text += " " + e.Body
		}
		line3 = dimStyle.Render(fmt.Sprintf("Last: %s at frame %d", text, e.Frame))
	}
	return []string{line1, line2, line3}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// LabelMode returns the current label mode.
func (m OrreryModel) LabelMode() render.LabelMode {
	return m.opts.Labels
}

// ShowStars returns whether the starfield is visible.
func (m OrreryModel) ShowStars() bool {
	return m.opts.Stars
}

// ShowOrbits returns whether orbit paths are visible.
func (m OrreryModel) ShowOrbits() bool {
	return m.opts.Orbits
}

// Paused reports whether the scene tick is stopped.
func (m OrreryModel) Paused() bool {
	return m.sim.Paused()
}

// Frame returns the simulation frame counter.
func (m OrreryModel) Frame() uint64 {
	return m.sim.Frame()
}

// CanvasRows returns the canvas height in cells.
func (m OrreryModel) CanvasRows() int {
	return m.canvasRows
}
