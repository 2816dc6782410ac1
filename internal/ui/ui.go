// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/version"
)

// Layout rows outside the canvas.
const (
	headerHeight = 1
	footerHeight = 1
)

const defaultFrameInterval = time.Second / 30

// FrameMsg advances the simulation by one frame.
type FrameMsg time.Time

// Options configures the root model.
type Options struct {
	FrameInterval time.Duration
	Labels        render.LabelMode
	ShowStars     bool
	ShowOrbits    bool
	Logger        *logging.Logger
}

// DefaultOptions returns 30 fps with every layer visible.
func DefaultOptions() Options {
	return Options{
		FrameInterval: defaultFrameInterval,
		Labels:        render.LabelAll,
		ShowStars:     true,
		ShowOrbits:    true,
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	interval time.Duration
	logger   *logging.Logger

	// UI state
	width  int
	height int
	ready  bool

	orrery OrreryModel
}

// New creates the root model around a simulation context.
func New(ctx *sim.Context, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return Model{
		interval: opts.FrameInterval,
		logger:   opts.Logger,
		orrery:   NewOrreryModel(ctx, opts),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.interval)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.orrery, cmd = m.orrery.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.orrery = m.orrery.SetSize(msg.Width, msg.Height-headerHeight-footerHeight)
		m.logger.Debug("window resized to %dx%d", msg.Width, msg.Height)

	case tea.MouseMsg:
		// Translate to orrery-local rows.
		msg.Y -= headerHeight
		var cmd tea.Cmd
		m.orrery, cmd = m.orrery.Update(msg)
		cmds = append(cmds, cmd)

	case FrameMsg:
		m.orrery = m.orrery.Step()
		cmds = append(cmds, frameCmd(m.interval))
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + m.orrery.View() + "\n" + m.renderFooter()
}

// Orrery returns the scene sub-model.
func (m Model) Orrery() OrreryModel {
	return m.orrery
}

func (m Model) renderHeader() string {
	title := "  ORRERY  "
	runes := []rune(title)

	var b strings.Builder
	for col, r := range runes {
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0B0B14")).
			Background(lipgloss.Color(gradientColor(col, len(runes)))).
			Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  solar system · v%s", version.Version)))
	return b.String()
}

var gradientStops = []colorful.Color{
	mustHex("#3B82F6"),
	mustHex("#8B5CF6"),
	mustHex("#D946EF"),
	mustHex("#EC4899"),
}

// gradientColor returns a hex color for column col of a width-wide gradient
// running blue -> purple -> magenta -> pink.
func gradientColor(col, width int) string {
	if width <= 1 {
		return gradientStops[0].Hex()
	}
	pos := float64(col) / float64(width-1) * float64(len(gradientStops)-1)
	i := int(pos)
	if i >= len(gradientStops)-1 {
		return gradientStops[len(gradientStops)-1].Hex()
	}
	return gradientStops[i].BlendLab(gradientStops[i+1], pos-float64(i)).Clamped().Hex()
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	var status string
	if m.orrery.Paused() {
		status = accentStyle.Render("⏸") + dimStyle.Render(" paused")
	} else {
		frame := int(m.orrery.Frame() / 4)
		status = accentStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
	}

	help := dimStyle.Render("click: focus | esc: back | tab/[ ]: cycle | drag/arrows: rotate | +/-: zoom | l: labels | t: stars | o: orbits | p: pause | r: reset | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
