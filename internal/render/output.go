package render

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// upperHalf shows the top pixel as foreground and the bottom as background.
const upperHalf = '▀'

var labelColor = hex("#F0F0F0")

type cell struct {
	ch     rune
	fg, bg string
	bold   bool
}

// Rows returns the frame as terminal lines, one per pair of pixel rows.
func (f Frame) Rows() []string {
	if f.Framebuffer == nil || f.Width == 0 || f.Height == 0 {
		return nil
	}
	cells := f.cells()
	rows := make([]string, len(cells))
	for i, row := range cells {
		rows[i] = renderRow(row)
	}
	return rows
}

// String returns the frame as newline-separated terminal lines.
func (f Frame) String() string {
	return strings.Join(f.Rows(), "\n")
}

// Text returns the frame's characters without styling.
func (f Frame) Text() []string {
	if f.Framebuffer == nil {
		return nil
	}
	cells := f.cells()
	out := make([]string, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.ch)
		}
		out[i] = b.String()
	}
	return out
}

func (f Frame) cells() [][]cell {
	cols := f.Width
	rows := (f.Height + 1) / 2

	grid := make([][]cell, rows)
	for cy := range grid {
		grid[cy] = make([]cell, cols)
		for x := 0; x < cols; x++ {
			grid[cy][x] = cell{
				ch: upperHalf,
				fg: f.At(x, 2*cy).Clamped().Hex(),
				bg: f.At(x, 2*cy+1).Clamped().Hex(),
			}
		}
	}

	for _, l := range f.Labels {
		cy := l.Y / 2
		if cy < 0 || cy >= rows {
			continue
		}
		n := utf8.RuneCountInString(l.Text)
		x := l.X - n/2
		for _, ch := range l.Text {
			if x >= 0 && x < cols {
				top := f.At(x, 2*cy)
				bottom := f.At(x, 2*cy+1)
				grid[cy][x] = cell{
					ch:   ch,
					fg:   labelColor.Hex(),
					bg:   dim(top.BlendRgb(bottom, 0.5)).Hex(),
					bold: true,
				}
			}
			x++
		}
	}
	return grid
}

// dim darkens a label background so text stays readable.
func dim(c colorful.Color) colorful.Color {
	return colorful.Color{R: c.R * 0.5, G: c.G * 0.5, B: c.B * 0.5}
}

// renderRow styles runs of cells sharing colors together.
func renderRow(row []cell) string {
	var b strings.Builder
	var run strings.Builder
	var cur cell

	flush := func() {
		if run.Len() == 0 {
			return
		}
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(cur.fg)).
			Background(lipgloss.Color(cur.bg)).
			Bold(cur.bold)
		b.WriteString(style.Render(run.String()))
		run.Reset()
	}

	for i, c := range row {
		if i == 0 || c.fg != cur.fg || c.bg != cur.bg || c.bold != cur.bold {
			flush()
			cur = c
		}
		run.WriteRune(c.ch)
	}
	flush()
	return b.String()
}
