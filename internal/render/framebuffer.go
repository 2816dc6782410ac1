// Package render draws a scene into a pixel buffer by casting one ray per
// pixel and turns the buffer into terminal cells, two pixels per cell.
package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Framebuffer holds color and depth for a width × height pixel grid.
// Depth is the distance from the camera along the pixel ray; +Inf is empty.
type Framebuffer struct {
	Width, Height int
	Color         []colorful.Color
	Depth         []float64
	// Coverage is how opaque the surfaces drawn into each pixel are, 0..1.
	Coverage []float64
}

// NewFramebuffer allocates a cleared buffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates when the dimensions change and clears the buffer.
func (fb *Framebuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := width * height
	if n != len(fb.Color) {
		fb.Color = make([]colorful.Color, n)
		fb.Depth = make([]float64, n)
		fb.Coverage = make([]float64, n)
	}
	fb.Width, fb.Height = width, height
	fb.Clear(colorful.Color{})
}

// Clear fills every pixel with c and resets depth.
func (fb *Framebuffer) Clear(c colorful.Color) {
	for i := range fb.Color {
		fb.Color[i] = c
		fb.Depth[i] = math.Inf(1)
		fb.Coverage[i] = 0
	}
}

// In reports whether (x, y) lies inside the buffer.
func (fb *Framebuffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < fb.Width && y < fb.Height
}

// At returns the color at (x, y), black outside the buffer.
func (fb *Framebuffer) At(x, y int) colorful.Color {
	if !fb.In(x, y) {
		return colorful.Color{}
	}
	return fb.Color[y*fb.Width+x]
}

// DepthAt returns the depth at (x, y), +Inf outside the buffer.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if !fb.In(x, y) {
		return math.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// Add blends c additively into (x, y) when depth passes the depth test.
// The weight scales c. Channels saturate at 1.
func (fb *Framebuffer) Add(x, y int, c colorful.Color, weight, depth float64) bool {
	if !fb.In(x, y) {
		return false
	}
	i := y*fb.Width + x
	if depth >= fb.Depth[i] {
		// Behind a surface: only what shows through is added.
		weight *= 1 - fb.Coverage[i]
	}
	if weight <= 0 {
		return false
	}
	p := fb.Color[i]
	fb.Color[i] = colorful.Color{
		R: math.Min(1, p.R+c.R*weight),
		G: math.Min(1, p.G+c.G*weight),
		B: math.Min(1, p.B+c.B*weight),
	}
	return true
}
