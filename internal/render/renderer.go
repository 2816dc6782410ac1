package render

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/geom"
	"github.com/litescript/ls-orrery/internal/scene"
)

// LabelMode controls which body labels are drawn.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // Every labelled body
)

// String returns the mode name.
func (m LabelMode) String() string {
	switch m {
	case LabelNone:
		return "none"
	case LabelFocused:
		return "focused"
	case LabelAll:
		return "all"
	default:
		return "unknown"
	}
}

// Next cycles none → focused → all → none.
func (m LabelMode) Next() LabelMode {
	return (m + 1) % 3
}

// ParseLabelMode parses a mode name.
func ParseLabelMode(s string) (LabelMode, bool) {
	switch s {
	case "none", "off":
		return LabelNone, true
	case "focused":
		return LabelFocused, true
	case "all", "":
		return LabelAll, true
	default:
		return LabelAll, false
	}
}

// Light is a point light with linear falloff plus a flat ambient term.
type Light struct {
	Position  geom.Vec3
	Color     colorful.Color
	Intensity float64
	Range     float64 // Light reaches zero at this distance; 0 means unlimited
	Ambient   colorful.Color
}

// DefaultLight is a white light at the sun.
func DefaultLight() Light {
	return Light{
		Position:  geom.Zero,
		Color:     colorful.Color{R: 1, G: 1, B: 1},
		Intensity: 2,
		Range:     300,
		Ambient:   hex("#333333"),
	}
}

func (l Light) attenuation(d float64) float64 {
	if l.Range <= 0 {
		return 1
	}
	return geom.Clamp(1-d/l.Range, 0, 1)
}

// Shade applies diffuse and ambient lighting to albedo at world point p with
// unit normal n.
func (l Light) Shade(albedo colorful.Color, p, n geom.Vec3) colorful.Color {
	toLight := l.Position.Sub(p)
	d := toLight.Norm()
	diffuse := 0.0
	if d > 0 {
		if ndotl := n.Dot(toLight.Scale(1 / d)); ndotl > 0 {
			diffuse = ndotl * l.Intensity * l.attenuation(d)
		}
	}
	return colorful.Color{
		R: math.Min(1, albedo.R*(l.Ambient.R+l.Color.R*diffuse)),
		G: math.Min(1, albedo.G*(l.Ambient.G+l.Color.G*diffuse)),
		B: math.Min(1, albedo.B*(l.Ambient.B+l.Color.B*diffuse)),
	}
}

// Options toggles optional layers.
type Options struct {
	Stars   bool
	Orbits  bool
	Labels  LabelMode
	Focused scene.NodeID // Node whose label LabelFocused shows
}

// DefaultOptions draws everything.
func DefaultOptions() Options {
	return Options{Stars: true, Orbits: true, Labels: LabelAll}
}

// Input is what a frame is drawn from.
type Input struct {
	Scene  *scene.Scene
	Camera *scene.Camera
	Stars  scene.Starfield
	Orbits []scene.OrbitPath
}

// Label is a projected text label. X and Y are pixel coordinates of its center.
type Label struct {
	Text  string
	X, Y  int
	Depth float64
}

// Frame is a rendered image plus the labels to composite over it.
type Frame struct {
	*Framebuffer
	Labels []Label
}

const (
	orbitOpacity = 0.3
	starMinLight = 0.15
	starMaxLight = 0.65
)

type hit struct {
	p     *scene.Placement
	t     float64
	local geom.Vec3
}

// Renderer draws scenes. It reuses its buffers between frames, so a Frame
// is only valid until the next Render call.
type Renderer struct {
	Light      Light
	Textures   TextureSet
	Background colorful.Color

	fb    *Framebuffer
	hits  []hit
	stamp []uint32
	pass  uint32
}

// NewRenderer creates a renderer with the default light and textures.
func NewRenderer() *Renderer {
	return &Renderer{
		Light:    DefaultLight(),
		Textures: DefaultTextures(),
		fb:       NewFramebuffer(0, 0),
	}
}

// Render draws the scene into a width × height pixel frame.
func (r *Renderer) Render(in Input, width, height int, opts Options) Frame {
	r.fb.Resize(width, height)
	r.fb.Clear(r.Background)
	if width == 0 || height == 0 || in.Scene == nil || in.Camera == nil {
		return Frame{Framebuffer: r.fb}
	}

	ps := in.Scene.Placements()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			nx, ny := scene.PixelToNDC(float64(x), float64(y), width, height)
			r.shadePixel(ps, in.Camera.RayThrough(nx, ny), y*width+x)
		}
	}

	proj := in.Camera.Projector()
	if opts.Orbits {
		r.drawOrbits(in.Orbits, in.Camera, proj)
	}
	if opts.Stars {
		r.drawStars(in.Stars, in.Camera, proj)
	}

	return Frame{Framebuffer: r.fb, Labels: r.labels(ps, proj, opts)}
}

func (r *Renderer) shadePixel(ps []scene.Placement, ray geom.Ray, i int) {
	r.hits = r.hits[:0]
	for k := range ps {
		p := &ps[k]
		local := p.LocalRay(ray)
		t, ok := p.Node.Shape.Intersect(local)
		if !ok {
			continue
		}
		r.hits = append(r.hits, hit{p: p, t: t, local: local.At(t)})
	}
	if len(r.hits) > 1 {
		sort.Slice(r.hits, func(a, b int) bool { return r.hits[a].t < r.hits[b].t })
	}

	remaining := 1.0
	depth := math.Inf(1)
	var acc colorful.Color
	for _, h := range r.hits {
		c, a := r.surface(h, ray)
		if a <= 0 {
			continue
		}
		if math.IsInf(depth, 1) {
			depth = h.t
		}
		acc.R += c.R * a * remaining
		acc.G += c.G * a * remaining
		acc.B += c.B * a * remaining
		remaining *= 1 - a
		if remaining < 0.004 {
			remaining = 0
			break
		}
	}

	bg := r.Background
	r.fb.Color[i] = colorful.Color{
		R: acc.R + bg.R*remaining,
		G: acc.G + bg.G*remaining,
		B: acc.B + bg.B*remaining,
	}.Clamped()
	r.fb.Depth[i] = depth
	r.fb.Coverage[i] = 1 - remaining
}

// surface returns the lit color and alpha of a hit.
func (r *Renderer) surface(h hit, ray geom.Ray) (colorful.Color, float64) {
	node := h.p.Node
	mat := node.Material

	var s Sample
	normal := ray.Dir.Scale(-1)
	switch shape := node.Shape.(type) {
	case scene.Sphere:
		dir := h.local.Normalized()
		s = sphereSample(dir)
		normal = h.p.Rotation.MulVec(dir)
	case scene.Annulus:
		rr := math.Hypot(h.local.X, h.local.Z)
		s = Sample{Dir: h.local.Normalized(), U: (rr - shape.Inner) / (shape.Outer - shape.Inner), V: 0.5}
		normal = h.p.Rotation.MulVec(geom.UnitY)
		if normal.Dot(ray.Dir) > 0 {
			normal = normal.Scale(-1)
		}
	}

	c, alpha := mat.Color, 1.0
	if tex, ok := r.Textures.Lookup(mat.Texture); ok {
		c, alpha = tex(s)
	}
	if mat.Kind == scene.MaterialStandard {
		c = r.Light.Shade(c, ray.At(h.t), normal)
	}
	return c, alpha
}

// sphereSample maps a unit direction to equirectangular coordinates with the
// seam on -X and V = 1 at the north pole.
func sphereSample(dir geom.Vec3) Sample {
	phi := math.Atan2(dir.Z, -dir.X)
	u := geom.WrapAngle(phi) / (2 * math.Pi)
	v := 1 - math.Acos(geom.Clamp(dir.Y, -1, 1))/math.Pi
	return Sample{Dir: dir, U: u, V: v}
}

func (r *Renderer) nextPass() uint32 {
	if n := len(r.fb.Color); len(r.stamp) != n {
		r.stamp = make([]uint32, n)
		r.pass = 0
	}
	r.pass++
	return r.pass
}

func (r *Renderer) drawOrbits(orbits []scene.OrbitPath, cam *scene.Camera, proj scene.Projector) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	w, h := r.fb.Width, r.fb.Height
	limit := 4 * (w + h)

	for _, o := range orbits {
		pass := r.nextPass()
		n := int(2 * math.Pi * o.Radius * 2)
		if n < 96 {
			n = 96
		}
		pts := o.Samples(n)

		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			pa, oka := proj.Project(a)
			pb, okb := proj.Project(b)
			if !oka || !okb {
				continue
			}
			ax, ay := scene.NDCToPixel(pa.X, pa.Y, w, h)
			bx, by := scene.NDCToPixel(pb.X, pb.Y, w, h)
			steps := int(math.Ceil(math.Max(math.Abs(bx-ax), math.Abs(by-ay))))
			if steps > limit {
				continue
			}
			da, db := geom.Distance(a, cam.Position), geom.Distance(b, cam.Position)
			for k := 0; k <= steps; k++ {
				t := 0.0
				if steps > 0 {
					t = float64(k) / float64(steps)
				}
				x := int(math.Round(ax + (bx-ax)*t))
				y := int(math.Round(ay + (by-ay)*t))
				if !r.fb.In(x, y) {
					continue
				}
				idx := y*w + x
				if r.stamp[idx] == pass {
					continue
				}
				if r.fb.Add(x, y, white, orbitOpacity, da+(db-da)*t) {
					r.stamp[idx] = pass
				}
			}
		}
	}
}

func (r *Renderer) drawStars(stars scene.Starfield, cam *scene.Camera, proj scene.Projector) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	w, h := r.fb.Width, r.fb.Height
	far := scene.StarfieldSpread

	for _, p := range stars.Points {
		pr, ok := proj.Project(p)
		if !ok || math.Abs(pr.X) > 1 || math.Abs(pr.Y) > 1 {
			continue
		}
		px, py := scene.NDCToPixel(pr.X, pr.Y, w, h)
		d := geom.Distance(p, cam.Position)
		light := starMaxLight - (starMaxLight-starMinLight)*geom.Clamp(d/far, 0, 1)
		r.fb.Add(int(math.Round(px)), int(math.Round(py)), white, light, d)
	}
}

func (r *Renderer) labels(ps []scene.Placement, proj scene.Projector, opts Options) []Label {
	if opts.Labels == LabelNone {
		return nil
	}
	w, h := r.fb.Width, r.fb.Height

	var out []Label
	for _, p := range ps {
		n := p.Node
		if n.Label == "" {
			continue
		}
		if opts.Labels == LabelFocused && n.ID() != opts.Focused {
			continue
		}
		anchor := p.Position.Add(p.Rotation.MulVec(n.LabelOffset))
		pr, ok := proj.Project(anchor)
		if !ok || math.Abs(pr.X) > 1 || math.Abs(pr.Y) > 1 {
			continue
		}
		px, py := scene.NDCToPixel(pr.X, pr.Y, w, h)
		out = append(out, Label{
			Text:  n.Label,
			X:     int(math.Round(px)),
			Y:     int(math.Round(py)),
			Depth: pr.Depth,
		})
	}
	// Far labels first so nearer ones are drawn over them.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}
