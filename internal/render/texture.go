package render

import (
	"math"
	"path"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/geom"
)

// Sample is a surface point handed to a texture.
type Sample struct {
	Dir  geom.Vec3 // Unit direction from the body center, local frame (spheres)
	U, V float64   // Texture coordinates in [0, 1]
}

// Texture colors a surface. Alpha is in [0, 1].
type Texture func(s Sample) (c colorful.Color, alpha float64)

// TextureSet maps texture names ("earth") to procedural textures.
type TextureSet map[string]Texture

// TextureName reduces a texture reference like "textures/earth.jpg" to "earth".
func TextureName(ref string) string {
	base := path.Base(ref)
	return strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
}

// Lookup resolves a texture reference. ok is false for unknown or empty
// references; callers fall back to the material color.
func (ts TextureSet) Lookup(ref string) (Texture, bool) {
	if ref == "" {
		return nil, false
	}
	t, ok := ts[TextureName(ref)]
	return t, ok
}

func hex(s string) colorful.Color {
	c, _ := colorful.Hex(s)
	return c
}

// DefaultTextures returns stand-ins for every texture the solar system uses.
func DefaultTextures() TextureSet {
	return TextureSet{
		"sun":         sunTexture,
		"mercury":     mottled(hex("#8C8C8C"), hex("#C4C0BA"), 6),
		"venus":       banded(hex("#E8CDA2"), hex("#C49A5A"), 4, 1.5),
		"earth":       earthTexture,
		"mars":        withCaps(mottled(hex("#C1440E"), hex("#7A2A0A"), 5), 0.93),
		"jupiter":     banded(hex("#E3D3B0"), hex("#A5774E"), 14, 0.8),
		"saturn":      banded(hex("#E3C16F"), hex("#B99555"), 10, 0.5),
		"uranus":      banded(hex("#ACE5EE"), hex("#8CC9D6"), 6, 0.3),
		"neptune":     banded(hex("#5B5DDF"), hex("#3A3E9E"), 8, 0.6),
		"pluto":       mottled(hex("#C9B29B"), hex("#7D6553"), 4),
		"saturn_ring": ringTexture,
	}
}

func sunTexture(s Sample) (colorful.Color, float64) {
	n := fbm(s.Dir.Scale(5), 4)
	return hex("#F26B0F").BlendRgb(hex("#FFE45C"), n).Clamped(), 1
}

func earthTexture(s Sample) (colorful.Color, float64) {
	if math.Abs(s.Dir.Y) > 0.92 {
		return hex("#F2F5F7"), 1
	}
	n := fbm(s.Dir.Scale(2.5), 5)
	switch {
	case n < 0.52:
		return hex("#123E7C").BlendRgb(hex("#1F6FB5"), n/0.52), 1
	case n < 0.62:
		return hex("#3B7A3B"), 1
	default:
		return hex("#3B7A3B").BlendRgb(hex("#9C8258"), (n-0.62)/0.38), 1
	}
}

// ringTexture is radial: U runs from the inner edge (0) to the outer edge (1).
func ringTexture(s Sample) (colorful.Color, float64) {
	r := s.U
	if r < 0 || r > 1 {
		return colorful.Color{}, 0
	}
	c := hex("#CDB68A").BlendRgb(hex("#8A7452"), 0.5+0.5*math.Sin(r*math.Pi*23))
	alpha := 0.55 + 0.35*math.Sin(r*math.Pi*9)
	if r > 0.58 && r < 0.64 {
		alpha = 0.08
	}
	return c, geom.Clamp(alpha, 0, 1)
}

func mottled(a, b colorful.Color, freq float64) Texture {
	return func(s Sample) (colorful.Color, float64) {
		return a.BlendRgb(b, fbm(s.Dir.Scale(freq), 4)), 1
	}
}

// banded produces latitude bands distorted by noise of the given strength.
func banded(a, b colorful.Color, bands, turbulence float64) Texture {
	return func(s Sample) (colorful.Color, float64) {
		warp := (fbm(s.Dir.Scale(3), 3) - 0.5) * turbulence
		t := 0.5 + 0.5*math.Sin((s.V+warp*0.1)*math.Pi*bands)
		return a.BlendRgb(b, t), 1
	}
}

// withCaps adds white polar caps beyond |y| > lat.
func withCaps(t Texture, lat float64) Texture {
	return func(s Sample) (colorful.Color, float64) {
		if math.Abs(s.Dir.Y) > lat {
			return hex("#EEE8E2"), 1
		}
		return t(s)
	}
}

// Value noise on a lattice, returning [0, 1].
func noise(p geom.Vec3) float64 {
	x0, y0, z0 := math.Floor(p.X), math.Floor(p.Y), math.Floor(p.Z)
	fx, fy, fz := smooth(p.X-x0), smooth(p.Y-y0), smooth(p.Z-z0)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }
	c := func(dx, dy, dz int64) float64 { return lattice(ix+dx, iy+dy, iz+dz) }

	x00 := lerp(c(0, 0, 0), c(1, 0, 0), fx)
	x10 := lerp(c(0, 1, 0), c(1, 1, 0), fx)
	x01 := lerp(c(0, 0, 1), c(1, 0, 1), fx)
	x11 := lerp(c(0, 1, 1), c(1, 1, 1), fx)
	return lerp(lerp(x00, x10, fy), lerp(x01, x11, fy), fz)
}

func fbm(p geom.Vec3, octaves int) float64 {
	var sum, norm float64
	amp := 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * noise(p)
		norm += amp
		amp *= 0.5
		p = p.Scale(2)
	}
	return sum / norm
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lattice(x, y, z int64) float64 {
	h := uint64(x)*0x9E3779B185EBCA87 ^ uint64(y)*0xC2B2AE3D27D4EB4F ^ uint64(z)*0x165667B19E3779F9
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return float64(h>>11) / float64(1<<53)
}
