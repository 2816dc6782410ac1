package scene

import (
	"math"
	"math/rand"

	"github.com/litescript/ls-orrery/internal/geom"
)

// StarfieldSpread is the edge length of the cube the background stars fill.
const StarfieldSpread = 1800.0

// Starfield is a fixed cloud of background points.
type Starfield struct {
	Points []geom.Vec3
}

// NewStarfield scatters count points uniformly in a cube of side spread
// centered on the origin. The same seed always yields the same sky.
func NewStarfield(count int, spread float64, seed int64) Starfield {
	rng := rand.New(rand.NewSource(seed))
	spreadFn := func() float64 {
		return spread * (0.5 - rng.Float64())
	}

	pts := make([]geom.Vec3, count)
	for i := range pts {
		pts[i] = geom.V(spreadFn(), spreadFn(), spreadFn())
	}
	return Starfield{Points: pts}
}

// OrbitPath is a circle of fixed radius in the world XZ plane around the origin.
type OrbitPath struct {
	Radius float64
}

// Samples returns n evenly spaced points along the path.
func (o OrbitPath) Samples(n int) []geom.Vec3 {
	if n < 3 {
		n = 3
	}
	pts := make([]geom.Vec3, n)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.V(o.Radius*math.Cos(theta), 0, o.Radius*math.Sin(theta))
	}
	return pts
}
