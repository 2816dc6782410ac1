package solar

import (
	"github.com/litescript/ls-orrery/internal/geom"
	"github.com/litescript/ls-orrery/internal/scene"
)

// LabelHeight places a body's label this many radii above its center.
const LabelHeight = 1.5

// System is the scene model: the body registry plus the scene graph it built.
// After New the structure never changes; Tick only mutates rotations.
type System struct {
	scene        *scene.Scene
	bodies       []*Body
	byName       map[string]*Body
	byNode       map[scene.NodeID]*Body
	orbits       []scene.OrbitPath
	descriptions Descriptions
	ticks        uint64
}

// New builds the sun, each planet on its own pivot, orbit paths, labels and rings.
func New(descriptions Descriptions) *System {
	s := &System{
		scene:        scene.New(),
		byName:       make(map[string]*Body),
		byNode:       make(map[scene.NodeID]*Body),
		descriptions: descriptions,
	}

	for _, def := range Definitions {
		s.addBody(def)
	}
	return s
}

func (s *System) addBody(def BodyDef) {
	kind := scene.MaterialStandard
	if def.Kind == BodySun {
		kind = scene.MaterialBasic
	}
	mesh := scene.NewMesh(def.Name, scene.Sphere{Radius: def.VisualRadius}, scene.Material{
		Kind:    kind,
		Color:   def.BaseColor(),
		Texture: def.Texture,
	})

	body := &Body{BodyDef: def, Mesh: mesh}

	if def.Kind == BodySun {
		s.scene.Add(nil, mesh)
	} else {
		pivot := scene.NewNode(def.Name + " pivot")
		s.scene.Add(nil, pivot)
		mesh.Position = geom.V(def.OrbitRadius, 0, 0)
		mesh.Label = def.Name
		mesh.LabelOffset = geom.V(0, def.VisualRadius*LabelHeight, 0)
		s.scene.Add(pivot, mesh)
		body.Pivot = pivot
		s.orbits = append(s.orbits, scene.OrbitPath{Radius: def.OrbitRadius})
	}

	if def.Ring != nil {
		ring := scene.NewMesh(def.Name+" ring", scene.Annulus{Inner: def.Ring.Inner, Outer: def.Ring.Outer}, scene.Material{
			Kind:    scene.MaterialBasic,
			Color:   def.BaseColor(),
			Texture: def.Ring.Texture,
		})
		s.scene.Add(mesh, ring)
		body.RingMesh = ring
	}

	s.bodies = append(s.bodies, body)
	s.byName[def.Name] = body
	s.byNode[mesh.ID()] = body
}

// Tick advances every body by one fixed step: spin by its self-rotation rate
// and its pivot by its orbit rate. Rates are per call, not per second, so the
// apparent speed follows the caller's frame rate.
func (s *System) Tick() {
	for _, b := range s.bodies {
		b.Mesh.Rotation.Y += b.SelfRotationRate
		if b.Pivot != nil {
			b.Pivot.Rotation.Y += b.OrbitRate
		}
	}
	s.ticks++
}

// Ticks returns how many times Tick has run.
func (s *System) Ticks() uint64 {
	return s.ticks
}

// Scene returns the scene graph the system renders into.
func (s *System) Scene() *scene.Scene {
	return s.scene
}

// Bodies returns all bodies in registry order, sun first.
func (s *System) Bodies() []*Body {
	return s.bodies
}

// Body returns a body by name, or nil if not found.
func (s *System) Body(name string) *Body {
	return s.byName[name]
}

// BodyForNode maps a scene node (typically a ray-cast hit) to its body.
// Rings, pivots and other decoration do not map to a body.
func (s *System) BodyForNode(id scene.NodeID) (*Body, bool) {
	b, ok := s.byNode[id]
	return b, ok
}

// Orbits returns one orbit path per planet.
func (s *System) Orbits() []scene.OrbitPath {
	return s.orbits
}

// Describe returns the fixed description for a body name.
func (s *System) Describe(name string) string {
	return s.descriptions.Lookup(name)
}

// HasDescription reports whether the description table has an entry for name.
func (s *System) HasDescription(name string) bool {
	return s.descriptions.Has(name)
}

// Index returns the registry position of a body, or -1.
func (s *System) Index(b *Body) int {
	for i, c := range s.bodies {
		if c == b {
			return i
		}
	}
	return -1
}
