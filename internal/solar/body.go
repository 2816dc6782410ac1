// Package solar holds the fixed registry of celestial bodies and advances
// their spin and orbit each frame.
package solar

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/geom"
	"github.com/litescript/ls-orrery/internal/scene"
)

// BodyKind categorizes celestial bodies for rendering.
type BodyKind int

const (
	BodySun BodyKind = iota
	BodyPlanet
)

// String returns the body kind name.
func (k BodyKind) String() string {
	switch k {
	case BodySun:
		return "sun"
	case BodyPlanet:
		return "planet"
	default:
		return "unknown"
	}
}

// RingDef describes a flat ring around a body.
type RingDef struct {
	Inner, Outer float64
	Texture      string
}

// BodyDef is the authored, immutable definition of a body.
type BodyDef struct {
	Name             string
	Kind             BodyKind
	VisualRadius     float64 // Scene units
	OrbitRadius      float64 // Distance from the origin, 0 for the sun
	OrbitRate        float64 // Radians per frame around the sun
	SelfRotationRate float64 // Radians per frame around the body's own axis
	Texture          string  // Texture reference
	Color            string  // Hex fallback color
	Ring             *RingDef
}

// Definitions is the closed registry: the sun followed by nine orbiting bodies.
var Definitions = []BodyDef{
	{Name: "Sun", Kind: BodySun, VisualRadius: 5, SelfRotationRate: 0.001, Texture: "textures/sun.jpg", Color: "#FDB813"},
	{Name: "Mercury", Kind: BodyPlanet, VisualRadius: 1, OrbitRadius: 10, OrbitRate: 0.04, SelfRotationRate: 0.0005, Texture: "textures/mercury.jpg", Color: "#B5B5B5"},
	{Name: "Venus", Kind: BodyPlanet, VisualRadius: 1.5, OrbitRadius: 15, OrbitRate: 0.015, SelfRotationRate: 0.0002, Texture: "textures/venus.jpg", Color: "#E8CDA2"},
	{Name: "Earth", Kind: BodyPlanet, VisualRadius: 1.6, OrbitRadius: 20, OrbitRate: 0.01, SelfRotationRate: 0.005, Texture: "textures/earth.jpg", Color: "#2E86AB"},
	{Name: "Mars", Kind: BodyPlanet, VisualRadius: 1.2, OrbitRadius: 25, OrbitRate: 0.008, SelfRotationRate: 0.005, Texture: "textures/mars.jpg", Color: "#C1440E"},
	{Name: "Jupiter", Kind: BodyPlanet, VisualRadius: 3.5, OrbitRadius: 35, OrbitRate: 0.002, SelfRotationRate: 0.012, Texture: "textures/jupiter.jpg", Color: "#D8CA9D"},
	{Name: "Saturn", Kind: BodyPlanet, VisualRadius: 3, OrbitRadius: 50, OrbitRate: 0.0009, SelfRotationRate: 0.011, Texture: "textures/saturn.jpg", Color: "#E3C16F",
		Ring: &RingDef{Inner: 4, Outer: 6, Texture: "textures/saturn_ring.png"}},
	{Name: "Uranus", Kind: BodyPlanet, VisualRadius: 2.5, OrbitRadius: 65, OrbitRate: 0.0004, SelfRotationRate: 0.007, Texture: "textures/uranus.jpg", Color: "#ACE5EE"},
	{Name: "Neptune", Kind: BodyPlanet, VisualRadius: 2.4, OrbitRadius: 75, OrbitRate: 0.0001, SelfRotationRate: 0.0075, Texture: "textures/neptune.jpg", Color: "#5B5DDF"},
	{Name: "Pluto", Kind: BodyPlanet, VisualRadius: 0.8, OrbitRadius: 85, OrbitRate: 0.00005, SelfRotationRate: 0.002, Texture: "textures/pluto.jpg", Color: "#C9B29B"},
}

// Body is a celestial body placed in the scene.
type Body struct {
	BodyDef

	// Mesh is the body's sphere; its Y rotation is the self-rotation angle.
	Mesh *scene.Node
	// Pivot sits at the origin; its Y rotation is the orbital angle.
	// The sun has no pivot.
	Pivot *scene.Node
	// RingMesh is set for ringed bodies.
	RingMesh *scene.Node
}

// SelfAngle returns the accumulated spin, wrapped into [0, 2π).
func (b *Body) SelfAngle() float64 {
	return geom.WrapAngle(b.Mesh.Rotation.Y)
}

// OrbitAngle returns the accumulated orbital angle, wrapped into [0, 2π).
// Always 0 for the sun.
func (b *Body) OrbitAngle() float64 {
	if b.Pivot == nil {
		return 0
	}
	return geom.WrapAngle(b.Pivot.Rotation.Y)
}

// WorldPosition returns the body center in world space.
func (b *Body) WorldPosition() geom.Vec3 {
	return b.Mesh.WorldPosition()
}

// BaseColor parses the fallback color, defaulting to grey on a bad hex.
func (d BodyDef) BaseColor() colorful.Color {
	c, err := colorful.Hex(d.Color)
	if err != nil {
		return colorful.Color{R: 0.6, G: 0.6, B: 0.6}
	}
	return c
}
