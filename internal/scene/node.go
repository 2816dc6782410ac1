// Package scene provides a minimal scene graph: transform nodes, shapes,
// a perspective camera and ray casting.
package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/geom"
)

// NodeID identifies a node within its Scene. IDs are never reused.
type NodeID int

// Shape is pickable/renderable geometry expressed in a node's local frame.
type Shape interface {
	// Intersect returns the distance along a local-space ray to the surface.
	Intersect(r geom.Ray) (float64, bool)
}

// Sphere is a sphere centered on the node origin.
type Sphere struct {
	Radius float64
}

// Intersect implements Shape.
func (s Sphere) Intersect(r geom.Ray) (float64, bool) {
	return geom.IntersectSphere(r, s.Radius)
}

// Annulus is a flat ring in the node's local XZ plane.
type Annulus struct {
	Inner, Outer float64
}

// Intersect implements Shape.
func (a Annulus) Intersect(r geom.Ray) (float64, bool) {
	return geom.IntersectAnnulus(r, a.Inner, a.Outer)
}

// MaterialKind selects the lighting model.
type MaterialKind int

const (
	MaterialBasic    MaterialKind = iota // Unlit, full color
	MaterialStandard                     // Diffuse lit by the scene light
)

// Material describes how a node's surface is colored.
type Material struct {
	Kind    MaterialKind
	Color   colorful.Color // Base color, used when the texture is missing
	Texture string         // Texture reference, e.g. "textures/earth.jpg"
}

// Node is a transform in the scene graph, optionally carrying a shape.
type Node struct {
	id   NodeID
	Name string

	Position geom.Vec3 // Relative to parent
	Rotation geom.Vec3 // Euler XYZ angles in radians

	Shape    Shape
	Material Material
	Pickable bool
	Visible  bool

	// Label, when set, is drawn at LabelOffset in the node's frame.
	Label       string
	LabelOffset geom.Vec3

	parent   *Node
	children []*Node
}

// NewNode creates a detached, visible node. It receives an ID when added to a Scene.
func NewNode(name string) *Node {
	return &Node{Name: name, Visible: true}
}

// NewMesh creates a visible, pickable node carrying a shape.
func NewMesh(name string, shape Shape, mat Material) *Node {
	n := NewNode(name)
	n.Shape = shape
	n.Material = mat
	n.Pickable = true
	return n
}

// ID returns the node identity. Zero until the node is attached to a Scene.
func (n *Node) ID() NodeID {
	return n.id
}

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// rotation returns the local rotation matrix.
func (n *Node) rotation() geom.Mat3 {
	return geom.EulerXYZ(n.Rotation)
}

// LocalToWorld transforms a point from this node's frame to world space.
func (n *Node) LocalToWorld(p geom.Vec3) geom.Vec3 {
	p = n.rotation().MulVec(p).Add(n.Position)
	if n.parent != nil {
		return n.parent.LocalToWorld(p)
	}
	return p
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() geom.Vec3 {
	return n.LocalToWorld(geom.Zero)
}
