package scene

import (
	"sort"

	"github.com/litescript/ls-orrery/internal/geom"
)

// Scene owns a tree of nodes rooted at an implicit origin node.
type Scene struct {
	root   *Node
	nextID NodeID
	nodes  map[NodeID]*Node
}

// New creates an empty scene.
func New() *Scene {
	s := &Scene{
		root:  NewNode("root"),
		nodes: make(map[NodeID]*Node),
	}
	s.register(s.root)
	return s
}

// Root returns the root node.
func (s *Scene) Root() *Node {
	return s.root
}

func (s *Scene) register(n *Node) {
	s.nextID++
	n.id = s.nextID
	s.nodes[n.id] = n
	for _, c := range n.children {
		s.register(c)
	}
}

// Add attaches child to parent (the root when parent is nil) and assigns IDs
// to child and any of its descendants.
func (s *Scene) Add(parent, child *Node) {
	if parent == nil {
		parent = s.root
	}
	if child.parent != nil {
		s.Remove(child)
	}
	child.parent = parent
	parent.children = append(parent.children, child)
	s.register(child)
}

// Remove detaches a node and its subtree from the scene.
func (s *Scene) Remove(n *Node) {
	if p := n.parent; p != nil {
		for i, c := range p.children {
			if c == n {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
		n.parent = nil
	}
	s.unregister(n)
}

func (s *Scene) unregister(n *Node) {
	delete(s.nodes, n.id)
	for _, c := range n.children {
		s.unregister(c)
	}
}

// Node looks up a node by ID.
func (s *Scene) Node(id NodeID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Placement is a node's world transform, resolved once per frame so hot
// loops do not re-walk parent chains.
type Placement struct {
	Node     *Node
	Position geom.Vec3
	Rotation geom.Mat3 // local → world
	Inverse  geom.Mat3 // world → local
}

// LocalRay expresses a world ray in the placed node's frame.
func (p Placement) LocalRay(r geom.Ray) geom.Ray {
	return geom.Ray{
		Origin: p.Inverse.MulVec(r.Origin.Sub(p.Position)),
		Dir:    p.Inverse.MulVec(r.Dir),
	}
}

// Placements resolves world transforms for every visible node with a shape.
func (s *Scene) Placements() []Placement {
	var out []Placement
	var walk func(n *Node, rot geom.Mat3, pos geom.Vec3)
	walk = func(n *Node, rot geom.Mat3, pos geom.Vec3) {
		if !n.Visible {
			return
		}
		pos = rot.MulVec(n.Position).Add(pos)
		rot = rot.Mul(n.rotation())
		if n.Shape != nil {
			out = append(out, Placement{Node: n, Position: pos, Rotation: rot, Inverse: rot.Transpose()})
		}
		for _, c := range n.children {
			walk(c, rot, pos)
		}
	}
	walk(s.root, geom.Identity(), geom.Zero)
	return out
}

// Intersection is a ray hit on a node's shape.
type Intersection struct {
	Node     *Node
	Distance float64
	Point    geom.Vec3 // World space
	Local    geom.Vec3 // Hit point in the node's frame
}

// Raycast returns every pickable node hit by r, nearest first.
func (s *Scene) Raycast(r geom.Ray) []Intersection {
	return RaycastPlacements(s.Placements(), r, true)
}

// RaycastPlacements intersects r against pre-resolved placements, nearest
// first. When pickableOnly is set, nodes without Pickable are skipped.
func RaycastPlacements(ps []Placement, r geom.Ray, pickableOnly bool) []Intersection {
	var hits []Intersection
	for _, p := range ps {
		if pickableOnly && !p.Node.Pickable {
			continue
		}
		local := p.LocalRay(r)
		t, ok := p.Node.Shape.Intersect(local)
		if !ok {
			continue
		}
		hits = append(hits, Intersection{
			Node:     p.Node,
			Distance: t,
			Point:    r.At(t),
			Local:    local.At(t),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}
