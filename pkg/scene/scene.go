// Package scene holds placed primitive instances, their transforms and
// materials, and the tree that propagates world transforms from parents to
// children.
//
// A Scene is built once (by the engine or by hand) and then read. Nodes are
// keyed by content-derived IDs; Children edges must form a DAG.
package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrCycle           = errors.New("scene: cycle in node children")
	ErrUnknownMaterial = errors.New("scene: unknown material")
)

// NodeID is a content-derived identifier for scene nodes.
type NodeID string

// ZeroID is the empty node ID.
const ZeroID NodeID = ""

// NewNodeID derives an ID from a path such as "dodecahedron/d1#3".
func NewNodeID(path string) NodeID {
	sum := sha256.Sum256([]byte(path))
	return NodeID(hex.EncodeToString(sum[:]))
}

// Short returns the first 8 characters of the ID, for messages.
func (id NodeID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

func (id NodeID) IsZero() bool { return id == ZeroID }

// NodeKind enumerates the types of nodes in a scene.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // placed solid
	NodeGroup                     // transform applied to children (place, assembly)
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is one element of the scene tree. Primitive nodes share their
// Transform with the Primitive they carry.
type Node struct {
	ID        NodeID
	Kind      NodeKind
	Name      string
	Children  []NodeID
	Transform *Transform
	Primitive *Primitive
}

// NewPrimitiveNode wraps p in a leaf node.
func NewPrimitiveNode(id NodeID, p *Primitive) *Node {
	return &Node{
		ID:        id,
		Kind:      NodePrimitive,
		Name:      p.Name,
		Transform: p.Transform,
		Primitive: p,
	}
}

// NewGroupNode returns a group node with the identity transform.
func NewGroupNode(id NodeID, name string, children ...NodeID) *Node {
	return &Node{
		ID:        id,
		Kind:      NodeGroup,
		Name:      name,
		Children:  children,
		Transform: NewTransform(),
	}
}

func (n *Node) local() mgl64.Mat4 {
	if n.Transform == nil {
		return mgl64.Ident4()
	}
	return n.Transform.LocalTransform()
}

// Label returns the node name, or its short ID when unnamed.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// Scene is the set of nodes, the roots to draw from, and the materials
// primitives may refer to.
type Scene struct {
	Nodes     map[NodeID]*Node
	Roots     []NodeID
	NameIndex map[string]NodeID
	Materials map[string]*Material

	order []NodeID
	seq   uint64
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Materials: make(map[string]*Material),
	}
}

// NextID returns a fresh ID for a node of the given kind and name. IDs are
// deterministic for a given sequence of calls.
func (s *Scene) NextID(kind, name string) NodeID {
	s.seq++
	return NewNodeID(fmt.Sprintf("%s/%s#%d", kind, name, s.seq))
}

// AddNode adds a node to the scene. It does not check for duplicates.
func (s *Scene) AddNode(n *Node) {
	if _, ok := s.Nodes[n.ID]; !ok {
		s.order = append(s.order, n.ID)
	}
	s.Nodes[n.ID] = n
	if n.Name != "" {
		s.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the scene.
func (s *Scene) AddRoot(id NodeID) {
	s.Roots = append(s.Roots, id)
}

// AdoptOrphans makes every node that is neither a root nor a child of
// another node a root, in insertion order.
func (s *Scene) AdoptOrphans() {
	referenced := make(map[NodeID]bool, len(s.Nodes))
	for _, id := range s.Roots {
		referenced[id] = true
	}
	for _, n := range s.Nodes {
		for _, c := range n.Children {
			referenced[c] = true
		}
	}
	for _, id := range s.order {
		if _, ok := s.Nodes[id]; ok && !referenced[id] {
			s.AddRoot(id)
		}
	}
}

// Lookup returns the node with the given name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Nodes[id]
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

// Children returns the child nodes of n, skipping dangling references.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}

// AddMaterial registers m under its name, replacing any previous entry.
func (s *Scene) AddMaterial(m *Material) {
	s.Materials[m.Name] = m
}

// Material resolves a material by name. It has the MaterialLookup shape.
func (s *Scene) Material(name string) (*Material, error) {
	m, ok := s.Materials[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// MaterialNames returns the registered material names, sorted.
func (s *Scene) MaterialNames() []string {
	names := make([]string, 0, len(s.Materials))
	for name := range s.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk visits every node reachable from the roots, depth first in child
// order, passing the node's world matrix along that path. A node reachable
// by two paths is visited once per path. Walk stops at the first error from
// fn and returns ErrCycle if a node is its own ancestor.
func (s *Scene) Walk(fn func(n *Node, world mgl64.Mat4) error) error {
	return s.walk(func(n *Node, parent mgl64.Mat4) error {
		return fn(n, parent.Mul4(n.local()))
	})
}

func (s *Scene) walk(fn func(n *Node, parent mgl64.Mat4) error) error {
	onPath := make(map[NodeID]bool)

	var visit func(n *Node, parent mgl64.Mat4) error
	visit = func(n *Node, parent mgl64.Mat4) error {
		if onPath[n.ID] {
			return fmt.Errorf("%w: node %s", ErrCycle, n.Label())
		}
		if err := fn(n, parent); err != nil {
			return err
		}
		onPath[n.ID] = true
		world := parent.Mul4(n.local())
		for _, c := range s.Children(n) {
			if err := visit(c, world); err != nil {
				return err
			}
		}
		onPath[n.ID] = false
		return nil
	}

	for _, rid := range s.Roots {
		if root := s.Nodes[rid]; root != nil {
			if err := visit(root, mgl64.Ident4()); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateWorldTransforms pushes every parent's world matrix into its
// children, starting from the identity at the roots. For a node shared by
// several parents the last path visited wins.
func (s *Scene) UpdateWorldTransforms() error {
	return s.walk(func(n *Node, parent mgl64.Mat4) error {
		if n.Transform != nil {
			n.Transform.SetParentWorld(parent)
		}
		return nil
	})
}

// Primitives returns the primitives reachable from the roots, in walk order.
// A primitive placed by several paths is listed once.
func (s *Scene) Primitives() []*Primitive {
	var prims []*Primitive
	seen := make(map[*Primitive]bool)
	_ = s.Walk(func(n *Node, _ mgl64.Mat4) error {
		if n.Primitive != nil && !seen[n.Primitive] {
			seen[n.Primitive] = true
			prims = append(prims, n.Primitive)
		}
		return nil
	})
	return prims
}
