// Package graph holds the document object graph: an arena of typed nodes
// addressed by stable index. Parent links are plain indices and never own
// the node they point at; children are owned through the arena.
package graph

import (
	"fmt"
	"image"
)

// Kind is the closed set of node kinds.
type Kind int

const (
	KindHead Kind = iota + 1
	KindMetadata
	KindCatalog
	KindPageArea
	KindFont
	KindPage
	KindStream
	KindImageStream
	KindAnnotation
)

var kindNames = map[Kind]string{
	KindHead:        "Head",
	KindMetadata:    "Metadata",
	KindCatalog:     "Catalog",
	KindPageArea:    "PageArea",
	KindFont:        "Font",
	KindPage:        "Page",
	KindStream:      "Stream",
	KindImageStream: "ImageStream",
	KindAnnotation:  "Annotation",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { _, ok := kindNames[k]; return ok }

// NodeID addresses a node inside its Graph.
type NodeID int

// NoNode is the absent node.
const NoNode NodeID = -1

// Unassigned marks an object number that has not been allocated yet.
const Unassigned = -1

// SoftMaskRole tags the first attribute of an image node that carries the
// alpha channel of its host image.
const SoftMaskRole = "alpha"

// Node is a single vertex of the document graph.
type Node struct {
	Kind     Kind
	Attrs    []Value
	Parent   NodeID
	Children []NodeID
	Active   bool

	// ObjectNum is the object identifier allocated during serialization.
	ObjectNum int
	// RefName is the resource name (/F1, /I2) allocated while composing the
	// page area.
	RefName string
	// Raster is the pixel buffer of an image node; nil until acquired.
	Raster *image.NRGBA
}

// ContainsAttribute reports whether any attribute equals v.
func (n *Node) ContainsAttribute(v Value) bool {
	for _, a := range n.Attrs {
		if a.Equal(v) {
			return true
		}
	}
	return false
}

// Append adds attribute slots at the end of the list.
func (n *Node) Append(vals ...Value) { n.Attrs = append(n.Attrs, vals...) }

// Attr returns the attribute at i, or the zero Value when out of range.
func (n *Node) Attr(i int) Value {
	if i < 0 || i >= len(n.Attrs) {
		return Value{}
	}
	return n.Attrs[i]
}

// IsSoftMask reports whether the node is the alpha companion of another image.
func (n *Node) IsSoftMask() bool {
	if n.Kind != KindImageStream {
		return false
	}
	s, ok := n.Attr(0).Text()
	return ok && s == SoftMaskRole
}

// Graph is the node arena. Nodes are never removed; removal is modeled by
// deactivation.
type Graph struct {
	nodes []Node
}

func New() *Graph { return &Graph{} }

// Len returns the number of nodes ever created.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node stored at id. The pointer is only valid until the
// next Create call.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return &g.nodes[id]
}

// Create stores a node and links it at the end of parent's children when
// parent is not NoNode.
func (g *Graph) Create(kind Kind, attrs []Value, parent NodeID, active bool) NodeID {
	id := g.create(kind, attrs, parent, active)
	if parent != NoNode {
		p := &g.nodes[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

// CreateDetached stores a node whose parent is set but which is not yet in
// the parent's child list; use the Insert helpers to place it.
func (g *Graph) CreateDetached(kind Kind, attrs []Value, parent NodeID, active bool) NodeID {
	return g.create(kind, attrs, parent, active)
}

func (g *Graph) create(kind Kind, attrs []Value, parent NodeID, active bool) NodeID {
	if !kind.Valid() {
		panic(fmt.Sprintf("graph: invalid node kind %d", int(kind)))
	}
	if parent != NoNode && g.Node(parent) == nil {
		panic(fmt.Sprintf("graph: parent %d does not exist", parent))
	}
	g.nodes = append(g.nodes, Node{
		Kind:      kind,
		Attrs:     append([]Value(nil), attrs...),
		Parent:    parent,
		Active:    active,
		ObjectNum: Unassigned,
	})
	return NodeID(len(g.nodes) - 1)
}

// Prepend places child at the front of parent's children.
func (g *Graph) Prepend(parent, child NodeID) {
	g.InsertAt(parent, 0, child)
}

// InsertAt places children at position i of parent's child list, keeping
// their relative order.
func (g *Graph) InsertAt(parent NodeID, i int, children ...NodeID) {
	p := &g.nodes[parent]
	if i < 0 {
		i = 0
	}
	if i > len(p.Children) {
		i = len(p.Children)
	}
	out := make([]NodeID, 0, len(p.Children)+len(children))
	out = append(out, p.Children[:i]...)
	out = append(out, children...)
	out = append(out, p.Children[i:]...)
	p.Children = out
}

// InsertAfterLeading places children right after the run of leading children
// of kind lead.
func (g *Graph) InsertAfterLeading(parent NodeID, lead Kind, children ...NodeID) {
	p := &g.nodes[parent]
	i := 0
	for i < len(p.Children) && g.nodes[p.Children[i]].Kind == lead {
		i++
	}
	g.InsertAt(parent, i, children...)
}

// InsertBeforeTrailing places child before the run of trailing children of
// kind trail.
func (g *Graph) InsertBeforeTrailing(parent NodeID, trail Kind, child NodeID) {
	p := &g.nodes[parent]
	i := len(p.Children)
	for i > 0 && g.nodes[p.Children[i-1]].Kind == trail {
		i--
	}
	g.InsertAt(parent, i, child)
}

// NewestActiveChild scans parent's children from the tail and returns the
// last active child, restricted to kinds when any are given.
func (g *Graph) NewestActiveChild(parent NodeID, kinds ...Kind) NodeID {
	p := g.Node(parent)
	if p == nil {
		return NoNode
	}
	for i := len(p.Children) - 1; i >= 0; i-- {
		c := &g.nodes[p.Children[i]]
		if c.Active && matchKind(c.Kind, kinds) {
			return p.Children[i]
		}
	}
	return NoNode
}

// ActiveChildren returns parent's active children of the given kinds (all
// kinds when none are given) in child order.
func (g *Graph) ActiveChildren(parent NodeID, kinds ...Kind) []NodeID {
	p := g.Node(parent)
	if p == nil {
		return nil
	}
	var out []NodeID
	for _, id := range p.Children {
		c := &g.nodes[id]
		if c.Active && matchKind(c.Kind, kinds) {
			out = append(out, id)
		}
	}
	return out
}

// Walk visits active nodes in pre-order starting at root. Inactive nodes are
// skipped together with their subtree.
func (g *Graph) Walk(root NodeID, fn func(id NodeID, n *Node) error) error {
	n := g.Node(root)
	if n == nil || !n.Active {
		return nil
	}
	if err := fn(root, n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := g.Walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

func matchKind(k Kind, kinds []Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
