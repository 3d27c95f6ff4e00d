package graphview

import (
	"fmt"

	"github.com/gogpu/gg"
)

// Node is a graph vertex with a position in graph space.
// ID is the node's identity and never changes after creation.
type Node struct {
	ID string
	X  float64
	Y  float64
}

// Point returns the node position.
func (n Node) Point() gg.Point {
	return gg.Pt(n.X, n.Y)
}

// Edge connects two nodes by id.
type Edge struct {
	Source string
	Target string
}

// Bounds is an axis-aligned bounding box in graph space.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the centre point of the box.
func (b Bounds) Center() gg.Point {
	return gg.Pt((b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2)
}

// Graph is the node/edge snapshot shared by the engine and the renderers.
//
// Node order is render order: later nodes are drawn on top and win hit
// tests. Edges may reference ids that are not present; those edges are
// skipped when a frame is projected.
//
// A Graph has a single writer. The only in-place mutation is MoveNode,
// used while dragging.
type Graph struct {
	nodes []Node
	edges []Edge
	index map[string]int
}

// NewGraph builds a graph from nodes and edges.
// Node ids must be non-empty and unique.
func NewGraph(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes: make([]Node, len(nodes)),
		edges: make([]Edge, len(edges)),
		index: make(map[string]int, len(nodes)),
	}
	copy(g.nodes, nodes)
	copy(g.edges, edges)

	for i, n := range g.nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: %w", i, ErrEmptyNodeID)
		}
		if _, dup := g.index[n.ID]; dup {
			return nil, fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNode)
		}
		g.index[n.ID] = i
	}
	return g, nil
}

// EmptyGraph returns a graph with no nodes and no edges.
func EmptyGraph() *Graph {
	return &Graph{index: map[string]int{}}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// Nodes returns a copy of the nodes in render order.
func (g *Graph) Nodes() []Node {
	if g == nil {
		return nil
	}
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of the edges.
func (g *Graph) Edges() []Edge {
	if g == nil {
		return nil
	}
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeAt returns the node at render position i.
func (g *Graph) NodeAt(i int) Node {
	return g.nodes[i]
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Resolve returns both endpoints of e. ok is false if either id is missing.
func (g *Graph) Resolve(e Edge) (src, dst Node, ok bool) {
	src, ok = g.Node(e.Source)
	if !ok {
		return Node{}, Node{}, false
	}
	dst, ok = g.Node(e.Target)
	if !ok {
		return Node{}, Node{}, false
	}
	return src, dst, true
}

// MoveNode sets the position of the node with the given id.
// All other nodes and the edge list are unchanged.
func (g *Graph) MoveNode(id string, x, y float64) error {
	i, ok := g.index[id]
	if !ok {
		return fmt.Errorf("move %q: %w", id, ErrUnknownNode)
	}
	g.nodes[i].X = x
	g.nodes[i].Y = y
	return nil
}

// Bounds returns the bounding box of all nodes.
// ok is false for an empty graph.
func (g *Graph) Bounds() (b Bounds, ok bool) {
	if g.Len() == 0 {
		return Bounds{}, false
	}
	b = Bounds{MinX: g.nodes[0].X, MaxX: g.nodes[0].X, MinY: g.nodes[0].Y, MaxY: g.nodes[0].Y}
	for _, n := range g.nodes[1:] {
		b.MinX = min(b.MinX, n.X)
		b.MaxX = max(b.MaxX, n.X)
		b.MinY = min(b.MinY, n.Y)
		b.MaxY = max(b.MaxY, n.Y)
	}
	return b, true
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return EmptyGraph()
	}
	c := &Graph{
		nodes: g.Nodes(),
		edges: g.Edges(),
		index: make(map[string]int, len(g.index)),
	}
	for id, i := range g.index {
		c.index[id] = i
	}
	return c
}
