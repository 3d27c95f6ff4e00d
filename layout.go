package graphview

import (
	"context"
	"fmt"
)

// LayoutNode is a node id sent to the layout service.
type LayoutNode struct {
	ID string `yaml:"id" json:"id"`
}

// LayoutRequest asks the layout service to place the given graph.
type LayoutRequest struct {
	Nodes []LayoutNode `yaml:"nodes" json:"nodes"`
	Edges []LayoutEdge `yaml:"edges" json:"edges"`
}

// LayoutEdge is an edge as exchanged with the layout service.
type LayoutEdge struct {
	Source string `yaml:"source" json:"source"`
	Target string `yaml:"target" json:"target"`
}

// PlacedNode is a node returned by the layout service. Coordinates are
// pointers so that a missing value can be told apart from zero.
type PlacedNode struct {
	ID string   `yaml:"id" json:"id"`
	X  *float64 `yaml:"x" json:"x"`
	Y  *float64 `yaml:"y" json:"y"`
}

// LayoutResponse is the layout service's answer. It replaces both the
// nodes and the edges of the current graph.
type LayoutResponse struct {
	Nodes []PlacedNode `yaml:"nodes" json:"nodes"`
	Edges []LayoutEdge `yaml:"edges" json:"edges"`
}

// LayoutService computes node positions. Transport and encoding are up to
// the implementation.
type LayoutService interface {
	Layout(ctx context.Context, req LayoutRequest) (LayoutResponse, error)
}

// LayoutServiceFunc adapts a function to LayoutService.
type LayoutServiceFunc func(ctx context.Context, req LayoutRequest) (LayoutResponse, error)

// Layout calls f.
func (f LayoutServiceFunc) Layout(ctx context.Context, req LayoutRequest) (LayoutResponse, error) {
	return f(ctx, req)
}

// NewLayoutRequest builds a request carrying only the ids and edges of g.
func NewLayoutRequest(g *Graph) LayoutRequest {
	req := LayoutRequest{
		Nodes: make([]LayoutNode, 0, g.Len()),
		Edges: make([]LayoutEdge, 0),
	}
	for _, n := range g.Nodes() {
		req.Nodes = append(req.Nodes, LayoutNode{ID: n.ID})
	}
	for _, e := range g.Edges() {
		req.Edges = append(req.Edges, LayoutEdge{Source: e.Source, Target: e.Target})
	}
	return req
}

// Graph converts the response into a graph. A node without x or y makes
// the whole response invalid.
func (r LayoutResponse) Graph() (*Graph, error) {
	nodes := make([]Node, 0, len(r.Nodes))
	for i, n := range r.Nodes {
		if n.X == nil || n.Y == nil {
			return nil, fmt.Errorf("node %d (%q) has no coordinates: %w", i, n.ID, ErrInvalidLayoutResponse)
		}
		nodes = append(nodes, Node{ID: n.ID, X: *n.X, Y: *n.Y})
	}
	edges := make([]Edge, 0, len(r.Edges))
	for _, e := range r.Edges {
		edges = append(edges, Edge{Source: e.Source, Target: e.Target})
	}
	g, err := NewGraph(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayoutResponse, err)
	}
	return g, nil
}

// Placed returns a fully placed response for g, as a layout service
// echoing the current positions would.
func Placed(g *Graph) LayoutResponse {
	resp := LayoutResponse{Nodes: make([]PlacedNode, 0, g.Len())}
	for _, n := range g.Nodes() {
		x, y := n.X, n.Y
		resp.Nodes = append(resp.Nodes, PlacedNode{ID: n.ID, X: &x, Y: &y})
	}
	for _, e := range g.Edges() {
		resp.Edges = append(resp.Edges, LayoutEdge{Source: e.Source, Target: e.Target})
	}
	return resp
}
