package graphview

import "errors"

// Engine errors.
var (
	// ErrInvalidLayoutResponse is returned when a layout response carries a
	// node without coordinates. The prior graph is retained.
	ErrInvalidLayoutResponse = errors.New("graphview: invalid layout response")

	// ErrDanglingEdge reports an edge endpoint that is not in the node set.
	// Such edges are skipped at draw time and never fail a draw.
	ErrDanglingEdge = errors.New("graphview: dangling edge reference")

	// ErrNonPositiveScale indicates that a viewport scale is not a finite,
	// strictly positive number. Draws fail and mutations are refused until
	// it is corrected.
	ErrNonPositiveScale = errors.New("graphview: non-positive viewport scale")

	// ErrDuplicateNode is returned when two nodes share an id.
	ErrDuplicateNode = errors.New("graphview: duplicate node id")

	// ErrEmptyNodeID is returned for a node without an id.
	ErrEmptyNodeID = errors.New("graphview: empty node id")

	// ErrUnknownNode is returned when an id is not in the graph.
	ErrUnknownNode = errors.New("graphview: unknown node")

	// ErrNoRenderer is returned by Viewer.Draw when no renderer is attached.
	ErrNoRenderer = errors.New("graphview: no renderer")
)
