package graph

import "errors"

var (
	// ErrNilGraph indicates an operation on a nil *Graph.
	ErrNilGraph = errors.New("graph: nil graph")

	// ErrNodeNotFound indicates a referenced node ID is absent.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrEmptyID indicates a node or endpoint with an empty ID.
	ErrEmptyID = errors.New("graph: empty node id")

	// ErrBadConfidence indicates an edge confidence outside (0, 1]
	// or below the graph's configured floor.
	ErrBadConfidence = errors.New("graph: confidence out of range")

	// ErrSelfLoop indicates a self-loop on a graph that forbids them.
	ErrSelfLoop = errors.New("graph: self-loops disabled")

	// ErrNoPath indicates no path exists between the queried nodes.
	ErrNoPath = errors.New("graph: no path")
)
