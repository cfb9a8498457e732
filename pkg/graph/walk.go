package graph

import (
	"context"
	"fmt"
	"sort"
)

// WalkOption adjusts a breadth-first traversal.
type WalkOption func(*walkOptions)

type walkOptions struct {
	maxDepth int
	rels     map[RelKind]bool
	onVisit  func(n Node, depth int) error
}

// WithMaxDepth bounds the traversal depth (0 visits only the start).
// Negative means unbounded, the default.
func WithMaxDepth(d int) WalkOption {
	return func(o *walkOptions) { o.maxDepth = d }
}

// WithRels restricts traversal to the given edge relations.
func WithRels(rels ...RelKind) WalkOption {
	return func(o *walkOptions) {
		o.rels = make(map[RelKind]bool, len(rels))
		for _, r := range rels {
			o.rels[r] = true
		}
	}
}

// WithOnVisit registers a visitor callback. A non-nil return aborts
// the walk and surfaces the error.
func WithOnVisit(fn func(n Node, depth int) error) WalkOption {
	return func(o *walkOptions) { o.onVisit = fn }
}

// Walk traverses the graph breadth-first from startID, visiting each
// reachable node once in deterministic order (by depth, then node ID).
// It returns the visited node IDs in visit order.
func Walk(ctx context.Context, g *Graph, startID string, opts ...WalkOption) ([]string, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if _, ok := g.Node(startID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, startID)
	}

	o := walkOptions{maxDepth: -1}
	for _, opt := range opts {
		opt(&o)
	}

	visited := map[string]bool{startID: true}
	order := []string{startID}
	frontier := []string{startID}
	depth := 0

	if o.onVisit != nil {
		if n, ok := g.Node(startID); ok {
			if err := o.onVisit(n, 0); err != nil {
				return order, err
			}
		}
	}

	for len(frontier) > 0 {
		if o.maxDepth >= 0 && depth >= o.maxDepth {
			break
		}
		if err := ctx.Err(); err != nil {
			return order, err
		}
		depth++

		var next []string
		for _, id := range frontier {
			edges, err := g.EdgesFrom(id)
			if err != nil {
				// Node removed concurrently; skip.
				continue
			}
			for _, e := range edges {
				if o.rels != nil && !o.rels[e.Rel] {
					continue
				}
				if visited[e.To] {
					continue
				}
				visited[e.To] = true
				next = append(next, e.To)
			}
		}

		sort.Strings(next)
		for _, id := range next {
			order = append(order, id)
			if o.onVisit != nil {
				if n, ok := g.Node(id); ok {
					if err := o.onVisit(n, depth); err != nil {
						return order, err
					}
				}
			}
		}
		frontier = next
	}

	return order, nil
}
