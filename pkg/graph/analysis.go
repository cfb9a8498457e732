package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Backlinks returns the IDs of post nodes linking to the given node
// via links_to, sorted ascending.
func Backlinks(g *Graph, id string) ([]string, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	edges, err := g.EdgesTo(id)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	for _, e := range edges {
		if e.Rel != RelLinksTo || seen[e.From] {
			continue
		}
		seen[e.From] = true
		out = append(out, e.From)
	}
	sort.Strings(out)
	return out, nil
}

// Orphans returns post nodes with no inbound and no outbound links_to
// edges: pages no reader can navigate to or from.
func Orphans(g *Graph) []string {
	if g == nil {
		return nil
	}

	var out []string
	for _, n := range g.Nodes(NodePost) {
		linked := false
		if edges, err := g.EdgesFrom(n.ID); err == nil {
			for _, e := range edges {
				if e.Rel == RelLinksTo {
					linked = true
					break
				}
			}
		}
		if !linked {
			if edges, err := g.EdgesTo(n.ID); err == nil {
				for _, e := range edges {
					if e.Rel == RelLinksTo {
						linked = true
						break
					}
				}
			}
		}
		if !linked {
			out = append(out, n.ID)
		}
	}
	sort.Strings(out)
	return out
}

// DetectCycles reports whether the subgraph restricted to one relation
// contains directed cycles, returning each cycle as a node ID sequence
// (first element repeated at the end). Cycles are canonicalized by
// rotating the smallest ID to the front, deduplicated, and sorted.
//
// Three-color DFS: white = unvisited, gray = on the current stack
// (a gray re-entry closes a cycle), black = fully explored.
func DetectCycles(g *Graph, rel RelKind) (bool, [][]string, error) {
	if g == nil {
		return false, nil, ErrNilGraph
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	var stack []string
	onStack := make(map[string]int) // id -> index in stack
	found := make(map[string][]string)

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		onStack[id] = len(stack)
		stack = append(stack, id)

		edges, err := g.EdgesFrom(id)
		if err != nil {
			return err
		}
		for _, e := range edges {
			if e.Rel != rel {
				continue
			}
			switch color[e.To] {
			case white:
				if err := visit(e.To); err != nil {
					return err
				}
			case gray:
				// stack[onStack[e.To]:] closes the cycle.
				cycle := append([]string{}, stack[onStack[e.To]:]...)
				canon := canonicalCycle(cycle)
				found[strings.Join(canon, "→")] = canon
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, id)
		color[id] = black
		return nil
	}

	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			if err := visit(n.ID); err != nil {
				return false, nil, fmt.Errorf("graph: cycle detection: %w", err)
			}
		}
	}

	if len(found) == 0 {
		return false, nil, nil
	}

	cycles := make([][]string, 0, len(found))
	for _, c := range found {
		closed := append(c, c[0])
		cycles = append(cycles, closed)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], "→") < strings.Join(cycles[j], "→")
	})
	return true, cycles, nil
}

// canonicalCycle rotates a cycle so its smallest node ID comes first,
// giving every rotation of the same cycle one representation.
func canonicalCycle(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	min := 0
	for i, id := range cycle {
		if id < cycle[min] {
			min = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[min:]...)
	out = append(out, cycle[:min]...)
	return out
}
