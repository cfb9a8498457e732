package graph

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
)

// PathOption adjusts path queries.
type PathOption func(*pathOptions)

type pathOptions struct {
	rels    map[RelKind]bool
	maxHops int
	minProb float64
}

// PathRels restricts path search to the given relations.
func PathRels(rels ...RelKind) PathOption {
	return func(o *pathOptions) {
		o.rels = make(map[RelKind]bool, len(rels))
		for _, r := range rels {
			o.rels[r] = true
		}
	}
}

// PathMaxHops bounds the number of edges on a path. Negative means
// unbounded, the default.
func PathMaxHops(n int) PathOption {
	return func(o *pathOptions) { o.maxHops = n }
}

// PathMinProbability prunes search below the given path probability.
func PathMinProbability(p float64) PathOption {
	return func(o *pathOptions) { o.minProb = p }
}

// pqItem is a heap entry under the lazy decrease-key strategy:
// duplicates are pushed and stale ones skipped on pop.
type pqItem struct {
	id   string
	dist float64 // -ln(path probability)
	hops int
}

type pq []pqItem

func (q pq) Len() int           { return len(q) }
func (q pq) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q pq) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pq) Push(x any)        { *q = append(*q, x.(pqItem)) }
func (q *pq) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// MostProbablePath returns the path from..to maximizing the product of
// edge confidences, together with that probability. The max-product
// path is the min-sum path over weights -ln(confidence), so this is
// Dijkstra with non-negative weights (confidence ≤ 1 ⇒ weight ≥ 0).
func MostProbablePath(g *Graph, from, to string, opts ...PathOption) ([]string, float64, error) {
	if g == nil {
		return nil, 0, ErrNilGraph
	}
	if _, ok := g.Node(from); !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrNodeNotFound, from)
	}
	if _, ok := g.Node(to); !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrNodeNotFound, to)
	}
	if from == to {
		return []string{from}, 1.0, nil
	}

	o := pathOptions{maxHops: -1}
	for _, opt := range opts {
		opt(&o)
	}

	dist, prev := dijkstra(g, from, o)

	d, ok := dist[to]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s -> %s", ErrNoPath, from, to)
	}

	// Reconstruct.
	var path []string
	for at := to; at != ""; at = prev[at] {
		path = append(path, at)
		if at == from {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, math.Exp(-d), nil
}

// dijkstra runs single-source shortest path in -log space and returns
// distance and predecessor maps for every settled node.
func dijkstra(g *Graph, source string, o pathOptions) (map[string]float64, map[string]string) {
	dist := map[string]float64{source: 0}
	hops := map[string]int{source: 0}
	prev := map[string]string{}
	settled := map[string]bool{}

	q := &pq{{id: source, dist: 0, hops: 0}}
	heap.Init(q)

	maxDist := math.Inf(1)
	if o.minProb > 0 {
		maxDist = -math.Log(o.minProb)
	}

	for q.Len() > 0 {
		it := heap.Pop(q).(pqItem)
		if settled[it.id] {
			continue // stale duplicate
		}
		settled[it.id] = true

		if it.dist > maxDist {
			break
		}
		if o.maxHops >= 0 && it.hops >= o.maxHops {
			continue
		}

		edges, err := g.EdgesFrom(it.id)
		if err != nil {
			continue
		}
		for _, e := range edges {
			if o.rels != nil && !o.rels[e.Rel] {
				continue
			}
			w := -math.Log(e.Confidence) // confidence 1.0 ⇒ weight 0
			nd := it.dist + w
			if old, ok := dist[e.To]; !ok || nd < old {
				dist[e.To] = nd
				hops[e.To] = it.hops + 1
				prev[e.To] = it.id
				heap.Push(q, pqItem{id: e.To, dist: nd, hops: it.hops + 1})
			}
		}
	}

	// Drop unsettled provisional entries so callers only see reachable,
	// final distances.
	for id := range dist {
		if !settled[id] {
			delete(dist, id)
			delete(prev, id)
		}
	}
	return dist, prev
}

// Scored pairs a node ID with a relatedness score in (0, 1].
type Scored struct {
	ID    string
	Score float64
}

// Related returns the k posts most related to the given post node,
// scored by most-probable-path probability within 4 hops. Results are
// ordered by score descending, then ID ascending.
func Related(g *Graph, postID string, k int) ([]Scored, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	n, ok := g.Node(postID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, postID)
	}
	if n.Kind != NodePost {
		return nil, fmt.Errorf("graph: related wants a post node, got %s", n.Kind)
	}
	if k <= 0 {
		return nil, nil
	}

	dist, _ := dijkstra(g, postID, pathOptions{maxHops: 4})

	var scored []Scored
	for id, d := range dist {
		if id == postID {
			continue
		}
		if other, ok := g.Node(id); !ok || other.Kind != NodePost {
			continue
		}
		scored = append(scored, Scored{ID: id, Score: math.Exp(-d)})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}
