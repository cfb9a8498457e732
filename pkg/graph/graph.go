package graph

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// NodeKind classifies a vertex.
type NodeKind string

const (
	NodePost   NodeKind = "post"
	NodeTag    NodeKind = "tag"
	NodeSeries NodeKind = "series"
	// NodeTerm marks an unresolved reference: something a post links
	// to that is not (yet) a post in the vault.
	NodeTerm NodeKind = "term"
)

// RelKind classifies an edge.
type RelKind string

const (
	RelLinksTo   RelKind = "links_to"
	RelTagged    RelKind = "tagged"
	RelInSeries  RelKind = "in_series"
	RelSimilarTo RelKind = "similar_to"
	RelMentions  RelKind = "mentions"
)

// Node is a vertex. IDs are namespaced "kind:name", e.g.
// "post:essays/boule" or "tag:sourdough"; see PostID and friends.
type Node struct {
	ID    string
	Kind  NodeKind
	Label string
	Attrs map[string]string
}

// Edge is a directed, typed relationship with a confidence in (0, 1].
type Edge struct {
	ID         string
	From       string
	To         string
	Rel        RelKind
	Confidence float64
}

// PostID returns the node ID for a post slug.
func PostID(slug string) string { return "post:" + slug }

// TagID returns the node ID for a tag.
func TagID(tag string) string { return "tag:" + tag }

// SeriesID returns the node ID for a series.
func SeriesID(series string) string { return "series:" + series }

// TermID returns the node ID for an unresolved reference.
func TermID(term string) string { return "term:" + term }

// Option adjusts graph construction.
type Option func(*Graph)

// WithSelfLoops permits edges whose endpoints coincide.
func WithSelfLoops() Option {
	return func(g *Graph) { g.allowLoops = true }
}

// WithMinConfidence sets a floor below which AddEdge rejects.
func WithMinConfidence(c float64) Option {
	return func(g *Graph) { g.minConfidence = c }
}

// Graph is a mutable directed multigraph, safe for concurrent use.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]*Node
	edges map[string]*Edge
	// out: from -> to -> set of edge IDs; in mirrors it for reverse queries.
	out map[string]map[string]map[string]struct{}
	in  map[string]map[string]map[string]struct{}

	nextEdge      uint64
	allowLoops    bool
	minConfidence float64
}

// New constructs an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
		out:   make(map[string]map[string]map[string]struct{}),
		in:    make(map[string]map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode inserts or updates a node. Upsert keeps existing edges.
func (g *Graph) AddNode(n Node) error {
	if g == nil {
		return ErrNilGraph
	}
	if n.ID == "" {
		return ErrEmptyID
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	stored := n
	if n.Attrs != nil {
		stored.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			stored.Attrs[k] = v
		}
	}
	g.nodes[n.ID] = &stored
	return nil
}

// AddEdge inserts a directed edge. Both endpoints must exist, the
// confidence must lie in (0, 1] and above the configured floor, and
// self-loops obey the graph's policy. A duplicate (from, to, rel)
// keeps the maximum confidence seen.
func (g *Graph) AddEdge(from, to string, rel RelKind, confidence float64) (string, error) {
	if g == nil {
		return "", ErrNilGraph
	}
	if confidence <= 0 || confidence > 1 {
		return "", fmt.Errorf("%w: %g", ErrBadConfidence, confidence)
	}
	if confidence < g.minConfidence {
		return "", fmt.Errorf("%w: %g below floor %g", ErrBadConfidence, confidence, g.minConfidence)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[from]; !ok {
		return "", fmt.Errorf("%w: %q", ErrNodeNotFound, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return "", fmt.Errorf("%w: %q", ErrNodeNotFound, to)
	}
	if from == to && !g.allowLoops {
		return "", fmt.Errorf("%w: %q", ErrSelfLoop, from)
	}

	// Duplicate relation: keep the strongest claim.
	for eid := range g.out[from][to] {
		e := g.edges[eid]
		if e.Rel == rel {
			if confidence > e.Confidence {
				e.Confidence = confidence
			}
			return e.ID, nil
		}
	}

	g.nextEdge++
	id := "e" + strconv.FormatUint(g.nextEdge, 10)
	g.edges[id] = &Edge{ID: id, From: from, To: to, Rel: rel, Confidence: confidence}

	addAdj(g.out, from, to, id)
	addAdj(g.in, to, from, id)
	return id, nil
}

func addAdj(adj map[string]map[string]map[string]struct{}, a, b, edgeID string) {
	if adj[a] == nil {
		adj[a] = make(map[string]map[string]struct{})
	}
	if adj[a][b] == nil {
		adj[a][b] = make(map[string]struct{})
	}
	adj[a][b][edgeID] = struct{}{}
}

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns all nodes, optionally filtered by kind, sorted by ID.
func (g *Graph) Nodes(kinds ...NodeKind) []Node {
	if g == nil {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	want := make(map[NodeKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if len(want) > 0 && !want[n.Kind] {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges sorted by (From, To, Rel).
func (g *Graph) Edges() []Edge {
	if g == nil {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	sortEdges(out)
	return out
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Rel < b.Rel
	})
}

// EdgesFrom returns the outgoing edges of a node, sorted.
func (g *Graph) EdgesFrom(id string) ([]Edge, error) {
	return g.incident(id, g.out)
}

// EdgesTo returns the incoming edges of a node, sorted.
func (g *Graph) EdgesTo(id string) ([]Edge, error) {
	return g.incident(id, g.in)
}

func (g *Graph) incident(id string, adj map[string]map[string]map[string]struct{}) ([]Edge, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}

	var out []Edge
	for _, ids := range adj[id] {
		for eid := range ids {
			out = append(out, *g.edges[eid])
		}
	}
	sortEdges(out)
	return out, nil
}

// Neighbors returns the distinct successor nodes of id, optionally
// restricted to the given relations, sorted by ID.
func (g *Graph) Neighbors(id string, rels ...RelKind) ([]Node, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}

	want := make(map[RelKind]bool, len(rels))
	for _, r := range rels {
		want[r] = true
	}

	seen := make(map[string]bool)
	var out []Node
	for to, ids := range g.out[id] {
		for eid := range ids {
			if len(want) > 0 && !want[g.edges[eid].Rel] {
				continue
			}
			if !seen[to] {
				seen[to] = true
				out = append(out, *g.nodes[to])
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// RemoveNode deletes a node and every incident edge.
func (g *Graph) RemoveNode(id string) error {
	if g == nil {
		return ErrNilGraph
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}

	for to, ids := range g.out[id] {
		for eid := range ids {
			delete(g.edges, eid)
			delete(g.in[to][id], eid)
		}
		if len(g.in[to][id]) == 0 {
			delete(g.in[to], id)
		}
	}
	delete(g.out, id)

	for from, ids := range g.in[id] {
		for eid := range ids {
			delete(g.edges, eid)
			delete(g.out[from][id], eid)
		}
		if len(g.out[from][id]) == 0 {
			delete(g.out[from], id)
		}
	}
	delete(g.in, id)

	delete(g.nodes, id)
	return nil
}

// Order returns the number of nodes.
func (g *Graph) Order() int {
	if g == nil {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Size returns the number of edges.
func (g *Graph) Size() int {
	if g == nil {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}
