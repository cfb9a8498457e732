// Package graph implements the blog's knowledge graph: a directed
// multigraph whose vertices are posts, tags, series, and unresolved
// terms, and whose edges are typed relationships (links_to, tagged,
// in_series, similar_to, mentions) annotated with a confidence in
// (0, 1].
//
// Confidence makes the graph probabilistic: a wikilink the author wrote
// is certain (1.0), a similarity inferred from shared tags is not. Path
// queries compose confidences multiplicatively, so "how related are
// these two posts" becomes a max-product path problem, solved as a
// min-sum shortest path over -ln(confidence) weights.
//
// Core surface:
//
//   - Graph: mutation and queries (AddNode, AddEdge, Neighbors, ...),
//     guarded by an RWMutex; every read returns deterministically
//     ordered snapshots.
//   - Walk: breadth-first traversal with depth and relation filters.
//   - MostProbablePath / Related: Dijkstra in -log space.
//   - Backlinks, Orphans, DetectCycles: site-maintenance queries.
//   - FromPosts: builds the graph for a set of posts.
//   - WriteDOT / WriteJSON / ReadJSON: exports for visualisation and
//     the site build.
//
// All operations validate inputs up front and fail fast with the
// package's sentinel errors.
package graph
