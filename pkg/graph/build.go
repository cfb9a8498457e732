package graph

import (
	"fmt"

	"github.com/ovenbird/crumb/pkg/post"
)

// Confidences assigned by the builder. Authored structure is certain;
// inferred structure is not.
const (
	confAuthored   = 1.0
	confUnresolved = 0.5

	// similarityThreshold is the minimum tag Jaccard index for a
	// similar_to edge; the index itself becomes the confidence.
	similarityThreshold = 0.25
)

// BuildOption adjusts FromPosts.
type BuildOption func(*buildOptions)

type buildOptions struct {
	drafts bool
}

// WithDrafts includes draft posts in the graph.
func WithDrafts() BuildOption {
	return func(o *buildOptions) { o.drafts = true }
}

// FromPosts constructs the knowledge graph for a set of posts:
//
//   - a post node per post, a tag node per tag (tagged, 1.0), a series
//     node per series (in_series, 1.0);
//   - links_to edges for wikilinks and internal Markdown links (1.0);
//     targets not in the post set become term nodes with confidence
//     0.5, marking an unresolved reference;
//   - similar_to edges between post pairs whose tag sets have Jaccard
//     index ≥ 0.25, with the index as confidence.
func FromPosts(posts []*post.Post, opts ...BuildOption) (*Graph, error) {
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	g := New()

	var kept []*post.Post
	bySlug := make(map[string]bool)
	for _, p := range posts {
		if p == nil {
			continue
		}
		if p.Draft && !o.drafts {
			continue
		}
		if bySlug[p.Slug] {
			return nil, fmt.Errorf("graph: duplicate post slug %q", p.Slug)
		}
		bySlug[p.Slug] = true
		kept = append(kept, p)
	}

	// Pass 1: post, tag, and series nodes with their authored edges.
	for _, p := range kept {
		if err := g.AddNode(Node{
			ID:    PostID(p.Slug),
			Kind:  NodePost,
			Label: p.EffectiveTitle(),
			Attrs: postAttrs(p),
		}); err != nil {
			return nil, err
		}
	}
	for _, p := range kept {
		for _, tag := range p.Tags {
			if err := g.AddNode(Node{ID: TagID(tag), Kind: NodeTag, Label: tag}); err != nil {
				return nil, err
			}
			if _, err := g.AddEdge(PostID(p.Slug), TagID(tag), RelTagged, confAuthored); err != nil {
				return nil, err
			}
		}
		if p.Series != "" {
			if err := g.AddNode(Node{ID: SeriesID(p.Series), Kind: NodeSeries, Label: p.Series}); err != nil {
				return nil, err
			}
			if _, err := g.AddEdge(PostID(p.Slug), SeriesID(p.Series), RelInSeries, confAuthored); err != nil {
				return nil, err
			}
		}
	}

	// Pass 2: links. Unresolved targets become term nodes so broken
	// references stay visible instead of vanishing.
	for _, p := range kept {
		for _, target := range p.InternalLinks() {
			var toID string
			var conf float64
			if bySlug[target] {
				toID, conf = PostID(target), confAuthored
			} else {
				toID, conf = TermID(target), confUnresolved
				if err := g.AddNode(Node{ID: toID, Kind: NodeTerm, Label: target}); err != nil {
					return nil, err
				}
			}
			if _, err := g.AddEdge(PostID(p.Slug), toID, RelLinksTo, conf); err != nil {
				return nil, err
			}
		}
	}

	// Pass 3: tag-overlap similarity, symmetric.
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			sim := jaccard(kept[i].Tags, kept[j].Tags)
			if sim < similarityThreshold {
				continue
			}
			a, b := PostID(kept[i].Slug), PostID(kept[j].Slug)
			if _, err := g.AddEdge(a, b, RelSimilarTo, sim); err != nil {
				return nil, err
			}
			if _, err := g.AddEdge(b, a, RelSimilarTo, sim); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func postAttrs(p *post.Post) map[string]string {
	attrs := map[string]string{}
	if !p.Date.IsZero() {
		attrs["date"] = p.Date.Format("2006-01-02")
	}
	if p.Draft {
		attrs["draft"] = "true"
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	inter := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
