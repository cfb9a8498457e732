package post

import (
	"context"
	"time"
)

// Meta is the lightweight index view of a post: enough to render
// listings without parsing the full document.
type Meta struct {
	Slug  string    `json:"slug"`
	Title string    `json:"title,omitempty"`
	Date  time.Time `json:"date,omitempty"`
	Tags  []string  `json:"tags,omitempty"`
	Draft bool      `json:"draft,omitempty"`
}

// Store is the persistence port for posts. The canonical
// implementation is vault.Repository; tests use in-memory fakes.
type Store interface {
	// Get retrieves a post by slug. Returns ErrNotFound when absent.
	Get(ctx context.Context, slug string) (*Post, error)

	// Save writes a post, creating or overwriting its document.
	Save(ctx context.Context, p *Post) error

	// Delete removes a post's document. Returns ErrNotFound when absent.
	Delete(ctx context.Context, slug string) error

	// List returns all known slugs in lexical order.
	List(ctx context.Context) ([]string, error)
}

// MetaLister is an optional store capability: listing index metadata
// without loading full documents.
type MetaLister interface {
	ListMeta(ctx context.Context) ([]Meta, error)
}

// Watchable is an optional store capability: emitting change events
// until the context is canceled.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Syncable is an optional store capability: reconciling with a remote.
type Syncable interface {
	Sync(ctx context.Context) error
}

// Publisher is an optional store capability: committing accumulated
// content changes as one versioned batch.
type Publisher interface {
	Publish(ctx context.Context, message string) error
}
