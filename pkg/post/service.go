package post

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service contains the store-agnostic application logic: slug
// validation and derivation, date stamping, and capability checks for
// the optional store features.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a Service on top of any Store implementation.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Save validates and persists a post. An empty slug is derived from
// the title; a zero date is stamped with the current UTC time; a part
// number is only valid inside a series.
func (s *Service) Save(ctx context.Context, p *Post) error {
	if p == nil {
		return errors.New("post: cannot save nil post")
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if err := ValidateSlug(p.Slug); err != nil {
		return err
	}
	if p.Part != 0 && p.Series == "" {
		return fmt.Errorf("%w (part %d)", ErrPartWithoutSeries, p.Part)
	}
	if p.Date.IsZero() {
		p.Date = s.now().UTC().Truncate(time.Minute)
	}
	return s.store.Save(ctx, p)
}

// Get retrieves a post by slug.
func (s *Service) Get(ctx context.Context, slug string) (*Post, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, slug)
}

// Delete removes a post by slug.
func (s *Service) Delete(ctx context.Context, slug string) error {
	if err := ValidateSlug(slug); err != nil {
		return err
	}
	return s.store.Delete(ctx, slug)
}

// List returns all known slugs.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// All loads every post in the store, drafts included. A slug that
// fails to load aborts the walk with a wrapped error.
func (s *Service) All(ctx context.Context) ([]*Post, error) {
	slugs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	posts := make([]*Post, 0, len(slugs))
	for _, slug := range slugs {
		p, err := s.store.Get(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("post: load %q: %w", slug, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// Meta returns the lightweight listing of every post, served from the
// store's index when it keeps one. Stores without a meta index fall
// back to loading each post in full.
func (s *Service) Meta(ctx context.Context) ([]Meta, error) {
	if ml, ok := s.store.(MetaLister); ok {
		return ml.ListMeta(ctx)
	}
	posts, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	metas := make([]Meta, len(posts))
	for i, p := range posts {
		metas[i] = Meta{
			Slug:  p.Slug,
			Title: p.EffectiveTitle(),
			Date:  p.Date,
			Tags:  p.Tags,
			Draft: p.Draft,
		}
	}
	return metas, nil
}

// Watch subscribes to change events if the store supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}

// Sync reconciles the store with its remote if supported.
func (s *Service) Sync(ctx context.Context) error {
	sy, ok := s.store.(Syncable)
	if !ok {
		return ErrSyncUnsupported
	}
	return sy.Sync(ctx)
}

// Publish commits pending content changes as one batch if supported.
func (s *Service) Publish(ctx context.Context, message string) error {
	pub, ok := s.store.(Publisher)
	if !ok {
		return ErrPublishUnsupported
	}
	return pub.Publish(ctx, message)
}
