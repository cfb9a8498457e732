package post_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/ovenbird/crumb/pkg/post"
)

// MockStore implements post.Store in memory.
// It deliberately does NOT implement the optional capabilities, so the
// capability fallback errors get exercised.
type MockStore struct {
	posts map[string]*post.Post
}

func NewMockStore() *MockStore {
	return &MockStore{posts: make(map[string]*post.Post)}
}

func (m *MockStore) Save(ctx context.Context, p *post.Post) error {
	cp := *p
	m.posts[p.Slug] = &cp
	return nil
}

func (m *MockStore) Get(ctx context.Context, slug string) (*post.Post, error) {
	p, ok := m.posts[slug]
	if !ok {
		return nil, post.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	var slugs []string
	for slug := range m.posts {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}

func (m *MockStore) Delete(ctx context.Context, slug string) error {
	if _, ok := m.posts[slug]; !ok {
		return post.ErrNotFound
	}
	delete(m.posts, slug)
	return nil
}

func TestService_CRUD(t *testing.T) {
	store := NewMockStore()
	service := post.NewService(store)
	ctx := context.TODO()

	// 1. Save
	err := service.Save(ctx, &post.Post{Slug: "first-post", Title: "First", Content: "hello"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Get
	p, err := service.Get(ctx, "first-post")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Content != "hello" {
		t.Errorf("expected content 'hello', got %q", p.Content)
	}

	// 3. List
	_ = service.Save(ctx, &post.Post{Slug: "second-post", Title: "Second"})
	slugs, err := service.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(slugs) != 2 {
		t.Errorf("expected 2 posts, got %d", len(slugs))
	}

	// 4. All
	posts, err := service.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(posts) != 2 || posts[0].Slug != "first-post" {
		t.Errorf("All() = %d posts, first %q", len(posts), posts[0].Slug)
	}

	// 5. Delete
	if err := service.Delete(ctx, "first-post"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := service.Get(ctx, "first-post"); !errors.Is(err, post.ErrNotFound) {
		t.Errorf("expected ErrNotFound after deletion, got %v", err)
	}
}

func TestService_SaveDerivesSlugAndDate(t *testing.T) {
	store := NewMockStore()
	service := post.NewService(store)
	ctx := context.TODO()

	p := &post.Post{Title: "A Walk Through Wiener Processes"}
	if err := service.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p.Slug != "a-walk-through-wiener-processes" {
		t.Errorf("derived slug = %q", p.Slug)
	}
	if p.Date.IsZero() {
		t.Error("zero date was not stamped")
	}
	if time.Since(p.Date) > time.Hour {
		t.Errorf("stamped date too old: %v", p.Date)
	}
}

func TestService_SaveRejectsBadSlugs(t *testing.T) {
	service := post.NewService(NewMockStore())
	ctx := context.TODO()

	if err := service.Save(ctx, &post.Post{}); !errors.Is(err, post.ErrEmptySlug) {
		t.Errorf("empty post: got %v, want ErrEmptySlug", err)
	}
	if err := service.Save(ctx, &post.Post{Slug: "Bad Slug"}); !errors.Is(err, post.ErrBadSlug) {
		t.Errorf("bad slug: got %v, want ErrBadSlug", err)
	}
	if err := service.Save(ctx, nil); err == nil {
		t.Error("nil post: expected error")
	}
}

func TestService_SaveRejectsPartWithoutSeries(t *testing.T) {
	store := NewMockStore()
	service := post.NewService(store)
	ctx := context.TODO()

	err := service.Save(ctx, &post.Post{Slug: "gbm-basics", Part: 3})
	if !errors.Is(err, post.ErrPartWithoutSeries) {
		t.Errorf("part without series: got %v, want ErrPartWithoutSeries", err)
	}
	if len(store.posts) != 0 {
		t.Error("invalid post reached the store")
	}

	err = service.Save(ctx, &post.Post{Slug: "gbm-basics", Series: "stochastic-finance", Part: 3})
	if err != nil {
		t.Errorf("part inside a series rejected: %v", err)
	}
}

func TestService_CapabilitiesUnsupported(t *testing.T) {
	service := post.NewService(NewMockStore())
	ctx := context.TODO()

	if _, err := service.Watch(ctx); !errors.Is(err, post.ErrWatchUnsupported) {
		t.Errorf("Watch: got %v", err)
	}
	if err := service.Sync(ctx); !errors.Is(err, post.ErrSyncUnsupported) {
		t.Errorf("Sync: got %v", err)
	}
	if err := service.Publish(ctx, "msg"); !errors.Is(err, post.ErrPublishUnsupported) {
		t.Errorf("Publish: got %v", err)
	}
}
