package vault

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ovenbird/crumb/pkg/post"
)

func TestCache_SetGet(t *testing.T) {
	c := newCache(t.TempDir(), ".crumb")
	now := time.Now()

	c.Set("a.md", &indexEntry{
		Meta:         post.Meta{Slug: "a", Title: "A"},
		LastModified: now,
	})

	entry, hit := c.Get("a.md", now)
	if !hit {
		t.Fatal("expected cache hit")
	}
	if entry.Meta.Title != "A" {
		t.Errorf("title = %q", entry.Meta.Title)
	}

	// Stale mtime misses
	if _, hit := c.Get("a.md", now.Add(time.Second)); hit {
		t.Error("stale mtime should miss")
	}

	// Unknown path misses
	if _, hit := c.Get("b.md", now); hit {
		t.Error("unknown path should miss")
	}
}

func TestCache_SaveLoad(t *testing.T) {
	root := t.TempDir()
	c := newCache(root, ".crumb")
	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	c.Set("essays/x.md", &indexEntry{
		Meta:         post.Meta{Slug: "essays/x", Title: "X", Tags: []string{"t"}},
		LastModified: ts,
	})
	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	c2 := newCache(root, ".crumb")
	if err := c2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	entry, hit := c2.Get("essays/x.md", ts)
	if !hit {
		t.Fatal("expected hit after reload")
	}
	if entry.Meta.Slug != "essays/x" {
		t.Errorf("slug = %q", entry.Meta.Slug)
	}
}

func TestCache_SaveSkipsWhenClean(t *testing.T) {
	root := t.TempDir()
	c := newCache(root, ".crumb")

	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Nothing dirty: no file should be written.
	if _, err := os.Stat(filepath.Join(root, ".crumb", "index.json")); !os.IsNotExist(err) {
		t.Error("clean cache should not be persisted")
	}
}

func TestCache_LoadCorrupted(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".crumb")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.json"), []byte("garbage{"), 0644); err != nil {
		t.Fatal(err)
	}

	c := newCache(root, ".crumb")
	if err := c.Load(); err != nil {
		t.Fatalf("corrupted cache must self-heal, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("len = %d", c.Len())
	}
}

func TestCache_Prune(t *testing.T) {
	c := newCache(t.TempDir(), ".crumb")
	now := time.Now()

	c.Set("keep.md", &indexEntry{Meta: post.Meta{Slug: "keep"}, LastModified: now})
	c.Set("drop.md", &indexEntry{Meta: post.Meta{Slug: "drop"}, LastModified: now})

	c.Prune(map[string]bool{"keep.md": true})

	if c.Len() != 1 {
		t.Errorf("len = %d", c.Len())
	}
	if _, hit := c.Get("drop.md", now); hit {
		t.Error("pruned entry still present")
	}
}
