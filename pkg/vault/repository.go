package vault

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ovenbird/crumb/pkg/git"
	"github.com/ovenbird/crumb/pkg/post"
)

// Repository implements post.Store on a directory of Markdown files,
// versioned with Git unless configured gitless.
type Repository struct {
	Root   string
	git    *git.Client
	cache  *cache
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
}

// New creates a filesystem-backed post store rooted at config.Root.
func New(config Config) *Repository {
	config = config.withDefaults()
	return &Repository{
		Root:   config.Root,
		git:    git.NewClient(config.Root, config.SystemDir+".lock", config.Logger),
		config: config,
		cache:  newCache(config.Root, config.SystemDir),
	}
}

// Git exposes the underlying git client (used by the publish/sync CLI
// paths for HEAD reporting).
func (r *Repository) Git() *git.Client {
	return r.git
}

func (r *Repository) contentPath() string {
	return filepath.Join(r.Root, r.config.ContentDir)
}

func (r *Repository) slugToRel(slug string) string {
	return filepath.ToSlash(filepath.Join(r.config.ContentDir, slug+".md"))
}

// resolveSlug maps an absolute content file path back to its slug.
func (r *Repository) resolveSlug(absPath string) (string, error) {
	rel, err := filepath.Rel(r.contentPath(), absPath)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %s is outside the content directory", absPath)
	}
	slug := strings.TrimSuffix(rel, ".md")
	if slug == rel {
		return "", fmt.Errorf("path %s is not a markdown document", absPath)
	}
	return slug, nil
}

// Initialize performs the necessary setup for the vault (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	// 1. Directory Initialization
	if r.config.MustExist {
		info, err := os.Stat(r.Root)
		if os.IsNotExist(err) {
			return fmt.Errorf("site root does not exist: %s", r.Root)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("site root is not a directory: %s", r.Root)
		}
	}
	if err := os.MkdirAll(r.contentPath(), 0755); err != nil {
		return fmt.Errorf("failed to create content directory: %w", err)
	}

	// 2. Git Initialization
	if !r.config.Gitless {
		if !git.IsInstalled() {
			return fmt.Errorf("git is not installed")
		}

		wasNewRepo := false
		if !r.git.IsRepo() {
			if r.config.AutoInit {
				if err := r.git.Init(); err != nil {
					return fmt.Errorf("failed to git init: %w", err)
				}
				wasNewRepo = true
			} else {
				return fmt.Errorf("site root is not a git repository: %s", r.Root)
			}
		}

		// Ensure .gitignore covers engine state and build output
		mod, err := r.ensureIgnore()
		if err != nil {
			return fmt.Errorf("failed to ensure .gitignore: %w", err)
		}

		if mod && wasNewRepo {
			// If we just created the repo, commit the .gitignore to start clean
			if err := r.git.Add(".gitignore"); err != nil {
				return fmt.Errorf("failed to add .gitignore: %w", err)
			}
			if err := r.git.Commit(fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
				return fmt.Errorf("failed to commit .gitignore: %w", err)
			}
		}
	}

	return nil
}

func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Root, ".gitignore")
	entries := []string{
		r.config.SystemDir + "/",
		r.config.OutputDir + "/",
	}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	for _, e := range missing {
		if _, err := f.WriteString(e + "\n"); err != nil {
			return false, err
		}
	}

	return true, nil
}

// Save persists a post to the content directory and commits it to Git.
//
// Workflow:
//  1. Validate the slug.
//  2. Encode to frontmatter + body and write atomically to disk.
//  3. (If Git enabled) 'git add' and 'git commit' with change reason from context.
func (r *Repository) Save(ctx context.Context, p *post.Post) error {
	if err := post.ValidateSlug(p.Slug); err != nil {
		return err
	}

	relFile := r.slugToRel(p.Slug)
	fullPath := filepath.Join(r.Root, filepath.FromSlash(relFile))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := post.Encode(p)
	if err != nil {
		return fmt.Errorf("failed to encode post: %w", err)
	}

	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.updateCacheEntry(p, fullPath)

	if !r.config.Gitless {
		unlock, err := r.git.Lock()
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()

		if err := r.git.Add(relFile); err != nil {
			return fmt.Errorf("failed to git add: %w", err)
		}

		msg := "update " + p.Slug
		if val, ok := ctx.Value(post.ChangeReasonKey).(string); ok && val != "" {
			msg = val
		}

		if err := r.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to git commit: %w", err)
		}
	}

	return nil
}

func (r *Repository) updateCacheEntry(p *post.Post, fullPath string) {
	info, err := os.Stat(fullPath)
	if err != nil {
		return
	}
	rel, err := filepath.Rel(r.contentPath(), fullPath)
	if err != nil {
		return
	}
	r.cache.Set(filepath.ToSlash(rel), &indexEntry{
		Meta: post.Meta{
			Slug:  p.Slug,
			Title: p.EffectiveTitle(),
			Date:  p.Date,
			Tags:  p.Tags,
			Draft: p.Draft,
		},
		LastModified: info.ModTime(),
	})
}

// Get retrieves a post by slug.
func (r *Repository) Get(ctx context.Context, slug string) (*post.Post, error) {
	if err := post.ValidateSlug(slug); err != nil {
		return nil, err
	}

	fullPath := filepath.Join(r.Root, filepath.FromSlash(r.slugToRel(slug)))

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", post.ErrNotFound, slug)
		}
		return nil, err
	}
	defer f.Close()

	p, err := post.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse post %s: %w", slug, err)
	}
	p.Slug = slug

	return p, nil
}

// List scans the content directory for all post slugs.
//
// Strategy:
//  1. Load the metadata index from disk.
//  2. Walk the content tree (skipping git, system, output, ignored paths).
//  3. Cache hit (mtime match): keep index entry. Miss: parse and reindex.
//  4. Prune vanished entries and save the index back.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	metas, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, len(metas))
	for i, m := range metas {
		slugs[i] = m.Slug
	}
	return slugs, nil
}

// ListMeta returns index metadata for every post, sorted by slug.
// Fresh cache entries avoid re-parsing unchanged documents.
func (r *Repository) ListMeta(ctx context.Context) ([]post.Meta, error) {
	return r.scan(ctx)
}

func (r *Repository) scan(ctx context.Context) ([]post.Meta, error) {
	if err := r.cache.Load(); err != nil && r.config.Logger != nil {
		r.config.Logger.Debug("index cache load failed, rebuilding", "error", err)
	}

	var metas []post.Meta
	seen := make(map[string]bool)
	contentDir := r.contentPath()

	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if d.Name() == ".git" || path == filepath.Join(r.Root, r.config.SystemDir) || path == filepath.Join(r.Root, r.config.OutputDir) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(d.Name()) != ".md" || strings.HasPrefix(d.Name(), TempFilePrefix) {
			return nil
		}

		relPath, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if r.matchesIgnore(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()
		seen[relPath] = true

		if entry, hit := r.cache.Get(relPath, mtime); hit {
			metas = append(metas, entry.Meta)
			return nil
		}

		// Cache miss: full parse.
		slug := strings.TrimSuffix(relPath, ".md")
		p, err := r.Get(ctx, slug)
		if err != nil {
			if r.config.Logger != nil {
				r.config.Logger.Warn("skipping unparseable post", "slug", slug, "error", err)
			}
			return nil // Skip unparseable
		}

		meta := post.Meta{
			Slug:  slug,
			Title: p.EffectiveTitle(),
			Date:  p.Date,
			Tags:  p.Tags,
			Draft: p.Draft,
		}
		r.cache.Set(relPath, &indexEntry{Meta: meta, LastModified: mtime})
		metas = append(metas, meta)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.cache.Prune(seen)
	if err := r.cache.Save(); err != nil && r.config.Logger != nil {
		r.config.Logger.Debug("index cache save failed", "error", err)
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].Slug < metas[j].Slug })
	return metas, nil
}

func (r *Repository) matchesIgnore(relPath string) bool {
	for _, pattern := range r.config.Ignore {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// Delete removes a post's document.
func (r *Repository) Delete(ctx context.Context, slug string) error {
	if err := post.ValidateSlug(slug); err != nil {
		return err
	}

	relFile := r.slugToRel(slug)
	fullPath := filepath.Join(r.Root, filepath.FromSlash(relFile))

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", post.ErrNotFound, slug)
	}

	r.cache.Delete(slug + ".md")

	if r.config.Gitless {
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Rm(relFile); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}

	if err := r.git.Commit("delete " + slug); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}

	return nil
}

// Publish stages every pending content change and commits it as one
// change-set. The blog workflow mutates files through editors, so
// publishing is a batch over whatever the working tree accumulated.
func (r *Repository) Publish(ctx context.Context, message string) error {
	if r.config.Gitless {
		return post.ErrPublishUnsupported
	}
	if !r.git.IsRepo() {
		return fmt.Errorf("site root is not a git repository: %s", r.Root)
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.AddAll(r.config.ContentDir); err != nil {
		return fmt.Errorf("failed to stage content: %w", err)
	}

	staged, err := r.git.Run("diff", "--cached", "--name-only")
	if err != nil {
		return fmt.Errorf("failed to inspect stage: %w", err)
	}
	if strings.TrimSpace(staged) == "" {
		return post.ErrNoChanges
	}

	if message == "" {
		message = "content: publish pending changes"
	}
	if err := r.git.Commit(message); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}

	if r.config.Logger != nil {
		r.config.Logger.Info("published content changes", "files", len(strings.Split(staged, "\n")))
	}
	return nil
}

// Sync synchronizes the vault with its remote.
func (r *Repository) Sync(ctx context.Context) error {
	if r.config.Gitless {
		return post.ErrSyncUnsupported
	}
	if !r.git.IsRepo() {
		return fmt.Errorf("site root is not a git repository: %s", r.Root)
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return r.git.Sync()
}

// Reconcile diffs the index cache against the filesystem and returns
// synthesized events for everything that changed while the watcher was
// paused (e.g. during a git checkout or rebase).
func (r *Repository) Reconcile(ctx context.Context) ([]post.Event, error) {
	before := make(map[string]time.Time)
	r.cache.Range(func(relPath string, entry *indexEntry) bool {
		before[relPath] = entry.LastModified
		return true
	})

	metas, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	var events []post.Event

	after := make(map[string]bool, len(metas))
	for _, m := range metas {
		relPath := m.Slug + ".md"
		after[relPath] = true
		prev, existed := before[relPath]
		switch {
		case !existed:
			events = append(events, post.Event{Type: post.EventCreate, Slug: m.Slug, Timestamp: now})
		case !r.mtimeEqual(relPath, prev):
			events = append(events, post.Event{Type: post.EventModify, Slug: m.Slug, Timestamp: now})
		}
	}
	for relPath := range before {
		if !after[relPath] {
			events = append(events, post.Event{
				Type:      post.EventDelete,
				Slug:      strings.TrimSuffix(relPath, ".md"),
				Timestamp: now,
			})
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Slug < events[j].Slug })
	r.recordReconcile()
	return events, nil
}

func (r *Repository) mtimeEqual(relPath string, prev time.Time) bool {
	info, err := os.Stat(filepath.Join(r.contentPath(), filepath.FromSlash(relPath)))
	if err != nil {
		return false
	}
	return info.ModTime().Equal(prev)
}

func (r *Repository) logger() *slog.Logger {
	if r.config.Logger != nil {
		return r.config.Logger
	}
	return slog.New(slog.DiscardHandler)
}

var (
	_ post.Store      = (*Repository)(nil)
	_ post.MetaLister = (*Repository)(nil)
	_ post.Syncable   = (*Repository)(nil)
	_ post.Publisher  = (*Repository)(nil)
)
