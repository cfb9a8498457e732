package site

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"

	"github.com/ovenbird/crumb/pkg/graph"
	"github.com/ovenbird/crumb/pkg/post"
)

// manifestDir is the site-root directory build manifests land in.
const manifestDir = ".crumb"

// relatedCount caps the related-posts list on each post page.
const relatedCount = 5

// Manifest summarizes one completed build.
type Manifest struct {
	ID        uuid.UUID     `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Posts     int           `json:"posts"`
	Pages     int           `json:"pages"`
	Tags      int           `json:"tags"`
	GitHead   string        `json:"git_head,omitempty"`
	Output    string        `json:"output"`
}

// PostView is the template-facing shape of a post.
type PostView struct {
	Slug    string
	Title   string
	Summary string
	Date    time.Time
	Tags    []string
	URL     string
}

// TagView is one entry of the tag index.
type TagView struct {
	Name  string
	URL   string
	Count int
}

type postPage struct {
	Site      *Config
	Title     string
	Post      PostView
	Content   template.HTML
	Related   []PostView
	Backlinks []PostView
}

type listPage struct {
	Site  *Config
	Title string
	Posts []PostView
}

type tagPage struct {
	Site  *Config
	Title string
	Tag   string
	Posts []PostView
}

type tagsPage struct {
	Site  *Config
	Title string
	Tags  []TagView
}

// Builder renders a site from a post store into the configured output
// directory.
type Builder struct {
	root    string
	cfg     *Config
	store   post.Store
	logger  *slog.Logger
	gitHead func(ctx context.Context) (string, error)
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBuildLogger attaches a logger; nil keeps the builder silent.
func WithBuildLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithGitHead supplies the version-control head resolver recorded in
// build manifests.
func WithGitHead(fn func(ctx context.Context) (string, error)) BuilderOption {
	return func(b *Builder) { b.gitHead = fn }
}

// NewBuilder wires a builder for the site rooted at root.
func NewBuilder(root string, cfg *Config, store post.Store, opts ...BuilderOption) *Builder {
	b := &Builder{root: root, cfg: cfg, store: store}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	return b
}

// Build renders every page into a fresh directory and swaps it in as
// the output directory only once the whole build has succeeded, so a
// failing build never clobbers the previous output.
func (b *Builder) Build(ctx context.Context) (*Manifest, error) {
	start := time.Now()

	output, err := b.outputPath()
	if err != nil {
		return nil, err
	}

	posts, err := b.loadPosts(ctx)
	if err != nil {
		return nil, err
	}
	included := b.filter(posts, start)

	var gopts []graph.BuildOption
	if b.cfg.Build.Drafts {
		gopts = append(gopts, graph.WithDrafts())
	}
	kg, err := graph.FromPosts(posts, gopts...)
	if err != nil {
		return nil, err
	}

	renderer := NewRenderer(b.cfg.BaseURL)
	tagURL := func(tag string) string { return renderer.AbsURL("tags/"+tag) + "/" }
	tmpl, err := loadTemplates(b.templatesPath(), template.FuncMap{
		"formatDate": formatDate,
		"absURL":     renderer.AbsURL,
		"tagURL":     tagURL,
	})
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp(b.root, "public.tmp-")
	if err != nil {
		return nil, fmt.Errorf("site: create build dir: %w", err)
	}
	swapped := false
	defer func() {
		if !swapped {
			os.RemoveAll(tmp)
		}
	}()

	exists := make(map[string]bool, len(included))
	for _, p := range included {
		exists[p.Slug] = true
	}
	existsFn := func(slug string) bool { return exists[slug] }

	pages := 0
	for _, p := range included {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := b.postPage(kg, renderer, p, existsFn)
		if err != nil {
			return nil, err
		}
		if err := b.renderTo(tmpl, "post", filepath.Join(tmp, filepath.FromSlash(p.Slug), "index.html"), page); err != nil {
			return nil, err
		}
		pages++
	}

	views := b.views(renderer, included)
	if err := b.renderTo(tmpl, "index", filepath.Join(tmp, "index.html"), listPage{
		Site:  b.cfg,
		Posts: views,
	}); err != nil {
		return nil, err
	}
	pages++

	tagged := tagIndex(views)
	tagViews := make([]TagView, 0, len(tagged))
	for _, tag := range sortedKeys(tagged) {
		tagViews = append(tagViews, TagView{Name: tag, URL: tagURL(tag), Count: len(tagged[tag])})
		if err := b.renderTo(tmpl, "tag", filepath.Join(tmp, "tags", tag, "index.html"), tagPage{
			Site:  b.cfg,
			Title: "#" + tag,
			Tag:   tag,
			Posts: tagged[tag],
		}); err != nil {
			return nil, err
		}
		pages++
	}
	if err := b.renderTo(tmpl, "tags", filepath.Join(tmp, "tags", "index.html"), tagsPage{
		Site:  b.cfg,
		Title: "Tags",
		Tags:  tagViews,
	}); err != nil {
		return nil, err
	}
	pages++

	if err := b.writeGraph(kg, filepath.Join(tmp, "graph.json")); err != nil {
		return nil, err
	}

	if err := copyTree(filepath.Join(b.root, b.cfg.StaticDir), tmp); err != nil {
		return nil, err
	}

	if b.cfg.Feed.Enabled {
		if err := b.writeFeeds(tmp, renderer, views); err != nil {
			return nil, err
		}
	}

	if err := swapOutput(tmp, output); err != nil {
		return nil, err
	}
	swapped = true

	m := &Manifest{
		ID:        uuid.New(),
		StartedAt: start,
		Duration:  time.Since(start),
		Posts:     len(included),
		Pages:     pages,
		Tags:      len(tagViews),
		Output:    output,
	}
	if b.gitHead != nil {
		if head, err := b.gitHead(ctx); err == nil {
			m.GitHead = head
		} else {
			b.logger.Warn("build manifest: resolving git head failed", "error", err)
		}
	}
	if err := b.writeManifest(m); err != nil {
		return nil, err
	}

	b.logger.Info("site built",
		"posts", m.Posts,
		"pages", m.Pages,
		"duration", m.Duration,
		"output", m.Output)
	return m, nil
}

func (b *Builder) loadPosts(ctx context.Context) ([]*post.Post, error) {
	slugs, err := b.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("site: list posts: %w", err)
	}

	posts := make([]*post.Post, 0, len(slugs))
	for _, slug := range slugs {
		p, err := b.store.Get(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("site: load %s: %w", slug, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// filter drops drafts and future-dated posts unless the build config
// opts them in.
func (b *Builder) filter(posts []*post.Post, now time.Time) []*post.Post {
	out := make([]*post.Post, 0, len(posts))
	for _, p := range posts {
		if p.Draft && !b.cfg.Build.Drafts {
			continue
		}
		if !p.Date.IsZero() && p.Date.After(now) && !b.cfg.Build.Future {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (b *Builder) postPage(kg *graph.Graph, r *Renderer, p *post.Post, exists func(string) bool) (postPage, error) {
	content, err := r.Render(p, exists)
	if err != nil {
		return postPage{}, err
	}

	page := postPage{
		Site:    b.cfg,
		Title:   p.EffectiveTitle(),
		Content: template.HTML(content),
		Post: PostView{
			Slug:  p.Slug,
			Title: p.EffectiveTitle(),
			Date:  p.Date,
			Tags:  p.Tags,
			URL:   r.PostURL(p.Slug),
		},
	}

	related, err := graph.Related(kg, graph.PostID(p.Slug), relatedCount)
	if err != nil {
		return postPage{}, err
	}
	for _, s := range related {
		slug := strings.TrimPrefix(s.ID, "post:")
		if !exists(slug) {
			continue
		}
		page.Related = append(page.Related, PostView{Slug: slug, Title: slug, URL: r.PostURL(slug)})
	}

	backlinks, err := graph.Backlinks(kg, graph.PostID(p.Slug))
	if err != nil {
		return postPage{}, err
	}
	for _, id := range backlinks {
		slug := strings.TrimPrefix(id, "post:")
		if !exists(slug) {
			continue
		}
		page.Backlinks = append(page.Backlinks, PostView{Slug: slug, Title: slug, URL: r.PostURL(slug)})
	}

	b.resolveTitles(kg, page.Related)
	b.resolveTitles(kg, page.Backlinks)
	return page, nil
}

// resolveTitles swaps slug placeholders for node labels where the
// graph knows one.
func (b *Builder) resolveTitles(kg *graph.Graph, views []PostView) {
	for i := range views {
		if n, ok := kg.Node(graph.PostID(views[i].Slug)); ok && n.Label != "" {
			views[i].Title = n.Label
		}
	}
}

// views maps posts to their template shape, newest first, slug as the
// tie-break so builds stay deterministic.
func (b *Builder) views(r *Renderer, posts []*post.Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostView{
			Slug:    p.Slug,
			Title:   p.EffectiveTitle(),
			Summary: p.EffectiveSummary(280),
			Date:    p.Date,
			Tags:    p.Tags,
			URL:     r.PostURL(p.Slug),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

func tagIndex(views []PostView) map[string][]PostView {
	tagged := make(map[string][]PostView)
	for _, v := range views {
		for _, tag := range v.Tags {
			tagged[tag] = append(tagged[tag], v)
		}
	}
	return tagged
}

func sortedKeys(m map[string][]PostView) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Builder) renderTo(tmpl *templateSet, page, path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("site: create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("site: create %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.execute(f, page, data); err != nil {
		return err
	}
	return f.Close()
}

func (b *Builder) writeGraph(kg *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("site: create %s: %w", path, err)
	}
	defer f.Close()

	if err := kg.WriteJSON(f); err != nil {
		return err
	}
	return f.Close()
}

func (b *Builder) writeFeeds(tmp string, r *Renderer, views []PostView) error {
	feed := &feeds.Feed{
		Title:       b.cfg.Title,
		Link:        &feeds.Link{Href: b.cfg.BaseURL},
		Description: b.cfg.Description,
		Created:     time.Now(),
	}
	if b.cfg.Author.Name != "" {
		feed.Author = &feeds.Author{Name: b.cfg.Author.Name, Email: b.cfg.Author.Email}
	}

	limit := b.cfg.Feed.Limit
	for _, v := range views {
		if limit <= 0 {
			break
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          v.URL,
			Title:       v.Title,
			Link:        &feeds.Link{Href: v.URL},
			Description: v.Summary,
			Created:     v.Date,
		})
		limit--
	}

	atom, err := feed.ToAtom()
	if err != nil {
		return fmt.Errorf("site: render atom feed: %w", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "atom.xml"), []byte(atom), 0o644); err != nil {
		return fmt.Errorf("site: write atom feed: %w", err)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return fmt.Errorf("site: render rss feed: %w", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "rss.xml"), []byte(rss), 0o644); err != nil {
		return fmt.Errorf("site: write rss feed: %w", err)
	}
	return nil
}

func (b *Builder) writeManifest(m *Manifest) error {
	dir := filepath.Join(b.root, manifestDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("site: create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("site: encode manifest: %w", err)
	}
	path := filepath.Join(dir, "build.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("site: write manifest: %w", err)
	}
	return nil
}

func (b *Builder) templatesPath() string {
	if b.cfg.TemplatesDir == "" {
		return ""
	}
	dir := filepath.Join(b.root, b.cfg.TemplatesDir)
	if _, err := os.Stat(dir); err != nil {
		return ""
	}
	return dir
}

// outputPath resolves and sanity-checks the output directory: it must
// be a strict subdirectory of the site root, since a successful build
// deletes whatever was there before.
func (b *Builder) outputPath() (string, error) {
	root, err := filepath.Abs(b.root)
	if err != nil {
		return "", fmt.Errorf("site: resolve root: %w", err)
	}
	output := b.cfg.OutputDir
	if !filepath.IsAbs(output) {
		output = filepath.Join(root, output)
	}
	output = filepath.Clean(output)

	rel, err := filepath.Rel(root, output)
	if err != nil || rel == "." || rel == "" || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("site: output dir %q escapes site root %q", output, root)
	}
	return output, nil
}

// swapOutput replaces the previous output with the freshly built tree.
func swapOutput(tmp, output string) error {
	if err := os.RemoveAll(output); err != nil {
		return fmt.Errorf("site: clear %s: %w", output, err)
	}
	if err := os.Rename(tmp, output); err != nil {
		return fmt.Errorf("site: swap output into place: %w", err)
	}
	return nil
}

// copyTree merges src into dst, preserving file modes. A missing src
// is not an error: a site without static assets is fine.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("site: stat %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("site: %s is not a directory", src)
	}

	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
