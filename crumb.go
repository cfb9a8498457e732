package crumb

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ovenbird/crumb/pkg/graph"
	"github.com/ovenbird/crumb/pkg/post"
	"github.com/ovenbird/crumb/pkg/site"
	"github.com/ovenbird/crumb/pkg/vault"
)

// Blog is the assembled engine for one site: configuration, the
// post vault, and the build pipeline behind a single handle.
type Blog struct {
	root    string
	cfg     *site.Config
	repo    *vault.Repository
	service *post.Service
	logger  *slog.Logger
	drafts  bool
	gitless bool
}

type options struct {
	logger    *slog.Logger
	gitless   bool
	autoInit  bool
	mustExist bool
	drafts    bool
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger used by every component. Nil (the
// default) keeps the engine silent.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithGitless disables git integration: saves are plain file writes
// and Publish/Sync report their unsupported errors.
func WithGitless() Option {
	return func(o *options) { o.gitless = true }
}

// WithAutoInit creates the content directory and the git repository
// when they do not exist yet.
func WithAutoInit() Option {
	return func(o *options) { o.autoInit = true }
}

// WithMustExist makes Open fail when the site root is missing instead
// of creating it.
func WithMustExist() Option {
	return func(o *options) { o.mustExist = true }
}

// WithDrafts includes drafts in builds and graphs.
func WithDrafts() Option {
	return func(o *options) { o.drafts = true }
}

// Open loads the site configuration at root and wires the vault and
// the post service around it.
func Open(root string, opts ...Option) (*Blog, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("crumb: resolve root: %w", err)
	}

	cfg, err := site.LoadConfig(absRoot)
	if err != nil {
		return nil, err
	}
	if o.drafts {
		cfg.Build.Drafts = true
	}

	repo := vault.New(vault.Config{
		Root:       absRoot,
		ContentDir: cfg.ContentDir,
		OutputDir:  cfg.OutputDir,
		AutoInit:   o.autoInit,
		Gitless:    o.gitless,
		MustExist:  o.mustExist,
		Ignore:     cfg.Ignore,
		Logger:     o.logger,
	})
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Blog{
		root:    absRoot,
		cfg:     cfg,
		repo:    repo,
		service: post.NewService(repo),
		logger:  logger,
		drafts:  o.drafts,
		gitless: o.gitless,
	}, nil
}

// Root returns the absolute site root.
func (b *Blog) Root() string { return b.root }

// Config returns the loaded site configuration.
func (b *Blog) Config() *site.Config { return b.cfg }

// Repository exposes the underlying vault for callers that need
// store-level operations.
func (b *Blog) Repository() *vault.Repository { return b.repo }

// Posts lists every post's index metadata, drafts included.
func (b *Blog) Posts(ctx context.Context) ([]post.Meta, error) {
	return b.service.Meta(ctx)
}

// Post loads one post by slug.
func (b *Blog) Post(ctx context.Context, slug string) (*post.Post, error) {
	return b.service.Get(ctx, slug)
}

// SavePost validates and persists a post, committing it when the
// vault is versioned.
func (b *Blog) SavePost(ctx context.Context, p *post.Post) error {
	return b.service.Save(ctx, p)
}

// DeletePost removes a post by slug.
func (b *Blog) DeletePost(ctx context.Context, slug string) error {
	return b.service.Delete(ctx, slug)
}

// Build renders the site into the configured output directory and
// returns the build manifest.
func (b *Blog) Build(ctx context.Context) (*site.Manifest, error) {
	return b.builder().Build(ctx)
}

// Server returns a development server wired to this blog's builder.
func (b *Blog) Server() *site.Server {
	return site.NewServer(b.cfg, b.builder(), b.logger)
}

func (b *Blog) builder() *site.Builder {
	opts := []site.BuilderOption{site.WithBuildLogger(b.logger)}
	if !b.gitless {
		git := b.repo.Git()
		opts = append(opts, site.WithGitHead(func(context.Context) (string, error) {
			return git.Head()
		}))
	}
	return site.NewBuilder(b.root, b.cfg, b.repo, opts...)
}

// Graph builds the knowledge graph over the current posts.
func (b *Blog) Graph(ctx context.Context) (*graph.Graph, error) {
	posts, err := b.service.All(ctx)
	if err != nil {
		return nil, err
	}
	var opts []graph.BuildOption
	if b.drafts {
		opts = append(opts, graph.WithDrafts())
	}
	return graph.FromPosts(posts, opts...)
}

// Watch emits change events for the content directory until ctx is
// canceled.
func (b *Blog) Watch(ctx context.Context) (<-chan post.Event, error) {
	return b.service.Watch(ctx)
}

// Publish commits all pending content changes as one batch.
func (b *Blog) Publish(ctx context.Context, message string) error {
	return b.service.Publish(ctx, message)
}

// Sync reconciles the vault with its git remote.
func (b *Blog) Sync(ctx context.Context) error {
	return b.service.Sync(ctx)
}

// State reports the vault's introspection snapshot.
func (b *Blog) State() any {
	return b.repo.State()
}
