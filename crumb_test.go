package crumb_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenbird/crumb"
	"github.com/ovenbird/crumb/pkg/post"
	"github.com/ovenbird/crumb/pkg/vault"
)

func newTestBlog(t *testing.T) *crumb.Blog {
	t.Helper()
	root := t.TempDir()
	config := "title: Test Site\nbase_url: https://example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "crumb.yaml"), []byte(config), 0o644))

	blog, err := crumb.Open(root, crumb.WithAutoInit(), crumb.WithGitless())
	require.NoError(t, err)
	return blog
}

func TestOpen_MissingConfig(t *testing.T) {
	_, err := crumb.Open(t.TempDir(), crumb.WithAutoInit(), crumb.WithGitless())
	assert.Error(t, err, "a root without crumb.yaml must not open")
}

func TestOpen_MustExist(t *testing.T) {
	_, err := crumb.Open(filepath.Join(t.TempDir(), "nope"),
		crumb.WithMustExist(), crumb.WithGitless())
	assert.Error(t, err)
}

func TestBlog_PostLifecycle(t *testing.T) {
	blog := newTestBlog(t)
	ctx := context.Background()

	require.NoError(t, blog.SavePost(ctx, &post.Post{
		Slug:    "essays/boule",
		Title:   "Shaping a Boule",
		Tags:    []string{"baking"},
		Content: "See [[essays/starter]] for the preferment.",
	}))
	require.NoError(t, blog.SavePost(ctx, &post.Post{
		Slug:    "essays/starter",
		Title:   "Keeping a Starter",
		Tags:    []string{"baking"},
		Content: "Feed it daily.",
	}))

	p, err := blog.Post(ctx, "essays/boule")
	require.NoError(t, err)
	assert.Equal(t, "Shaping a Boule", p.Title)
	assert.False(t, p.Date.IsZero(), "save must stamp the date")

	metas, err := blog.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "essays/boule", metas[0].Slug)

	require.NoError(t, blog.DeletePost(ctx, "essays/starter"))
	metas, err = blog.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}

func TestBlog_BuildAndGraph(t *testing.T) {
	blog := newTestBlog(t)
	ctx := context.Background()

	require.NoError(t, blog.SavePost(ctx, &post.Post{
		Slug:    "essays/boule",
		Title:   "Shaping a Boule",
		Tags:    []string{"baking"},
		Content: "See [[essays/starter]].",
	}))
	require.NoError(t, blog.SavePost(ctx, &post.Post{
		Slug:    "essays/starter",
		Title:   "Keeping a Starter",
		Tags:    []string{"baking"},
		Content: "Feed it daily.",
	}))

	g, err := blog.Graph(ctx)
	require.NoError(t, err)
	_, ok := g.Node("post:essays/boule")
	assert.True(t, ok)
	assert.GreaterOrEqual(t, g.Size(), 3, "tagged edges plus the link")

	m, err := blog.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Posts)

	page := filepath.Join(blog.Root(), "public", "essays", "boule", "index.html")
	assert.FileExists(t, page)
	assert.FileExists(t, filepath.Join(blog.Root(), "public", "graph.json"))
	assert.FileExists(t, filepath.Join(blog.Root(), ".crumb", "build.json"))
}

func TestBlog_GitlessCapabilities(t *testing.T) {
	blog := newTestBlog(t)
	ctx := context.Background()

	assert.ErrorIs(t, blog.Sync(ctx), post.ErrSyncUnsupported)
	assert.ErrorIs(t, blog.Publish(ctx, "msg"), post.ErrPublishUnsupported)
}

func TestBlog_State(t *testing.T) {
	blog := newTestBlog(t)

	state, ok := blog.State().(vault.RepositoryState)
	require.True(t, ok, "state should be the vault snapshot, got %T", blog.State())
	assert.True(t, state.Gitless)
	assert.Equal(t, blog.Root(), state.Root)
}
