// Package crumb is the composition root for the crumb publishing
// engine: a static-site toolchain for a vault of Markdown essays with
// YAML frontmatter, versioned with Git.
//
// The engine is assembled from focused packages:
//
//   - pkg/post: the document model, frontmatter codec, and the
//     store-agnostic service.
//   - pkg/vault: the filesystem store (atomic writes, mtime index
//     cache, git integration, fsnotify watching).
//   - pkg/graph: the probabilistic knowledge graph linking posts.
//   - pkg/site: configuration, Markdown rendering, and the build
//     pipeline with feeds, tag indexes, and a dev server.
//   - pkg/stochastic and pkg/cashflow: the simulation kernels behind
//     the finance essays, exposed through the sim commands.
//
// Usage:
//
//	blog, err := crumb.Open("./site",
//		crumb.WithAutoInit(),
//		crumb.WithLogger(logger),
//	)
//	if err != nil {
//		...
//	}
//
//	err = blog.SavePost(ctx, &post.Post{
//		Slug:    "essays/boule",
//		Title:   "Shaping a Boule",
//		Content: "Crumb structure depends on tension.",
//	})
//
//	manifest, err := blog.Build(ctx)
//
// Every component takes an optional *slog.Logger and stays silent
// without one; blocking operations take a context.
package crumb
