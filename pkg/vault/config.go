package vault

import "log/slog"

// Config holds the configuration for a filesystem vault.
type Config struct {
	// Root is the site root: the directory holding crumb.yaml,
	// the content directory, and the git repository.
	Root string

	// ContentDir is the directory under Root holding the Markdown
	// posts. Defaults to "content".
	ContentDir string

	// SystemDir is the hidden engine-state directory under Root
	// (index cache, build manifests). Defaults to ".crumb".
	SystemDir string

	// OutputDir is the build output directory under Root, never
	// scanned or watched. Defaults to "public".
	OutputDir string

	// AutoInit runs `git init` when Root is not yet a repository.
	AutoInit bool

	// Gitless disables all git integration.
	Gitless bool

	// MustExist makes Initialize fail when Root does not exist
	// instead of creating it.
	MustExist bool

	// Ignore holds doublestar glob patterns (relative to the content
	// dir) excluded from listing and watching.
	Ignore []string

	Logger *slog.Logger

	// ErrorHandler receives asynchronous errors from the watcher.
	// Nil means errors are only logged.
	ErrorHandler func(error)
}

func (c Config) withDefaults() Config {
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.SystemDir == "" {
		c.SystemDir = ".crumb"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	return c
}
