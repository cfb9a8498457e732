package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNotRepo indicates the working directory is not a git repository.
	ErrNotRepo = errors.New("git: not a repository")

	// ErrNoRemote indicates the repository has no configured remote.
	ErrNoRemote = errors.New("git: no remote configured")
)

// Client wraps git command execution with a global file-based lock for process safety.
type Client struct {
	WorkDir  string
	Logger   *slog.Logger
	lockPath string
}

// NewClient creates a new git client for the given working directory.
// lockName is the lock file created at the repository root while a
// mutating operation is in flight (e.g. ".crumb.lock").
func NewClient(workDir, lockName string, logger *slog.Logger) *Client {
	if lockName == "" {
		lockName = ".crumb.lock"
	}
	return &Client{
		WorkDir:  workDir,
		Logger:   logger,
		lockPath: lockName,
	}
}

// IsInstalled checks whether a git binary is available on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// lockStaleAfter is the age past which a lock file is treated as the
// debris of a crashed process and reclaimed. Legitimate git
// operations finish well inside it.
const lockStaleAfter = 30 * time.Second

// Lock acquires a file-based lock. It blocks until the lock is
// acquired, breaking locks older than lockStaleAfter.
func (c *Client) Lock() (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)

	for {
		// Try to create lock file atomically
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		if info, serr := os.Stat(fullLockPath); serr == nil && time.Since(info.ModTime()) > lockStaleAfter {
			if c.Logger != nil {
				c.Logger.Warn("breaking stale lock", "path", fullLockPath, "age", time.Since(info.ModTime()))
			}
			os.Remove(fullLockPath)
			continue
		}

		// Lock exists, wait and retry.
		time.Sleep(10 * time.Millisecond)
	}
}

// Run executes a raw git command in the working directory.
// NOTE: It does NOT acquire the lock automatically. The caller must manage transaction safety via Client.Lock().
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepo reports whether the working directory is inside a git work tree.
func (c *Client) IsRepo() bool {
	out, err := c.Run("rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// HasRemote reports whether any remote is configured.
func (c *Client) HasRemote() bool {
	out, err := c.Run("remote")
	return err == nil && strings.TrimSpace(out) != ""
}

// Init initializes a new git repository if one doesn't exist.
func (c *Client) Init() error {
	// git init is safe to re-run.
	_, err := c.Run("init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(args...)
	return err
}

// AddAll stages every change under the given pathspec ("." when empty).
func (c *Client) AddAll(pathspec string) error {
	if pathspec == "" {
		pathspec = "."
	}
	_, err := c.Run("add", "--all", pathspec)
	return err
}

// Rm removes files from the working tree and from the index.
func (c *Client) Rm(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"rm", "-f"}, files...)
	_, err := c.Run(args...)
	return err
}

// Commit records changes to the repository.
func (c *Client) Commit(msg string) error {
	_, err := c.Run("commit", "-m", msg)
	return err
}

// Status returns the porcelain status of the repo.
func (c *Client) Status() (string, error) {
	return c.Run("status", "--porcelain")
}

// HasChanges reports whether the working tree or index is dirty.
func (c *Client) HasChanges() (bool, error) {
	out, err := c.Status()
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Head returns the abbreviated hash of the current HEAD commit.
// An empty repository (no commits yet) yields an empty string, no error.
func (c *Client) Head() (string, error) {
	out, err := c.Run("rev-parse", "--short", "HEAD")
	if err != nil {
		if strings.Contains(out, "unknown revision") || strings.Contains(out, "ambiguous argument") {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// Pull fetches and rebases on top of the remote tracking branch.
func (c *Client) Pull() error {
	_, err := c.Run("pull", "--rebase")
	return err
}

// Push publishes local commits to the remote.
func (c *Client) Push() error {
	_, err := c.Run("push")
	return err
}

// Sync reconciles the local repository with its remote: pull --rebase
// then push. The caller holds the lock.
func (c *Client) Sync() error {
	if !c.IsRepo() {
		return fmt.Errorf("%w: %s", ErrNotRepo, c.WorkDir)
	}
	if !c.HasRemote() {
		return ErrNoRemote
	}
	if err := c.Pull(); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	if err := c.Push(); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}
