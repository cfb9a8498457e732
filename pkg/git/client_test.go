package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func requireGit(t *testing.T) {
	t.Helper()
	if !IsInstalled() {
		t.Skip("git not installed")
	}
}

func TestClient_Lock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, ".crumb.lock", nil)

	unlock, err := client.Lock()
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	// Verify lock file exists
	lockPath := filepath.Join(tmpDir, ".crumb.lock")
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("Lock file not created")
	}

	unlock()

	// Verify lock file removed
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("Lock file not removed after unlock")
	}
}

func TestClient_Lock_BreaksStaleLock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, ".crumb.lock", nil)

	// Leave debris as a crashed process would, aged past the
	// staleness bound.
	lockPath := filepath.Join(tmpDir, ".crumb.lock")
	if err := os.WriteFile(lockPath, nil, 0666); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Minute)
	if err := os.Chtimes(lockPath, old, old); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		unlock, err := client.Lock()
		if err == nil {
			unlock()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Lock spun forever on a stale lock file")
	}
}

func TestClient_Init(t *testing.T) {
	requireGit(t)
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".git")); os.IsNotExist(err) {
		t.Error(".git directory not created")
	}

	if !client.IsRepo() {
		t.Error("IsRepo should report true after init")
	}
}

func TestClient_Head_EmptyRepo(t *testing.T) {
	requireGit(t)
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	head, err := client.Head()
	if err != nil {
		t.Fatalf("Head on empty repo: %v", err)
	}
	if head != "" {
		t.Errorf("expected empty head, got %q", head)
	}
}

func TestClient_Sync_NoRemote(t *testing.T) {
	requireGit(t)
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	err := client.Sync()
	if err != ErrNoRemote {
		t.Errorf("expected ErrNoRemote, got %v", err)
	}
}

func TestClient_HasChanges(t *testing.T) {
	requireGit(t)
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	dirty, err := client.HasChanges()
	if err != nil {
		t.Fatalf("HasChanges: %v", err)
	}
	if dirty {
		t.Error("fresh repo should be clean")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "note.md"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	dirty, err = client.HasChanges()
	if err != nil {
		t.Fatalf("HasChanges: %v", err)
	}
	if !dirty {
		t.Error("untracked file should make the tree dirty")
	}
}
