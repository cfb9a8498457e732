package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks in-flight atomic writes. The watcher and the
// content scanner skip files carrying it, so a vault never observes
// its own half-written documents.
const TempFilePrefix = ".crumb-tmp-"

// writeFileAtomic lands data at filename without readers ever seeing
// a partial file: the bytes go to a synced sibling temp file, which
// is then renamed into place.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("vault: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("vault: stage %s: %w", filepath.Base(filename), err)
	}

	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("vault: chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("vault: replace %s: %w", filename, err)
	}
	return nil
}
