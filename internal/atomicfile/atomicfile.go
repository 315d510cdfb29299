// Package atomicfile writes files with write-then-rename so readers never see
// a partially written release artifact.
package atomicfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// countingWriter tracks how many bytes pass through it.
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// Write streams content into a temp file next to dest and renames it into
// place once fully written and synced. It returns the number of bytes written.
// On any failure the temp file is removed and dest is left untouched.
func Write(dest string, perm os.FileMode, write func(io.Writer) error) (int64, error) {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(dest)+"-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	counter := &countingWriter{}
	if err := write(io.MultiWriter(tmp, counter)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, err
	}

	// Sync to disk before the rename makes the file visible
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to rename file: %w", err)
	}

	return counter.n, nil
}

// WriteFile atomically replaces dest with data.
func WriteFile(dest string, data []byte, perm os.FileMode) error {
	_, err := Write(dest, perm, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
	return err
}
