package flock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/errors"
)

// Lock is a held exclusive lock on a lock file.
type Lock struct {
	f *os.File
}

// Acquire creates the lock file if needed and takes an exclusive lock on it.
// It fails with errors.ErrLockHeld when another process holds the lock.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- lock path is built from the configured output directory
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := Exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", errors.ErrLockHeld, path)
	}
	return &Lock{f: f}, nil
}

// Release unlocks and closes the lock file. The file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	if err := Unlock(l.f.Fd()); err != nil {
		_ = l.f.Close()
		l.f = nil
		return fmt.Errorf("failed to release lock: %w", err)
	}
	err := l.f.Close()
	l.f = nil
	return err
}
