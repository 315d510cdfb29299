// Package flock guards the release output directory with an exclusive,
// non-blocking file lock so two relpack runs never write the same bundle.
//
// Usage:
//
//	lock, err := flock.Acquire(filepath.Join(outDir, ".relpack.lock"))
//	if err != nil {
//	    // another run holds the directory
//	}
//	defer lock.Release()
package flock
