//go:build windows

package flock

import "golang.org/x/sys/windows"

// The whole file is locked through its first byte.
const (
	rangeLow  = 1
	rangeHigh = 0
)

// Exclusive takes an exclusive lock on fd without waiting.
func Exclusive(fd uintptr) error {
	const flags = windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY
	return windows.LockFileEx(windows.Handle(fd), flags, 0, rangeLow, rangeHigh, &windows.Overlapped{})
}

// Unlock releases a lock taken by Exclusive.
func Unlock(fd uintptr) error {
	return windows.UnlockFileEx(windows.Handle(fd), 0, rangeLow, rangeHigh, &windows.Overlapped{})
}
