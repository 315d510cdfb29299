// Package testutil holds shared test fixtures for relpack.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors used to simulate failures of external commands and I/O.
var (
	// ErrMockWrite simulates a failed write to a destination file.
	ErrMockWrite = errors.New("mock write failed")

	// ErrMockExitStatus simulates a command exiting with a non-zero status.
	ErrMockExitStatus = errors.New("exit status 2")

	// ErrMockCommandNotFound simulates a command missing from PATH.
	ErrMockCommandNotFound = errors.New("sh: patch: not found")

	// ErrMockGHFailed simulates a failed gh invocation.
	ErrMockGHFailed = errors.New("gh command failed")

	// ErrMockCommandNotConfigured is returned by fakes with no scripted result.
	ErrMockCommandNotConfigured = errors.New("mock command not configured")

	// ErrMockNetwork simulates a network error reported by a publisher.
	ErrMockNetwork = errors.New("dial tcp 140.82.112.6:443: connection refused")
)
