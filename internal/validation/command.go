// Package validation checks a working directory before it is packaged.
//
// SECURITY NOTE: the patch dry-run command comes from project configuration
// (.relpack/config.yaml) or the user's global config. It is trusted the same way a
// Makefile or CI workflow is trusted. The sh -c invocation is intentional so the
// configured command may use shell features.
package validation

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CommandRunner runs one shell command in a directory.
type CommandRunner interface {
	// Run executes command and returns its captured output and exit code.
	Run(ctx context.Context, workDir, command string) (stdout, stderr string, exitCode int, err error)
}

// ShellRunner runs commands through sh -c.
type ShellRunner struct {
	// Env replaces the child environment when non-nil.
	Env []string
}

// Run implements CommandRunner. A process that could not be started reports
// exit code -1.
func (r *ShellRunner) Run(ctx context.Context, workDir, command string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // command comes from trusted configuration
	cmd.Dir = workDir
	if r.Env != nil {
		cmd.Env = r.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), stderr.String(), exitErr.ExitCode(), err
	}
	return stdout.String(), stderr.String(), -1, err
}

var _ CommandRunner = (*ShellRunner)(nil)
