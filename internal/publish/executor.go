package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mrz1836/relpack/internal/errors"
)

// CommandExecutor runs an external publisher command. Tests substitute a fake.
type CommandExecutor interface {
	// Execute runs name with args in workDir. env entries are appended to the
	// inherited environment. It returns stdout; stderr is folded into the error.
	Execute(ctx context.Context, workDir string, env []string, name string, args ...string) ([]byte, error)
}

// ExecCommandExecutor runs commands with os/exec.
type ExecCommandExecutor struct{}

// Execute implements CommandExecutor.
func (ExecCommandExecutor) Execute(ctx context.Context, workDir string, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- publisher commands come from configuration
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return stdout.Bytes(), ctx.Err()
		}
		if stderr.Len() > 0 {
			return stdout.Bytes(), fmt.Errorf("%s failed [%s]: %w", name, strings.TrimSpace(stderr.String()), errors.ErrCommandFailed)
		}
		return stdout.Bytes(), fmt.Errorf("%s failed: %v: %w", name, err, errors.ErrCommandFailed)
	}
	return stdout.Bytes(), nil
}
