package validation

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/errors"
)

// PatchPlaceholder is replaced with the quoted patch path in a dry-run command.
const PatchPlaceholder = "{patch}"

// DefaultPatchCommand applies a patch in dry-run mode without prompting.
// There is no source tree in a release checkout, so hunks that do not apply
// are expected; the check surfaces patches that cannot even be parsed.
const DefaultPatchCommand = "patch --dry-run --force --silent -p1 -i " + PatchPlaceholder

// PatchChecker performs a dry-run application of one patch file.
type PatchChecker interface {
	DryRun(ctx context.Context, workDir, patchPath string) error
}

// CommandPatchChecker runs a configured dry-run command through a CommandRunner.
type CommandPatchChecker struct {
	runner  CommandRunner
	command string
	timeout time.Duration
}

// NewCommandPatchChecker creates a patch checker. An empty command selects
// DefaultPatchCommand; a non-positive timeout selects DefaultPatchTimeout.
func NewCommandPatchChecker(runner CommandRunner, command string, timeout time.Duration) *CommandPatchChecker {
	if runner == nil {
		runner = &ShellRunner{}
	}
	if command == "" {
		command = DefaultPatchCommand
	}
	if timeout <= 0 {
		timeout = constants.DefaultPatchTimeout
	}
	return &CommandPatchChecker{runner: runner, command: command, timeout: timeout}
}

// Command returns the shell command that would be run for patchPath.
func (c *CommandPatchChecker) Command(patchPath string) string {
	quoted := shellQuote(patchPath)
	if strings.Contains(c.command, PatchPlaceholder) {
		return strings.ReplaceAll(c.command, PatchPlaceholder, quoted)
	}
	return c.command + " " + quoted
}

// DryRun implements PatchChecker.
func (c *CommandPatchChecker) DryRun(ctx context.Context, workDir, patchPath string) error {
	cmdCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stdout, stderr, exitCode, err := c.runner.Run(cmdCtx, workDir, c.Command(patchPath))
	if err == nil && exitCode == 0 {
		return nil
	}

	detail := strings.TrimSpace(stderr)
	if detail == "" {
		detail = strings.TrimSpace(stdout)
	}
	if detail == "" && err != nil {
		detail = err.Error()
	}
	return errors.Wrapf(errors.ErrPatchDryRunFailed, "exit %d: %s", exitCode, firstLine(detail))
}

// shellQuote single-quotes s for sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// versionPattern matches the first dotted triple in a patch file name.
var versionPattern = regexp.MustCompile(`[0-9]+\.[0-9]+\.[0-9]+`) //nolint:gochecknoglobals // compiled once

// PatchVersion extracts the dotted-triple version token from a patch file name,
// or UnknownVersion when there is none.
func PatchVersion(name string) string {
	if v := versionPattern.FindString(name); v != "" {
		return v
	}
	return constants.UnknownVersion
}

// PatchVersionInfo pairs a patch file with the version parsed from its name.
type PatchVersionInfo struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// Ensure CommandPatchChecker implements PatchChecker.
var _ PatchChecker = (*CommandPatchChecker)(nil)
