package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrz1836/relpack/internal/checksum"
	"github.com/mrz1836/relpack/internal/errors"
)

// AddVerifyCommand adds the verify command to the root command.
func AddVerifyCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newVerifyCmd(flags))
}

func newVerifyCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [manifest]",
		Short: "Check files against a checksum manifest",
		Long: `Re-hash every file listed in a checksum manifest and report the ones that
changed or disappeared, like "sha256sum -c". The manifest defaults to
checksums.txt in the working directory.

Examples:
  relpack verify
  relpack verify dist/checksums.txt --dir ./unpacked`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newCommandEnv(cmd, flags)
			if err != nil {
				return err
			}
			manifestPath := env.cfg.Checksum.File
			if len(args) == 1 {
				manifestPath = args[0]
			}
			return runVerify(env, manifestPath)
		},
	}
}

// verifyResult is the JSON shape of the verify command.
type verifyResult struct {
	Manifest   string              `json:"manifest"`
	Checked    int                 `json:"checked"`
	Mismatches []checksum.Mismatch `json:"mismatches"`
	Success    bool                `json:"success"`
}

func runVerify(env *commandEnv, manifestPath string) error {
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(env.workDir, manifestPath)
	}

	f, err := os.Open(manifestPath) //nolint:gosec // Path comes from the command line
	if err != nil {
		return fmt.Errorf("%w: %s", errors.ErrBundleInputMissing, manifestPath)
	}
	defer func() { _ = f.Close() }()

	manifest, err := checksum.Parse(f)
	if err != nil {
		return err
	}

	mismatches, err := checksum.Verify(env.ctx, os.DirFS(env.workDir), manifest, checksum.SHA256Hasher{})
	result := verifyResult{
		Manifest:   manifestPath,
		Checked:    manifest.Len(),
		Mismatches: mismatches,
		Success:    err == nil,
	}
	if result.Mismatches == nil {
		result.Mismatches = []checksum.Mismatch{}
	}

	if env.jsonOutput() {
		return env.finish(result, err)
	}

	for _, m := range mismatches {
		env.out.Warning(m.String())
	}
	if err != nil {
		return err
	}
	env.out.Success(fmt.Sprintf("%d files match %s", manifest.Len(), filepath.Base(manifestPath)))
	return nil
}
