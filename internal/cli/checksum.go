package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrz1836/relpack/internal/atomicfile"
	"github.com/mrz1836/relpack/internal/checksum"
	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/errors"
)

type checksumOptions struct {
	print bool
	sort  bool
}

// AddChecksumCommand adds the checksum command to the root command.
func AddChecksumCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newChecksumCmd(flags))
}

func newChecksumCmd(flags *GlobalFlags) *cobra.Command {
	opts := &checksumOptions{}

	cmd := &cobra.Command{
		Use:   "checksum",
		Short: "Write the SHA-256 manifest of every artifact",
		Long: `Hash every *.patch, *.xml, *.rom and *.dat file under the working directory
and write one "<sha256>  <path>" line per file to checksums.txt.

Digests are computed fresh on every run. Entries are sorted by path unless
--sort=false is given.

Examples:
  relpack checksum
  relpack checksum --print
  relpack checksum --sort=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newCommandEnv(cmd, flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("sort") {
				opts.sort = env.cfg.Checksum.Sort
			}
			return runChecksum(env, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.print, "print", false, "print the manifest instead of writing it")
	cmd.Flags().BoolVar(&opts.sort, "sort", true, "sort entries by path (default from checksum.sort)")

	return cmd
}

// checksumResult is the JSON shape of the checksum command.
type checksumResult struct {
	Path    string           `json:"path,omitempty"`
	Entries []checksum.Entry `json:"entries"`
	Written bool             `json:"written"`
}

func runChecksum(env *commandEnv, opts *checksumOptions) error {
	gen := checksum.NewGenerator(os.DirFS(env.workDir),
		checksum.WithWorkers(env.cfg.Checksum.Workers),
		checksum.WithSorted(opts.sort),
	)

	manifest, err := gen.GenerateDir(env.ctx, env.cfg.Artifacts.Extensions)
	if err != nil {
		return err
	}
	env.logger.Debug().Int("entries", manifest.Len()).Bool("sorted", opts.sort).Msg("manifest generated")

	result := checksumResult{Entries: manifest.Entries}
	if result.Entries == nil {
		result.Entries = []checksum.Entry{}
	}

	if opts.print {
		if env.jsonOutput() {
			return env.finish(result, nil)
		}
		_, err := manifest.WriteTo(env.w)
		return err
	}

	path := filepath.Join(env.workDir, env.cfg.Checksum.File)
	if err := atomicfile.WriteFile(path, manifest.Bytes(), constants.FilePerm); err != nil {
		return errors.Wrap(err, "failed to write checksum manifest")
	}
	env.logger.Info().Str("path", path).Int("entries", manifest.Len()).Msg("checksum manifest written")

	result.Path = path
	result.Written = true
	if env.jsonOutput() {
		return env.finish(result, nil)
	}
	env.out.Success(fmt.Sprintf("Wrote %d checksums to %s", manifest.Len(), env.cfg.Checksum.File))
	return nil
}
