package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/relpack/internal/packager"
	"github.com/mrz1836/relpack/internal/trigger"
)

// AddPackageCommand adds the package command to the root command.
func AddPackageCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newPackageCmd(flags))
}

func newPackageCmd(flags *GlobalFlags) *cobra.Command {
	vf := &variantFlags{}
	var outputDir string

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Build the release archive and release notes",
		Long: `Stage configs/, every patch, ROM and data file, README.md and checksums.txt
into a tar.gz archive and render RELEASE_NOTES.md next to it.

checksums.txt must already exist; run 'relpack checksum' first. The archive
is named after the release variant:
  branch  qemu-anti-detection-release.tar.gz
  tag     qemu-anti-detection-<tag>.tar.gz

Without --variant or --tag the variant is resolved from GITHUB_EVENT_NAME
and GITHUB_REF; events that do not release are packaged as a branch build.

Examples:
  relpack package
  relpack package --tag v2.3.1 --output-dir dist`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newCommandEnv(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output-dir") {
				env.cfg.Package.OutputDir = outputDir
			}
			return runPackage(env, vf)
		},
	}

	addVariantFlags(cmd, vf)
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory receiving the archive and notes (default package.output_dir)")

	return cmd
}

// packageOptions maps the configuration onto packager options.
func packageOptions(env *commandEnv) packager.Options {
	return packager.Options{
		Inputs: packager.Inputs{
			ConfigDir:    env.cfg.Artifacts.ConfigDir,
			Extensions:   packager.BundleExtensions(env.cfg.Artifacts.Extensions),
			Readme:       env.cfg.Artifacts.Readme,
			ChecksumFile: env.cfg.Checksum.File,
		},
		OutputDir: env.cfg.Package.OutputDir,
		NotesFile: env.cfg.Package.NotesFile,
	}
}

func runPackage(env *commandEnv, vf *variantFlags) error {
	variant, err := resolveVariant(env.cfg, vf, os.Getenv)
	if err != nil {
		return err
	}
	if !variant.Publishes() {
		env.logger.Debug().Msg("event does not release, packaging as a branch build")
		variant = trigger.BranchRelease(env.cfg.Trigger.MainBranch)
	}

	name, err := variant.ArchiveName(env.cfg.Package.ArchivePrefix)
	if err != nil {
		return err
	}

	opts := packageOptions(env)
	opts.ArchiveName = name

	res, err := packager.New(env.workDir).Package(env.ctx, opts)
	if err != nil {
		return err
	}

	if env.jsonOutput() {
		return env.finish(res, nil)
	}
	env.out.Success(fmt.Sprintf("Packaged %d files into %s (%d bytes)", len(res.Files), res.ArchivePath, res.Size))
	env.out.Info("Release notes: " + res.NotesPath)
	return nil
}
