package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrz1836/relpack/internal/checksum"
	"github.com/mrz1836/relpack/internal/pipeline"
	"github.com/mrz1836/relpack/internal/publish"
	"github.com/mrz1836/relpack/internal/trigger"
)

type releaseOptions struct {
	dryRun bool
	yes    bool
}

// AddReleaseCommand adds the release command to the root command.
func AddReleaseCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newReleaseCmd(flags))
}

func newReleaseCmd(flags *GlobalFlags) *cobra.Command {
	vf := &variantFlags{}
	opts := &releaseOptions{}

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Validate, checksum, package and publish in one run",
		Long: `Run the whole release pipeline for the resolved variant.

  push to main   semantic-release decides the version and uploads the archive
  push of v*     gh release create <tag> with generated notes
  anything else  validation only, nothing is written or published

The first fatal error stops the run. A repository token must be available in
GITHUB_TOKEN or GH_TOKEN before anything is published.

Examples:
  relpack release
  relpack release --tag v2.3.1 --yes
  relpack release --dry-run --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newCommandEnv(cmd, flags)
			if err != nil {
				return err
			}
			return runRelease(env, vf, opts)
		},
	}

	addVariantFlags(cmd, vf)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "stop after packaging, do not publish")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "publish without asking for confirmation")

	return cmd
}

// publishConfig maps the configuration onto publisher settings.
func publishConfig(env *commandEnv) publish.Config {
	return publish.Config{
		GHCommand:       env.cfg.Publish.GHCommand,
		SemanticCommand: env.cfg.Publish.SemanticCommand,
		TokenEnvVars:    env.cfg.Publish.TokenEnvVars,
		Timeout:         env.cfg.Publish.Timeout,
	}
}

// newReleaseRunner builds the pipeline for env. Extra options are applied last
// so tests can replace the publisher.
func newReleaseRunner(env *commandEnv, ro *releaseOptions, extra ...pipeline.Option) *pipeline.Runner {
	cfg := publishConfig(env)
	runnerOpts := []pipeline.Option{
		pipeline.WithValidator(newValidator(env)),
		pipeline.WithGenerator(checksum.NewGenerator(os.DirFS(env.workDir),
			checksum.WithWorkers(env.cfg.Checksum.Workers),
			checksum.WithSorted(env.cfg.Checksum.Sort),
		)),
		pipeline.WithPublisherFactory(func(v trigger.Variant) (publish.Publisher, error) {
			return publish.For(v, cfg)
		}),
	}
	if !env.jsonOutput() && !env.quiet {
		runnerOpts = append(runnerOpts, pipeline.WithProgress(env.out.Step))
	}
	if !ro.yes && !env.jsonOutput() && isInteractive() {
		runnerOpts = append(runnerOpts, pipeline.WithConfirm(confirmPublish))
	}
	return pipeline.New(env.workDir, append(runnerOpts, extra...)...)
}

func runRelease(env *commandEnv, vf *variantFlags, ro *releaseOptions, extra ...pipeline.Option) error {
	variant, err := resolveVariant(env.cfg, vf, os.Getenv)
	if err != nil {
		return err
	}
	env.logger.Info().Str("variant", variant.String()).Msg("release variant resolved")

	pkgOpts := packageOptions(env)
	runner := newReleaseRunner(env, ro, extra...)
	res, err := runner.Run(env.ctx, pipeline.Options{
		Variant:       variant,
		RequiredFiles: env.cfg.Artifacts.RequiredFiles,
		Extensions:    env.cfg.Artifacts.Extensions,
		ChecksumFile:  env.cfg.Checksum.File,
		ArchivePrefix: env.cfg.Package.ArchivePrefix,
		Package:       pkgOpts,
		DryRun:        ro.dryRun,
	})

	if env.jsonOutput() {
		return env.finish(res, err)
	}

	printValidationReport(env, res.Validation)
	if err != nil {
		return err
	}
	printReleaseSummary(env, res)
	return nil
}

func printReleaseSummary(env *commandEnv, res *pipeline.Result) {
	switch {
	case res.Package == nil:
		env.out.Success("Validation passed; this event does not publish a release")
	case res.DryRun:
		env.out.Success("Dry run complete: " + res.Package.ArchivePath)
	case res.Publish != nil && res.Publish.Skipped:
		env.out.Success("Nothing to release: " + res.Publish.Publisher + " found no releasable changes")
	case res.Publish != nil:
		msg := fmt.Sprintf("Published %s via %s", res.Package.ArchivePath, res.Publish.Publisher)
		if res.Publish.Version != "" {
			msg = fmt.Sprintf("Published %s via %s", res.Publish.Version, res.Publish.Publisher)
		}
		env.out.Success(msg)
		if res.Publish.URL != "" {
			env.out.URL(res.Publish.URL, res.Publish.Version)
		}
	}
}

// isInteractive reports whether a person can answer a prompt.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// createReleaseConfirmForm builds the confirmation form. Tests replace it.
//
//nolint:gochecknoglobals // Test injection point - standard Go testing pattern
var createReleaseConfirmForm = defaultCreateReleaseConfirmForm

// formRunner matches huh.Form's Run method.
type formRunner interface {
	Run() error
}

func defaultCreateReleaseConfirmForm(res *pipeline.Result, confirm *bool) formRunner {
	title := "Publish this release?"
	if res.Variant.Tag != "" {
		title = fmt.Sprintf("Publish release %s?", res.Variant.Tag)
	}
	description := ""
	if res.Package != nil {
		description = fmt.Sprintf("%s, %d files, %d bytes", res.Package.ArchivePath, len(res.Package.Files), res.Package.Size)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes, publish").
				Negative("No, cancel").
				Value(confirm),
		),
	)
}

// confirmPublish asks before the publisher runs.
func confirmPublish(_ context.Context, res *pipeline.Result) (bool, error) {
	var confirm bool
	if err := createReleaseConfirmForm(res, &confirm).Run(); err != nil {
		return false, err
	}
	return confirm, nil
}
