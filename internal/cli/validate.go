package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/relpack/internal/validation"
)

// AddValidateCommand adds the validate command to the root command.
func AddValidateCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newValidateCmd(flags))
}

func newValidateCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check patches, XML configurations and required files",
		Long: `Run the pre-packaging checks over the working directory.

  1. Patches  - dry-run every *.patch at the root (advisory, never fails)
  2. XML      - every configs/**/*.xml must be well-formed (fatal)
  3. Required - README.md and configs/samuil1337.xml must exist (fatal)
  4. Versions - list the version parsed from each patch file name

The XML check walks the config directory recursively. Every subdirectory is
included, hidden ones such as configs/.overrides/ too, so a malformed file
anywhere below configs/ fails validation.

Examples:
  relpack validate
  relpack validate --dir ./release --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newCommandEnv(cmd, flags)
			if err != nil {
				return err
			}
			return runValidate(env)
		},
	}
}

// newValidator builds the validator configured for env.
func newValidator(env *commandEnv, opts ...validation.Option) *validation.Validator {
	checker := validation.NewCommandPatchChecker(nil, env.cfg.Validation.PatchCommand, env.cfg.Validation.Timeout)
	base := []validation.Option{
		validation.WithConfigDir(env.cfg.Artifacts.ConfigDir),
		validation.WithPatchChecker(checker),
	}
	return validation.New(env.workDir, append(base, opts...)...)
}

func runValidate(env *commandEnv) error {
	var opts []validation.Option
	if !env.jsonOutput() && !env.quiet {
		opts = append(opts, validation.WithProgress(env.out.Step))
	}

	report, err := newValidator(env, opts...).Run(env.ctx, env.cfg.Artifacts.RequiredFiles)
	if env.jsonOutput() {
		return env.finish(report, err)
	}

	printValidationReport(env, report)
	if err != nil {
		return err
	}
	env.out.Success(fmt.Sprintf("Validation passed (%d XML files, %d patches)", len(report.XML), len(report.Patches)))
	return nil
}

// printValidationReport prints advisory patch failures and the version table.
func printValidationReport(env *commandEnv, report *validation.Report) {
	if report == nil {
		return
	}
	for _, p := range report.Patches {
		if !p.OK() {
			env.out.Warning(fmt.Sprintf("%s: %s", p.Path, p.Reason))
		}
	}
	if len(report.Versions) == 0 || env.quiet {
		return
	}
	rows := make([][]string, 0, len(report.Versions))
	for _, v := range report.Versions {
		rows = append(rows, []string{v.Path, v.Version})
	}
	env.out.Table([]string{"PATCH", "VERSION"}, rows)
}
