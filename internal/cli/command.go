package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/relpack/internal/config"
	"github.com/mrz1836/relpack/internal/errors"
	"github.com/mrz1836/relpack/internal/trigger"
	"github.com/mrz1836/relpack/internal/tui"
)

// commandEnv is what every subcommand needs: the resolved working directory,
// the effective configuration, the logger and the output writer.
type commandEnv struct {
	ctx     context.Context //nolint:containedctx // scoped to one command invocation
	logger  zerolog.Logger
	w       io.Writer
	out     tui.Output
	cfg     *config.Config
	workDir string
	format  string
	quiet   bool
}

// newCommandEnv resolves --dir and loads the configuration layered on top of it.
func newCommandEnv(cmd *cobra.Command, flags *GlobalFlags) (*commandEnv, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(flags.Dir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(ctx, workDir)
	if err != nil {
		return nil, errors.NewExitCode2Error(fmt.Errorf("failed to load configuration: %w", err))
	}

	w := cmd.OutOrStdout()
	return &commandEnv{
		ctx:     ctx,
		logger:  *zerolog.Ctx(ctx),
		w:       w,
		out:     tui.NewOutput(w, flags.Output),
		cfg:     cfg,
		workDir: workDir,
		format:  flags.Output,
		quiet:   flags.Quiet,
	}, nil
}

// jsonOutput reports whether results should be written as JSON.
func (e *commandEnv) jsonOutput() bool {
	return e.format == OutputJSON
}

// finish writes a JSON result, if selected, and marks a failure as already
// reported so Execute does not print it a second time.
func (e *commandEnv) finish(result any, err error) error {
	if !e.jsonOutput() {
		return err
	}
	if encErr := e.out.JSON(result); encErr != nil {
		return encErr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, err)
	}
	return nil
}

// resolveWorkDir turns --dir into an absolute path to an existing directory.
func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", errors.NewExitCode2Error(fmt.Errorf("%w: %s", errors.ErrWorkDirInvalid, abs))
	}
	return abs, nil
}

// variantFlags select a release variant explicitly instead of from the
// GitHub Actions environment.
type variantFlags struct {
	Variant string
	Tag     string
	Branch  string
	Event   string
	Ref     string
}

// addVariantFlags registers the variant selection flags on cmd.
func addVariantFlags(cmd *cobra.Command, vf *variantFlags) {
	cmd.Flags().StringVar(&vf.Variant, "variant", "", "release variant (branch|tag|none); default is resolved from GITHUB_EVENT_NAME and GITHUB_REF")
	cmd.Flags().StringVar(&vf.Tag, "tag", "", "release tag for the tag variant, e.g. v2.3.1 (implies --variant tag)")
	cmd.Flags().StringVar(&vf.Branch, "branch", "", "branch for the branch variant (default trigger.main_branch)")
	cmd.Flags().StringVar(&vf.Event, "event", "", "event name overriding GITHUB_EVENT_NAME")
	cmd.Flags().StringVar(&vf.Ref, "ref", "", "git ref overriding GITHUB_REF, e.g. refs/tags/v2.3.1")
}

// explicit reports whether the variant was given on the command line.
func (vf *variantFlags) explicit() bool {
	return vf.Variant != "" || vf.Tag != ""
}

// resolveVariant picks the release variant: explicit flags first, then the
// event from the environment (optionally overridden by --event and --ref).
func resolveVariant(cfg *config.Config, vf *variantFlags, getenv func(string) string) (trigger.Variant, error) {
	rules := trigger.Rules{MainBranch: cfg.Trigger.MainBranch, TagPattern: cfg.Trigger.TagPattern}

	if vf.explicit() {
		kind := vf.Variant
		if kind == "" {
			kind = string(trigger.KindTag)
		}
		branch := vf.Branch
		if branch == "" {
			branch = rules.MainBranch
		}
		return trigger.Parse(kind, branch, vf.Tag)
	}

	ev := trigger.FromEnv(getenv)
	if vf.Event != "" {
		ev.Name = vf.Event
	}
	if vf.Ref != "" {
		ev.Ref = vf.Ref
	}
	return trigger.Resolve(ev, rules)
}
