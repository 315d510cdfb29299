package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/relpack/internal/publish"
	"github.com/mrz1836/relpack/internal/trigger"
)

// AddTriggerCommand adds the trigger command to the root command.
func AddTriggerCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newTriggerCmd(flags))
}

func newTriggerCmd(flags *GlobalFlags) *cobra.Command {
	vf := &variantFlags{}

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Show which release the current event selects",
		Long: `Resolve the release variant from GITHUB_EVENT_NAME and GITHUB_REF (or the
--event and --ref flags) and print the archive name and publisher it selects.

Examples:
  relpack trigger
  relpack trigger --event push --ref refs/tags/v2.3.1
  GITHUB_REF=refs/heads/main relpack trigger --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newCommandEnv(cmd, flags)
			if err != nil {
				return err
			}
			return runTrigger(env, vf)
		},
	}

	addVariantFlags(cmd, vf)

	return cmd
}

// triggerResult is the JSON shape of the trigger command.
type triggerResult struct {
	Variant   trigger.Summary `json:"variant"`
	Publishes bool            `json:"publishes"`
	Archive   string          `json:"archive,omitempty"`
	Publisher string          `json:"publisher,omitempty"`
}

func runTrigger(env *commandEnv, vf *variantFlags) error {
	variant, err := resolveVariant(env.cfg, vf, os.Getenv)
	if err != nil {
		return err
	}

	result := triggerResult{Variant: variant.Summary(), Publishes: variant.Publishes()}
	if variant.Publishes() {
		if result.Archive, err = variant.ArchiveName(env.cfg.Package.ArchivePrefix); err != nil {
			return err
		}
		pub, err := publish.For(variant, publishConfig(env))
		if err != nil {
			return err
		}
		result.Publisher = pub.Name()
	}

	if env.jsonOutput() {
		return env.finish(result, nil)
	}

	env.out.Info("Variant: " + variant.String())
	if !variant.Publishes() {
		env.out.Info("This event runs validation only")
		return nil
	}
	env.out.Info("Archive: " + result.Archive)
	env.out.Info(fmt.Sprintf("Publisher: %s", result.Publisher))
	return nil
}
