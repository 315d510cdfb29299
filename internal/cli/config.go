package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/relpack/internal/config"
)

// AddConfigCommand adds the config command and its subcommands.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect relpack configuration",
		Long: `Inspect the layered relpack configuration.

Precedence (highest first): flags, RELPACK_* environment variables,
.relpack/config.yaml in the working directory, ~/.relpack/config.yaml,
built-in defaults.`,
	}
	configCmd.AddCommand(newConfigShowCmd(flags))
	root.AddCommand(configCmd)
}

func newConfigShowCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as YAML, or as JSON with --output json.

Examples:
  relpack config show
  RELPACK_PUBLISH_TIMEOUT=20m relpack config show
  relpack config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newCommandEnv(cmd, flags)
			if err != nil {
				return err
			}
			return runConfigShow(env)
		},
	}
}

// configShowResult is the JSON shape of config show.
type configShowResult struct {
	GlobalPath  string         `json:"global_path,omitempty"`
	ProjectPath string         `json:"project_path"`
	Config      *config.Config `json:"config"`
}

func runConfigShow(env *commandEnv) error {
	globalPath, err := config.GlobalConfigPath()
	if err != nil {
		env.logger.Debug().Err(err).Msg("global config path unavailable")
	}
	projectPath := config.ProjectConfigPath(env.workDir)

	if env.jsonOutput() {
		return env.finish(configShowResult{
			GlobalPath:  globalPath,
			ProjectPath: projectPath,
			Config:      env.cfg,
		}, nil)
	}

	data, err := yaml.Marshal(env.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if globalPath != "" {
		_, _ = fmt.Fprintf(env.w, "# global:  %s\n", globalPath)
	}
	_, _ = fmt.Fprintf(env.w, "# project: %s\n", projectPath)
	_, err = env.w.Write(data)
	return err
}
