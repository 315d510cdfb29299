package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/relpack/internal/errors"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "RELPACK"

// newViperInstance creates a new Viper instance with standard relpack configuration.
// This includes environment variable prefix (RELPACK_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (RELPACK_* prefix)
//  2. Project config (<workDir>/.relpack/config.yaml)
//  3. Global config (~/.relpack/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead. Missing config
// files are not an error.
func Load(ctx context.Context, workDir string) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v, workDir); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("artifacts.config_dir", cfg.Artifacts.ConfigDir).
		Strs("artifacts.extensions", cfg.Artifacts.Extensions).
		Bool("checksum.sort", cfg.Checksum.Sort).
		Dur("publish.timeout", cfg.Publish.Timeout).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.relpack/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil || !fileExists(globalConfigPath) {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load the project config file (.relpack/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper, workDir string) error {
	projectConfigPath := ProjectConfigPath(workDir)
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, workDir string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, workDir)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// projectConfigPath has higher priority than globalConfigPath; either may be
// empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("artifacts.config_dir", d.Artifacts.ConfigDir)
	v.SetDefault("artifacts.extensions", d.Artifacts.Extensions)
	v.SetDefault("artifacts.required_files", d.Artifacts.RequiredFiles)
	v.SetDefault("artifacts.readme", d.Artifacts.Readme)

	v.SetDefault("checksum.file", d.Checksum.File)
	v.SetDefault("checksum.workers", d.Checksum.Workers)
	v.SetDefault("checksum.sort", d.Checksum.Sort)

	v.SetDefault("package.archive_prefix", d.Package.ArchivePrefix)
	v.SetDefault("package.notes_file", d.Package.NotesFile)
	v.SetDefault("package.output_dir", d.Package.OutputDir)

	v.SetDefault("trigger.main_branch", d.Trigger.MainBranch)
	v.SetDefault("trigger.tag_pattern", d.Trigger.TagPattern)

	v.SetDefault("publish.semantic_command", d.Publish.SemanticCommand)
	v.SetDefault("publish.gh_command", d.Publish.GHCommand)
	v.SetDefault("publish.token_env_vars", d.Publish.TokenEnvVars)
	v.SetDefault("publish.timeout", d.Publish.Timeout.String())

	v.SetDefault("validation.patch_command", d.Validation.PatchCommand)
	v.SetDefault("validation.timeout", d.Validation.Timeout.String())
}

// applyOverrides merges non-zero override values into the config.
//
// IMPORTANT: Checksum.Sort cannot be overridden to false here because the
// zero value of bool is false. The CLI applies that flag directly when it
// was changed.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Artifacts.ConfigDir != "" {
		cfg.Artifacts.ConfigDir = overrides.Artifacts.ConfigDir
	}
	if len(overrides.Artifacts.Extensions) > 0 {
		cfg.Artifacts.Extensions = overrides.Artifacts.Extensions
	}
	if len(overrides.Artifacts.RequiredFiles) > 0 {
		cfg.Artifacts.RequiredFiles = overrides.Artifacts.RequiredFiles
	}

	if overrides.Checksum.File != "" {
		cfg.Checksum.File = overrides.Checksum.File
	}
	if overrides.Checksum.Workers != 0 {
		cfg.Checksum.Workers = overrides.Checksum.Workers
	}

	if overrides.Package.ArchivePrefix != "" {
		cfg.Package.ArchivePrefix = overrides.Package.ArchivePrefix
	}
	if overrides.Package.OutputDir != "" {
		cfg.Package.OutputDir = overrides.Package.OutputDir
	}
	if overrides.Package.NotesFile != "" {
		cfg.Package.NotesFile = overrides.Package.NotesFile
	}

	if overrides.Trigger.MainBranch != "" {
		cfg.Trigger.MainBranch = overrides.Trigger.MainBranch
	}
	if overrides.Trigger.TagPattern != "" {
		cfg.Trigger.TagPattern = overrides.Trigger.TagPattern
	}

	if overrides.Publish.Timeout != 0 {
		cfg.Publish.Timeout = overrides.Publish.Timeout
	}
	if overrides.Validation.Timeout != 0 {
		cfg.Validation.Timeout = overrides.Validation.Timeout
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// mapstructure converts duration strings and comma-separated lists.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
