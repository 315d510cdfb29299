package config

import (
	"path"
	"strings"

	"github.com/mrz1836/relpack/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - artifact extensions must be non-empty and start with a dot
//   - the readme and checksum file must be named
//   - checksum workers cannot be negative
//   - the archive prefix must not contain a path separator
//   - the main branch must be named and the tag pattern must be a valid glob
//   - publisher commands must be set and timeouts must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateArtifactsConfig(&cfg.Artifacts); err != nil {
		return err
	}
	if err := validateChecksumConfig(&cfg.Checksum); err != nil {
		return err
	}
	if err := validatePackageConfig(&cfg.Package); err != nil {
		return err
	}
	if err := validateTriggerConfig(&cfg.Trigger); err != nil {
		return err
	}
	if err := validatePublishConfig(&cfg.Publish); err != nil {
		return err
	}
	return validateValidationConfig(&cfg.Validation)
}

func validateArtifactsConfig(cfg *ArtifactsConfig) error {
	if len(cfg.Extensions) == 0 {
		return errors.Wrap(errors.ErrConfigInvalidArtifacts,
			"artifacts.extensions must not be empty")
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.Wrapf(errors.ErrConfigInvalidArtifacts,
				"artifacts.extensions entries must start with a dot, got %q", ext)
		}
	}
	if cfg.Readme == "" {
		return errors.Wrap(errors.ErrConfigInvalidArtifacts,
			"artifacts.readme must not be empty")
	}
	return nil
}

func validateChecksumConfig(cfg *ChecksumConfig) error {
	if cfg.File == "" {
		return errors.Wrap(errors.ErrConfigInvalidChecksum,
			"checksum.file must not be empty")
	}
	if cfg.Workers < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidChecksum,
			"checksum.workers cannot be negative, got %d", cfg.Workers)
	}
	return nil
}

func validatePackageConfig(cfg *PackageConfig) error {
	if cfg.ArchivePrefix == "" || strings.ContainsAny(cfg.ArchivePrefix, `/\`) {
		return errors.Wrapf(errors.ErrConfigInvalidPackage,
			"package.archive_prefix must be a plain file name prefix, got %q", cfg.ArchivePrefix)
	}
	if cfg.NotesFile == "" || strings.ContainsAny(cfg.NotesFile, `/\`) {
		return errors.Wrapf(errors.ErrConfigInvalidPackage,
			"package.notes_file must be a plain file name, got %q", cfg.NotesFile)
	}
	return nil
}

func validateTriggerConfig(cfg *TriggerConfig) error {
	if cfg.MainBranch == "" {
		return errors.Wrap(errors.ErrConfigInvalidTrigger,
			"trigger.main_branch must not be empty")
	}
	if _, err := path.Match(cfg.TagPattern, ""); err != nil || cfg.TagPattern == "" {
		return errors.Wrapf(errors.ErrConfigInvalidTrigger,
			"trigger.tag_pattern must be a valid glob, got %q", cfg.TagPattern)
	}
	return nil
}

func validatePublishConfig(cfg *PublishConfig) error {
	if strings.TrimSpace(cfg.SemanticCommand) == "" {
		return errors.Wrap(errors.ErrConfigInvalidPublish,
			"publish.semantic_command must not be empty")
	}
	if strings.TrimSpace(cfg.GHCommand) == "" {
		return errors.Wrap(errors.ErrConfigInvalidPublish,
			"publish.gh_command must not be empty")
	}
	if len(cfg.TokenEnvVars) == 0 {
		return errors.Wrap(errors.ErrConfigInvalidPublish,
			"publish.token_env_vars must not be empty")
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidPublish,
			"publish.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}

func validateValidationConfig(cfg *ValidationConfig) error {
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidValidation,
			"validation.timeout must be positive, got %s", cfg.Timeout)
	}
	if !strings.Contains(cfg.PatchCommand, "{patch}") {
		return errors.Wrap(errors.ErrConfigInvalidValidation,
			"validation.patch_command must contain the {patch} placeholder")
	}
	return nil
}
