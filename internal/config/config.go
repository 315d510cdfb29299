// Package config provides configuration management for relpack with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (RELPACK_* prefix)
//  3. Project config (.relpack/config.yaml)
//  4. Global config (~/.relpack/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for relpack.
type Config struct {
	// Artifacts describes the working directory contract.
	Artifacts ArtifactsConfig `yaml:"artifacts" mapstructure:"artifacts" json:"artifacts"`

	// Checksum contains settings for manifest generation.
	Checksum ChecksumConfig `yaml:"checksum" mapstructure:"checksum" json:"checksum"`

	// Package contains settings for bundle and release notes output.
	Package PackageConfig `yaml:"package" mapstructure:"package" json:"package"`

	// Trigger contains the predicates that select a release variant.
	Trigger TriggerConfig `yaml:"trigger" mapstructure:"trigger" json:"trigger"`

	// Publish contains settings for the external publishers.
	Publish PublishConfig `yaml:"publish" mapstructure:"publish" json:"publish"`

	// Validation contains settings for the patch dry-run check.
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation" json:"validation"`
}

// ArtifactsConfig describes which files relpack treats as release artifacts.
type ArtifactsConfig struct {
	// ConfigDir holds the XML configuration files.
	// Default: "configs"
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir" json:"config_dir"`

	// Extensions lists the artifact file extensions, leading dot included.
	// Default: [".patch", ".xml", ".rom", ".dat"]
	Extensions []string `yaml:"extensions" mapstructure:"extensions" json:"extensions"`

	// RequiredFiles must exist for validation to pass.
	// Default: ["README.md", "configs/samuil1337.xml"]
	RequiredFiles []string `yaml:"required_files" mapstructure:"required_files" json:"required_files"`

	// Readme is shipped in every bundle.
	// Default: "README.md"
	Readme string `yaml:"readme" mapstructure:"readme" json:"readme"`
}

// ChecksumConfig contains settings for manifest generation.
type ChecksumConfig struct {
	// File is the manifest path relative to the working directory.
	// Default: "checksums.txt"
	File string `yaml:"file" mapstructure:"file" json:"file"`

	// Workers bounds concurrent hashing. Zero selects the number of CPUs.
	Workers int `yaml:"workers" mapstructure:"workers" json:"workers"`

	// Sort orders manifest entries by path. When false, entries follow
	// enumeration order.
	// Default: true
	Sort bool `yaml:"sort" mapstructure:"sort" json:"sort"`
}

// PackageConfig contains settings for bundle output.
type PackageConfig struct {
	// ArchivePrefix starts every archive name.
	// Default: "qemu-anti-detection"
	ArchivePrefix string `yaml:"archive_prefix" mapstructure:"archive_prefix" json:"archive_prefix"`

	// NotesFile is the release notes file name.
	// Default: "RELEASE_NOTES.md"
	NotesFile string `yaml:"notes_file" mapstructure:"notes_file" json:"notes_file"`

	// OutputDir receives the archive and the notes. Empty means the working directory.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir" json:"output_dir"`
}

// TriggerConfig contains the release variant predicates.
type TriggerConfig struct {
	// MainBranch is the branch whose pushes produce a branch release.
	// Default: "main"
	MainBranch string `yaml:"main_branch" mapstructure:"main_branch" json:"main_branch"`

	// TagPattern is the glob pushed tags must match to produce a tag release.
	// Default: "v*"
	TagPattern string `yaml:"tag_pattern" mapstructure:"tag_pattern" json:"tag_pattern"`
}

// PublishConfig contains settings for the external publishers.
type PublishConfig struct {
	// SemanticCommand runs semantic-release for branch releases.
	// Default: "npx --yes semantic-release"
	SemanticCommand string `yaml:"semantic_command" mapstructure:"semantic_command" json:"semantic_command"`

	// GHCommand is the GitHub CLI binary used for tag releases.
	// Default: "gh"
	GHCommand string `yaml:"gh_command" mapstructure:"gh_command" json:"gh_command"`

	// TokenEnvVars are checked in order for a repository write token.
	// Only the variable names live in config; token values are never read from files.
	// Default: ["GITHUB_TOKEN", "GH_TOKEN"]
	TokenEnvVars []string `yaml:"token_env_vars" mapstructure:"token_env_vars" json:"token_env_vars"`

	// Timeout bounds one publisher invocation.
	// Default: 10m
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`
}

// ValidationConfig contains settings for the patch dry-run check.
type ValidationConfig struct {
	// PatchCommand is run through sh -c; "{patch}" is replaced by the quoted patch path.
	// Default: "patch --dry-run --force --silent -p1 -i {patch}"
	PatchCommand string `yaml:"patch_command" mapstructure:"patch_command" json:"patch_command"`

	// Timeout bounds a single patch dry-run.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`
}
