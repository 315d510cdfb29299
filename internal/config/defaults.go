package config

import (
	"github.com/mrz1836/relpack/internal/constants"
)

// Default publisher and validation commands.
const (
	DefaultSemanticCommand = "npx --yes semantic-release"
	DefaultGHCommand       = "gh"
	DefaultPatchCommand    = "patch --dry-run --force --silent -p1 -i {patch}"
)

// DefaultTokenEnvVars returns the token variables checked before publishing.
func DefaultTokenEnvVars() []string {
	return []string{"GITHUB_TOKEN", "GH_TOKEN"}
}

// DefaultConfig returns a new Config with the built-in defaults.
// These defaults are the base layer that config files, environment
// variables and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Artifacts: ArtifactsConfig{
			ConfigDir:     constants.ConfigDir,
			Extensions:    constants.ArtifactExtensions(),
			RequiredFiles: constants.RequiredFiles(),
			Readme:        constants.ReadmeFile,
		},
		Checksum: ChecksumConfig{
			File:    constants.ChecksumFile,
			Workers: 0,
			Sort:    true,
		},
		Package: PackageConfig{
			ArchivePrefix: constants.ArchivePrefix,
			NotesFile:     constants.ReleaseNotesFile,
			OutputDir:     "",
		},
		Trigger: TriggerConfig{
			MainBranch: constants.DefaultMainBranch,
			TagPattern: constants.DefaultTagPattern,
		},
		Publish: PublishConfig{
			SemanticCommand: DefaultSemanticCommand,
			GHCommand:       DefaultGHCommand,
			TokenEnvVars:    DefaultTokenEnvVars(),
			Timeout:         constants.DefaultPublishTimeout,
		},
		Validation: ValidationConfig{
			PatchCommand: DefaultPatchCommand,
			Timeout:      constants.DefaultPatchTimeout,
		},
	}
}
