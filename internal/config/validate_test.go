package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/relpack/internal/errors"
)

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(DefaultConfig()))
}

func TestValidate_Nil(t *testing.T) {
	require.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		sentinel error
		contains string
	}{
		{
			name:     "empty extensions",
			mutate:   func(c *Config) { c.Artifacts.Extensions = nil },
			sentinel: errors.ErrConfigInvalidArtifacts,
			contains: "artifacts.extensions",
		},
		{
			name:     "extension without dot",
			mutate:   func(c *Config) { c.Artifacts.Extensions = []string{"patch"} },
			sentinel: errors.ErrConfigInvalidArtifacts,
			contains: `"patch"`,
		},
		{
			name:     "empty readme",
			mutate:   func(c *Config) { c.Artifacts.Readme = "" },
			sentinel: errors.ErrConfigInvalidArtifacts,
			contains: "artifacts.readme",
		},
		{
			name:     "empty checksum file",
			mutate:   func(c *Config) { c.Checksum.File = "" },
			sentinel: errors.ErrConfigInvalidChecksum,
			contains: "checksum.file",
		},
		{
			name:     "negative workers",
			mutate:   func(c *Config) { c.Checksum.Workers = -1 },
			sentinel: errors.ErrConfigInvalidChecksum,
			contains: "checksum.workers",
		},
		{
			name:     "prefix with separator",
			mutate:   func(c *Config) { c.Package.ArchivePrefix = "a/b" },
			sentinel: errors.ErrConfigInvalidPackage,
			contains: "package.archive_prefix",
		},
		{
			name:     "notes file with separator",
			mutate:   func(c *Config) { c.Package.NotesFile = "docs/NOTES.md" },
			sentinel: errors.ErrConfigInvalidPackage,
			contains: "package.notes_file",
		},
		{
			name:     "empty main branch",
			mutate:   func(c *Config) { c.Trigger.MainBranch = "" },
			sentinel: errors.ErrConfigInvalidTrigger,
			contains: "trigger.main_branch",
		},
		{
			name:     "bad tag pattern",
			mutate:   func(c *Config) { c.Trigger.TagPattern = "[" },
			sentinel: errors.ErrConfigInvalidTrigger,
			contains: "trigger.tag_pattern",
		},
		{
			name:     "empty gh command",
			mutate:   func(c *Config) { c.Publish.GHCommand = " " },
			sentinel: errors.ErrConfigInvalidPublish,
			contains: "publish.gh_command",
		},
		{
			name:     "no token variables",
			mutate:   func(c *Config) { c.Publish.TokenEnvVars = nil },
			sentinel: errors.ErrConfigInvalidPublish,
			contains: "publish.token_env_vars",
		},
		{
			name:     "zero publish timeout",
			mutate:   func(c *Config) { c.Publish.Timeout = 0 },
			sentinel: errors.ErrConfigInvalidPublish,
			contains: "publish.timeout",
		},
		{
			name:     "patch command without placeholder",
			mutate:   func(c *Config) { c.Validation.PatchCommand = "patch --dry-run" },
			sentinel: errors.ErrConfigInvalidValidation,
			contains: "{patch}",
		},
		{
			name:     "negative validation timeout",
			mutate:   func(c *Config) { c.Validation.Timeout = -1 },
			sentinel: errors.ErrConfigInvalidValidation,
			contains: "validation.timeout",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := Validate(cfg)
			require.ErrorIs(t, err, tc.sentinel)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}
