package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// githubEnvVars are cleared so tests behave the same inside GitHub Actions.
//
//nolint:gochecknoglobals // test fixture
var githubEnvVars = []string{"GITHUB_EVENT_NAME", "GITHUB_REF", "GITHUB_TOKEN", "GH_TOKEN"}

// isolateEnv points HOME and RELPACK_HOME at a temp dir and clears the
// GitHub Actions variables.
func isolateEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(HomeEnvVar, filepath.Join(home, ".relpack"))
	t.Setenv("NO_COLOR", "1")
	for _, name := range githubEnvVars {
		t.Setenv(name, "")
	}
	t.Cleanup(CloseLogFile)
	return home
}

// writeFiles creates files under dir, creating parent directories.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

// releaseTree writes a valid working directory and returns its path. The
// project config swaps the patch dry-run for a file test so no patch binary
// is needed.
func releaseTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"README.md":                 "# qemu-anti-detection\n",
		"configs/samuil1337.xml":    `<?xml version="1.0"?><config><cpu vendor="GenuineIntel"/></config>`,
		"configs/extra/smbios.xml":  `<smbios><bios vendor="American Megatrends"/></smbios>`,
		"qemu-8.1.0.patch":          "--- a/hw/i386/pc.c\n+++ b/hw/i386/pc.c\n",
		"bios.rom":                  "\x55\xaa rom",
		"edid.dat":                  "edid",
		".relpack/config.yaml":      "validation:\n  patch_command: \"test -f {patch}\"\n",
		".git/objects/ignored.dat":  "hidden",
		"notes/not-an-artifact.txt": "ignored",
	})
	return dir
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{Version: "test"})
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}
