package artifact_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/relpack/internal/artifact"
	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/domain"
	relerrors "github.com/mrz1836/relpack/internal/errors"
)

func testTree() fstest.MapFS {
	return fstest.MapFS{
		"README.md":                {Data: []byte("# readme\n")},
		"qemu-8.1.0.patch":         {Data: []byte("--- a\n+++ b\n")},
		"kvm.patch":                {Data: []byte("--- a\n+++ b\n")},
		"bios.rom":                 {Data: []byte{0x55, 0xAA}},
		"smbios.dat":               {Data: []byte{0x01}},
		"configs/samuil1337.xml":   {Data: []byte("<domain/>")},
		"configs/extra/net.xml":    {Data: []byte("<net/>")},
		"configs/notes.txt":        {Data: []byte("notes")},
		"configs/.overrides/x.xml": {Data: []byte("<x/>")},
		".git/config.xml":          {Data: []byte("<x/>")},
		"docs/old.patch":           {Data: []byte("--- a\n")},
	}
}

func TestLister_Walk(t *testing.T) {
	l := artifact.NewLister(testTree(), artifact.WithSkipHidden(true))

	files, err := l.Walk(context.Background(), ".")
	require.NoError(t, err)

	paths := artifact.Paths(files)
	assert.NotContains(t, paths, ".git/config.xml", "hidden directories are skipped")
	assert.IsIncreasing(t, paths, "walk order is lexical")
	assert.Contains(t, paths, "configs/extra/net.xml")
	assert.Contains(t, paths, "configs/.overrides/x.xml", "only top-level hidden directories are skipped")
	assert.Contains(t, paths, "README.md")
}

func TestLister_Walk_HiddenDirectories(t *testing.T) {
	l := artifact.NewLister(testTree())

	all, err := l.Walk(context.Background(), ".")
	require.NoError(t, err)
	assert.Contains(t, artifact.Paths(all), ".git/config.xml")

	configs, err := l.Walk(context.Background(), "configs")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"configs/.overrides/x.xml",
		"configs/extra/net.xml",
		"configs/notes.txt",
		"configs/samuil1337.xml",
	}, artifact.Paths(configs))

	skipped, err := artifact.NewLister(testTree(), artifact.WithSkipHidden(true)).Walk(context.Background(), "configs")
	require.NoError(t, err)
	assert.Equal(t, artifact.Paths(configs), artifact.Paths(skipped), "hidden directories below the walk root are kept")
}

func TestLister_Walk_MissingRoot(t *testing.T) {
	l := artifact.NewLister(fstest.MapFS{"README.md": {Data: []byte("x")}})

	files, err := l.Walk(context.Background(), "configs")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLister_Walk_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := artifact.NewLister(testTree()).Walk(ctx, ".")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLister_Match(t *testing.T) {
	l := artifact.NewLister(testTree(), artifact.WithSkipHidden(true))

	files, err := l.Match(context.Background(), ".", constants.ArtifactExtensions())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"bios.rom",
		"configs/.overrides/x.xml",
		"configs/extra/net.xml",
		"configs/samuil1337.xml",
		"docs/old.patch",
		"kvm.patch",
		"qemu-8.1.0.patch",
		"smbios.dat",
	}, artifact.Paths(files))

	for _, f := range files {
		assert.NotEqual(t, domain.ClassOther, f.Class, f.Path)
	}
}

func TestLister_Root(t *testing.T) {
	l := artifact.NewLister(testTree())

	patches, err := l.Root(constants.ExtPatch)
	require.NoError(t, err)
	assert.Equal(t, []string{"kvm.patch", "qemu-8.1.0.patch"}, artifact.Paths(patches))

	none, err := l.Root(".iso")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLister_Exists(t *testing.T) {
	l := artifact.NewLister(testTree())

	ok, err := l.Exists("configs/samuil1337.xml")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Exists("configs/missing.xml")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilterByExtension(t *testing.T) {
	files := []domain.ArtifactFile{
		domain.NewArtifactFile("a.patch"),
		domain.NewArtifactFile("b.PATCH"),
		domain.NewArtifactFile("c.xml"),
	}

	assert.Equal(t, []string{"a.patch"}, artifact.Paths(artifact.FilterByExtension(files, []string{".patch"})))
	assert.Empty(t, artifact.FilterByExtension(files, nil))
}

func TestClean(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"simple", "README.md", "README.md", false},
		{"nested", "configs/./a.xml", "configs/a.xml", false},
		{"backslashes", `configs\a.xml`, "configs/a.xml", false},
		{"empty", "", "", true},
		{"absolute", "/etc/passwd", "", true},
		{"traversal", "../secret", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := artifact.Clean(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, relerrors.ErrPathTraversal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
