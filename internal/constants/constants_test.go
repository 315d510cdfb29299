package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArtifactExtensions(t *testing.T) {
	exts := ArtifactExtensions()
	assert.Equal(t, []string{".patch", ".xml", ".rom", ".dat"}, exts)

	exts[0] = ".mutated"
	assert.Equal(t, ".patch", ArtifactExtensions()[0], "callers must get a fresh slice")
}

func TestRequiredFiles(t *testing.T) {
	assert.ElementsMatch(t, []string{"README.md", "configs/samuil1337.xml"}, RequiredFiles())
}

func TestArchiveNaming(t *testing.T) {
	assert.Equal(t, "qemu-anti-detection-release.tar.gz", ArchivePrefix+"-"+BranchArchiveSuffix+ArchiveExt)
}

func TestTimeouts(t *testing.T) {
	assert.Less(t, DefaultPatchTimeout, DefaultPublishTimeout)
	assert.GreaterOrEqual(t, DefaultPublishTimeout, time.Minute)
}
