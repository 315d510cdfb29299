// Package packager stages the release-ready files of a validated working
// directory, compresses them into a tar.gz bundle and renders release notes
// that list the bundle contents and embed the checksum manifest.
package packager

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/mrz1836/relpack/internal/artifact"
	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/errors"
)

// Inputs names the files that make up a release bundle.
type Inputs struct {
	// ConfigDir is copied recursively. A missing directory is tolerated.
	ConfigDir string `json:"config_dir"`
	// Extensions selects optional artifacts at the top of the working directory.
	Extensions []string `json:"extensions"`
	// Readme and ChecksumFile are mandatory.
	Readme       string `json:"readme"`
	ChecksumFile string `json:"checksum_file"`
}

// DefaultInputs returns the standard bundle projection: configs/, the root
// level patch, ROM and data files, README.md and checksums.txt.
func DefaultInputs() Inputs {
	return Inputs{
		ConfigDir:    constants.ConfigDir,
		Extensions:   BundleExtensions(constants.ArtifactExtensions()),
		Readme:       constants.ReadmeFile,
		ChecksumFile: constants.ChecksumFile,
	}
}

// BundleExtensions drops the XML extension from exts. XML files ship inside
// the config directory, not from the top level.
func BundleExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext != constants.ExtXML {
			out = append(out, ext)
		}
	}
	return out
}

// Stage returns the relative paths of every file that belongs in the bundle,
// sorted lexically. Mandatory inputs are checked first so a missing README or
// manifest fails before anything is written.
func Stage(ctx context.Context, fsys fs.FS, in Inputs) ([]string, error) {
	lister := artifact.NewLister(fsys)

	for _, name := range []string{in.Readme, in.ChecksumFile} {
		if name == "" {
			return nil, fmt.Errorf("%w: mandatory input not configured", errors.ErrBundleInputMissing)
		}
		info, err := fs.Stat(fsys, name)
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errors.ErrBundleInputMissing, name)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", name)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s is not a regular file", errors.ErrBundleInputMissing, name)
		}
	}

	seen := make(map[string]struct{})
	var staged []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		staged = append(staged, p)
	}

	if in.ConfigDir != "" {
		configs, err := lister.Walk(ctx, in.ConfigDir)
		if err != nil {
			return nil, err
		}
		for _, p := range artifact.Paths(configs) {
			add(p)
		}
	}

	optional, err := lister.Root(in.Extensions...)
	if err != nil {
		return nil, err
	}
	for _, p := range artifact.Paths(optional) {
		add(p)
	}

	add(in.Readme)
	add(in.ChecksumFile)

	sort.Strings(staged)
	return staged, nil
}
