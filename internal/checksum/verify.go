package checksum

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/mrz1836/relpack/internal/errors"
)

// MismatchKind explains why a manifest entry failed verification.
type MismatchKind string

// Mismatch kinds.
const (
	// MismatchDigest means the file content hashes to a different digest.
	MismatchDigest MismatchKind = "digest"
	// MismatchMissing means the file listed in the manifest does not exist.
	MismatchMissing MismatchKind = "missing"
)

// Mismatch describes one entry that failed verification.
type Mismatch struct {
	Path     string       `json:"path"`
	Kind     MismatchKind `json:"kind"`
	Expected string       `json:"expected"`
	Actual   string       `json:"actual,omitempty"`
}

// String formats the mismatch the way sha256sum -c reports failures.
func (m Mismatch) String() string {
	if m.Kind == MismatchMissing {
		return fmt.Sprintf("%s: FAILED open or read", m.Path)
	}
	return fmt.Sprintf("%s: FAILED", m.Path)
}

// Verify re-hashes every file listed in the manifest and returns the entries
// that no longer match. The returned error wraps ErrChecksumMismatch when at
// least one entry fails.
func Verify(ctx context.Context, fsys fs.FS, m *Manifest, hasher ContentHasher) ([]Mismatch, error) {
	if hasher == nil {
		hasher = SHA256Hasher{}
	}

	var mismatches []Mismatch
	for _, e := range m.Entries {
		if err := ctx.Err(); err != nil {
			return mismatches, err
		}

		content, err := fs.ReadFile(fsys, e.Path)
		if err != nil {
			if !stderrors.Is(err, fs.ErrNotExist) {
				return mismatches, errors.Wrapf(err, "failed to read %s", e.Path)
			}
			mismatches = append(mismatches, Mismatch{Path: e.Path, Kind: MismatchMissing, Expected: e.Digest})
			continue
		}

		if actual := hasher.Hash(content); actual != e.Digest {
			mismatches = append(mismatches, Mismatch{Path: e.Path, Kind: MismatchDigest, Expected: e.Digest, Actual: actual})
		}
	}

	if len(mismatches) > 0 {
		return mismatches, errors.Wrapf(errors.ErrChecksumMismatch, "%d of %d file(s) failed", len(mismatches), m.Len())
	}
	return nil, nil
}
