// Package checksum builds and verifies the checksum manifest of a release.
//
// The manifest is plain text in sha256sum format, one "<hex digest>  <path>"
// line per artifact file. It is computed fresh on every run.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHasher computes the digest of a file's content as lowercase hex.
type ContentHasher interface {
	Hash(content []byte) string
}

// HasherFunc adapts a function to ContentHasher.
type HasherFunc func(content []byte) string

// Hash implements ContentHasher.
func (f HasherFunc) Hash(content []byte) string {
	return f(content)
}

// SHA256Hasher is the default ContentHasher.
type SHA256Hasher struct{}

// Hash implements ContentHasher.
func (SHA256Hasher) Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Ensure SHA256Hasher implements ContentHasher.
var _ ContentHasher = SHA256Hasher{}
