package checksum

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mrz1836/relpack/internal/errors"
)

// separator sits between digest and path, as written by sha256sum in text mode.
const separator = "  "

// Entry pairs a file path with the digest of its content.
type Entry struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

// String formats the entry as a manifest line without the trailing newline.
// A path holding a backslash, newline or carriage return is escaped the way
// sha256sum does it: the line gets a leading backslash and those characters
// are written as \\, \n and \r.
func (e Entry) String() string {
	if strings.ContainsAny(e.Path, "\\\n\r") {
		return "\\" + e.Digest + separator + pathEscaper.Replace(e.Path)
	}
	return e.Digest + separator + e.Path
}

var pathEscaper = strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\r", "\\r")

// Manifest is an ordered list of checksum entries.
type Manifest struct {
	Entries []Entry `json:"entries"`
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.Entries)
}

// Sort orders the entries by path.
func (m *Manifest) Sort() {
	sort.SliceStable(m.Entries, func(i, j int) bool {
		return m.Entries[i].Path < m.Entries[j].Path
	})
}

// Lookup returns the digest recorded for path.
func (m *Manifest) Lookup(path string) (string, bool) {
	for _, e := range m.Entries {
		if e.Path == path {
			return e.Digest, true
		}
	}
	return "", false
}

// Set returns the entries as a path to digest map. Two manifests describe the
// same files when their sets are equal, regardless of line order.
func (m *Manifest) Set() map[string]string {
	out := make(map[string]string, len(m.Entries))
	for _, e := range m.Entries {
		out[e.Path] = e.Digest
	}
	return out
}

// WriteTo writes the manifest in sha256sum format.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range m.Entries {
		n, err := io.WriteString(w, e.String()+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the serialized manifest.
func (m *Manifest) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = m.WriteTo(&buf)
	return buf.Bytes()
}

// String returns the serialized manifest.
func (m *Manifest) String() string {
	return string(m.Bytes())
}

// Parse reads a manifest in sha256sum format. Blank lines are ignored, the
// binary-mode marker ("<digest> *<path>") is accepted, escaped lines (leading
// backslash) are unescaped and a leading "./" is stripped from paths.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrManifestParse, "line %d: %s", lineNo, err.Error())
		}
		m.Entries = append(m.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}
	return m, nil
}

func parseLine(line string) (Entry, error) {
	escaped := strings.HasPrefix(line, "\\")
	if escaped {
		line = line[1:]
	}
	digest, rest, ok := strings.Cut(line, " ")
	if !ok || rest == "" {
		return Entry{}, fmt.Errorf("missing path")
	}
	if !isHexDigest(digest) {
		return Entry{}, fmt.Errorf("digest %q is not 64 hex characters", digest)
	}
	switch rest[0] {
	case ' ', '*':
		rest = rest[1:]
	default:
		return Entry{}, fmt.Errorf("expected two spaces between digest and path")
	}
	if escaped {
		unescaped, err := unescapePath(rest)
		if err != nil {
			return Entry{}, err
		}
		rest = unescaped
	}
	rest = strings.TrimPrefix(rest, "./")
	if rest == "" {
		return Entry{}, fmt.Errorf("missing path")
	}
	return Entry{Path: rest, Digest: strings.ToLower(digest)}, nil
}

func unescapePath(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i == len(s) {
			return "", fmt.Errorf("dangling escape at end of path")
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", fmt.Errorf("invalid escape \\%c in path", s[i])
		}
	}
	return b.String(), nil
}

func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
