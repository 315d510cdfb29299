package packager

import (
	"sort"
	"strings"
)

// RenderNotes builds the Markdown release notes: a title, a sorted bullet
// list of the bundle contents and the checksum manifest in a fenced block,
// byte for byte.
func RenderNotes(title string, files []string, manifest string) string {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n## Files\n\n")
	for _, f := range sorted {
		b.WriteString("- `")
		b.WriteString(f)
		b.WriteString("`\n")
	}
	b.WriteString("\n## Checksums (SHA-256)\n\n```text\n")
	b.WriteString(manifest)
	if manifest != "" && !strings.HasSuffix(manifest, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}
