// Package trigger resolves the release variant of a run from VCS event
// metadata. The resolution happens once, before any packaging step, and the
// resulting Variant is immutable.
package trigger

import (
	"fmt"
	"path"
	"strings"

	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/errors"
)

// Kind discriminates the release variants.
type Kind string

// Release variants.
const (
	// KindNone means the run validates only and publishes nothing.
	KindNone Kind = "none"
	// KindBranch is a push to the main branch, published by semantic-release.
	KindBranch Kind = "branch"
	// KindTag is a push of a version tag, published as a GitHub release.
	KindTag Kind = "tag"
)

// Git ref prefixes.
const (
	branchRefPrefix = "refs/heads/"
	tagRefPrefix    = "refs/tags/"
)

// Event is the VCS metadata a run starts from.
type Event struct {
	// Name is the event type, e.g. "push" or "pull_request".
	Name string `json:"name"`
	// Ref is the full git ref, e.g. "refs/heads/main" or "refs/tags/v2.3.1".
	Ref string `json:"ref"`
}

// FromEnv reads the event from GitHub Actions variables through getenv.
func FromEnv(getenv func(string) string) Event {
	return Event{
		Name: getenv("GITHUB_EVENT_NAME"),
		Ref:  getenv("GITHUB_REF"),
	}
}

// Rules hold the predicates that select a variant.
type Rules struct {
	MainBranch string `json:"main_branch"`
	TagPattern string `json:"tag_pattern"`
}

// DefaultRules returns main branch "main" and tag pattern "v*".
func DefaultRules() Rules {
	return Rules{
		MainBranch: constants.DefaultMainBranch,
		TagPattern: constants.DefaultTagPattern,
	}
}

// Validate checks that the tag pattern is a valid glob.
func (r Rules) Validate() error {
	if r.MainBranch == "" {
		return fmt.Errorf("main branch %w", errors.ErrEmptyValue)
	}
	if _, err := path.Match(r.TagPattern, ""); err != nil {
		return fmt.Errorf("%w: tag pattern %q: %w", errors.ErrConfigInvalidTrigger, r.TagPattern, err)
	}
	return nil
}

// Variant is the release selection for one run. Exactly one of the branch or
// tag fields is meaningful, according to Kind.
type Variant struct {
	kind   Kind
	branch string
	tag    string
}

// NoRelease returns the validation-only variant.
func NoRelease() Variant {
	return Variant{kind: KindNone}
}

// BranchRelease returns the variant for a push to branch.
func BranchRelease(branch string) Variant {
	return Variant{kind: KindBranch, branch: branch}
}

// TagRelease returns the variant for a pushed tag. The tag must be non-empty
// and free of path separators, since it is embedded in the archive name.
func TagRelease(tag string) (Variant, error) {
	if tag == "" || strings.ContainsAny(tag, `/\`) || strings.TrimSpace(tag) != tag {
		return Variant{}, fmt.Errorf("%w: %q", errors.ErrInvalidTag, tag)
	}
	return Variant{kind: KindTag, tag: tag}, nil
}

// Kind returns the variant discriminator.
func (v Variant) Kind() Kind {
	if v.kind == "" {
		return KindNone
	}
	return v.kind
}

// Branch returns the pushed branch for a branch release.
func (v Variant) Branch() string { return v.branch }

// Tag returns the pushed tag for a tag release.
func (v Variant) Tag() string { return v.tag }

// Publishes reports whether the variant ends in a published release.
func (v Variant) Publishes() bool {
	return v.Kind() != KindNone
}

// ArchiveName returns the bundle file name for the variant:
// "<prefix>-release.tar.gz" for a branch release and "<prefix>-<tag>.tar.gz"
// for a tag release. A validation-only run has no archive name.
func (v Variant) ArchiveName(prefix string) (string, error) {
	if prefix == "" {
		prefix = constants.ArchivePrefix
	}
	switch v.Kind() {
	case KindBranch:
		return prefix + "-" + constants.BranchArchiveSuffix + constants.ArchiveExt, nil
	case KindTag:
		return prefix + "-" + v.tag + constants.ArchiveExt, nil
	default:
		return "", errors.ErrNoRelease
	}
}

// String renders the variant for logs and terminal output.
func (v Variant) String() string {
	switch v.Kind() {
	case KindBranch:
		return "branch release (" + v.branch + ")"
	case KindTag:
		return "tag release (" + v.tag + ")"
	default:
		return "no release"
	}
}

// Summary is the JSON view of a Variant.
type Summary struct {
	Kind   Kind   `json:"kind"`
	Branch string `json:"branch,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

// Summary returns the JSON view of the variant.
func (v Variant) Summary() Summary {
	return Summary{Kind: v.Kind(), Branch: v.branch, Tag: v.tag}
}

// Resolve maps an event to a variant. Only push events publish: a push to the
// main branch is a branch release, a push of a tag matching the tag pattern is
// a tag release, and everything else, pull requests included, is NoRelease.
func Resolve(ev Event, rules Rules) (Variant, error) {
	if err := rules.Validate(); err != nil {
		return Variant{}, err
	}
	if ev.Name != "" && ev.Name != "push" {
		return NoRelease(), nil
	}

	switch {
	case strings.HasPrefix(ev.Ref, branchRefPrefix):
		branch := strings.TrimPrefix(ev.Ref, branchRefPrefix)
		if branch == rules.MainBranch {
			return BranchRelease(branch), nil
		}
	case strings.HasPrefix(ev.Ref, tagRefPrefix):
		tag := strings.TrimPrefix(ev.Ref, tagRefPrefix)
		// Pattern already validated above
		if ok, _ := path.Match(rules.TagPattern, tag); ok {
			return TagRelease(tag)
		}
	}
	return NoRelease(), nil
}

// Parse builds a variant from explicit flag values. kind is one of "branch",
// "tag" or "none"; tag is required for "tag".
func Parse(kind, branch, tag string) (Variant, error) {
	switch Kind(kind) {
	case KindBranch:
		if branch == "" {
			branch = constants.DefaultMainBranch
		}
		return BranchRelease(branch), nil
	case KindTag:
		return TagRelease(tag)
	case KindNone, "":
		return NoRelease(), nil
	default:
		return Variant{}, fmt.Errorf("%w: %q", errors.ErrInvalidVariant, kind)
	}
}
