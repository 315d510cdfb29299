// Package publish hands a finished release bundle to an external publisher.
//
// Two publishers exist, one per release variant: a branch release goes through
// semantic-release, which derives the version from commit history, and a tag
// release goes through `gh release create`. Both run as subprocesses; relpack
// only supplies the archive and the checksum manifest and classifies failures.
// No retries happen here: a failed publish fails the run.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/errors"
	"github.com/mrz1836/relpack/internal/trigger"
)

// Environment variables handed to semantic-release so its asset configuration
// can reference the bundle.
const (
	EnvArchive    = "RELEASE_ARCHIVE"
	EnvChecksums  = "RELEASE_CHECKSUMS"
	EnvNotesFile  = "RELEASE_NOTES_FILE"
	DefaultGH     = "gh"
	DefaultSemver = "npx --yes semantic-release"
)

// Inputs are the files a publisher consumes.
type Inputs struct {
	Variant      trigger.Variant
	ArchivePath  string
	ChecksumPath string
	NotesPath    string
	WorkDir      string
}

// Result describes a completed publish.
type Result struct {
	Publisher string          `json:"publisher"`
	Variant   trigger.Summary `json:"variant"`
	Version   string          `json:"version,omitempty"`
	URL       string          `json:"url,omitempty"`
	// Skipped is true when semantic-release found no releasable commits.
	Skipped bool `json:"skipped,omitempty"`
}

// Publisher turns a bundle and its manifest into a published release.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, in Inputs) (*Result, error)
}

// Config holds the publisher commands and limits.
type Config struct {
	GHCommand       string
	SemanticCommand string
	TokenEnvVars    []string
	Timeout         time.Duration
}

// DefaultConfig returns the gh and semantic-release defaults.
func DefaultConfig() Config {
	return Config{
		GHCommand:       DefaultGH,
		SemanticCommand: DefaultSemver,
		TokenEnvVars:    DefaultTokenEnvVars(),
		Timeout:         constants.DefaultPublishTimeout,
	}
}

// Option configures a publisher.
type Option func(*base)

// WithExecutor sets the command executor (for testing).
func WithExecutor(exec CommandExecutor) Option {
	return func(b *base) {
		b.exec = exec
	}
}

// WithGetenv sets the environment lookup used for the token check.
func WithGetenv(getenv func(string) string) Option {
	return func(b *base) {
		b.getenv = getenv
	}
}

type base struct {
	cfg    Config
	exec   CommandExecutor
	getenv func(string) string
}

func newBase(cfg Config, opts ...Option) base {
	b := base{cfg: cfg, exec: ExecCommandExecutor{}, getenv: os.Getenv}
	for _, opt := range opts {
		opt(&b)
	}
	if b.cfg.Timeout <= 0 {
		b.cfg.Timeout = constants.DefaultPublishTimeout
	}
	return b
}

// prepare checks the token and the input files and derives the command context.
func (b base) prepare(ctx context.Context, in Inputs) (context.Context, context.CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	tokenVar, err := RequireToken(b.getenv, b.cfg.TokenEnvVars)
	if err != nil {
		return nil, nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("token_env", tokenVar).Msg("repository token found")

	for _, p := range []string{in.ArchivePath, in.ChecksumPath} {
		if p == "" {
			return nil, nil, fmt.Errorf("%w: publish input not set", errors.ErrBundleInputMissing)
		}
		if _, err := os.Stat(p); err != nil {
			return nil, nil, fmt.Errorf("%w: %s", errors.ErrBundleInputMissing, p)
		}
	}

	cctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	return cctx, cancel, nil
}

// TagPublisher publishes a tag release with `gh release create`.
type TagPublisher struct {
	base
}

// NewTagPublisher creates a TagPublisher.
func NewTagPublisher(cfg Config, opts ...Option) *TagPublisher {
	if cfg.GHCommand == "" {
		cfg.GHCommand = DefaultGH
	}
	return &TagPublisher{base: newBase(cfg, opts...)}
}

// Name implements Publisher.
func (p *TagPublisher) Name() string { return "gh-release" }

// Args returns the gh arguments for a tag release. The release is always
// final: never a draft, never a prerelease. Notes are generated by GitHub from
// the commit log.
func (p *TagPublisher) Args(in Inputs) []string {
	tag := in.Variant.Tag()
	return []string{
		"release", "create", tag,
		in.ArchivePath,
		in.ChecksumPath,
		"--title", tag,
		"--generate-notes",
		"--draft=false",
		"--prerelease=false",
	}
}

// Publish implements Publisher.
func (p *TagPublisher) Publish(ctx context.Context, in Inputs) (*Result, error) {
	if in.Variant.Kind() != trigger.KindTag {
		return nil, fmt.Errorf("%w: tag publisher given %s", errors.ErrInvalidVariant, in.Variant)
	}
	cctx, cancel, err := p.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	defer cancel()

	log := zerolog.Ctx(ctx)
	log.Info().Str("tag", in.Variant.Tag()).Str("archive", filepath.Base(in.ArchivePath)).Msg("creating GitHub release")

	out, err := p.exec.Execute(cctx, in.WorkDir, nil, p.cfg.GHCommand, p.Args(in)...)
	if err != nil {
		return nil, wrapFailure(p.Name(), err)
	}

	return &Result{
		Publisher: p.Name(),
		Variant:   in.Variant.Summary(),
		Version:   in.Variant.Tag(),
		URL:       releaseURL(out),
	}, nil
}

// SemanticPublisher publishes a branch release through semantic-release.
type SemanticPublisher struct {
	base
}

// NewSemanticPublisher creates a SemanticPublisher.
func NewSemanticPublisher(cfg Config, opts ...Option) *SemanticPublisher {
	if strings.TrimSpace(cfg.SemanticCommand) == "" {
		cfg.SemanticCommand = DefaultSemver
	}
	return &SemanticPublisher{base: newBase(cfg, opts...)}
}

// Name implements Publisher.
func (p *SemanticPublisher) Name() string { return "semantic-release" }

// Env returns the variables that point semantic-release at the bundle.
func (p *SemanticPublisher) Env(in Inputs) []string {
	env := []string{
		EnvArchive + "=" + in.ArchivePath,
		EnvChecksums + "=" + in.ChecksumPath,
	}
	if in.NotesPath != "" {
		env = append(env, EnvNotesFile+"="+in.NotesPath)
	}
	return env
}

//nolint:gochecknoglobals // compiled once
var (
	publishedPattern = regexp.MustCompile(`Published release (\S+)`)
	noReleasePattern = regexp.MustCompile(`(?i)no new version is released`)
	urlPattern       = regexp.MustCompile(`https://\S+/releases/\S+`)
)

// Publish implements Publisher.
func (p *SemanticPublisher) Publish(ctx context.Context, in Inputs) (*Result, error) {
	if in.Variant.Kind() != trigger.KindBranch {
		return nil, fmt.Errorf("%w: semantic publisher given %s", errors.ErrInvalidVariant, in.Variant)
	}
	fields := strings.Fields(p.cfg.SemanticCommand)
	cctx, cancel, err := p.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	defer cancel()

	log := zerolog.Ctx(ctx)
	log.Info().Str("branch", in.Variant.Branch()).Msg("running semantic-release")

	out, err := p.exec.Execute(cctx, in.WorkDir, p.Env(in), fields[0], fields[1:]...)
	if err != nil {
		return nil, wrapFailure(p.Name(), err)
	}

	res := &Result{
		Publisher: p.Name(),
		Variant:   in.Variant.Summary(),
		URL:       releaseURL(out),
	}
	if m := publishedPattern.FindSubmatch(out); m != nil {
		res.Version = string(m[1])
	} else if noReleasePattern.Match(out) {
		res.Skipped = true
		log.Info().Msg("no releasable commits since the last release")
	}
	return res, nil
}

// releaseURL returns the last release URL printed by the publisher.
func releaseURL(out []byte) string {
	matches := urlPattern.FindAll(out, -1)
	if len(matches) == 0 {
		return ""
	}
	return string(matches[len(matches)-1])
}

// For returns the publisher for a variant. A validation-only variant has no
// publisher and yields errors.ErrNoRelease.
func For(v trigger.Variant, cfg Config, opts ...Option) (Publisher, error) {
	switch v.Kind() {
	case trigger.KindBranch:
		return NewSemanticPublisher(cfg, opts...), nil
	case trigger.KindTag:
		return NewTagPublisher(cfg, opts...), nil
	case trigger.KindNone:
		return nil, errors.ErrNoRelease
	}
	return nil, errors.ErrNoRelease
}
