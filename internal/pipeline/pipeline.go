// Package pipeline runs a release end to end: validate, checksum, package,
// publish. Steps run in order and the first fatal error stops the run, so a
// failed validation never leaves a manifest or archive behind and a failed
// packaging step never reaches the publisher.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/relpack/internal/atomicfile"
	"github.com/mrz1836/relpack/internal/checksum"
	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/errors"
	"github.com/mrz1836/relpack/internal/packager"
	"github.com/mrz1836/relpack/internal/publish"
	"github.com/mrz1836/relpack/internal/trigger"
	"github.com/mrz1836/relpack/internal/validation"
)

// Step names reported in progress callbacks and Result.FailedStep.
const (
	StepValidate = "validate"
	StepChecksum = "checksum"
	StepPackage  = "package"
	StepPublish  = "publish"
)

// ProgressCallback is called when a step starts or ends.
// The status parameter is one of: "starting", "completed", "failed", "skipped".
type ProgressCallback func(step, status string)

// ConfirmFunc is asked before publishing. Returning false cancels the publish.
type ConfirmFunc func(ctx context.Context, res *Result) (bool, error)

// PublisherFactory selects the publisher for a variant.
type PublisherFactory func(v trigger.Variant) (publish.Publisher, error)

// Options describe one run.
type Options struct {
	Variant trigger.Variant
	// RequiredFiles must exist for validation to pass.
	RequiredFiles []string
	// Extensions selects the files that are hashed.
	Extensions []string
	// ChecksumFile is the manifest path relative to the working directory.
	ChecksumFile string
	// ArchivePrefix is combined with the variant to name the archive.
	ArchivePrefix string
	// Package holds the remaining packaging options. ArchiveName is derived.
	Package packager.Options
	// DryRun stops after packaging.
	DryRun bool
}

// Result is the outcome of a run.
type Result struct {
	Variant      trigger.Summary    `json:"variant"`
	Validation   *validation.Report `json:"validation,omitempty"`
	ManifestPath string             `json:"manifest_path,omitempty"`
	Manifest     []checksum.Entry   `json:"manifest,omitempty"`
	Package      *packager.Result   `json:"package,omitempty"`
	Publish      *publish.Result    `json:"publish,omitempty"`
	DryRun       bool               `json:"dry_run"`
	Success      bool               `json:"success"`
	FailedStep   string             `json:"failed_step,omitempty"`
	DurationMs   int64              `json:"duration_ms"`
}

// Runner wires the pipeline stages together.
type Runner struct {
	workDir   string
	validator *validation.Validator
	generator *checksum.Generator
	packager  *packager.Packager
	publisher PublisherFactory
	confirm   ConfirmFunc
	progress  ProgressCallback
}

// Option configures a Runner.
type Option func(*Runner)

// WithValidator sets the validator.
func WithValidator(v *validation.Validator) Option {
	return func(r *Runner) { r.validator = v }
}

// WithGenerator sets the checksum generator.
func WithGenerator(g *checksum.Generator) Option {
	return func(r *Runner) { r.generator = g }
}

// WithPackager sets the packager.
func WithPackager(p *packager.Packager) Option {
	return func(r *Runner) { r.packager = p }
}

// WithPublisherFactory sets how publishers are chosen.
func WithPublisherFactory(f PublisherFactory) Option {
	return func(r *Runner) { r.publisher = f }
}

// WithConfirm sets the confirmation asked before publishing.
func WithConfirm(c ConfirmFunc) Option {
	return func(r *Runner) { r.confirm = c }
}

// WithProgress sets the progress callback.
func WithProgress(cb ProgressCallback) Option {
	return func(r *Runner) { r.progress = cb }
}

// New creates a Runner for workDir with disk-backed defaults.
func New(workDir string, opts ...Option) *Runner {
	r := &Runner{workDir: workDir}
	for _, opt := range opts {
		opt(r)
	}
	if r.validator == nil {
		r.validator = validation.New(workDir)
	}
	if r.generator == nil {
		r.generator = checksum.NewGenerator(os.DirFS(workDir))
	}
	if r.packager == nil {
		r.packager = packager.New(workDir)
	}
	if r.publisher == nil {
		r.publisher = func(v trigger.Variant) (publish.Publisher, error) {
			return publish.For(v, publish.DefaultConfig())
		}
	}
	return r
}

// Run executes the pipeline. The returned Result is never nil; it holds
// whatever completed before a failure.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	log := zerolog.Ctx(ctx)
	res := &Result{Variant: opts.Variant.Summary(), DryRun: opts.DryRun}

	if opts.ChecksumFile == "" {
		opts.ChecksumFile = constants.ChecksumFile
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = constants.ArtifactExtensions()
	}

	log.Info().Str("variant", opts.Variant.String()).Bool("dry_run", opts.DryRun).Msg("starting release pipeline")

	// Resolve the archive name before anything is written.
	var archiveName string
	if opts.Variant.Publishes() {
		name, err := opts.Variant.ArchiveName(opts.ArchivePrefix)
		if err != nil {
			return r.fail(res, StepPackage, start, err)
		}
		archiveName = name
	}

	// Validate
	r.report(StepValidate, "starting")
	report, err := r.validator.Run(ctx, opts.RequiredFiles)
	res.Validation = report
	if err != nil {
		return r.fail(res, StepValidate, start, err)
	}
	r.report(StepValidate, "completed")

	if !opts.Variant.Publishes() {
		for _, step := range []string{StepChecksum, StepPackage, StepPublish} {
			r.report(step, "skipped")
		}
		log.Info().Msg("no release for this event, validation only")
		return r.succeed(res, start), nil
	}

	// Checksum
	if err := ctx.Err(); err != nil {
		return r.fail(res, StepChecksum, start, err)
	}
	r.report(StepChecksum, "starting")
	manifest, err := r.generator.GenerateDir(ctx, opts.Extensions)
	if err != nil {
		return r.fail(res, StepChecksum, start, err)
	}
	manifestPath := filepath.Join(r.workDir, opts.ChecksumFile)
	if err := atomicfile.WriteFile(manifestPath, manifest.Bytes(), constants.FilePerm); err != nil {
		return r.fail(res, StepChecksum, start, errors.Wrap(err, "failed to write checksum manifest"))
	}
	res.ManifestPath = manifestPath
	res.Manifest = manifest.Entries
	r.report(StepChecksum, "completed")

	// Package
	if err := ctx.Err(); err != nil {
		return r.fail(res, StepPackage, start, err)
	}
	r.report(StepPackage, "starting")
	pkgOpts := opts.Package
	pkgOpts.ArchiveName = archiveName
	pkgOpts.ChecksumFile = opts.ChecksumFile
	if pkgOpts.Readme == "" {
		pkgOpts.Readme = constants.ReadmeFile
	}
	if pkgOpts.ConfigDir == "" {
		pkgOpts.ConfigDir = constants.ConfigDir
	}
	if pkgOpts.Extensions == nil {
		pkgOpts.Extensions = packager.BundleExtensions(opts.Extensions)
	}
	pkg, err := r.packager.Package(ctx, pkgOpts)
	if err != nil {
		return r.fail(res, StepPackage, start, err)
	}
	res.Package = pkg
	r.report(StepPackage, "completed")

	// Publish
	if opts.DryRun {
		r.report(StepPublish, "skipped")
		log.Info().Str("archive", pkg.ArchivePath).Msg("dry run, publish skipped")
		return r.succeed(res, start), nil
	}
	if err := ctx.Err(); err != nil {
		return r.fail(res, StepPublish, start, err)
	}
	if r.confirm != nil {
		ok, err := r.confirm(ctx, res)
		if err != nil {
			return r.fail(res, StepPublish, start, err)
		}
		if !ok {
			return r.fail(res, StepPublish, start, errors.ErrOperationCanceled)
		}
	}

	r.report(StepPublish, "starting")
	pub, err := r.publisher(opts.Variant)
	if err != nil {
		return r.fail(res, StepPublish, start, err)
	}
	published, err := pub.Publish(ctx, publish.Inputs{
		Variant:      opts.Variant,
		ArchivePath:  pkg.ArchivePath,
		ChecksumPath: manifestPath,
		NotesPath:    pkg.NotesPath,
		WorkDir:      r.workDir,
	})
	if err != nil {
		return r.fail(res, StepPublish, start, err)
	}
	res.Publish = published
	r.report(StepPublish, "completed")

	return r.succeed(res, start), nil
}

func (r *Runner) succeed(res *Result, start time.Time) *Result {
	res.Success = true
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

func (r *Runner) fail(res *Result, step string, start time.Time, err error) (*Result, error) {
	r.report(step, "failed")
	res.FailedStep = step
	res.DurationMs = time.Since(start).Milliseconds()
	return res, fmt.Errorf("%s step failed: %w", step, err)
}

func (r *Runner) report(step, status string) {
	if r.progress != nil {
		r.progress(step, status)
	}
}
