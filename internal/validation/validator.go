package validation

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/relpack/internal/artifact"
	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/domain"
	"github.com/mrz1836/relpack/internal/errors"
)

// ProgressCallback is called when a validation step starts or ends.
// The status parameter is one of: "starting", "completed", "failed".
type ProgressCallback func(step, status string)

// Validator runs the pre-packaging checks over one working directory.
type Validator struct {
	workDir   string
	lister    *artifact.Lister
	xml       WellFormednessChecker
	patch     PatchChecker
	configDir string
	progress  ProgressCallback
}

// Option configures a Validator.
type Option func(*Validator)

// WithFS replaces the directory listing, typically with an fstest.MapFS.
func WithFS(fsys fs.FS) Option {
	return func(v *Validator) {
		v.lister = artifact.NewLister(fsys)
	}
}

// WithXMLChecker sets the well-formedness checker.
func WithXMLChecker(c WellFormednessChecker) Option {
	return func(v *Validator) {
		v.xml = c
	}
}

// WithPatchChecker sets the patch dry-run checker.
func WithPatchChecker(c PatchChecker) Option {
	return func(v *Validator) {
		v.patch = c
	}
}

// WithConfigDir sets the directory holding XML configuration files.
func WithConfigDir(dir string) Option {
	return func(v *Validator) {
		if dir != "" {
			v.configDir = dir
		}
	}
}

// WithProgress sets the progress callback used by Run.
func WithProgress(cb ProgressCallback) Option {
	return func(v *Validator) {
		v.progress = cb
	}
}

// New creates a Validator for workDir. By default files are read from disk,
// XML is checked with XMLChecker and patches with a CommandPatchChecker.
func New(workDir string, opts ...Option) *Validator {
	v := &Validator{
		workDir:   workDir,
		lister:    artifact.NewLister(os.DirFS(workDir)),
		xml:       NewXMLChecker(),
		configDir: constants.ConfigDir,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.patch == nil {
		v.patch = NewCommandPatchChecker(nil, "", 0)
	}
	return v
}

// ValidatePatches dry-runs every root-level patch file. Failures are logged
// as warnings and reported as advisory results; this step never fails the run.
func (v *Validator) ValidatePatches(ctx context.Context) []domain.FileResult {
	log := zerolog.Ctx(ctx)

	patches, err := v.lister.Root(constants.ExtPatch)
	if err != nil {
		log.Warn().Err(err).Msg("could not list patch files")
		return nil
	}

	results := make([]domain.FileResult, 0, len(patches))
	for _, p := range patches {
		if ctx.Err() != nil {
			break
		}
		res := domain.FileResult{Path: p.Path, Outcome: domain.OutcomeWellFormed}
		if err := v.patch.DryRun(ctx, v.workDir, p.Path); err != nil {
			res.Outcome = domain.OutcomeMalformed
			res.Reason = err.Error()
			res.Advisory = true
			log.Warn().Str("file", p.Path).Err(err).Msg("patch dry-run failed")
		} else {
			log.Debug().Str("file", p.Path).Msg("patch dry-run passed")
		}
		results = append(results, res)
	}
	return results
}

// ValidateXML checks every XML file under the configuration directory and
// stops at the first malformed one. The returned error wraps ErrMalformedXML
// and names the file.
func (v *Validator) ValidateXML(ctx context.Context) ([]domain.FileResult, error) {
	log := zerolog.Ctx(ctx)

	files, err := v.lister.Match(ctx, v.configDir, []string{constants.ExtXML})
	if err != nil {
		return nil, err
	}

	results := make([]domain.FileResult, 0, len(files))
	for _, f := range files {
		content, err := fs.ReadFile(v.lister.FS(), f.Path)
		if err != nil {
			return results, errors.Wrapf(err, "failed to read %s", f.Path)
		}

		if checkErr := v.xml.Check(content); checkErr != nil {
			results = append(results, domain.FileResult{
				Path:    f.Path,
				Outcome: domain.OutcomeMalformed,
				Reason:  checkErr.Error(),
			})
			log.Error().Str("file", f.Path).Str("reason", checkErr.Error()).Msg("malformed XML")
			return results, errors.Wrapf(errors.ErrMalformedXML, "%s: %s", f.Path, checkErr.Error())
		}

		results = append(results, domain.FileResult{Path: f.Path, Outcome: domain.OutcomeWellFormed})
		log.Debug().Str("file", f.Path).Msg("XML is well-formed")
	}

	return results, nil
}

// CheckRequiredFiles verifies that every required path exists and stops at
// the first missing one. The returned error wraps ErrRequiredFileMissing.
func (v *Validator) CheckRequiredFiles(ctx context.Context, required []string) ([]domain.FileResult, error) {
	log := zerolog.Ctx(ctx)

	results := make([]domain.FileResult, 0, len(required))
	for _, raw := range required {
		p, err := artifact.Clean(raw)
		if err != nil {
			return results, err
		}

		ok, err := v.lister.Exists(p)
		if err != nil {
			return results, err
		}
		if !ok {
			results = append(results, domain.FileResult{Path: p, Outcome: domain.OutcomeMissing, Reason: "file does not exist"})
			log.Error().Str("file", p).Msg("required file missing")
			return results, errors.Wrapf(errors.ErrRequiredFileMissing, "%s", p)
		}
		results = append(results, domain.FileResult{Path: p, Outcome: domain.OutcomeWellFormed})
	}

	return results, nil
}

// ListPatchVersions reports the version token of every root-level patch file.
// It is purely informational: each pair is logged at info level.
func (v *Validator) ListPatchVersions(ctx context.Context) []PatchVersionInfo {
	log := zerolog.Ctx(ctx)

	patches, err := v.lister.Root(constants.ExtPatch)
	if err != nil {
		log.Warn().Err(err).Msg("could not list patch files")
		return nil
	}

	out := make([]PatchVersionInfo, 0, len(patches))
	for _, p := range patches {
		info := PatchVersionInfo{Path: p.Path, Version: PatchVersion(p.Name())}
		log.Info().Str("file", info.Path).Str("version", info.Version).Msg("patch version")
		out = append(out, info)
	}
	return out
}

// Run executes every check in order: patch dry-runs, XML well-formedness,
// required files, patch versions. It returns the report collected so far and
// an error wrapping ErrValidationFailed on the first fatal failure.
func (v *Validator) Run(ctx context.Context, required []string) (*Report, error) {
	log := zerolog.Ctx(ctx)
	report := &Report{}
	start := time.Now()

	log.Info().Str("work_dir", v.workDir).Msg("starting validation")

	if err := ctx.Err(); err != nil {
		return report.finalize(start), err
	}

	v.report(StepPatches, "starting")
	report.Patches = v.ValidatePatches(ctx)
	report.Warnings = countAdvisory(report.Patches)
	v.report(StepPatches, "completed")

	if err := ctx.Err(); err != nil {
		return report.finalize(start), err
	}

	v.report(StepXML, "starting")
	xmlResults, err := v.ValidateXML(ctx)
	report.XML = xmlResults
	if err != nil {
		return v.fail(report, StepXML, start, err)
	}
	v.report(StepXML, "completed")

	v.report(StepRequired, "starting")
	requiredResults, err := v.CheckRequiredFiles(ctx, required)
	report.Required = requiredResults
	if err != nil {
		return v.fail(report, StepRequired, start, err)
	}
	v.report(StepRequired, "completed")

	v.report(StepVersions, "starting")
	report.Versions = v.ListPatchVersions(ctx)
	v.report(StepVersions, "completed")

	report.Success = true
	log.Info().
		Int("warnings", report.Warnings).
		Int("xml_files", len(report.XML)).
		Msg("validation passed")
	return report.finalize(start), nil
}

func (v *Validator) fail(report *Report, step string, start time.Time, err error) (*Report, error) {
	v.report(step, "failed")
	report.FailedStep = step
	return report.finalize(start), fmt.Errorf("%w: %w", errors.ErrValidationFailed, err)
}

func (v *Validator) report(step, status string) {
	if v.progress != nil {
		v.progress(step, status)
	}
}
