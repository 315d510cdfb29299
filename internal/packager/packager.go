package packager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/relpack/internal/atomicfile"
	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/errors"
	"github.com/mrz1836/relpack/internal/flock"
)

// LockFileName is the lock file taken in the output directory while a bundle
// is written.
const LockFileName = ".relpack.lock"

// Options configures one packaging run.
type Options struct {
	Inputs

	// ArchiveName is the bundle file name, e.g. qemu-anti-detection-v2.3.1.tar.gz.
	ArchiveName string
	// OutputDir receives the archive and the notes. Relative paths resolve
	// against the working directory.
	OutputDir string
	// NotesFile is the release notes file name inside OutputDir.
	NotesFile string
	// Title heads the release notes.
	Title string
}

// Result describes a written bundle.
type Result struct {
	ArchivePath string   `json:"archive_path"`
	NotesPath   string   `json:"notes_path"`
	Files       []string `json:"files"`
	Size        int64    `json:"size_bytes"`
	Digest      string   `json:"sha256"`
	DurationMs  int64    `json:"duration_ms"`
}

// Packager builds release bundles from a working directory.
type Packager struct {
	workDir string
	fsys    fs.FS
}

// Option configures a Packager.
type Option func(*Packager)

// WithFS reads bundle inputs from fsys instead of the working directory.
func WithFS(fsys fs.FS) Option {
	return func(p *Packager) {
		p.fsys = fsys
	}
}

// New creates a Packager for workDir.
func New(workDir string, opts ...Option) *Packager {
	p := &Packager{workDir: workDir}
	for _, opt := range opts {
		opt(p)
	}
	if p.fsys == nil {
		p.fsys = os.DirFS(workDir)
	}
	return p
}

// Package stages the bundle inputs, writes the archive and the release notes.
// Both files are written atomically; on failure neither is left half written.
func (p *Packager) Package(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	log := zerolog.Ctx(ctx)

	if err := checkName(opts.ArchiveName); err != nil {
		return nil, err
	}
	if opts.NotesFile == "" {
		opts.NotesFile = constants.ReleaseNotesFile
	}
	if err := checkName(opts.NotesFile); err != nil {
		return nil, err
	}

	files, err := Stage(ctx, p.fsys, opts.Inputs)
	if err != nil {
		return nil, err
	}
	log.Debug().Strs("files", files).Msg("bundle staged")

	manifest, err := fs.ReadFile(p.fsys, opts.ChecksumFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrBundleInputMissing, opts.ChecksumFile)
	}

	outDir := p.outputDir(opts.OutputDir)
	if err := os.MkdirAll(outDir, constants.DirPerm); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}
	lock, err := flock.Acquire(filepath.Join(outDir, LockFileName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	archivePath := filepath.Join(outDir, opts.ArchiveName)
	digest := sha256.New()
	size, err := atomicfile.Write(archivePath, constants.FilePerm, func(w io.Writer) error {
		return WriteArchive(ctx, io.MultiWriter(w, digest), p.fsys, files)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrArchiveFailed, err)
	}

	title := opts.Title
	if title == "" {
		title = strings.TrimSuffix(opts.ArchiveName, constants.ArchiveExt)
	}
	notes := RenderNotes(title, files, string(manifest))
	notesPath := filepath.Join(outDir, opts.NotesFile)
	if err := atomicfile.WriteFile(notesPath, []byte(notes), constants.FilePerm); err != nil {
		return nil, errors.Wrap(err, "failed to write release notes")
	}

	result := &Result{
		ArchivePath: archivePath,
		NotesPath:   notesPath,
		Files:       files,
		Size:        size,
		Digest:      hex.EncodeToString(digest.Sum(nil)),
		DurationMs:  time.Since(start).Milliseconds(),
	}
	log.Info().
		Str("archive", archivePath).
		Int("files", len(files)).
		Int64("size_bytes", size).
		Msg("release bundle written")
	return result, nil
}

func (p *Packager) outputDir(dir string) string {
	if dir == "" {
		return p.workDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.workDir, dir)
}

// checkName rejects empty names and names that carry a directory part.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("output file name %w", errors.ErrEmptyValue)
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return errors.Wrapf(errors.ErrPathTraversal, "invalid output file name %q", name)
	}
	return nil
}
