package checksum

import (
	"context"
	"io/fs"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/relpack/internal/artifact"
	"github.com/mrz1836/relpack/internal/domain"
	"github.com/mrz1836/relpack/internal/errors"
)

// Generator hashes artifact files into a Manifest.
type Generator struct {
	fsys    fs.FS
	hasher  ContentHasher
	workers int
	sorted  bool
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithHasher sets the content hasher. The default is SHA256Hasher.
func WithHasher(h ContentHasher) GeneratorOption {
	return func(g *Generator) {
		if h != nil {
			g.hasher = h
		}
	}
}

// WithWorkers bounds how many files are hashed concurrently. Values below one
// select runtime.NumCPU().
func WithWorkers(n int) GeneratorOption {
	return func(g *Generator) {
		g.workers = n
	}
}

// WithSorted controls whether entries are sorted by path. When false, entries
// follow the order of the files passed to Generate.
func WithSorted(sorted bool) GeneratorOption {
	return func(g *Generator) {
		g.sorted = sorted
	}
}

// NewGenerator creates a Generator reading file content from fsys.
// Entries are sorted by path unless WithSorted(false) is given.
func NewGenerator(fsys fs.FS, opts ...GeneratorOption) *Generator {
	g := &Generator{
		fsys:   fsys,
		hasher: SHA256Hasher{},
		sorted: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.workers < 1 {
		g.workers = runtime.NumCPU()
	}
	return g
}

// Generate hashes every file and returns one entry per file. Files are hashed
// concurrently; each digest is stored at its input index so the result does
// not depend on scheduling. The first read error cancels the remaining work.
func (g *Generator) Generate(ctx context.Context, files []domain.ArtifactFile) (*Manifest, error) {
	log := zerolog.Ctx(ctx)
	entries := make([]Entry, len(files))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, f := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			content, err := fs.ReadFile(g.fsys, f.Path)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", f.Path)
			}
			entries[i] = Entry{Path: f.Path, Digest: g.hasher.Hash(content)}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	m := &Manifest{Entries: entries}
	if g.sorted {
		m.Sort()
	}

	log.Debug().Int("files", m.Len()).Int("workers", g.workers).Msg("checksums generated")
	return m, nil
}

// GenerateDir enumerates every file in the generator's file system whose
// extension is one of exts, recursively, and hashes them. Hidden directories
// at the top of the working directory are not descended into.
func (g *Generator) GenerateDir(ctx context.Context, exts []string) (*Manifest, error) {
	files, err := artifact.NewLister(g.fsys, artifact.WithSkipHidden(true)).Match(ctx, ".", exts)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, files)
}
