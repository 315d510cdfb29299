package artifact

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path"
	"strings"

	"github.com/mrz1836/relpack/internal/domain"
	"github.com/mrz1836/relpack/internal/errors"
)

// Lister enumerates files from a directory tree.
type Lister struct {
	fsys       fs.FS
	skipHidden bool
}

// ListerOption configures a Lister.
type ListerOption func(*Lister)

// WithSkipHidden makes Walk skip hidden directories (.git, .relpack) that sit
// directly under the walk root. Hidden directories deeper in the tree are
// still walked.
func WithSkipHidden(skip bool) ListerOption {
	return func(l *Lister) {
		l.skipHidden = skip
	}
}

// NewLister creates a Lister over the given file system.
func NewLister(fsys fs.FS, opts ...ListerOption) *Lister {
	l := &Lister{fsys: fsys}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FS returns the underlying file system.
func (l *Lister) FS() fs.FS {
	return l.fsys
}

// Walk returns every file under root, recursively, in lexical order.
// A missing root yields an empty result rather than an error.
func (l *Lister) Walk(ctx context.Context, root string) ([]domain.ArtifactFile, error) {
	if root == "" {
		root = "."
	}
	var files []domain.ArtifactFile

	err := fs.WalkDir(l.fsys, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == root && stderrors.Is(walkErr, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if l.skipHidden && p != root && path.Dir(p) == path.Clean(root) && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !l.isRegular(p, d) {
			return nil
		}
		files = append(files, domain.NewArtifactFile(p))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to enumerate %s", root)
	}

	return files, nil
}

// Match returns every file under root whose extension is one of exts.
func (l *Lister) Match(ctx context.Context, root string, exts []string) ([]domain.ArtifactFile, error) {
	files, err := l.Walk(ctx, root)
	if err != nil {
		return nil, err
	}
	return FilterByExtension(files, exts), nil
}

// Root returns the regular files directly in the working directory whose
// extension is one of exts.
func (l *Lister) Root(exts ...string) ([]domain.ArtifactFile, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list working directory")
	}

	files := make([]domain.ArtifactFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !l.isRegular(e.Name(), e) {
			continue
		}
		files = append(files, domain.NewArtifactFile(e.Name()))
	}
	return FilterByExtension(files, exts), nil
}

// Exists reports whether p exists in the file system.
func (l *Lister) Exists(p string) (bool, error) {
	_, err := fs.Stat(l.fsys, p)
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to stat %s", p)
}

// isRegular accepts regular files and symlinks that resolve to regular files.
func (l *Lister) isRegular(p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := fs.Stat(l.fsys, p)
	return err == nil && info.Mode().IsRegular()
}

// FilterByExtension keeps the files whose extension is one of exts.
// The input order is preserved.
func FilterByExtension(files []domain.ArtifactFile, exts []string) []domain.ArtifactFile {
	if len(exts) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[ext] = struct{}{}
	}

	out := make([]domain.ArtifactFile, 0, len(files))
	for _, f := range files {
		if _, ok := allowed[path.Ext(f.Path)]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Paths returns the paths of the given files.
func Paths(files []domain.ArtifactFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// Clean validates a user-supplied relative path and returns it in slash form.
// Absolute paths and paths that climb out of the working directory are rejected.
func Clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || path.IsAbs(p) {
		return "", errors.Wrapf(errors.ErrPathTraversal, "invalid path %q", p)
	}
	cleaned := path.Clean(p)
	if !fs.ValidPath(cleaned) {
		return "", errors.Wrapf(errors.ErrPathTraversal, "invalid path %q", p)
	}
	return cleaned, nil
}
