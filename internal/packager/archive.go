package packager

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"io/fs"
	"path"

	"github.com/mrz1836/relpack/internal/errors"
)

// WriteArchive writes a gzip-compressed tar of files, read from fsys, to w.
// Entry names are the relative paths as given; parent directories get their
// own entries ahead of their first file. Ownership is cleared so the bundle
// does not depend on the account that built it.
func WriteArchive(ctx context.Context, w io.Writer, fsys fs.FS, files []string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	dirs := make(map[string]struct{})
	for _, p := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeParents(tw, fsys, p, dirs); err != nil {
			return err
		}
		if err := writeFile(tw, fsys, p); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(err, "failed to finish tar stream")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "failed to finish gzip stream")
	}
	return nil
}

func writeParents(tw *tar.Writer, fsys fs.FS, p string, seen map[string]struct{}) error {
	dir := path.Dir(p)
	if dir == "." {
		return nil
	}
	if _, ok := seen[dir]; ok {
		return nil
	}
	if err := writeParents(tw, fsys, dir, seen); err != nil {
		return err
	}
	seen[dir] = struct{}{}

	info, err := fs.Stat(fsys, dir)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", dir)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return errors.Wrapf(err, "failed to build header for %s", dir)
	}
	hdr.Name = dir + "/"
	neutralOwner(hdr)
	return errors.Wrapf(tw.WriteHeader(hdr), "failed to write %s", dir)
}

func writeFile(tw *tar.Writer, fsys fs.FS, p string) error {
	f, err := fsys.Open(p)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", p)
	}
	defer f.Close() //nolint:errcheck // read-only file

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", p)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return errors.Wrapf(err, "failed to build header for %s", p)
	}
	hdr.Name = p
	neutralOwner(hdr)

	if err := tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "failed to write header for %s", p)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return errors.Wrapf(err, "failed to write %s", p)
	}
	return nil
}

func neutralOwner(hdr *tar.Header) {
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""
}
