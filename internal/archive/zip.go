// Package archive zips, unzips and copies local trees.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"uzdu/internal/fsutil"
)

// Zip packs the file or directory at from into a new archive at to. Entry
// names are forward-slash paths relative to from.
func Zip(fs afero.Fs, from, to string) error {
	if err := mustNotExist(fs, to, "%s already exists, remove it manually"); err != nil {
		return err
	}

	src, err := fsutil.List(fs, from)
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return err
	}
	out, err := fs.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	for _, rel := range src.Files {
		if err = addFile(fs, zw, src.Local(rel), rel); err != nil {
			break
		}
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fs.Remove(to)
		return err
	}

	log.WithField("files", len(src.Files)).Debugf("Zipped %s", from)
	return nil
}

func addFile(fs afero.Fs, zw *zip.Writer, local, name string) error {
	f, err := fs.Open(local)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip %s: %w", local, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("zip %s: %w", local, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("zip %s: %w", local, err)
	}
	return nil
}

// Unzip extracts the archive at from into the new directory to. Entries
// ending in "/" become directories. Entries that would land outside of to
// are rejected.
func Unzip(fs afero.Fs, from, to string) error {
	if err := mustNotExist(fs, to, "directory %s already exists. Won't overwrite it"); err != nil {
		return err
	}

	f, err := fs.Open(from)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("read %s: %w", from, err)
	}

	// check every name before writing anything
	targets := make([]string, len(zr.File))
	for i, zf := range zr.File {
		if targets[i], err = safeJoin(to, zf.Name); err != nil {
			return err
		}
	}

	if err := fs.MkdirAll(to, 0755); err != nil {
		return err
	}
	for i, zf := range zr.File {
		if strings.HasSuffix(zf.Name, "/") {
			if err := fs.MkdirAll(targets[i], 0755); err != nil {
				return err
			}
			continue
		}
		if err := extract(fs, zf, targets[i]); err != nil {
			return err
		}
	}
	return nil
}

func extract(fs afero.Fs, zf *zip.File, target string) error {
	if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("unzip %s: %w", zf.Name, err)
	}
	defer rc.Close()

	mode := zf.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	out, err := fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("unzip %s: %w", zf.Name, err)
	}
	return out.Close()
}

// safeJoin joins an archive entry name onto dir, refusing names that
// escape it.
func safeJoin(dir, name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return "", fmt.Errorf("illegal file path in archive: %q", name)
	}

	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("illegal file path in archive: %q", name)
	}
	return target, nil
}

func mustNotExist(fs afero.Fs, path, format string) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return err
	}
	if exists {
		abs, _ := filepath.Abs(path)
		return fmt.Errorf(format, abs)
	}
	return nil
}
