package archive

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"uzdu/internal/fsutil"
)

// ErrSamePath is returned when copying a path onto itself.
var ErrSamePath = errors.New("illegal from == to")

// Copy copies from to to. A file is copied into to when to ends with a
// separator, otherwise to names the copy. Directories are copied
// recursively, empty ones included.
func Copy(fs afero.Fs, from, to string) error {
	absFrom, err := filepath.Abs(from)
	if err != nil {
		return err
	}
	absTo, err := filepath.Abs(to)
	if err != nil {
		return err
	}
	if absFrom == absTo {
		return ErrSamePath
	}

	isFile, err := fsutil.IsFile(fs, from)
	if err != nil {
		return err
	}
	if isFile {
		if fsutil.HasTrailingSeparator(to) {
			to = filepath.Join(to, filepath.Base(from))
		}
		return copyFile(fs, from, to)
	}

	// snapshot first, to may be below from
	var dirs, files []string
	err = afero.Walk(fs, from, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			dirs = append(dirs, rel)
		} else {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, rel := range dirs {
		if err := fs.MkdirAll(filepath.Join(to, rel), 0755); err != nil {
			return err
		}
	}
	for _, rel := range files {
		if err := copyFile(fs, filepath.Join(from, rel), filepath.Join(to, rel)); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(fs afero.Fs, from, to string) error {
	in, err := fs.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return err
	}

	out, err := fs.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
