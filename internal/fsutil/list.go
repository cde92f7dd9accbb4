// Package fsutil lists local trees as forward-slash relative paths.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
)

// Source is a local upload source. Root is the directory that Files are
// relative to; for a single file it is the file's parent directory.
type Source struct {
	Root   string
	Files  []string
	Single bool
}

// List walks path. A directory yields every regular file below it; a file
// yields just its base name.
func List(fs afero.Fs, path string) (Source, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return Source{}, err
	}

	if !info.IsDir() {
		return Source{
			Root:   filepath.Dir(path),
			Files:  []string{filepath.Base(path)},
			Single: true,
		}, nil
	}

	var files []string
	err = afero.Walk(fs, path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return Source{}, fmt.Errorf("list %s: %w", path, err)
	}

	sort.Strings(files)
	return Source{Root: path, Files: files}, nil
}

// Local returns the local path of rel.
func (src Source) Local(rel string) string {
	return filepath.Join(src.Root, filepath.FromSlash(rel))
}

// IsFile reports whether path exists and is not a directory.
func IsFile(fs afero.Fs, path string) (bool, error) {
	info, err := lstat(fs, path)
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// IsSymlink reports whether path is a symbolic link. Filesystems without
// Lstat support never report links.
func IsSymlink(fs afero.Fs, path string) (bool, error) {
	info, err := lstat(fs, path)
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// ShouldBeDirectory fails unless path is an existing directory.
func ShouldBeDirectory(fs afero.Fs, path string) error {
	file, err := IsFile(fs, path)
	if err != nil {
		return err
	}
	if file {
		abs, _ := filepath.Abs(path)
		return fmt.Errorf("%s is a file, SHOULD be a directory. Check [%s]", path, abs)
	}
	return nil
}

// Resolve expands a leading "~" and makes path absolute.
func Resolve(path string) (string, error) {
	if path == "" {
		return os.Getwd()
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		path = expanded
	}
	return filepath.Abs(path)
}

// HasTrailingSeparator reports whether path names a directory by ending in
// a separator.
func HasTrailingSeparator(path string) bool {
	return strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator))
}

func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if lst, ok := fs.(afero.Lstater); ok {
		info, _, err := lst.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
