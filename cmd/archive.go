package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"uzdu/internal/archive"
	"uzdu/internal/fsutil"
)

func newZipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zip <from> [to]",
		Short: "Add a directory or file to a new zip archive (default <from>.zip)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			from := args[0]
			to := filepath.Base(filepath.Clean(from)) + ".zip"
			if len(args) > 1 {
				to = args[1]
			}
			return withExitCode(ExitZip, runArchive(archive.Zip, from, to))
		},
	}
}

func newUnzipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unzip <from> [to]",
		Short: "Extract a zip archive into a new directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			from := args[0]
			to := strings.TrimSuffix(filepath.Base(from), ".zip")
			if len(args) > 1 {
				to = args[1]
			}
			return withExitCode(ExitZip, runArchive(archive.Unzip, from, to))
		},
	}
}

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <from> <to>",
		Short: "Copy a directory or file",
		Long: "Copy a directory or file. A file is copied into <to> when <to> ends " +
			"with a separator. Directories are copied recursively.",
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return withExitCode(ExitCopy, runCopy(args[0], args[1]))
		},
	}
}

// runArchive runs op on absolute paths and prints the path of what it
// created.
func runArchive(op func(afero.Fs, string, string) error, from, to string) error {
	absFrom, err := localPath(from)
	if err != nil {
		return err
	}
	absTo, err := localPath(to)
	if err != nil {
		return err
	}
	if err := op(fs, absFrom, absTo); err != nil {
		return err
	}
	fmt.Fprintln(stdout, absTo)
	return nil
}

func runCopy(from, to string) error {
	absFrom, err := localPath(from)
	if err != nil {
		return err
	}
	absTo, err := localPath(to)
	if err != nil {
		return err
	}
	return archive.Copy(fs, absFrom, absTo)
}

// localPath makes path absolute. A trailing separator is kept for copy's
// "into this directory" form.
func localPath(path string) (string, error) {
	abs, err := fsutil.Resolve(path)
	if err != nil {
		return "", err
	}
	if fsutil.HasTrailingSeparator(path) && !fsutil.HasTrailingSeparator(abs) {
		abs += string(filepath.Separator)
	}
	return abs, nil
}
