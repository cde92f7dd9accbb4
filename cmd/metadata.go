package cmd

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"uzdu/internal/fsutil"
	"uzdu/internal/metadata"
)

func newMetadataCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:     "metadata <dir> [metadata-file]",
		Aliases: []string{"meta"},
		Short:   "Write the blob metadata of a directory into a JSON file in it",
		Long: "Write Cache-Control and Content-Type headers for every file of <dir> " +
			"into <dir>/[metadata-file] (default " + metadata.DefaultFile + "). " +
			"Uploads read these headers instead of deriving them.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			name := metadata.DefaultFile
			if len(args) > 1 {
				name = args[1]
			}
			return withExitCode(ExitMetadata, writeMetadata(args[0], name, prefix))
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "blob directory the files will be uploaded to")
	return cmd
}

func writeMetadata(dir, name, prefix string) error {
	dir, err := localPath(dir)
	if err != nil {
		return err
	}
	if err := fsutil.ShouldBeDirectory(fs, dir); err != nil {
		return err
	}

	src, err := fsutil.List(fs, dir)
	if err != nil {
		return err
	}

	target, err := metadata.Write(fs, dir, name, metadata.Build(src.Files, prefix, filepath.ToSlash(name)))
	if err != nil {
		return err
	}
	log.WithField("files", len(src.Files)).Debug("Wrote metadata")

	fmt.Fprintln(stdout, target)
	return nil
}
