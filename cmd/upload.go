package cmd

import (
	"github.com/spf13/cobra"
)

func newUploadCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "upload",
		Aliases: []string{"up"},
		Short:   "Upload a directory or file to a blob store, HTTP server or SSH host",
	}
	cmd.AddCommand(
		newUploadAWSCmd(opts),
		newUploadAzureCmd(opts),
		newUploadHTTPCmd(opts),
		newUploadSSHCmd(opts),
	)
	return cmd
}

func newDownloadCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "download",
		Aliases: []string{"down"},
		Short:   "Download a file over HTTP or from a blob store",
	}
	cmd.AddCommand(
		newDownloadHTTPCmd(opts),
		newDownloadAWSCmd(opts),
	)
	return cmd
}
