// cmd/download_aws.go
package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"uzdu/internal/client"
	"uzdu/internal/config"
	"uzdu/internal/transfer"
)

func newDownloadAWSCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "aws <bucket[:region[:endpoint]]> <key> [to]",
		Short: "Download an object from an AWS S3 (or S3 compatible) bucket",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var to string
			if len(args) > 2 {
				to = args[2]
			}
			return withExitCode(ExitAWS, downloadAWS(cmd.Context(), opts.cfg, args[0], args[1], to))
		},
	}
}

func downloadAWS(ctx context.Context, cfg *config.Config, bucket, key, to string) error {
	target, err := client.ParseS3Target(bucket)
	if err != nil {
		return err
	}
	s3Client, err := newS3Client(ctx, cfg.S3, target)
	if err != nil {
		return err
	}

	saved, err := transfer.NewS3Downloader(fs, s3Client.Client, target.Bucket).Download(ctx, key, to)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(saved)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, abs)
	return nil
}
