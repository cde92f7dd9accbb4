// cmd/upload_aws.go
package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"uzdu/internal/client"
	"uzdu/internal/config"
	"uzdu/internal/transfer"
)

func newUploadAWSCmd(opts *options) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "aws <from> <bucket[:region[:endpoint]]>",
		Short: "Upload a directory or file to an AWS S3 (or S3 compatible) bucket",
		Long: "Upload a directory or file to an S3 bucket. Objects get Cache-Control " +
			"and Content-Type headers from the directory's metadata file, or derived " +
			"from their names. The region and endpoint in the target override AWS_REGION " +
			"and AWS_ENDPOINT_URL_S3.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withExitCode(ExitAWS, uploadAWS(cmd.Context(), opts.cfg, args[0], args[1], prefix))
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix (blob directory) of the uploaded objects")
	return cmd
}

func uploadAWS(ctx context.Context, cfg *config.Config, from, bucket, prefix string) error {
	target, err := client.ParseS3Target(bucket)
	if err != nil {
		return err
	}
	s3Client, err := newS3Client(ctx, cfg.S3, target)
	if err != nil {
		return err
	}

	uploader := transfer.NewS3Uploader(fs, transfer.NewPool(cfg.Workers), s3Client.Client, target.Bucket, prefix)
	n, err := uploader.Upload(ctx, from)
	if err != nil {
		return err
	}

	log.WithField("files", n).Infof("Successfully uploaded %s to bucket %s", from, target.Bucket)
	return nil
}

// newS3Client connects with the configured credentials. Region and endpoint
// given in the target win over the configuration.
func newS3Client(ctx context.Context, cfg config.ConfigS3Client, target client.S3Target) (*client.S3, error) {
	if target.Region != "" {
		cfg.Region = config.MultiSourceString{Data: target.Region}
	}
	if target.Endpoint != "" {
		cfg.Endpoint = config.MultiSourceString{Data: target.Endpoint}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s3Client, err := client.NewS3(ctx, cfg.Endpoint.Get(), cfg.Region.Get(), cfg.AccessKey.Get(), cfg.SecretKey.Get())
	if err != nil {
		return nil, fmt.Errorf("cannot create s3 client: %w", err)
	}
	return s3Client, nil
}
