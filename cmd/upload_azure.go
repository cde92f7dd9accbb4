package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"uzdu/internal/client"
	"uzdu/internal/config"
	"uzdu/internal/transfer"
)

func newUploadAzureCmd(opts *options) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:     "azure <from> [container]",
		Aliases: []string{"az"},
		Short:   "Upload a directory or file to an Azure Blob Storage container",
		Long: "Upload a directory or file to an Azure Blob Storage container " +
			"(default " + config.DefaultContainer + "). The connection string is read " +
			"from AZURE_STORAGE_CONNECTION_STRING unless configured.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container := opts.cfg.Azure.Container
			if len(args) > 1 {
				container = args[1]
			}
			return withExitCode(ExitAzure, uploadAzure(cmd.Context(), opts.cfg, args[0], container, prefix))
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "blob directory of the uploaded blobs")
	return cmd
}

func uploadAzure(ctx context.Context, cfg *config.Config, from, container, prefix string) error {
	if err := cfg.Azure.Validate(); err != nil {
		return err
	}
	if container == "" {
		container = config.DefaultContainer
	}

	azClient, err := client.NewAzure(cfg.Azure.ConnectionString.Get())
	if err != nil {
		return err
	}

	uploader := transfer.NewAzureUploader(fs, transfer.NewPool(cfg.Workers), azClient, container, prefix)
	n, err := uploader.Upload(ctx, from)
	if err != nil {
		return err
	}

	log.WithField("files", n).Infof("Successfully uploaded %s to container %s", from, container)
	return nil
}
