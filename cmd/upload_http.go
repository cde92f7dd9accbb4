package cmd

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"uzdu/internal/client"
	"uzdu/internal/config"
	"uzdu/internal/transfer"
)

const headerUsage = `HTTP header, e.g. --header "Authentication: cGFzc3dvcmQ=". May be repeated`

func newUploadHTTPCmd(opts *options) *cobra.Command {
	var headers []string
	cmd := &cobra.Command{
		Use:   "http <from> <url>",
		Short: "Upload a directory or file with one HTTP PUT per file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withExitCode(ExitHTTP, uploadHTTP(cmd.Context(), opts.cfg, args[0], args[1], headers))
		},
	}
	cmd.Flags().StringArrayVar(&headers, "header", nil, headerUsage)
	return cmd
}

func newDownloadHTTPCmd(opts *options) *cobra.Command {
	var headers []string
	cmd := &cobra.Command{
		Use:   "http <url> [to]",
		Short: "Download a URL into a file",
		Long: "Download a URL. [to] is the file to save to, or a directory when it " +
			"ends with a slash, e.g. temp/a.zip or temp/. By default the file is " +
			"saved in the working directory under the last segment of the URL path.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var to string
			if len(args) > 1 {
				to = args[1]
			}
			return withExitCode(ExitHTTP, downloadHTTP(cmd.Context(), opts.cfg, args[0], to, headers))
		},
	}
	cmd.Flags().StringArrayVar(&headers, "header", nil, headerUsage)
	return cmd
}

// httpHeaders merges the configured headers with the ones from flags.
func httpHeaders(cfg config.ConfigHTTP, flags []string) (http.Header, error) {
	return client.ParseHeaders(append(append([]string{}, cfg.Headers...), flags...))
}

func uploadHTTP(ctx context.Context, cfg *config.Config, from, url string, flags []string) error {
	headers, err := httpHeaders(cfg.HTTP, flags)
	if err != nil {
		return err
	}

	uploader := &transfer.HTTPUploader{
		FS:      fs,
		Pool:    transfer.NewPool(cfg.Workers),
		Client:  client.NewHTTP(cfg.HTTP.Timeout),
		Headers: headers,
	}
	n, err := uploader.Upload(ctx, from, url)
	if err != nil {
		return err
	}

	log.WithField("files", n).Infof("Successfully uploaded %s to %s", from, url)
	return nil
}

func downloadHTTP(ctx context.Context, cfg *config.Config, url, to string, flags []string) error {
	headers, err := httpHeaders(cfg.HTTP, flags)
	if err != nil {
		return err
	}

	downloader := &transfer.HTTPDownloader{
		FS:      fs,
		Client:  client.NewHTTP(cfg.HTTP.Timeout),
		Headers: headers,
	}
	saved, err := downloader.Download(ctx, url, to)
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
