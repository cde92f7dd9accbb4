// Package cmd implements the uzdu command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"uzdu/internal/config"
)

// Exit codes, one per command family.
const (
	ExitUnexpected = 20
	ExitHTTP       = 21
	ExitCopy       = 33
	ExitAzure      = 43
	ExitAWS        = 53
	ExitZip        = 61
	ExitMetadata   = 111
	ExitSSH        = 127
)

// debugEnvKey enables debug logging when set to "true".
const debugEnvKey = "DEBUG"

// Mocked for unit testing.
var (
	fs     afero.Fs  = afero.NewOsFs()
	stdout io.Writer = os.Stdout
)

// exitError is a failed command together with its process exit code.
type exitError struct {
	code int
	err  error
}

func (err *exitError) Error() string {
	return err.err.Error()
}

func (err *exitError) Unwrap() error {
	return err.err
}

// withExitCode tags err with code. A nil err stays nil.
func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return ExitUnexpected
}

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	dotenv     string
	verbose    bool
	workers    int

	cfg *config.Config
}

// New creates the root `uzdu` command.
func New() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "uzdu",
		Short: "Universal zipper, downloader and uploader",
		Long: "uzdu zips, unzips and copies local files and uploads them to " +
			"Azure Blob Storage, AWS S3, HTTP servers or SSH hosts.",
		SilenceUsage: true,

		// Execute logs the error, so we silence errors here to avoid double
		// printing.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultFile, "YAML configuration file")
	flags.StringVarP(&opts.dotenv, "dotenv", "d", "",
		"load environment variables from a KEY=value file, --dotenv=FILE (.env without a value)")
	flags.Lookup("dotenv").NoOptDefVal = ".env"
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")
	flags.IntVar(&opts.workers, "workers", config.DefaultWorkers, "number of concurrent file transfers")

	rootCmd.AddCommand(
		newUploadCmd(opts),
		newDownloadCmd(opts),
		newZipCmd(),
		newUnzipCmd(),
		newCopyCmd(),
		newMetadataCmd(),
	)
	return rootCmd
}

func (opts *options) setup(cmd *cobra.Command) error {
	if opts.dotenv != "" {
		if err := config.LoadDotenv(opts.dotenv); err != nil {
			return err
		}
	}
	if opts.verbose || os.Getenv(debugEnvKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(fs, opts.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("workers") {
		if opts.workers <= 0 {
			return fmt.Errorf("--workers should be positive, got %d", opts.workers)
		}
		cfg.Workers = opts.workers
	}
	opts.cfg = cfg
	return nil
}

// Execute runs the CLI and exits the process on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := New().ExecuteContext(ctx)
	stop()

	if err != nil {
		log.Error(err)
		os.Exit(ExitCode(err))
	}
}
