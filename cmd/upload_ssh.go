package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"uzdu/internal/client"
	"uzdu/internal/config"
	"uzdu/internal/fsutil"
	"uzdu/internal/transfer"
)

type sshFlags struct {
	target     string
	username   string
	keyFile    string
	password   string
	knownHosts string
}

func newUploadSSHCmd(opts *options) *cobra.Command {
	var flags sshFlags
	cmd := &cobra.Command{
		Use:   "ssh <source> <destination>",
		Short: "Upload a directory or file to a host over SFTP",
		Long: "Upload a directory or file into the remote directory <destination>. " +
			"Remote directories are created with a single mkdir command before any " +
			"file is transferred.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withExitCode(ExitSSH, uploadSSH(cmd.Context(), opts.cfg, args[0], args[1], flags))
		},
	}
	cmd.Flags().StringVar(&flags.target, "target", "", "target host, host[:port] (port 22 by default)")
	cmd.Flags().StringVar(&flags.username, "targetUsername", "", "user on the target host (default root)")
	cmd.Flags().StringVar(&flags.keyFile, "targetKey", "", "private key file, e.g. ~/.ssh/id_rsa")
	cmd.Flags().StringVar(&flags.password, "targetPassword", "", "password of the target user")
	cmd.Flags().StringVar(&flags.knownHosts, "known-hosts", "",
		"known_hosts file to verify the host key against (verification is off otherwise)")
	return cmd
}

// sshOptions overlays the flags on the configured SSH settings.
func sshOptions(cfg config.ConfigSSH, flags sshFlags) (client.SSHOptions, error) {
	if flags.username != "" {
		cfg.Username = flags.username
	}
	if flags.keyFile != "" {
		cfg.KeyFile = flags.keyFile
	}
	if flags.password != "" {
		cfg.Password = config.MultiSourceString{Data: flags.password}
	}
	if flags.knownHosts != "" {
		cfg.KnownHosts = flags.knownHosts
	}
	if err := cfg.Validate(); err != nil {
		return client.SSHOptions{}, err
	}

	host, port, err := client.ParseSSHTarget(flags.target, cfg.Port)
	if err != nil {
		return client.SSHOptions{}, err
	}

	opts := client.SSHOptions{
		Host:     host,
		Port:     port,
		Username: cfg.Username,
		Password: cfg.Password.Get(),
		Timeout:  cfg.Timeout,
	}
	if cfg.KeyFile != "" {
		path, err := fsutil.Resolve(cfg.KeyFile)
		if err != nil {
			return client.SSHOptions{}, err
		}
		if opts.PrivateKey, err = afero.ReadFile(fs, path); err != nil {
			return client.SSHOptions{}, fmt.Errorf("read private key: %w", err)
		}
	}
	if cfg.KnownHosts != "" {
		if opts.KnownHosts, err = fsutil.Resolve(cfg.KnownHosts); err != nil {
			return client.SSHOptions{}, err
		}
	}
	return opts, nil
}

func uploadSSH(ctx context.Context, cfg *config.Config, source, destination string, flags sshFlags) error {
	opts, err := sshOptions(cfg.SSH, flags)
	if err != nil {
		return err
	}

	conn, err := client.DialSSH(ctx, opts)
	if err != nil {
		return err
	}
	defer conn.Close()

	sftpClient, err := client.NewSFTP(conn)
	if err != nil {
		return err
	}
	defer sftpClient.Close()

	uploader := transfer.NewSFTPUploader(fs, transfer.NewPool(cfg.Workers), conn, sftpClient)
	n, err := uploader.Upload(ctx, source, destination)
	if err != nil {
		return err
	}

	log.WithField("files", n).Infof("Successfully uploaded %s to %s:%s", source, opts.Host, destination)
	return nil
}
