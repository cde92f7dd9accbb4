package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/sftp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"

	"uzdu/internal/fsutil"
	"uzdu/internal/tree"
)

// CommandRunner executes a shell command on the remote host.
type CommandRunner interface {
	Run(ctx context.Context, cmd string) error
}

// RemoteFS is the part of an SFTP session the uploader needs.
type RemoteFS interface {
	Lstat(p string) (os.FileInfo, error)
	Create(p string) (io.WriteCloser, error)
}

// ExitStatusError is a remote command that exited nonzero.
type ExitStatusError struct {
	Code    int
	Command string
}

func (err *ExitStatusError) Error() string {
	return fmt.Sprintf("Exit code: %d for %q", err.Code, err.Command)
}

type sshRunner struct {
	client *ssh.Client
}

func (r sshRunner) Run(ctx context.Context, cmd string) error {
	session, err := r.client.NewSession()
	if err != nil {
		return fmt.Errorf("open ssh session: %w", err)
	}
	defer session.Close()

	var stderr bytes.Buffer
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return ctx.Err()
	case err := <-done:
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			log.WithField("stderr", stderr.String()).Debug("Remote command failed")
			return &ExitStatusError{Code: exitErr.ExitStatus(), Command: cmd}
		}
		return err
	}
}

type sftpFS struct {
	client *sftp.Client
}

func (fs sftpFS) Lstat(p string) (os.FileInfo, error) {
	return fs.client.Lstat(p)
}

func (fs sftpFS) Create(p string) (io.WriteCloser, error) {
	return fs.client.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// SFTPUploader copies a local tree onto a host: it creates the remote
// directories with a single mkdir command, then transfers the files.
type SFTPUploader struct {
	FS     afero.Fs
	Pool   *Pool
	Runner CommandRunner
	Remote RemoteFS
}

// NewSFTPUploader returns an uploader over an established connection.
func NewSFTPUploader(fs afero.Fs, pool *Pool, conn *ssh.Client, sc *sftp.Client) *SFTPUploader {
	return &SFTPUploader{
		FS:     fs,
		Pool:   pool,
		Runner: sshRunner{client: conn},
		Remote: sftpFS{client: sc},
	}
}

// Upload copies source into the remote directory destination. It returns
// the number of files transferred.
func (u *SFTPUploader) Upload(ctx context.Context, source, destination string) (int, error) {
	link, err := fsutil.IsSymlink(u.FS, source)
	if err != nil {
		return 0, err
	}
	if link {
		return 0, fmt.Errorf("%s is symlink", source)
	}

	src, err := fsutil.List(u.FS, source)
	if err != nil {
		return 0, err
	}

	t, err := tree.Build(src.Files)
	if err != nil {
		return 0, err
	}
	destination = tree.TrimDestination(destination)
	cmd := tree.MkdirCommandLine(tree.Plan(t, destination))

	log.WithField("command", cmd).Debug("Creating remote directories")
	if err := u.Runner.Run(ctx, cmd); err != nil {
		return 0, err
	}

	err = u.Pool.Run(ctx, src.Files, func(ctx context.Context, rel string) error {
		dst := path.Join(destination, rel)
		log.Infof("Uploading %s => %s", src.Local(rel), dst)
		if err := u.put(src.Local(rel), dst); err != nil {
			return fmt.Errorf("upload %s: %w", src.Local(rel), err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(src.Files), nil
}

func (u *SFTPUploader) put(local, dst string) error {
	info, err := u.Remote.Lstat(dst)
	switch {
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return err
	case err == nil && info.IsDir():
		return fmt.Errorf("Overwriting directory %s with the file %s is not allowed. Remove the directory manually.", dst, path.Base(local))
	case err == nil && !info.Mode().IsRegular():
		return errors.New("Remote path is symlink")
	}

	in, err := u.FS.Open(local)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := u.Remote.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
