package transfer

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	commands []string
	exitCode int
}

func (r *fakeRunner) Run(_ context.Context, cmd string) error {
	r.commands = append(r.commands, cmd)
	if r.exitCode != 0 {
		return &ExitStatusError{Code: r.exitCode, Command: cmd}
	}
	return nil
}

// memRemote is a remote filesystem backed by afero.
type memRemote struct {
	fs afero.Fs

	mu      sync.Mutex
	created []string
}

func (r *memRemote) Lstat(p string) (os.FileInfo, error) {
	return r.fs.Stat(p)
}

func (r *memRemote) Create(p string) (io.WriteCloser, error) {
	r.mu.Lock()
	r.created = append(r.created, p)
	r.mu.Unlock()
	return r.fs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

func newSFTPUploader(local afero.Fs, runner *fakeRunner, remote *memRemote) *SFTPUploader {
	return &SFTPUploader{FS: local, Pool: NewPool(2), Runner: runner, Remote: remote}
}

func TestSFTPUpload(t *testing.T) {
	local := afero.NewMemMapFs()
	setupFiles(t, local, []file{
		{"dist/index.html", "<html>"},
		{"dist/static/js/app.js", "js"},
		{"dist/static/css/app.css", "css"},
	})

	runner := &fakeRunner{}
	remote := &memRemote{fs: afero.NewMemMapFs()}
	// the mkdir command is faked, so prepare what it would create
	require.NoError(t, remote.fs.MkdirAll("/var/www/static/js", 0755))
	require.NoError(t, remote.fs.MkdirAll("/var/www/static/css", 0755))

	n, err := newSFTPUploader(local, runner, remote).Upload(context.Background(), "dist", "/var/www/")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, []string{"mkdir -p '/var/www/static/css';mkdir -p '/var/www/static/js'"}, runner.commands)
	assert.ElementsMatch(t, []string{
		"/var/www/index.html",
		"/var/www/static/js/app.js",
		"/var/www/static/css/app.css",
	}, remote.created)

	contents, err := afero.ReadFile(remote.fs, "/var/www/static/js/app.js")
	require.NoError(t, err)
	assert.Equal(t, "js", string(contents))
}

func TestSFTPUploadFlatTree(t *testing.T) {
	local := afero.NewMemMapFs()
	setupFiles(t, local, []file{{"dist/index.html", "<html>"}})

	runner := &fakeRunner{}
	remote := &memRemote{fs: afero.NewMemMapFs()}
	require.NoError(t, remote.fs.MkdirAll("/srv", 0755))

	_, err := newSFTPUploader(local, runner, remote).Upload(context.Background(), "dist", "/srv")
	require.NoError(t, err)
	assert.Equal(t, []string{"mkdir -p '/srv'"}, runner.commands)
}

func TestSFTPUploadSingleFile(t *testing.T) {
	local := afero.NewMemMapFs()
	setupFiles(t, local, []file{{"build/app.zip", "zip"}})

	runner := &fakeRunner{}
	remote := &memRemote{fs: afero.NewMemMapFs()}
	require.NoError(t, remote.fs.MkdirAll("/opt/releases", 0755))

	_, err := newSFTPUploader(local, runner, remote).Upload(context.Background(), "build/app.zip", "/opt/releases/")
	require.NoError(t, err)

	assert.Equal(t, []string{"mkdir -p '/opt/releases'"}, runner.commands)
	assert.Equal(t, []string{"/opt/releases/app.zip"}, remote.created)
}

func TestSFTPUploadMkdirFails(t *testing.T) {
	local := afero.NewMemMapFs()
	setupFiles(t, local, []file{{"dist/a/b.txt", "b"}})

	runner := &fakeRunner{exitCode: 1}
	remote := &memRemote{fs: afero.NewMemMapFs()}

	_, err := newSFTPUploader(local, runner, remote).Upload(context.Background(), "dist", "/srv")
	assert.EqualError(t, err, `Exit code: 1 for "mkdir -p '/srv/a'"`)
	assert.Empty(t, remote.created)
}

func TestSFTPUploadRefusesDirectoryTarget(t *testing.T) {
	local := afero.NewMemMapFs()
	setupFiles(t, local, []file{{"dist/index.html", "<html>"}})

	remote := &memRemote{fs: afero.NewMemMapFs()}
	require.NoError(t, remote.fs.MkdirAll("/srv/index.html", 0755))

	_, err := newSFTPUploader(local, &fakeRunner{}, remote).Upload(context.Background(), "dist", "/srv")
	assert.ErrorContains(t, err,
		"Overwriting directory /srv/index.html with the file index.html is not allowed. Remove the directory manually.")
	assert.Empty(t, remote.created)
}

func TestSFTPUploadMissingSource(t *testing.T) {
	runner := &fakeRunner{}
	_, err := newSFTPUploader(afero.NewMemMapFs(), runner, &memRemote{fs: afero.NewMemMapFs()}).
		Upload(context.Background(), "nope", "/srv")
	assert.Error(t, err)
	assert.Empty(t, runner.commands)
}

func TestExitStatusError(t *testing.T) {
	err := &ExitStatusError{Code: 2, Command: "mkdir -p '/x'"}
	assert.Equal(t, `Exit code: 2 for "mkdir -p '/x'"`, err.Error())
}
