package transfer

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"uzdu/internal/fsutil"
	"uzdu/internal/metadata"
)

// Object is one local file on its way to a blob store.
type Object struct {
	Key     string
	Body    io.Reader
	Size    int64
	Headers metadata.Headers
}

// putFunc stores one object remotely.
type putFunc func(ctx context.Context, obj Object) error

// NewResolver returns the header resolver for the files of src. The
// sidecar of a directory source is used when present; a malformed one is
// logged and ignored.
func NewResolver(fs afero.Fs, src fsutil.Source, blobDir string) metadata.Resolver {
	if src.Single {
		return metadata.NewResolver(blobDir, nil)
	}

	md, err := metadata.Load(fs, src.Root, metadata.DefaultFile)
	if err != nil {
		log.WithError(err).Warn("Ignoring metadata file")
	}
	return metadata.NewResolver(blobDir, md)
}

// uploadTree lists from and puts every file through the pool. It returns
// the number of files uploaded.
func uploadTree(ctx context.Context, fs afero.Fs, pool *Pool, from, blobDir string, put putFunc) (int, error) {
	src, err := fsutil.List(fs, from)
	if err != nil {
		return 0, err
	}
	resolver := NewResolver(fs, src, blobDir)

	err = pool.Run(ctx, src.Files, func(ctx context.Context, rel string) error {
		f, err := fs.Open(src.Local(rel))
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		obj := Object{
			Key:     resolver.Key(rel),
			Body:    f,
			Size:    info.Size(),
			Headers: resolver.Lookup(rel),
		}
		if err := put(ctx, obj); err != nil {
			return fmt.Errorf("upload %s: %w", src.Local(rel), err)
		}

		log.WithFields(log.Fields{
			"key":          obj.Key,
			"contentType":  obj.Headers.ContentType,
			"cacheControl": obj.Headers.CacheControl,
		}).Debug("Uploaded")
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(src.Files), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
