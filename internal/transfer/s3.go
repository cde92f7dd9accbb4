package transfer

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"

	"uzdu/internal/fsutil"
)

// Multipart settings of the S3 uploader.
const (
	S3PartSize    = 5 * 1024 * 1024
	S3Concurrency = 4
)

type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Uploader puts a local tree into a bucket.
type S3Uploader struct {
	FS     afero.Fs
	Pool   *Pool
	Bucket string
	Prefix string

	uploader objectUploader
}

// NewS3Uploader returns a multipart uploader for bucket. Keys are placed
// under prefix.
func NewS3Uploader(fs afero.Fs, pool *Pool, c *s3.Client, bucket, prefix string) *S3Uploader {
	return &S3Uploader{
		FS:     fs,
		Pool:   pool,
		Bucket: bucket,
		Prefix: prefix,
		uploader: manager.NewUploader(c, func(u *manager.Uploader) {
			u.PartSize = S3PartSize
			u.Concurrency = S3Concurrency
			u.LeavePartsOnError = false
		}),
	}
}

// Upload sends the file or directory at from. It returns the number of
// objects written.
func (u *S3Uploader) Upload(ctx context.Context, from string) (int, error) {
	return uploadTree(ctx, u.FS, u.Pool, from, u.Prefix, func(ctx context.Context, obj Object) error {
		_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(u.Bucket),
			Key:          aws.String(obj.Key),
			Body:         obj.Body,
			CacheControl: optional(obj.Headers.CacheControl),
			ContentType:  optional(obj.Headers.ContentType),
		})
		if err != nil {
			return fmt.Errorf("failed to put object %s to bucket %s: %w", obj.Key, u.Bucket, err)
		}
		return nil
	})
}

// S3Downloader fetches single objects from a bucket.
type S3Downloader struct {
	FS     afero.Fs
	Bucket string

	getter objectGetter
}

// NewS3Downloader returns a downloader for bucket.
func NewS3Downloader(fs afero.Fs, c *s3.Client, bucket string) *S3Downloader {
	return &S3Downloader{FS: fs, Bucket: bucket, getter: c}
}

// Download saves key to the file named after to and returns its path.
func (d *S3Downloader) Download(ctx context.Context, key, to string) (string, error) {
	robj, err := d.getter.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object %s from bucket %s: %w", key, d.Bucket, err)
	}
	defer robj.Body.Close()

	target := targetPath(path.Base(key), to)
	if err := save(d.FS, target, robj.Body); err != nil {
		return "", fmt.Errorf("failed to read object %s from bucket %s: %w", key, d.Bucket, err)
	}
	return target, nil
}

// targetPath places a download called name: into to when it ends with a
// separator, as to when set, else into the working directory.
func targetPath(name, to string) string {
	if name == "" || name == "." || name == "/" {
		name = DefaultDownloadName
	}
	switch {
	case to == "":
		return name
	case fsutil.HasTrailingSeparator(to):
		return filepath.Join(to, name)
	default:
		return to
	}
}
