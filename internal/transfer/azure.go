package transfer

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/spf13/afero"
)

type blobStreamUploader interface {
	UploadStream(ctx context.Context, containerName, blobName string, body io.Reader, o *azblob.UploadStreamOptions) (azblob.UploadStreamResponse, error)
}

// AzureUploader puts a local tree into a blob container as block blobs.
type AzureUploader struct {
	FS        afero.Fs
	Pool      *Pool
	Container string
	Prefix    string

	client blobStreamUploader
}

// NewAzureUploader returns an uploader writing into container.
func NewAzureUploader(fs afero.Fs, pool *Pool, c *azblob.Client, container, prefix string) *AzureUploader {
	return &AzureUploader{
		FS:        fs,
		Pool:      pool,
		Container: container,
		Prefix:    prefix,
		client:    c,
	}
}

// Upload sends the file or directory at from. It returns the number of
// blobs written.
func (u *AzureUploader) Upload(ctx context.Context, from string) (int, error) {
	return uploadTree(ctx, u.FS, u.Pool, from, u.Prefix, func(ctx context.Context, obj Object) error {
		_, err := u.client.UploadStream(ctx, u.Container, obj.Key, obj.Body, &azblob.UploadStreamOptions{
			HTTPHeaders: &blob.HTTPHeaders{
				BlobCacheControl: optional(obj.Headers.CacheControl),
				BlobContentType:  optional(obj.Headers.ContentType),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to upload blob %s to container %s: %w", obj.Key, u.Container, err)
		}
		return nil
	})
}
