package minio

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/nebulahq/hacknebula/pkg/errors"
)

// BlobStore implements the submission asset store on MinIO.
type BlobStore struct {
	client *Client
}

// NewBlobStore builds the asset store on the shared client.
func NewBlobStore(client *Client) *BlobStore {
	return &BlobStore{client: client}
}

// Put streams an object into the asset bucket.
func (b *BlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := b.client.api.PutObject(ctx, b.client.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "store asset")
	}
	return nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (b *BlobStore) Delete(ctx context.Context, key string) error {
	err := b.client.api.RemoveObject(ctx, b.client.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "delete asset")
	}
	return nil
}

// PresignedGetURL returns a time-limited download URL for an asset.
func (b *BlobStore) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := b.client.api.PresignedGetObject(ctx, b.client.bucket, key, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "presign asset url")
	}
	return u.String(), nil
}
