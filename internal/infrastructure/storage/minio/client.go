// Package minio stores submission assets in object storage.
package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
)

// API is the subset of the MinIO SDK the platform touches, abstracted for
// testing.
type API interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
}

// Client wraps the MinIO connection and the asset bucket.
type Client struct {
	api    API
	bucket string
	logger logging.Logger
}

// NewClient dials MinIO, verifies the connection, and ensures the asset
// bucket exists.
func NewClient(cfg config.StorageConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNop()
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "build minio client")
	}

	c := &Client{api: api, bucket: cfg.Bucket, logger: log}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("minio connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL),
	)
	return c, nil
}

// NewClientWithAPI is the test seam.
func NewClientWithAPI(api API, bucket string, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	return &Client{api: api, bucket: bucket, logger: log}
}

// EnsureBucket creates the asset bucket when missing.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "check asset bucket")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "create asset bucket")
	}
	c.logger.Info("asset bucket created", logging.String("bucket", c.bucket))
	return nil
}
