// Package opensearch provides full-text search over teams, submissions and
// feed posts.
package opensearch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
)

var ErrClusterUnavailable = errors.New(errors.ErrCodeSearchError, "search cluster unavailable")

// Client wraps the OpenSearch connection and tracks cluster health.
type Client struct {
	os          *opensearch.Client
	indexPrefix string
	logger      logging.Logger
	healthy     atomic.Bool
}

// NewClient dials the cluster and verifies the connection.
func NewClient(cfg config.OpenSearchConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNop()
	}

	os, err := opensearch.NewClient(opensearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchError, "build opensearch client")
	}

	c := &Client{os: os, indexPrefix: cfg.IndexPrefix, logger: log}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		return nil, ErrClusterUnavailable
	}
	c.healthy.Store(true)

	log.Info("opensearch connected", logging.Strings("addresses", cfg.Addresses))
	return c, nil
}

// Ping checks cluster liveness and updates the health flag.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.os.Ping(c.os.Ping.WithContext(ctx))
	if err != nil {
		c.healthy.Store(false)
		return errors.Wrap(err, errors.ErrCodeSearchError, "ping opensearch")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		c.healthy.Store(false)
		return ErrClusterUnavailable
	}
	c.healthy.Store(true)
	return nil
}

// Healthy reports the result of the last ping.
func (c *Client) Healthy() bool {
	return c.healthy.Load()
}

// IndexName prefixes a logical index name with the configured prefix.
func (c *Client) IndexName(name string) string {
	if c.indexPrefix == "" {
		return name
	}
	return c.indexPrefix + "-" + name
}

// Raw exposes the underlying client for the sibling files in this package.
func (c *Client) Raw() *opensearch.Client {
	return c.os
}
