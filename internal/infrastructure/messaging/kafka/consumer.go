package kafka

import (
	"context"
	"encoding/json"
	"io"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
)

var ErrConsumerClosed = errors.New(errors.ErrCodeMessagingError, "consumer closed")

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one activity event.  Returning an error leaves the
// message uncommitted so the group redelivers it.
type Handler func(ctx context.Context, event activity.Event) error

// ConsumerMetrics counts consumed messages since process start.
type ConsumerMetrics struct {
	Consumed atomic.Int64
	Failed   atomic.Int64
	Skipped  atomic.Int64
}

// Consumer reads the activity topic and hands events to a Handler.  The
// worker binary runs one per process.
type Consumer struct {
	reader  ReaderInterface
	logger  logging.Logger
	closed  atomic.Bool
	metrics ConsumerMetrics
}

// NewConsumer builds a group consumer for the activity topic.
func NewConsumer(cfg config.KafkaConfig, log logging.Logger) *Consumer {
	if log == nil {
		log = logging.NewNop()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          cfg.ActivityTopic,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0, // explicit commits only
	})
	return &Consumer{reader: reader, logger: log}
}

// NewConsumerWithReader is the test seam.
func NewConsumerWithReader(r ReaderInterface, log logging.Logger) *Consumer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Consumer{reader: r, logger: log}
}

// Run consumes until ctx is cancelled or the reader closes.  Undecodable
// messages are committed and skipped; handler failures leave the offset
// uncommitted.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return nil
			}
			if c.closed.Load() {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "fetch activity message")
		}

		var event activity.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.metrics.Skipped.Add(1)
			c.logger.Warn("dropping undecodable activity message",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return errors.Wrap(err, errors.ErrCodeMessagingError, "commit skipped message")
			}
			continue
		}

		if err := handle(ctx, event); err != nil {
			c.metrics.Failed.Add(1)
			c.logger.Error("activity handler failed, message will be redelivered",
				logging.String("type", string(event.Type)),
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return errors.Wrap(err, errors.ErrCodeMessagingError, "commit activity message")
		}
		c.metrics.Consumed.Add(1)
	}
}

// Metrics exposes consume counters.
func (c *Consumer) Metrics() (consumed, failed, skipped int64) {
	return c.metrics.Consumed.Load(), c.metrics.Failed.Load(), c.metrics.Skipped.Load()
}

// Close stops the reader; a blocked Run call returns after this.
func (c *Consumer) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.reader.Close()
}
