// Package kafka carries the activity stream between the API server and the
// worker over a single Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeMessagingError, "producer closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerMetrics counts publishes since process start.
type ProducerMetrics struct {
	Published atomic.Int64
	Failed    atomic.Int64
}

// Producer publishes activity events to the stream topic.  It implements
// activity.Publisher.
type Producer struct {
	writer  WriterInterface
	topic   string
	logger  logging.Logger
	closed  atomic.Bool
	metrics ProducerMetrics
}

// NewProducer builds a producer on the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNop()
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = time.Second
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.ActivityTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		WriteTimeout: 10 * time.Second,
	}
	return &Producer{writer: writer, topic: cfg.ActivityTopic, logger: log}
}

// NewProducerWithWriter is the test seam.
func NewProducerWithWriter(w WriterInterface, topic string, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Producer{writer: w, topic: topic, logger: log}
}

// Publish sends one event, keyed by team so a team's activity stays in
// order.
func (p *Producer) Publish(ctx context.Context, event activity.Event) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.metrics.Failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal activity event")
	}

	key := string(event.TeamID)
	if key == "" {
		key = string(event.ActorID)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.Failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeMessagingError, "publish activity event")
	}

	p.metrics.Published.Add(1)
	p.logger.Debug("activity event published",
		logging.String("type", string(event.Type)),
		logging.String("topic", p.topic),
	)
	return nil
}

// Metrics exposes publish counters.
func (p *Producer) Metrics() (published, failed int64) {
	return p.metrics.Published.Load(), p.metrics.Failed.Load()
}

// Close flushes and shuts the writer down.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}
