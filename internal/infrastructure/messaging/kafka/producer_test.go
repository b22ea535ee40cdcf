package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/internal/domain/activity"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishKeysByTeam(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "nebula.activity", nil)

	event := activity.NewEvent(activity.EventTeamCreated, "user-1", "created team Rocket")
	event.TeamID = "team-1"
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "team-1", string(w.msgs[0].Key))

	var decoded activity.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, activity.EventTeamCreated, decoded.Type)

	published, failed := p.Metrics()
	assert.EqualValues(t, 1, published)
	assert.EqualValues(t, 0, failed)
}

func TestProducer_PublishFallsBackToActorKey(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "nebula.activity", nil)

	event := activity.NewEvent(activity.EventPostPublished, "user-9", "posted")
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "user-9", string(w.msgs[0].Key))
}

func TestProducer_PublishWriteFailure(t *testing.T) {
	w := &fakeWriter{err: assert.AnError}
	p := NewProducerWithWriter(w, "nebula.activity", nil)

	err := p.Publish(context.Background(), activity.NewEvent(activity.EventPostPublished, "u", "x"))

	require.Error(t, err)
	_, failed := p.Metrics()
	assert.EqualValues(t, 1, failed)
}

func TestProducer_PublishAfterClose(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "nebula.activity", nil)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.Publish(context.Background(), activity.NewEvent(activity.EventPostPublished, "u", "x"))
	assert.ErrorIs(t, err, ErrProducerClosed)

	// Close is idempotent.
	assert.NoError(t, p.Close())
}
