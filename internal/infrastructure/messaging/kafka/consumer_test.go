package kafka

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/internal/domain/activity"
)

type fakeReader struct {
	msgs      []kafka.Message
	next      int
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	if r.next >= len(r.msgs) {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[r.next]
	r.next++
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func eventMessage(t *testing.T, offset int64, event activity.Event) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: value}
}

func TestConsumer_RunDispatchesAndCommits(t *testing.T) {
	e1 := activity.NewEvent(activity.EventTeamCreated, "u1", "created a team")
	e2 := activity.NewEvent(activity.EventPostPublished, "u2", "posted")
	r := &fakeReader{msgs: []kafka.Message{
		eventMessage(t, 10, e1),
		eventMessage(t, 11, e2),
	}}
	c := NewConsumerWithReader(r, nil)

	var seen []activity.EventType
	err := c.Run(context.Background(), func(_ context.Context, e activity.Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []activity.EventType{activity.EventTeamCreated, activity.EventPostPublished}, seen)
	assert.Equal(t, []int64{10, 11}, r.committed)

	consumed, failed, skipped := c.Metrics()
	assert.EqualValues(t, 2, consumed)
	assert.EqualValues(t, 0, failed)
	assert.EqualValues(t, 0, skipped)
}

func TestConsumer_RunSkipsUndecodable(t *testing.T) {
	good := activity.NewEvent(activity.EventLandCreated, "u1", "settled a land")
	r := &fakeReader{msgs: []kafka.Message{
		{Offset: 5, Value: []byte("{garbage")},
		eventMessage(t, 6, good),
	}}
	c := NewConsumerWithReader(r, nil)

	var seen int
	err := c.Run(context.Background(), func(context.Context, activity.Event) error {
		seen++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, seen)
	// Both offsets commit: the garbage one so it is not redelivered.
	assert.Equal(t, []int64{5, 6}, r.committed)

	_, _, skipped := c.Metrics()
	assert.EqualValues(t, 1, skipped)
}

func TestConsumer_RunLeavesFailedUncommitted(t *testing.T) {
	e := activity.NewEvent(activity.EventChipsAllocated, "investor", "allocated chips")
	r := &fakeReader{msgs: []kafka.Message{eventMessage(t, 3, e)}}
	c := NewConsumerWithReader(r, nil)

	err := c.Run(context.Background(), func(context.Context, activity.Event) error {
		return assert.AnError
	})

	require.NoError(t, err)
	assert.Empty(t, r.committed)

	_, failed, _ := c.Metrics()
	assert.EqualValues(t, 1, failed)
}

func TestConsumer_RunStopsOnCancel(t *testing.T) {
	r := &fakeReader{}
	c := NewConsumerWithReader(r, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Run(ctx, func(context.Context, activity.Event) error { return nil })
	assert.NoError(t, err)
}
