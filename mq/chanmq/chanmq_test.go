package chanmq_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SunnySoftwareTech/Drafty/mq/chanmq"
)

func TestChanMQ_SendReceiveDelete(t *testing.T) {
	q := chanmq.NewChanMessageQueue(4, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, q.Send(ctx, "u1", `{"action":"push"}`))
	assert.Equal(t, 1, q.Len())

	msg, err := q.Receive(ctx, 30)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "u1", msg.GroupId)
	assert.Equal(t, `{"action":"push"}`, msg.Body)
	assert.NotEmpty(t, msg.Id)

	require.NoError(t, q.Delete(ctx, msg))

	msg, err = q.Receive(ctx, 30)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestChanMQ_Redelivery(t *testing.T) {
	q := chanmq.NewChanMessageQueue(4, 2*time.Second)
	ctx := context.Background()

	require.NoError(t, q.Send(ctx, "u1", "body"))
	first, err := q.Receive(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := q.Receive(ctx, 30)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "body", second.Body)
	assert.NotEqual(t, first.Id, second.Id)
}

func TestChanMQ_Full(t *testing.T) {
	q := chanmq.NewChanMessageQueue(1, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, q.Send(ctx, "u1", "a"))
	assert.ErrorIs(t, q.Send(ctx, "u1", "b"), chanmq.ErrQueueFull)
}

func TestChanMQ_ReceiveCancelled(t *testing.T) {
	q := chanmq.NewChanMessageQueue(1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Receive(ctx, 30)
	assert.ErrorIs(t, err, context.Canceled)
}
