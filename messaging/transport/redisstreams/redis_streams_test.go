package redisstreams

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordering/errors"
	"ordering/messaging"
)

type fakeClient struct {
	mu     sync.Mutex
	added  []*redis.XAddArgs
	acked  []string
	addErr error
	closed bool
}

func (f *fakeClient) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, a)
	return redis.NewStringResult("1-0", f.addErr)
}

func (f *fakeClient) XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	<-ctx.Done()
	return redis.NewXStreamSliceCmdResult(nil, ctx.Err())
}

func (f *fakeClient) XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd {
	f.acked = append(f.acked, ids...)
	return redis.NewIntResult(int64(len(ids)), nil)
}

func (f *fakeClient) XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd {
	return redis.NewStatusResult("", stderrors.New("BUSYGROUP Consumer Group name already exists"))
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ts := time.Unix(0, 1700000000000000000)
	msg := &messaging.Message{
		ID:        "msg-1",
		Type:      "order-events",
		Timestamp: ts,
		Payload:   map[string]any{"total": 42},
		Metadata:  map[string]any{"correlation_id": "cor-123"},
	}

	values, err := encodeMessage(msg)
	require.NoError(t, err)

	decoded, err := decodeMessage(redis.XMessage{ID: "1-0", Values: values})
	require.NoError(t, err)
	assert.Equal(t, msg.ID, decoded.GetID())
	assert.Equal(t, msg.Type, decoded.GetType())
	assert.Equal(t, ts.UnixNano(), decoded.GetTimestamp().UnixNano())

	payload := decoded.GetPayload().(map[string]any)
	assert.Equal(t, float64(42), payload["total"])
	assert.Equal(t, "cor-123", decoded.GetMetadata()["correlation_id"])
}

func TestDecode_FallbackID(t *testing.T) {
	decoded, err := decodeMessage(redis.XMessage{ID: "2-0", Values: map[string]any{
		"type":      "order-events",
		"timestamp": int64(1700000000000000000),
		"payload":   "{}",
		"metadata":  "null",
	}})
	require.NoError(t, err)
	assert.Equal(t, "2-0", decoded.ID)
	assert.Equal(t, int64(1700000000000000000), decoded.GetTimestamp().UnixNano())
	assert.NotNil(t, decoded.Metadata)
}

func TestDecode_InvalidPayload(t *testing.T) {
	_, err := decodeMessage(redis.XMessage{ID: "3-0", Values: map[string]any{"payload": "{"}})
	assert.Error(t, err)
}

func TestNewTransport_RequiresAddress(t *testing.T) {
	_, err := NewTransport(Config{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeConfig))
}

func TestPublish(t *testing.T) {
	fc := &fakeClient{}
	tpt := newTransport(Config{MaxLen: 100}, fc, true)

	err := tpt.Publish(context.Background(), messaging.NewMessage("1", "order-events", nil))
	assert.ErrorIs(t, err, ErrNotRunning)

	require.NoError(t, tpt.Start(context.Background()))
	require.NoError(t, tpt.Publish(context.Background(), messaging.NewMessage("1", "order-events", nil)))
	require.Len(t, fc.added, 1)
	assert.Equal(t, "ordering:order-events", fc.added[0].Stream)
	assert.Equal(t, int64(100), fc.added[0].MaxLen)

	fc.addErr = stderrors.New("down")
	err = tpt.Publish(context.Background(), messaging.NewMessage("2", "order-events", nil))
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeQueue))

	require.NoError(t, tpt.Close())
	assert.True(t, fc.closed)
}

func TestPublishAll_KeepsOrderPerTopic(t *testing.T) {
	fc := &fakeClient{}
	tpt := newTransport(Config{MaxPublishConcurrency: 2}, fc, true)
	require.NoError(t, tpt.Start(context.Background()))
	defer tpt.Close()

	msgs := []messaging.IMessage{
		messaging.NewMessage("o1", "order-events", nil),
		messaging.NewMessage("c1", "customer-events", nil),
		messaging.NewMessage("o2", "order-events", nil),
		messaging.NewMessage("c2", "customer-events", nil),
		messaging.NewMessage("o3", "order-events", nil),
	}
	require.NoError(t, tpt.PublishAll(context.Background(), msgs))

	byStream := map[string][]any{}
	for _, a := range fc.added {
		values := a.Values.(map[string]any)
		byStream[a.Stream] = append(byStream[a.Stream], values["id"])
	}
	assert.Equal(t, []any{"o1", "o2", "o3"}, byStream["ordering:order-events"])
	assert.Equal(t, []any{"c1", "c2"}, byStream["ordering:customer-events"])
}

func TestPublishAll_ReturnsFirstError(t *testing.T) {
	fc := &fakeClient{addErr: stderrors.New("down")}
	tpt := newTransport(Config{}, fc, true)
	require.NoError(t, tpt.Start(context.Background()))
	defer tpt.Close()

	err := tpt.PublishAll(context.Background(), []messaging.IMessage{
		messaging.NewMessage("o1", "order-events", nil),
		messaging.NewMessage("o2", "order-events", nil),
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeQueue))
	assert.Len(t, fc.added, 1)
}

func TestHandleEntry_AcksOnlyOnSuccess(t *testing.T) {
	fc := &fakeClient{}
	tpt := newTransport(Config{}, fc, false)
	var fail bool
	require.NoError(t, tpt.Subscribe("order-events", messaging.NewHandler("rec", func(context.Context, messaging.IMessage) error {
		if fail {
			return stderrors.New("boom")
		}
		return nil
	})))

	values, err := encodeMessage(messaging.NewMessage("m-1", "order-events", nil))
	require.NoError(t, err)

	tpt.handleEntry(context.Background(), "ordering:order-events", "order-events", redis.XMessage{ID: "1-0", Values: values})
	fail = true
	tpt.handleEntry(context.Background(), "ordering:order-events", "order-events", redis.XMessage{ID: "2-0", Values: values})
	tpt.handleEntry(context.Background(), "ordering:order-events", "order-events", redis.XMessage{ID: "3-0", Values: map[string]any{"payload": "{"}})

	assert.Equal(t, []string{"1-0", "3-0"}, fc.acked)
}

func TestStartAndCloseReaders(t *testing.T) {
	fc := &fakeClient{}
	tpt := newTransport(Config{}, fc, false)
	require.NoError(t, tpt.Subscribe("order-events", messaging.NewHandler("noop", func(context.Context, messaging.IMessage) error { return nil })))
	require.NoError(t, tpt.Start(context.Background()))
	assert.True(t, tpt.Stats().Running)

	require.NoError(t, tpt.Close())
	assert.False(t, tpt.Stats().Running)
	assert.False(t, fc.closed)
}
