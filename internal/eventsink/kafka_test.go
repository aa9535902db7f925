package eventsink

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	fail   bool
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("broker unavailable")
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *recordingWriter) messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

func TestNewKafkaSink_DisabledWithoutBrokers(t *testing.T) {
	assert.Nil(t, NewKafkaSink(Config{Topic: "slots.events"}))
}

func TestKafkaSink_MirrorsIndexerEvents(t *testing.T) {
	w := &recordingWriter{}
	sink := NewKafkaSinkWithWriter(w, "slots.events")
	bus := event.NewMemoryBus()
	sink.Subscribe(bus)
	ctx := context.Background()

	requested := event.New(event.SpinRequested, domain.SpinRequestedPayload{RequestID: "101", Player: "alice", ReelCount: 4, BetAmount: domain.WholeChips(2)})
	result := event.New(event.SpinResult, domain.SpinResultPayload{RequestID: "101", Player: "alice", ReelCount: 4, Reels: []int{4, 4, 4, 4}, PayoutType: domain.PayoutMediumWin, Payout: domain.WholeChips(10)})
	require.NoError(t, bus.Publish(ctx, requested))
	require.NoError(t, bus.Publish(ctx, event.New(event.Paused, domain.PauseChangedPayload{Paused: true})))
	require.NoError(t, bus.Publish(ctx, result))

	require.NoError(t, sink.Close())
	assert.True(t, w.closed)

	msgs := w.messages()
	require.Len(t, msgs, 2, "only spin events are mirrored")
	for _, m := range msgs {
		assert.Equal(t, "101", string(m.Key))
	}

	var decoded struct {
		ID      string                 `json:"id"`
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msgs[1].Value, &decoded))
	assert.Equal(t, result.ID, decoded.ID)
	assert.Equal(t, domain.EventTypeSpinResult, decoded.Type)
	assert.Equal(t, "MEDIUM_WIN", decoded.Payload["payoutType"])
	assert.Equal(t, "10", decoded.Payload["payout"])
	assert.Equal(t, []interface{}{float64(4), float64(4), float64(4), float64(4)}, decoded.Payload["reels"])
	assert.Equal(t, HeaderEventType, msgs[1].Headers[0].Key)
}

func TestKafkaSink_WriteFailureIsNotReturnedToBus(t *testing.T) {
	w := &recordingWriter{fail: true}
	sink := NewKafkaSinkWithWriter(w, "slots.events")

	err := sink.Handle(context.Background(), event.New(event.SpinRequested, domain.SpinRequestedPayload{RequestID: "1"}))
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	assert.Empty(t, w.messages())

	// after close events are dropped
	require.NoError(t, sink.Handle(context.Background(), event.New(event.SpinRequested, domain.SpinRequestedPayload{RequestID: "2"})))
	require.NoError(t, sink.Close())
}

func TestKafkaSink_PreservesHandleOrder(t *testing.T) {
	w := &recordingWriter{}
	sink := NewKafkaSinkWithWriter(w, "slots.events")
	ctx := context.Background()

	const n = 200
	for i := range n {
		id := domain.RequestID(strconv.Itoa(i))
		require.NoError(t, sink.Handle(ctx, event.New(event.SpinRequested, domain.SpinRequestedPayload{RequestID: id})))
		require.NoError(t, sink.Handle(ctx, event.New(event.SpinResult, domain.SpinResultPayload{RequestID: id})))
	}
	require.NoError(t, sink.Close())

	msgs := w.messages()
	require.Len(t, msgs, 2*n)
	for i := range n {
		requested, result := msgs[2*i], msgs[2*i+1]
		assert.Equal(t, strconv.Itoa(i), string(requested.Key))
		assert.Equal(t, string(event.SpinRequested), string(requested.Headers[0].Value))
		assert.Equal(t, strconv.Itoa(i), string(result.Key))
		assert.Equal(t, string(event.SpinResult), string(result.Headers[0].Value))
	}
}

func TestMessageKey_FallsBackToEventID(t *testing.T) {
	evt := event.New(event.SpinRequested, nil)
	evt.OccurredAt = time.Unix(0, 0)
	assert.Equal(t, evt.ID, messageKey(evt))
}
