// Package eventsink mirrors spin events to Kafka for the external indexer.
package eventsink

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// MessageWriter is the subset of *kafka.Writer the sink uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config holds configuration for the Kafka sink
type Config struct {
	Brokers []string
	Topic   string
}

// KafkaSink subscribes to indexer events and writes them to a topic, keyed by
// request id so that a spin's request and result land on the same partition.
// One writer goroutine drains the queue, so messages reach the topic in the
// order they were handled; the bus handler only enqueues.
type KafkaSink struct {
	writer MessageWriter
	topic  string
	jobs   chan kafka.Message
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// Message is the JSON document written for each event
type Message struct {
	ID         string      `json:"id"`
	Version    string      `json:"version"`
	Type       event.Type  `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// NewKafkaSink returns nil when no brokers are configured
func NewKafkaSink(cfg Config) *KafkaSink {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  WriterMaxAttempts,
		WriteTimeout: WriterTimeout,
		ReadTimeout:  WriterTimeout,
	}
	return NewKafkaSinkWithWriter(writer, cfg.Topic)
}

// NewKafkaSinkWithWriter builds a sink around an existing writer
func NewKafkaSinkWithWriter(writer MessageWriter, topic string) *KafkaSink {
	s := &KafkaSink{
		writer: writer,
		topic:  topic,
		jobs:   make(chan kafka.Message, QueueSize),
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Subscribe registers the sink for the indexer event types
func (s *KafkaSink) Subscribe(bus event.Bus) {
	event.SubscribeAll(bus, event.IndexerTypes, s.Handle)
	logger.Info(LogMsgSinkSubscribed, "topic", s.topic)
}

// Handle encodes the event and queues it. Encoding errors are returned;
// a full queue or a closed sink drops the message with a warning.
func (s *KafkaSink) Handle(ctx context.Context, evt event.Event) error {
	msg, err := encode(evt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgEncodeFailed, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		logger.FromContext(ctx).Warn(LogMsgSinkClosed, "event_type", evt.Type)
		return nil
	}
	select {
	case s.jobs <- msg:
	default:
		logger.FromContext(ctx).Warn(LogMsgQueueFull, "event_type", evt.Type, "key", string(msg.Key))
	}
	return nil
}

func encode(evt event.Event) (kafka.Message, error) {
	value, err := json.Marshal(Message{
		ID:         evt.ID,
		Version:    evt.Version,
		Type:       evt.Type,
		OccurredAt: evt.OccurredAt,
		Payload:    evt.Payload,
	})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(messageKey(evt)),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(evt.Type)},
			{Key: HeaderSchemaVersion, Value: []byte(evt.Version)},
		},
	}, nil
}

// messageKey prefers the spin request id and falls back to the event id.
// Payloads replayed as plain maps are searched for a requestId field.
func messageKey(evt event.Event) string {
	if id, ok := evt.RequestID(); ok {
		return string(id)
	}
	payload, err := event.DecodePayload[map[string]interface{}](evt.Payload)
	if err == nil {
		if id, ok := payload["requestId"].(string); ok && id != "" {
			return id
		}
	}
	return evt.ID
}

func (s *KafkaSink) worker() {
	defer s.wg.Done()
	for msg := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), WriterTimeout)
		if err := s.writer.WriteMessages(ctx, msg); err != nil {
			logger.Error(LogMsgWriteFailed, "topic", s.topic, "key", string(msg.Key), "error", err)
		} else {
			logger.Debug(LogMsgWritten, "topic", s.topic, "key", string(msg.Key))
		}
		cancel()
	}
}

// Close flushes queued messages and closes the writer
func (s *KafkaSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()

	s.wg.Wait()
	return s.writer.Close()
}
