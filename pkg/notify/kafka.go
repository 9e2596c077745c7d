package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"loopso-bridge/pkg/logger"
)

const kafkaWriteTimeout = 10 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the JSON payload published for each notification
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	ActionURL  string    `json:"action_url,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// Kafka publishes notifications to a Kafka topic
type Kafka struct {
	writer messageWriter
	mu     sync.Mutex
}

// NewKafka creates a Kafka sink
func NewKafka(brokerAddress, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokerAddress),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Notify publishes n. Delivery errors are logged, the sink never blocks the
// submission beyond the write timeout.
func (k *Kafka) Notify(n Notification) {
	if err := k.publish(n); err != nil {
		logger.GetLogger().Error().
			Err(err).
			Str("notification", n.ID).
			Msg("Failed to publish notification to Kafka")
	}
}

func (k *Kafka) publish(n Notification) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.writer == nil {
		return fmt.Errorf("kafka sink is closed")
	}

	value, err := json.Marshal(Event{
		ID:         n.ID,
		Kind:       n.Kind,
		Title:      n.Title,
		Content:    n.Content,
		ActionURL:  n.ActionURL,
		DurationMS: n.Duration.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), kafkaWriteTimeout)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(n.ID), Value: value}); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.writer != nil {
		err := k.writer.Close()
		k.writer = nil
		return err
	}
	return nil
}
