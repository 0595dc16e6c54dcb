// Package kafka publishes ledger change events to a Kafka cluster. Each
// row change becomes one message; subscribers re-fetch the affected
// collection rather than applying diffs.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/wigapos/ledger/internal/interfaces"
)

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher connects a writer to the given brokers. The topic is chosen
// per message so one publisher serves every event stream.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish marshals the event and writes it to the topic.
func (p *Publisher) Publish(topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(
		context.Background(),
		kafka.Message{
			Topic: topic,
			Value: data,
		},
	)
}

// Close flushes and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
