package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// KafkaForwarder mirrors directory events onto a Kafka topic so external
// consumers (audit, analytics) can follow the stream. It is optional: the
// service runs fully without brokers configured.
type KafkaForwarder struct {
	publisher message.Publisher
	topic     string
}

func NewKafkaForwarder(brokers []string, topic string, logger *slog.Logger) (*KafkaForwarder, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &KafkaForwarder{
		publisher: publisher,
		topic:     topic,
	}, nil
}

func (f *KafkaForwarder) Publish(ctx context.Context, eventType string, data interface{}) error {
	event := NewEvent(eventType, data)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set(MetadataType, eventType)
	msg.SetContext(ctx)

	if err := f.publisher.Publish(f.topic, msg); err != nil {
		return fmt.Errorf("failed to forward event %s to kafka: %w", eventType, err)
	}
	return nil
}

func (f *KafkaForwarder) Close() error {
	return f.publisher.Close()
}
