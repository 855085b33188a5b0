package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// DefaultTopic is the in-process topic all directory events flow through.
const DefaultTopic = "directory.events"

// MetadataType carries the event type on the message for routing without
// unmarshaling the envelope.
const MetadataType = "event_type"

// ChannelPublisher delivers events over an in-process Watermill GoChannel.
// Subscribers (SSE handlers, tests) receive JSON-encoded Event envelopes.
type ChannelPublisher struct {
	pubsub *gochannel.GoChannel
	topic  string
}

func NewChannelPublisher(logger *slog.Logger) *ChannelPublisher {
	// Publish blocks once a subscriber's buffer fills, so subscribers must
	// keep draining; the event stream handler acks every message it reads.
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 64,
		},
		watermill.NewSlogLogger(logger),
	)

	return &ChannelPublisher{
		pubsub: pubsub,
		topic:  DefaultTopic,
	}
}

func (p *ChannelPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	event := NewEvent(eventType, data)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set(MetadataType, eventType)
	msg.SetContext(ctx)

	if err := p.pubsub.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}
	return nil
}

// Subscribe returns a channel of raw event messages. The subscription ends
// when ctx is cancelled or the publisher is closed.
func (p *ChannelPublisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	messages, err := p.pubsub.Subscribe(ctx, p.topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", p.topic, err)
	}
	return messages, nil
}

func (p *ChannelPublisher) Close() error {
	return p.pubsub.Close()
}

// DecodeEvent unmarshals a subscribed message back into an Event envelope.
func DecodeEvent(msg *message.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode event payload: %w", err)
	}
	return event, nil
}
