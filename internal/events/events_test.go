package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(TypeAddComplete, map[string]interface{}{"count": 1})

	if event.ID == "" {
		t.Error("Expected generated event ID")
	}
	if event.Type != TypeAddComplete {
		t.Errorf("Unexpected type: %s", event.Type)
	}
	if event.Source != "directory-service" {
		t.Errorf("Unexpected source: %s", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Unexpected version: %s", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("Expected timestamp")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	if err := mock.Publish(ctx, TypeInitStart, nil); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := mock.Publish(ctx, TypeInitComplete, map[string]interface{}{"count": 5}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	published := mock.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(published))
	}
	if published[0].Type != TypeInitStart || published[1].Type != TypeInitComplete {
		t.Errorf("Unexpected event order: %s, %s", published[0].Type, published[1].Type)
	}

	mock.ClearEvents()
	if len(mock.GetPublishedEvents()) != 0 {
		t.Error("Expected no events after clear")
	}
}

func TestChannelPublisher_RoundTrip(t *testing.T) {
	publisher := NewChannelPublisher(testLogger())
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := publisher.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := publisher.Publish(ctx, TypeLoadComplete, map[string]interface{}{"count": 3}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-messages:
		if got := msg.Metadata.Get(MetadataType); got != TypeLoadComplete {
			t.Errorf("Unexpected metadata type: %s", got)
		}

		event, err := DecodeEvent(msg)
		if err != nil {
			t.Fatalf("DecodeEvent failed: %v", err)
		}
		if event.Type != TypeLoadComplete {
			t.Errorf("Unexpected event type: %s", event.Type)
		}
		if event.Source != Source || event.Version != Version {
			t.Errorf("Unexpected envelope: %s/%s", event.Source, event.Version)
		}
		data, ok := event.Data.(map[string]interface{})
		if !ok || data["count"] != float64(3) {
			t.Errorf("Unexpected payload: %+v", event.Data)
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestCompositePublisher(t *testing.T) {
	first := NewMockEventPublisher(testLogger())
	second := NewMockEventPublisher(testLogger())
	composite := NewCompositePublisher(testLogger(), first, second)

	if err := composite.Publish(context.Background(), TypeExportComplete, nil); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(first.GetPublishedEvents()) != 1 || len(second.GetPublishedEvents()) != 1 {
		t.Error("Expected event on every target")
	}

	if err := composite.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
