package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Source identifies this service in every published event envelope.
const Source = "directory-service"

// Version is the event schema version.
const Version = "1.0"

// Directory lifecycle event types
const (
	TypeInitStart    = "init_start"
	TypeInitComplete = "init_complete"
	TypeInitError    = "init_error"

	TypeLoadStart    = "load_start"
	TypeLoadComplete = "load_complete"
	TypeLoadError    = "load_error"

	TypeAddStart    = "add_start"
	TypeAddComplete = "add_complete"
	TypeAddError    = "add_error"

	TypeUpdateStart    = "update_start"
	TypeUpdateComplete = "update_complete"
	TypeUpdateError    = "update_error"

	TypeDeleteStart    = "delete_start"
	TypeDeleteComplete = "delete_complete"
	TypeDeleteError    = "delete_error"

	TypeLoadingChanged = "loading_changed"

	TypeSearchApplied   = "search_applied"
	TypeFilterApplied   = "filter_applied"
	TypeSortApplied     = "sort_applied"
	TypePageChanged     = "page_changed"
	TypePageSizeChanged = "page_size_changed"

	TypeExportComplete = "export_complete"
)

// Event is the envelope wrapped around every published payload.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// NewEvent builds an envelope for the given type and payload.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    Source,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers directory events to the presentation layer.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
	Close() error
}

// ===== MOCK PUBLISHER (tests) =====

// MockEventPublisher records published events for assertions.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, NewEvent(eventType, data))
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

func (m *MockEventPublisher) GetPublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = nil
}

// ===== COMPOSITE PUBLISHER =====

// CompositePublisher fans an event out to several publishers. Delivery is
// best-effort per target: failures are logged, never returned, so a broken
// forwarder cannot fail a directory workflow.
type CompositePublisher struct {
	publishers []EventPublisher
	logger     *slog.Logger
}

func NewCompositePublisher(logger *slog.Logger, publishers ...EventPublisher) *CompositePublisher {
	return &CompositePublisher{publishers: publishers, logger: logger}
}

func (c *CompositePublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	for _, p := range c.publishers {
		if err := p.Publish(ctx, eventType, data); err != nil {
			c.logger.Error("Failed to publish event", "type", eventType, "error", err)
		}
	}
	return nil
}

func (c *CompositePublisher) Close() error {
	var lastErr error
	for _, p := range c.publishers {
		if err := p.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
