package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/HRP-2025/directory-service/internal/events"
	"github.com/HRP-2025/directory-service/internal/utils"
)

// EventsHandler streams the directory event feed to browsers over SSE.
type EventsHandler struct {
	BaseHandler
	stream *events.ChannelPublisher
}

func NewEventsHandler(stream *events.ChannelPublisher, logger utils.Logger) *EventsHandler {
	return &EventsHandler{
		BaseHandler: NewBaseHandler(logger),
		stream:      stream,
	}
}

// StreamEvents subscribes the client to the live event feed
// @Summary Directory event stream
// @Tags events
// @Produce text/event-stream
// @Router /events [get]
func (h *EventsHandler) StreamEvents(c *gin.Context) {
	ctx := c.Request.Context()

	messages, err := h.stream.Subscribe(ctx)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Event stream subscriber connected")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent(msg.Metadata.Get(events.MetadataType), string(msg.Payload))
			msg.Ack()
			return true
		}
	})
}
