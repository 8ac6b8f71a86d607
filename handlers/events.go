package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cadenza/websocket"
)

// EventsHandler upgrades connections for playback event streaming
type EventsHandler struct {
	hub    websocket.Hub
	logger zerolog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub websocket.Hub, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// Stream upgrades the connection and subscribes it to playback events
func (h *EventsHandler) Stream(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.RegisterClient(client)
	client.StartPumps()
}
