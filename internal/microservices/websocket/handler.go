package websocket

import (
	"log/slog"
	"net/http"

	"musichub/internal/command"
	"musichub/internal/events"
	"musichub/internal/player"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HTTP upgrade handler to WebSocket connections

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// control surfaces connect from arbitrary origins (apps, panels)
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades the request and runs the session until the peer goes
// away. The session's cleanup path owns the bus unregistration; the hub
// only exists so shutdown can close every live session.
func Handler(hub *Hub, bus *events.Bus, dispatcher *command.Dispatcher, registry player.Registry, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error
			logger.Warn("ws_upgrade_failed", "error", err.Error())
			return
		}

		client := NewClient(conn, bus, dispatcher, registry, logger)
		hub.Add(client)
		defer hub.Remove(client)
		logger.Info("ws_session_started",
			"client_id", client.ID,
			"remote_addr", conn.RemoteAddr().String(),
		)
		client.Run()
	}
}
