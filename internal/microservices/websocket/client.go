package websocket

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"musichub/internal/command"
	"musichub/internal/events"
	"musichub/internal/player"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const ( // ping pong (2-way heartbeat) to keep the connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // no pong within this window = dead connection
	PingPeriod     = (PongWait * 9) / 10 // send pings before the pong window expires
	MaxMessageSize = 4096                // maximum frame size accepted from a peer
	SinkBuffer     = 32                  // outbound envelope buffer per connection
)

// Client is one live websocket session. It registers its sink with the
// event bus on start and is guaranteed to unregister it exactly once on
// any exit path; command replies and broadcast events share the sink so
// a single writer owns the connection.
type Client struct {
	ID         string
	conn       *websocket.Conn
	sink       chan events.Envelope
	bus        *events.Bus
	dispatcher *command.Dispatcher
	registry   player.Registry
	logger     *slog.Logger

	mu        sync.Mutex // guards subID/closed against a Close racing Run
	subID     string
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. Run starts the session.
func NewClient(conn *websocket.Conn, bus *events.Bus, dispatcher *command.Dispatcher, registry player.Registry, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		ID:         uuid.NewString(),
		conn:       conn,
		sink:       make(chan events.Envelope, SinkBuffer),
		bus:        bus,
		dispatcher: dispatcher,
		registry:   registry,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run registers the subscription, pumps the connection in both
// directions and blocks until the session ends. Cleanup runs
// unconditionally: a subscriber must never outlive its connection. A
// client closed before Run starts never registers at all.
func (c *Client) Run() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.subID = c.bus.Register(c.sink)
	c.mu.Unlock()
	defer c.teardown()

	go c.writePump()
	c.readPump()
}

// Close tears the session down from the outside (server shutdown).
func (c *Client) Close() {
	c.teardown()
}

// teardown is safe to call from any goroutine and any number of times.
func (c *Client) teardown() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		subID := c.subID
		c.mu.Unlock()
		c.bus.Unregister(subID)
		close(c.done)
		c.conn.Close()
		c.logger.Info("ws_session_closed", "client_id", c.ID)
	})
}

// readPump consumes inbound frames in arrival order. Text frames go
// through the shared normalizer and dispatcher; any other frame type is
// ignored. A read error of any kind ends the session.
func (c *Client) readPump() {
	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ws_read_error", "client_id", c.ID, "error", err.Error())
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		c.handleFrame(string(data))
	}
}

// handleFrame processes one inbound text frame and queues the reply on
// the session's own sink.
func (c *Client) handleFrame(frame string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := command.ParseFrame(frame)
	if err != nil {
		c.reply(events.NewEnvelope("error", err.Error()))
		return
	}

	switch req.Kind {
	case command.KindListPlayers:
		players, err := c.registry.List(ctx)
		if err != nil {
			c.reply(events.NewEnvelope("error", err.Error()))
			return
		}
		c.reply(events.NewEnvelope("players", players))

	case command.KindCommand:
		result, err := c.dispatcher.Dispatch(ctx, req.Command)
		if err != nil {
			c.reply(events.NewEnvelope("error", err.Error()))
			return
		}
		c.reply(events.NewEnvelope("result", result))
	}
}

// reply queues an envelope for the write pump, giving up when the
// session is closing.
func (c *Client) reply(env events.Envelope) {
	select {
	case c.sink <- env:
	case <-c.done:
	}
}

// writePump owns all writes: broadcast envelopes, command replies and
// pings. A write error closes the whole session.
func (c *Client) writePump() {
	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()
	defer c.teardown()

	for {
		select {
		case env := <-c.sink:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteJSON(env); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					c.logger.Warn("ws_write_error", "client_id", c.ID, "error", err.Error())
				}
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
