package tcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"musichub/internal/command"
	"musichub/internal/events"
	"musichub/internal/player"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const MaxLineSize = 4096                     // longest accepted request line
const MaxDeadlineDuration = 5 * time.Minute  // idle read timeout
const WriteTimeout = 10 * time.Second        // per-reply write deadline
const SinkBuffer = 32                        // outbound envelope buffer

// Session is one TCP control connection. Requests are newline-delimited
// text frames in the shared grammar; replies and broadcast events are
// JSON envelopes, one per line. The session registers with the event bus
// on start and its cleanup path unregisters exactly once, whatever ends
// the connection.
type Session struct {
	ID   string
	conn net.Conn

	sink       chan events.Envelope
	bus        *events.Bus
	dispatcher *command.Dispatcher
	registry   player.Registry
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu        sync.Mutex // guards subID/closed against a Close racing Run
	subID     string
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(conn net.Conn, bus *events.Bus, dispatcher *command.Dispatcher, registry player.Registry, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		ID:         uuid.NewString(),
		conn:       conn,
		sink:       make(chan events.Envelope, SinkBuffer),
		bus:        bus,
		dispatcher: dispatcher,
		registry:   registry,
		limiter:    rate.NewLimiter(rate.Limit(10), 20), // 10 req/sec, burst 20
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run pumps the session until the peer disconnects or Close is called.
// A session closed before Run starts never registers with the bus, so
// shutdown racing a freshly accepted connection cannot leak a subscriber.
func (s *Session) Run() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.subID = s.bus.Register(s.sink)
	s.mu.Unlock()
	defer s.teardown()

	go s.writeLoop()
	s.readLoop()
}

// Close tears the session down from the outside.
func (s *Session) Close() {
	s.teardown()
}

func (s *Session) teardown() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		subID := s.subID
		s.mu.Unlock()
		s.bus.Unregister(subID)
		close(s.done)
		s.conn.Close()
		s.logger.Info("tcp_session_closed", "session_id", s.ID)
	})
}

// readLoop consumes request lines in arrival order.
func (s *Session) readLoop() {
	reader := bufio.NewReader(s.conn)
	s.conn.SetReadDeadline(time.Now().Add(MaxDeadlineDuration))

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			s.logReadError(err)
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(MaxDeadlineDuration))

		if len(line) > MaxLineSize {
			s.logger.Warn("tcp_line_too_large",
				"session_id", s.ID,
				"size", len(line),
			)
			s.reply(events.NewEnvelope("error", "request too large"))
			continue
		}

		if !s.limiter.Allow() {
			s.logger.Warn("tcp_rate_limit_exceeded", "session_id", s.ID)
			s.reply(events.NewEnvelope("error", "rate limit exceeded"))
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.handleFrame(line)
	}
}

func (s *Session) logReadError(err error) {
	switch {
	case errors.Is(err, io.EOF):
		s.logger.Info("tcp_peer_disconnected", "session_id", s.ID)
	case errors.Is(err, net.ErrClosed):
		// session closed by shutdown
	default:
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			s.logger.Warn("tcp_read_timeout", "session_id", s.ID)
			return
		}
		s.logger.Warn("tcp_read_error", "session_id", s.ID, "error", err.Error())
	}
}

// handleFrame routes one request line through the shared normalizer and
// dispatcher, replying on the session's sink.
func (s *Session) handleFrame(line string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := command.ParseFrame(line)
	if err != nil {
		s.reply(events.NewEnvelope("error", err.Error()))
		return
	}

	switch req.Kind {
	case command.KindListPlayers:
		players, err := s.registry.List(ctx)
		if err != nil {
			s.reply(events.NewEnvelope("error", err.Error()))
			return
		}
		s.reply(events.NewEnvelope("players", players))

	case command.KindCommand:
		result, err := s.dispatcher.Dispatch(ctx, req.Command)
		if err != nil {
			s.reply(events.NewEnvelope("error", err.Error()))
			return
		}
		s.reply(events.NewEnvelope("result", result))
	}
}

func (s *Session) reply(env events.Envelope) {
	select {
	case s.sink <- env:
	case <-s.done:
	}
}

// writeLoop owns all writes on the connection: replies and broadcast
// envelopes, one JSON document per line.
func (s *Session) writeLoop() {
	defer s.teardown()
	writer := bufio.NewWriter(s.conn)

	for {
		select {
		case env := <-s.sink:
			payload, err := json.Marshal(env)
			if err != nil {
				s.logger.Error("tcp_encode_failed",
					"session_id", s.ID,
					"message", env.Message,
					"error", err.Error(),
				)
				continue
			}
			s.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
			if _, err := writer.Write(append(payload, '\n')); err != nil {
				return
			}
			if err := writer.Flush(); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
